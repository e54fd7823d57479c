package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pntools/internal/config"
	"pntools/internal/logging"
	"pntools/pkg/broadcast"
)

// Options are the persistent flags shared by every command.
type Options struct {
	ConfigPath string
	LogLevel   string
}

// env is the state resolved once per invocation, before any command runs.
type env struct {
	cfg config.Config
	log zerolog.Logger
	reg *broadcast.Registry
}

// Instrumentation markers live on package-level classes for the life of the
// process, so every invocation in a process must reach the same registry per
// namespace. The logger of the first invocation is kept.
var (
	registriesMu sync.Mutex
	registries   = map[string]*broadcast.Registry{}
)

func registryFor(namespace string, l zerolog.Logger) *broadcast.Registry {
	registriesMu.Lock()
	defer registriesMu.Unlock()
	r, ok := registries[namespace]
	if !ok {
		r = broadcast.NewRegistry(namespace, broadcast.WithLogger(l))
		registries[namespace] = r
	}
	return r
}

// Main runs the CLI with args and returns the process exit code.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := buildRootCmdWith(&Options{
		ConfigPath: envStr(config.EnvConfig, ""),
		LogLevel:   envStr(config.EnvLogLevel, ""),
	})
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

// buildRootCmdWith constructs the command tree. opts carries flag defaults.
func buildRootCmdWith(opts *Options) *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "pntools",
		Short:         "File discovery and attribute broadcast introspection",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "Config file (.yaml, .json or .toml; defaults PNTOOLS_CONFIG)")
	root.PersistentFlags().StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "Log level: debug|info|warn|error|off (defaults PNTOOLS_LOG_LEVEL or config)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg := config.Defaults()
		if opts.ConfigPath != "" {
			loaded, err := config.Load(opts.ConfigPath)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			cfg = loaded.WithDefaults()
		}
		if opts.LogLevel != "" {
			cfg.LogLevel = opts.LogLevel
		}
		l, err := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		e.cfg = cfg
		e.log = l
		e.reg = registryFor(cfg.Namespace, l)
		return nil
	}

	// find
	var findAll bool
	findCmd := &cobra.Command{Use: "find PATTERN [DIR]", Short: "List files whose name matches a shell pattern", Example: "  pntools find '*Camera*.avi' ~/data", Args: cobra.RangeArgs(1, 2), RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 2 {
			dir = args[1]
		}
		return runFind(cmd.OutOrStdout(), e, args[0], dir, findAll)
	}}
	findCmd.Flags().BoolVar(&findAll, "all", false, "Include dotfiles and Office lock files")
	root.AddCommand(findCmd)

	// size
	var sizeUnits string
	var sizeHuman bool
	sizeCmd := &cobra.Command{Use: "size FILE...", Short: "Print file sizes, largest first", Args: cobra.MinimumNArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		return runSize(cmd.OutOrStdout(), e, args, sizeUnits, sizeHuman)
	}}
	sizeCmd.Flags().StringVar(&sizeUnits, "units", "", "B|KB|MB|GB|TB (defaults to config units)")
	sizeCmd.Flags().BoolVar(&sizeHuman, "human", false, "Print sizes with binary prefixes")
	root.AddCommand(sizeCmd)

	// report
	var reportUnits string
	reportCmd := &cobra.Command{Use: "report", Short: "Summarize the file groups of the config", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd.OutOrStdout(), e, reportUnits)
	}}
	reportCmd.Flags().StringVar(&reportUnits, "units", "", "B|KB|MB|GB|TB (defaults to config units)")
	root.AddCommand(reportCmd)

	// watch
	var debounce time.Duration
	watchCmd := &cobra.Command{Use: "watch", Short: "Rescan file groups whenever the base dir changes", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd.Context(), e, debounce)
	}}
	watchCmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "Quiet period before a rescan")
	root.AddCommand(watchCmd)

	// serve
	var addr string
	var serveWatch bool
	serveCmd := &cobra.Command{Use: "serve", Short: "Serve the introspection API", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		if addr == "" {
			addr = e.cfg.Addr
		}
		return runServe(cmd.Context(), e, addr, serveWatch)
	}}
	serveCmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (defaults to config addr)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Also watch the base dir and rescan on change")
	root.AddCommand(serveCmd)

	// key
	var keyJSON bool
	keyCmd := &cobra.Command{Use: "key KEY", Short: "Decompose a rendered channel key", Example: "  pntools key 'post:pntools/internal/filemanager:Manager:BaseDir.set(lab-a)'", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		return runKey(cmd.OutOrStdout(), args[0], keyJSON)
	}}
	keyCmd.Flags().BoolVar(&keyJSON, "json", false, "Print as JSON")
	root.AddCommand(keyCmd)

	// completion command
	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(cmd.OutOrStdout(), true) }})
	completionCmd.AddCommand(&cobra.Command{Use: "powershell", Short: "PowerShell completion", RunE: func(cmd *cobra.Command, args []string) error {
		return root.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
	}})
	root.AddCommand(completionCmd)

	return root
}

// Execute is Main bound to the process.
func Execute(ctx context.Context) int { return Main(ctx, os.Args[1:], os.Stdout, os.Stderr) }
