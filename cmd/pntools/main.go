package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pntools/internal/cli"
)

func main() {
	// Ctrl+C / SIGTERM cancel long-running commands (watch, serve)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
