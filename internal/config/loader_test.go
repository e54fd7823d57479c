package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", `addr: :9999
log_level: debug
base_dir: /data
units: KB
exclude_hidden: false
groups:
  - name: videos
    patterns: ["*.avi", "*.mp4"]
    exclude: [raw]
cors:
  enabled: true
  origins: ["http://localhost:3000"]
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.LogLevel != "debug" || cfg.BaseDir != "/data" || cfg.Units != "KB" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.HideHidden() {
		t.Fatalf("exclude_hidden=false not honored")
	}
	if len(cfg.Groups) != 1 || cfg.Groups[0].Name != "videos" || len(cfg.Groups[0].Patterns) != 2 || cfg.Groups[0].Exclude[0] != "raw" {
		t.Fatalf("unexpected groups: %+v", cfg.Groups)
	}
	if !cfg.CORS.Enabled || len(cfg.CORS.Origins) != 1 {
		t.Fatalf("unexpected cors: %+v", cfg.CORS)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","base_dir":"/m","namespace":"lab","groups":[{"name":"logs","patterns":["*.log"]}]}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.BaseDir != "/m" || cfg.Namespace != "lab" || len(cfg.Groups) != 1 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nlog_format=\"json\"\n\n[[groups]]\nname=\"csv\"\npatterns=[\"*.csv\"]\ninclude=[\"trial\"]\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || cfg.LogFormat != "json" || len(cfg.Groups) != 1 || cfg.Groups[0].Include[0] != "trial" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.LogLevel != "info" || cfg.LogFormat != "console" || cfg.Addr != ":8080" || cfg.Namespace != "default" || cfg.BaseDir != "." || cfg.Units != "MB" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.HideHidden() {
		t.Fatalf("hidden files should be excluded by default")
	}
	custom := Config{Addr: ":1", Units: "GB"}.WithDefaults()
	if custom.Addr != ":1" || custom.Units != "GB" {
		t.Fatalf("explicit values overwritten: %+v", custom)
	}
}
