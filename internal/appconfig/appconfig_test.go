package appconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-builderkit/internal/appconfig"
)

func env(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := appconfig.Load("", env(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(appconfig.Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "builderkit.yaml")
	doc := `
log:
  level: debug
server:
  addr: 0.0.0.0:9000
  shutdown_timeout: 2s
presets:
  dir: ./presets
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := appconfig.Load(path, env(map[string]string{
		"BUILDERKIT_SERVER_ADDR":             "localhost:7000",
		"BUILDERKIT_SERVER_SANITIZE_PREVIEW": "true",
		"BUILDERKIT_THEMES_FILES":            "a.yaml, b.yaml,",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := appconfig.Default()
	want.Log.Level = "debug"
	want.Server.Addr = "localhost:7000"
	want.Server.ShutdownTimeout = 2 * time.Second
	want.Server.SanitizePreview = true
	want.Presets.Dir = "./presets"
	want.Themes.Files = []string{"a.yaml", "b.yaml"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"bad level":    {"BUILDERKIT_LOG_LEVEL": "loud"},
		"bad addr":     {"BUILDERKIT_SERVER_ADDR": "nowhere"},
		"bad bool":     {"BUILDERKIT_LOG_HUMAN": "sometimes"},
		"bad duration": {"BUILDERKIT_SERVER_WATCH_DEBOUNCE": "soon"},
	}
	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := appconfig.Load("", env(values)); !errors.Is(err, appconfig.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestParse_ReportsLine(t *testing.T) {
	cfg := appconfig.Default()
	err := appconfig.Parse([]byte("log:\n  level: [debug\n"), &cfg)
	if !errors.Is(err, appconfig.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
