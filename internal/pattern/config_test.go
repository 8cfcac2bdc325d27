package pattern_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/patternkb/patternkb/internal/pattern"
)

func Test_LoadConfig_ReturnsError_When_PatternsDirUnset(t *testing.T) {
	t.Parallel()

	_, _, err := pattern.LoadConfig(map[string]string{})
	if !errors.Is(err, pattern.ErrPatternsDirUnset) {
		t.Fatalf("got %v, want ErrPatternsDirUnset", err)
	}

	_, _, err = pattern.LoadConfig(map[string]string{pattern.EnvPatternsDir: ""})
	if !errors.Is(err, pattern.ErrPatternsDirUnset) {
		t.Fatalf("got %v, want ErrPatternsDirUnset for empty value", err)
	}
}

func Test_LoadConfig_UsesDefaults_When_NoConfigFile(t *testing.T) {
	t.Parallel()

	cfg, warnings, err := pattern.LoadConfig(map[string]string{
		pattern.EnvPatternsDir: "/srv/patterns",
		"HOME":                 t.TempDir(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	if cfg.PatternsDir != "/srv/patterns" {
		t.Fatalf("patterns dir mismatch: %q", cfg.PatternsDir)
	}

	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level, got %q", cfg.LogLevel)
	}
}

func Test_LoadConfig_ReadsJSONCFile_When_Present(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")

	// hujson: comments and trailing commas are allowed.
	content := `{
		// REPL settings
		"log_level": "debug",
		"editor": "vim",
		"history_file": "/tmp/pksh_history",
	}`

	writeErr := os.WriteFile(cfgPath, []byte(content), 0o644)
	if writeErr != nil {
		t.Fatalf("write config: %v", writeErr)
	}

	cfg, warnings, err := pattern.LoadConfig(map[string]string{
		pattern.EnvPatternsDir: "/srv/patterns",
		pattern.EnvConfigFile:  cfgPath,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	if cfg.LogLevel != "debug" || cfg.Editor != "vim" || cfg.HistoryFile != "/tmp/pksh_history" {
		t.Fatalf("config mismatch: %+v", cfg)
	}
}

func Test_LoadConfig_WarnsAndContinues_When_ConfigFileMalformed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")

	writeErr := os.WriteFile(cfgPath, []byte("{not json at all"), 0o644)
	if writeErr != nil {
		t.Fatalf("write config: %v", writeErr)
	}

	cfg, warnings, err := pattern.LoadConfig(map[string]string{
		pattern.EnvPatternsDir: "/srv/patterns",
		pattern.EnvConfigFile:  cfgPath,
	})
	if err != nil {
		t.Fatalf("a broken config file must not fail startup, got %v", err)
	}

	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}

	if cfg.LogLevel != "info" {
		t.Fatalf("expected defaults after bad file, got %+v", cfg)
	}
}

func Test_LoadConfig_PrefersExplicitConfigPath_OverXDG(t *testing.T) {
	t.Parallel()

	xdg := t.TempDir()
	xdgDir := filepath.Join(xdg, "patternkb")

	mkdirErr := os.MkdirAll(xdgDir, 0o755)
	if mkdirErr != nil {
		t.Fatalf("mkdir: %v", mkdirErr)
	}

	writeErr := os.WriteFile(filepath.Join(xdgDir, "config.json"),
		[]byte(`{"log_level": "warn"}`), 0o644)
	if writeErr != nil {
		t.Fatalf("write config: %v", writeErr)
	}

	explicit := filepath.Join(t.TempDir(), "explicit.json")

	writeErr = os.WriteFile(explicit, []byte(`{"log_level": "error"}`), 0o644)
	if writeErr != nil {
		t.Fatalf("write config: %v", writeErr)
	}

	cfg, _, err := pattern.LoadConfig(map[string]string{
		pattern.EnvPatternsDir: "/srv/patterns",
		pattern.EnvConfigFile:  explicit,
		"XDG_CONFIG_HOME":      xdg,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LogLevel != "error" {
		t.Fatalf("explicit config should win, got %q", cfg.LogLevel)
	}

	cfg, _, err = pattern.LoadConfig(map[string]string{
		pattern.EnvPatternsDir: "/srv/patterns",
		"XDG_CONFIG_HOME":      xdg,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LogLevel != "warn" {
		t.Fatalf("XDG config should apply, got %q", cfg.LogLevel)
	}
}
