package pattern

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// EnvPatternsDir is the environment variable naming the patterns directory.
// It is the one piece of required configuration: if it is unset, startup
// must fail fast. Every other knob is optional.
const EnvPatternsDir = "PATTERNS_DIR"

// EnvConfigFile optionally points at an alternate config file.
const EnvConfigFile = "PATTERNKB_CONFIG"

// Config holds all process configuration. It is read once at startup and
// threaded into the loader and writer; nothing re-reads the environment per
// call.
type Config struct {
	PatternsDir string // Directory holding pattern documents. Env-only, required.
	LogLevel    string // zerolog level name; "info" by default.
	Editor      string // Editor command for the REPL's edit command.
	HistoryFile string // REPL history file; empty disables history persistence.
}

// fileConfig is the JSONC config file shape. The patterns directory is
// deliberately absent: the storage location comes from the environment
// alone.
type fileConfig struct {
	LogLevel    string `json:"log_level,omitempty"`    //nolint:tagliatelle // snake_case for config file
	Editor      string `json:"editor,omitempty"`
	HistoryFile string `json:"history_file,omitempty"` //nolint:tagliatelle // snake_case for config file
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{LogLevel: "info"}
}

// LoadConfig assembles configuration from the environment and the optional
// config file ($PATTERNKB_CONFIG, else $XDG_CONFIG_HOME/patternkb/config.json,
// else ~/.config/patternkb/config.json).
//
// A missing PATTERNS_DIR is the only error. Problems with the optional file
// (unreadable, malformed) degrade to defaults and are reported as warnings,
// never as failures: a broken config file must not keep the service from
// starting.
func LoadConfig(env map[string]string) (Config, []string, error) {
	cfg := DefaultConfig()

	dir := env[EnvPatternsDir]
	if dir == "" {
		return Config{}, nil, ErrPatternsDirUnset
	}

	cfg.PatternsDir = dir

	var warnings []string

	path := configFilePath(env)
	if path != "" {
		fc, warning := loadConfigFile(path)
		if warning != "" {
			warnings = append(warnings, warning)
		}

		if fc.LogLevel != "" {
			cfg.LogLevel = fc.LogLevel
		}

		if fc.Editor != "" {
			cfg.Editor = fc.Editor
		}

		if fc.HistoryFile != "" {
			cfg.HistoryFile = fc.HistoryFile
		}
	}

	return cfg, warnings, nil
}

func configFilePath(env map[string]string) string {
	if p := env[EnvConfigFile]; p != "" {
		return p
	}

	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "patternkb", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "patternkb", "config.json")
	}

	return ""
}

// loadConfigFile reads an optional JSONC config file. A missing file is
// normal; any other problem is returned as a warning string.
func loadConfigFile(path string) (fileConfig, string) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return fileConfig{}, ""
		}

		return fileConfig{}, fmt.Sprintf("cannot read config file %s: %v", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fileConfig{}, fmt.Sprintf("invalid config file %s: %v", path, err)
	}

	var fc fileConfig

	unmarshalErr := json.Unmarshal(standardized, &fc)
	if unmarshalErr != nil {
		return fileConfig{}, fmt.Sprintf("invalid config file %s: %v", path, unmarshalErr)
	}

	return fc, ""
}
