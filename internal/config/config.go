// Package config loads the JSONC configuration of the issues CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/tailscale/hujson"

	"github.com/calvinalkan/agent-issues/internal/issue"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	IssuesDir       string `json:"issues_dir,omitempty"`
	DefaultPriority string `json:"default_priority,omitempty"`
	LogLevel        string `json:"log_level,omitempty"`
	Color           string `json:"color,omitempty"`

	// Resolved (computed, not serialized)
	EffectiveCwd string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	IssuesDirAbs string `json:"-"` // Absolute issues directory; empty means search upward

	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string
	Project string
}

// DefaultConfig returns the default configuration. IssuesDir is empty so the
// CLI looks for the nearest .issues directory.
func DefaultConfig() Config {
	return Config{
		DefaultPriority: issue.DefaultPriority.String(),
		LogLevel:        log.WarnLevel.String(),
		Color:           ColorAuto,
	}
}

// FileName is the project config file looked up in the working directory.
const FileName = ".issues.json"

// Priority returns the validated default priority.
func (c Config) Priority() issue.Priority {
	return issue.PriorityOrDefault(c.DefaultPriority)
}

// Level returns the validated log level.
func (c Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.WarnLevel
	}

	return level
}

// globalPath returns $XDG_CONFIG_HOME/issues/config.json, falling back to
// ~/.config/issues/config.json, or "" when neither variable is set.
func globalPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "issues", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "issues", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride   string // -C/--cwd; if empty, os.Getwd() is used
	ConfigPath        string // -c/--config
	IssuesDirOverride string // --dir; empty means no override
	Env               map[string]string
}

// Load resolves configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config
// 3. Project config (.issues.json in the working directory)
// 4. Explicit config file via ConfigPath
// 5. CLI overrides.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	workDir, absErr := filepath.Abs(workDir)
	if absErr != nil {
		return Config{}, fmt.Errorf("resolve working directory: %w", absErr)
	}

	cfg := DefaultConfig()

	if path := globalPath(input.Env); path != "" {
		globalCfg, loaded, err := loadFile(path, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg.Sources.Global = path
			cfg = merge(cfg, globalCfg)
		}
	}

	projectPath := filepath.Join(workDir, FileName)
	mustExist := false

	if input.ConfigPath != "" {
		projectPath = input.ConfigPath
		if !filepath.IsAbs(projectPath) {
			projectPath = filepath.Join(workDir, projectPath)
		}

		mustExist = true

		_, statErr := os.Stat(projectPath)
		if statErr != nil {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigFileNotFound, input.ConfigPath)
		}
	}

	projectCfg, loaded, err := loadFile(projectPath, mustExist)
	if err != nil {
		return Config{}, err
	}

	if loaded {
		cfg.Sources.Project = projectPath
		cfg = merge(cfg, projectCfg)
	}

	if input.IssuesDirOverride != "" {
		cfg.IssuesDir = input.IssuesDirOverride
	}

	validateErr := validate(cfg)
	if validateErr != nil {
		return Config{}, validateErr
	}

	cfg.EffectiveCwd = workDir

	switch {
	case cfg.IssuesDir == "":
	case filepath.IsAbs(cfg.IssuesDir):
		cfg.IssuesDirAbs = filepath.Clean(cfg.IssuesDir)
	default:
		cfg.IssuesDirAbs = filepath.Join(workDir, cfg.IssuesDir)
	}

	return cfg, nil
}

// loadFile reads one config file. Missing optional files are not an error.
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("%w: %s: %w", ErrConfigFileRead, path, err)
	}

	cfg, parseErr := parse(data)
	if parseErr != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	validateErr := validate(merge(DefaultConfig(), cfg))
	if validateErr != nil {
		return Config{}, false, fmt.Errorf("%s: %w", path, validateErr)
	}

	return cfg, true, nil
}

func parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	return cfg, nil
}

// merge copies every non-empty field of overlay onto base.
func merge(base, overlay Config) Config {
	if overlay.IssuesDir != "" {
		base.IssuesDir = overlay.IssuesDir
	}

	if overlay.DefaultPriority != "" {
		base.DefaultPriority = overlay.DefaultPriority
	}

	if overlay.LogLevel != "" {
		base.LogLevel = overlay.LogLevel
	}

	if overlay.Color != "" {
		base.Color = overlay.Color
	}

	return base
}

func validate(cfg Config) error {
	_, ok := issue.ParsePriority(cfg.DefaultPriority)
	if !ok {
		return fmt.Errorf("%w: default_priority %q: %w", ErrConfigInvalid, cfg.DefaultPriority, issue.ErrInvalidPriority)
	}

	_, levelErr := log.ParseLevel(cfg.LogLevel)
	if levelErr != nil {
		return fmt.Errorf("%w: log_level: %w", ErrConfigInvalid, levelErr)
	}

	switch cfg.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: %q: %w", ErrConfigInvalid, cfg.Color, ErrInvalidColor)
	}

	return nil
}
