package cli

import (
	"context"
	"encoding/json"
	"fmt"

	flag "github.com/spf13/pflag"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			cfg := app.Config

			resolved := struct {
				EffectiveCwd    string `json:"effective_cwd"`
				IssuesDir       string `json:"issues_dir"`
				DefaultPriority string `json:"default_priority"`
				LogLevel        string `json:"log_level"`
				Color           string `json:"color"`
			}{
				EffectiveCwd:    cfg.EffectiveCwd,
				IssuesDir:       cfg.IssuesDirAbs,
				DefaultPriority: cfg.Priority().String(),
				LogLevel:        cfg.Level().String(),
				Color:           cfg.Color,
			}

			if resolved.IssuesDir == "" {
				dir, err := app.issuesDir()
				if err != nil {
					dir = "(not found: run 'issues init')"
				}

				resolved.IssuesDir = dir
			}

			data, err := json.MarshalIndent(resolved, "", "  ")
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}

			io.Println(string(data))
			io.Println()
			io.Println("# Sources:")

			if cfg.Sources.Global != "" {
				io.Println("#   global:", cfg.Sources.Global)
			}

			if cfg.Sources.Project != "" {
				io.Println("#   project:", cfg.Sources.Project)
			}

			if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
				io.Println("#   (using defaults only)")
			}

			return nil
		},
	}
}
