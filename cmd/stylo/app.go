package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nvandessel/stylo/internal/config"
	"github.com/nvandessel/stylo/internal/engine"
	"github.com/nvandessel/stylo/internal/logging"
	"github.com/spf13/cobra"
)

// loadConfig loads configuration and applies the global flag overrides.
func loadConfig(cmd *cobra.Command) (*config.StyloConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if words, _ := cmd.Flags().GetString("function-words"); words != "" {
		cfg.FunctionWords = words
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	return cfg, nil
}

// configPath returns the file `config set` writes to: --config when given,
// otherwise the first existing user config file, otherwise the YAML one.
func configPath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}
	paths := config.UserConfigPaths()
	if len(paths) == 0 {
		return "", fmt.Errorf("cannot determine home directory")
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return paths[0], nil
}

// projectRoot returns the absolute --root.
func projectRoot(cmd *cobra.Command) (string, error) {
	root, _ := cmd.Flags().GetString("root")
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving project root: %w", err)
	}
	return abs, nil
}

func newLogger(cmd *cobra.Command, cfg *config.StyloConfig) *slog.Logger {
	return logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
}

// openEngine builds the engine for a command, applying any command-level
// overrides to the loaded config first. Callers must Close it.
func openEngine(cmd *cobra.Command, overrides ...func(*config.StyloConfig)) (*engine.Engine, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		o(cfg)
	}
	root, err := projectRoot(cmd)
	if err != nil {
		return nil, err
	}
	return engine.New(root, cfg, engine.WithLogger(newLogger(cmd, cfg)))
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatFloat rounds a feature value to six significant digits for display.
// Signature files keep the full precision; see signature.Write.
func formatFloat(v float64) string {
	return fmt.Sprintf("%.6g", v)
}
