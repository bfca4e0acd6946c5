package main

import (
	"fmt"

	"github.com/nvandessel/stylo/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage stylo configuration",
		Long: `View and modify stylo configuration settings.

Configuration is read from --config, or ~/.stylo/config.yaml (or
config.toml). STYLO_* environment variables override file values.

Examples:
  stylo config list                                  # Show all settings
  stylo config get signatures.dir                    # Get a specific setting
  stylo config set features.keep_trailing_fragment true`,
	}

	cmd.AddCommand(
		newConfigListCmd(),
		newConfigGetCmd(),
		newConfigSetCmd(),
	)

	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, cfg)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			value, ok := cfg.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown configuration key: %s (valid: %v)", args[0], config.Keys)
			}

			if jsonOut {
				return writeJSON(cmd, map[string]any{"key": args[0], "value": value})
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key, value := args[0], args[1]

			path, err := configPath(cmd)
			if err != nil {
				return err
			}
			// Start from the file alone so environment overrides are not
			// persisted.
			cfg := config.Default()
			if fileCfg, err := config.LoadFromFile(path); err == nil {
				cfg = fileCfg
			}

			if err := cfg.Set(key, value); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, map[string]string{"key": key, "value": value, "path": path})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", key, value, path)
			return nil
		},
	}
}
