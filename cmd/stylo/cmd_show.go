package main

import (
	"github.com/nvandessel/stylo/internal/config"
	"github.com/nvandessel/stylo/internal/features"
	"github.com/nvandessel/stylo/internal/signature"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <signature-file>",
		Short: "Print a signature file with feature names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			root, err := projectRoot(cmd)
			if err != nil {
				return err
			}
			sig, err := signature.ReadFile(config.Resolve(root, args[0]))
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, sig)
			}

			// The word list only supplies names here, so a missing list
			// falls back to numbered function words.
			var words *features.FunctionWordList
			if cfg, err := loadConfig(cmd); err == nil {
				words, _ = features.LoadFunctionWords(config.Resolve(root, cfg.FunctionWords))
			}
			printSignature(cmd.OutOrStdout(), sig, words)
			return nil
		},
	}
}
