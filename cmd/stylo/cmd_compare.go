package main

import (
	"fmt"

	"github.com/nvandessel/stylo/internal/config"
	"github.com/nvandessel/stylo/internal/signature"
	"github.com/nvandessel/stylo/internal/similarity"
	"github.com/spf13/cobra"
)

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <signature-a> <signature-b>",
		Short: "Print the weighted distance between two signature files",
		Long: `Print the weighted distance between two signature files.

Lower is more similar; identical signatures score 0. Both signatures must
have been computed with the configured function word list.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			e, err := openEngine(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			a, err := signature.ReadFile(config.Resolve(e.Root(), args[0]))
			if err != nil {
				return err
			}
			b, err := signature.ReadFile(config.Resolve(e.Root(), args[1]))
			if err != nil {
				return err
			}

			score, err := similarity.Compute(a, b, e.Weights())
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, map[string]any{
					"a":     a.Author,
					"b":     b.Author,
					"score": score,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s vs %s: %s\n", labelOrUnnamed(a.Author), labelOrUnnamed(b.Author), formatFloat(score))
			return nil
		},
	}
}
