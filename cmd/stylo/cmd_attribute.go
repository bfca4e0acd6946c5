package main

import (
	"fmt"
	"strconv"

	"github.com/nvandessel/stylo/internal/config"
	"github.com/spf13/cobra"
)

func newAttributeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attribute <file|url>",
		Short: "Find the known author most similar to a text",
		Long: `Compute the signature of a text of unknown authorship and compare it
with every known author. The author with the lowest weighted distance wins;
ties go to the signature file that sorts first.

Known authors come from the signature directory (signatures.dir, or --dir)
or, with --library, from the signature library.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			dir, _ := cmd.Flags().GetString("dir")
			useLibrary, _ := cmd.Flags().GetBool("library")
			top, _ := cmd.Flags().GetInt("top")

			e, err := openEngine(cmd, func(cfg *config.StyloConfig) {
				if dir != "" {
					cfg.Signatures.Dir = dir
				}
			})
			if err != nil {
				return err
			}
			defer e.Close()

			res, err := e.Attribute(cmd.Context(), args[0], useLibrary)
			if err != nil {
				return err
			}
			if top > 0 && len(res.Matches) > top {
				res.Matches = res.Matches[:top]
			}

			if jsonOut {
				return writeJSON(cmd, res)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Most likely author: %s\n\n", labelOrUnnamed(res.Author))
			rows := make([][]string, len(res.Matches))
			for i, m := range res.Matches {
				rows[i] = []string{strconv.Itoa(i + 1), labelOrUnnamed(m.Author), formatFloat(m.Score)}
			}
			printTable(w, []string{"Rank", "Author", "Score"}, rows, []columnAlignment{alignRight, alignLeft, alignRight})
			return nil
		},
	}

	cmd.Flags().String("dir", "", "Signature directory to compare against (overrides config)")
	cmd.Flags().Bool("library", false, "Compare against the signature library")
	cmd.Flags().Int("top", 5, "Number of ranked authors to show (0 for all)")
	cmd.MarkFlagsMutuallyExclusive("dir", "library")

	return cmd
}
