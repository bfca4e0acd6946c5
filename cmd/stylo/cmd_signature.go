package main

import (
	"fmt"
	"io"

	"github.com/nvandessel/stylo/internal/config"
	"github.com/nvandessel/stylo/internal/features"
	"github.com/nvandessel/stylo/internal/signature"
	"github.com/spf13/cobra"
)

func newSignatureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signature <file|url>",
		Short: "Compute the linguistic signature of a text",
		Long: `Compute the signature of a text file or web page.

The signature is printed with feature names. With --out it is also written
as a signature file, the format read by attribute and the library.

Examples:
  stylo signature texts/emma.txt --author "Jane Austen" --out signatures/austen.stats
  stylo signature https://example.com/story.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			author, _ := cmd.Flags().GetString("author")
			out, _ := cmd.Flags().GetString("out")

			e, err := openEngine(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			sig, err := e.LabeledSignature(cmd.Context(), args[0], author)
			if err != nil {
				return err
			}

			if out != "" {
				if err := signature.WriteFile(config.Resolve(e.Root(), out), sig); err != nil {
					return err
				}
			}

			if jsonOut {
				return writeJSON(cmd, sig)
			}
			printSignature(cmd.OutOrStdout(), sig, e.Extractor().FunctionWords())
			if out != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "\nWritten to %s\n", out)
			}
			return nil
		},
	}

	cmd.Flags().String("author", "", "Author label (default: derived from the file name)")
	cmd.Flags().String("out", "", "Write the signature to this file")

	return cmd
}

// printSignature writes one "name: value" line per feature. Function word
// names come from words when it matches the signature's shape.
func printSignature(w io.Writer, sig signature.Signature, words *features.FunctionWordList) {
	fmt.Fprintf(w, "Signature: %s\n", labelOrUnnamed(sig.Author))
	for i, v := range sig.Scalars() {
		fmt.Fprintf(w, "  %s: %s\n", features.ScalarNames[i], formatFloat(v))
	}
	ratios := sig.FunctionWordRatios()
	named := words != nil && words.Len() == len(ratios)
	for i, v := range ratios {
		name := fmt.Sprintf("function word %d", i+1)
		if named {
			name = words.Word(i).Word
		}
		fmt.Fprintf(w, "  %s: %s\n", name, formatFloat(v))
	}
}

func labelOrUnnamed(author string) string {
	if author == "" {
		return "(unnamed)"
	}
	return author
}
