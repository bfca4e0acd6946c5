package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/nvandessel/stylo/internal/config"
	"github.com/nvandessel/stylo/internal/features"
	"github.com/spf13/cobra"
)

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics [file]",
		Short: "Print the five scalar metrics of a text file",
		Long: `Print average word length, average sentence length, average sentence
complexity, type to token ratio and hapax legomana ratio for a text file.

Without an argument, prompts for a file name and asks again until an
existing file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			root, err := projectRoot(cmd)
			if err != nil {
				return err
			}

			var path string
			if len(args) == 1 {
				path = config.Resolve(root, args[0])
			} else {
				path, err = promptForFile(cmd.InOrStdin(), cmd.OutOrStdout(), root)
				if err != nil {
					return err
				}
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading text: %w", err)
			}
			values, err := scalarMetrics(features.NewDocumentWithOptions(string(data), cfg.Features))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			if jsonOut {
				out := make(map[string]float64, features.ScalarCount)
				for i, name := range features.ScalarNames {
					out[name] = values[i]
				}
				return writeJSON(cmd, out)
			}
			w := cmd.OutOrStdout()
			for i, name := range features.ScalarNames {
				fmt.Fprintf(w, "%s: %s\n", name, formatFloat(values[i]))
			}
			return nil
		},
	}
}

// promptForFile asks for a file name until one names an existing file.
// Paths resolve against root. Only a missing file is retried.
func promptForFile(in io.Reader, out io.Writer, root string) (string, error) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Enter the name of a text file: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("reading file name: %w", err)
			}
			return "", errors.New("no file name given")
		}
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}

		path := config.Resolve(root, name)
		info, err := os.Stat(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			fmt.Fprintf(out, "File %s does not exist, try again.\n", name)
			continue
		case err != nil:
			return "", err
		case info.IsDir():
			fmt.Fprintf(out, "%s is a directory, try again.\n", name)
			continue
		}
		return path, nil
	}
}

// scalarMetrics computes the five scalar metrics in vector order. It needs
// no function word list.
func scalarMetrics(d *features.Document) ([features.ScalarCount]float64, error) {
	var out [features.ScalarCount]float64
	metrics := [features.ScalarCount]func() (float64, error){
		d.AverageWordLength,
		d.AverageSentenceLength,
		d.AverageSentenceComplexity,
		d.TypeToTokenRatio,
		d.HapaxLegomanaRatio,
	}
	for i, m := range metrics {
		v, err := m()
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}
