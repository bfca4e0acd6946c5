package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set by the release build via -ldflags.
var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stylo",
		Short: "Stylometric author attribution",
		Long: `stylo attributes texts of unknown authorship to known authors.

It reduces a text to a linguistic signature (average word length, sentence
length and complexity, vocabulary richness and function word frequencies)
and finds the known author whose signature is closest.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("root", ".", "Project root directory")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.stylo/config.yaml)")
	rootCmd.PersistentFlags().String("function-words", "", "Function word list file (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug or trace (overrides config)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newMetricsCmd(),
		newSignatureCmd(),
		newShowCmd(),
		newCompareCmd(),
		newAttributeCmd(),
		newLibraryCmd(),
		newConfigCmd(),
		newMCPServerCmd(),
	)

	return rootCmd
}
