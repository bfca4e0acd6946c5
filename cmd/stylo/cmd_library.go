package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/nvandessel/stylo/internal/config"
	"github.com/nvandessel/stylo/internal/engine"
	"github.com/nvandessel/stylo/internal/library"
	"github.com/nvandessel/stylo/internal/sanitize"
	"github.com/spf13/cobra"
)

func newLibraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the signature library",
		Long: `The signature library is a SQLite database of known author signatures
(library.path, default .stylo/library.db). It can be filled from a
signature directory and exported back to one.

Examples:
  stylo library import                       # load signatures.dir
  stylo library add texts/emma.txt --author "Jane Austen"
  stylo library list
  stylo attribute mystery.txt --library`,
	}

	cmd.AddCommand(
		newLibraryImportCmd(),
		newLibraryExportCmd(),
		newLibraryListCmd(),
		newLibraryAddCmd(),
		newLibraryRemoveCmd(),
	)

	return cmd
}

// withLibrary opens the engine and its library for the duration of fn.
func withLibrary(cmd *cobra.Command, fn func(e *engine.Engine, lib *library.Store) error) error {
	e, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	lib, err := e.Library(cmd.Context())
	if err != nil {
		return err
	}
	return fn(e, lib)
}

func newLibraryImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [dir]",
		Short: "Import a signature directory into the library",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			return withLibrary(cmd, func(e *engine.Engine, lib *library.Store) error {
				dir := e.SignatureDir()
				if len(args) == 1 {
					dir = config.Resolve(e.Root(), args[0])
				}
				n, err := lib.ImportDir(cmd.Context(), dir, e.Fingerprint())
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, map[string]any{"imported": n, "dir": dir})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d signatures from %s\n", n, dir)
				return nil
			})
		},
	}
}

func newLibraryExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [dir]",
		Short: "Write every library signature to a signature directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			return withLibrary(cmd, func(e *engine.Engine, lib *library.Store) error {
				dir := e.SignatureDir()
				if len(args) == 1 {
					dir = config.Resolve(e.Root(), args[0])
				}
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("creating %s: %w", dir, err)
				}
				paths, err := lib.ExportDir(cmd.Context(), dir)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, map[string]any{"exported": paths})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d signatures to %s\n", len(paths), dir)
				return nil
			})
		},
	}
}

func newLibraryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the authors in the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			return withLibrary(cmd, func(e *engine.Engine, lib *library.Store) error {
				entries, err := lib.List(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					if entries == nil {
						entries = []library.Entry{}
					}
					return writeJSON(cmd, entries)
				}

				current := e.Fingerprint()
				rows := make([][]string, len(entries))
				for i, entry := range entries {
					status := "ok"
					if entry.Fingerprint != current {
						status = "stale"
					}
					rows[i] = []string{
						labelOrUnnamed(entry.Signature.Author),
						strconv.Itoa(len(entry.Signature.Features)),
						status,
						entry.UpdatedAt.Format("2006-01-02 15:04"),
					}
				}
				printTable(cmd.OutOrStdout(), []string{"Author", "Features", "Word list", "Updated"}, rows,
					[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft})
				return nil
			})
		},
	}
}

func newLibraryAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <file|url>",
		Short: "Compute a signature and store it in the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			author, _ := cmd.Flags().GetString("author")
			return withLibrary(cmd, func(e *engine.Engine, lib *library.Store) error {
				sig, err := e.LabeledSignature(cmd.Context(), args[0], author)
				if err != nil {
					return err
				}
				if err := lib.Put(cmd.Context(), sig, e.Fingerprint(), args[0]); err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, sig)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stored signature for %s\n", sig.Author)
				return nil
			})
		},
	}
	cmd.Flags().String("author", "", "Author label (default: derived from the file name)")
	return cmd
}

func newLibraryRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <author>",
		Short: "Remove an author from the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			author := sanitize.Author(args[0])
			return withLibrary(cmd, func(e *engine.Engine, lib *library.Store) error {
				if err := lib.Delete(cmd.Context(), author); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", author)
				return nil
			})
		},
	}
}
