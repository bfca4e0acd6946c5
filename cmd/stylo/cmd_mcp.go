package main

import (
	"fmt"

	"github.com/nvandessel/stylo/internal/mcp"
	"github.com/spf13/cobra"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Run the MCP server over stdio",
		Long: `Run a Model Context Protocol server on stdin/stdout exposing the
stylo_signature, stylo_attribute and stylo_authors tools.

File arguments are confined to the project root and the signature
directory. Tool calls are audited to .stylo/audit.jsonl.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEngine(cmd)
			if err != nil {
				return err
			}

			server, err := mcp.NewServer(&mcp.Config{
				Name:    "stylo",
				Version: version,
				Root:    e.Root(),
				Engine:  e,
			})
			if err != nil {
				e.Close()
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			return server.Run(cmd.Context())
		},
	}
}
