package mcp

import (
	"context"
	"fmt"
	"os"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nvandessel/stylo/internal/engine"
	"github.com/nvandessel/stylo/internal/pathutil"
	"github.com/nvandessel/stylo/internal/ratelimit"
)

// Server wraps the MCP SDK server and exposes stylo's attribution tools.
type Server struct {
	server       *sdk.Server
	engine       *engine.Engine
	root         string
	allowedDirs  []string
	auditLogger  *AuditLogger
	toolLimiters ratelimit.ToolLimiters
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "stylo")
	Version string // Server version
	Root    string // Project root directory

	// Engine runs the tools. The server takes ownership and closes it.
	Engine *engine.Engine
}

// NewServer creates a new MCP server with stylo tools registered.
func NewServer(cfg *Config) (*Server, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("engine is required")
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		server: mcpServer,
		engine: cfg.Engine,
		root:   cfg.Root,
		// Tool file arguments may point into the project or the signature
		// directory, which can live outside it.
		allowedDirs:  pathutil.AllowedDirs(cfg.Root, ".", cfg.Engine.SignatureDir()),
		auditLogger:  NewAuditLogger(cfg.Root),
		toolLimiters: ratelimit.NewToolLimiters(),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves over stdio until the client disconnects, the context is
// cancelled or the process is interrupted.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	notifySignals(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	err := s.server.Run(ctx, &sdk.StdioTransport{})
	s.Close()
	return err
}

// Close releases the engine and the audit log.
func (s *Server) Close() error {
	s.auditLogger.Close()
	return s.engine.Close()
}
