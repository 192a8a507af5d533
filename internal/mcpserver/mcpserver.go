// Package mcpserver exposes the rewrite as Model Context Protocol tools over
// stdio.
package mcpserver

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/reactify/internal/cache"
	"github.com/panbanda/reactify/pkg/config"
)

// Server wraps the MCP server and registers the reactify tools.
type Server struct {
	server  *mcp.Server
	version string
	config  *config.Config
	cache   *cache.Cache
	logger  *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithConfig sets the configuration tools run with.
func WithConfig(cfg *config.Config) Option {
	return func(s *Server) {
		s.config = cfg
	}
}

// WithCache lets transform_files reuse cached results.
func WithCache(c *cache.Cache) Option {
	return func(s *Server) {
		s.cache = c
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a new MCP server with all tools and prompts registered.
func NewServer(version string, opts ...Option) *Server {
	if version == "" {
		version = "dev"
	}
	s := &Server{
		version: version,
		config:  config.DefaultConfig(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.server = mcp.NewServer(
		&mcp.Implementation{
			Name:    "reactify",
			Version: version,
		},
		nil,
	)
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "transform_source",
		Description: describeTransformSource(),
	}, s.handleTransformSource)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "transform_files",
		Description: describeTransformFiles(),
	}, s.handleTransformFiles)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "inspect_source",
		Description: describeInspectSource(),
	}, s.handleInspectSource)
}
