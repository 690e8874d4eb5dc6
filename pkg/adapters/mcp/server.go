// Package mcp exposes the workflow editor and agent chat as a Model Context Protocol server.
//
// One server owns one editing graph. Tool calls that touch the graph are
// serialized, so the graph has a single writer no matter how many requests
// the transport runs concurrently.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/agentdeck"
	"github.com/aretw0/agentdeck/internal/logging"
	"github.com/aretw0/agentdeck/pkg/session"
	"github.com/go-chi/cors"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"
)

// Server wraps the console and exposes it as an MCP server.
type Server struct {
	console   *agentdeck.Console
	sessions  *session.Manager
	logger    *slog.Logger
	mcpServer *mcpserver.MCPServer

	mu     sync.Mutex
	editor *agentdeck.Editor
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a new MCP Server over the console with an empty workflow.
func NewServer(console *agentdeck.Console, opts ...Option) *Server {
	s := &Server{
		console: console,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.editor = console.NewWorkflow()
	s.sessions = session.NewManager(console.Backend(), session.WithManagerLogger(s.logger))
	s.mcpServer = mcpserver.NewMCPServer(
		"agentdeck",
		strings.TrimSpace(agentdeck.Version),
		mcpserver.WithResourceCapabilities(true, true),
		mcpserver.WithToolCapabilities(true),
	)
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server for transport setup.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return mcpserver.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://localhost" + addr
	if !strings.HasPrefix(addr, ":") {
		baseURL = "http://" + addr
	}
	sseServer := mcpserver.NewSSEServer(s.mcpServer, mcpserver.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr: addr,
		Handler: cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization", "X-Requested-With"},
		})(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// Reset discards the current workflow and starts an empty one.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor = s.console.NewWorkflow()
}

// withEditor runs fn while holding the graph lock.
func (s *Server) withEditor(fn func(ed *agentdeck.Editor) (*mcplib.CallToolResult, error)) (*mcplib.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.editor)
}
