package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"pokebattle-mcp/internal/battle"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Pokébattle MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Server hosts the battle simulator over MCP.
type Server struct {
	mcpServer *mcp.Server
}

// New creates a configured MCP server exposing the lookup and battle
// tools plus the type chart resource.
func New(d Dex, b Battler, chart battle.TypeChart) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{})

	if chart == nil {
		chart = battle.DefaultTypeChart()
	}

	mcp.AddTool(mcpServer, getPokemonTool(), getPokemonHandler(d))
	mcp.AddTool(mcpServer, getMoveTool(), getMoveHandler(d))
	mcp.AddTool(mcpServer, startBattleTool(), startBattleHandler(b))
	mcp.AddTool(mcpServer, playTurnTool("play_turn"), playTurnHandler(b))
	// Alias kept for clients that still call the original tool name.
	mcp.AddTool(mcpServer, playTurnTool("play_turn_chance"), playTurnHandler(b))
	mcpServer.AddResource(typeChartResource(), typeChartResourceHandler(chart))

	return &Server{mcpServer: mcpServer}
}

// Serve starts the MCP server on stdio and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport starts the MCP server using the provided transport.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
