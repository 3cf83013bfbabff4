package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"pokebattle-mcp/internal/battle"
	"pokebattle-mcp/internal/dex"
)

// Dex is the lookup surface the tools need.
type Dex interface {
	Pokemon(ctx context.Context, name string) (dex.Pokemon, error)
	Move(ctx context.Context, name string) dex.Move
}

// Battler runs battles for the tools.
type Battler interface {
	StartBattle(ctx context.Context, playerName string) (battle.State, error)
	PlayTurn(ctx context.Context, state battle.State, playerMove string) (battle.State, error)
}

// getPokemonTool defines the MCP tool schema for creature lookups.
func getPokemonTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_pokemon",
		Description: "Fetches pokémon data: stats, types and the known move list",
	}
}

// getPokemonHandler resolves a creature through the lookup cache.
func getPokemonHandler(d Dex) mcp.ToolHandlerFor[PokemonInput, PokemonResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PokemonInput) (*mcp.CallToolResult, PokemonResult, error) {
		p, err := d.Pokemon(ctx, input.Name)
		if err != nil {
			return nil, PokemonResult{}, fmt.Errorf("get pokémon failed: %w", err)
		}
		return nil, pokemonResult(p), nil
	}
}

// getMoveTool defines the MCP tool schema for move lookups.
func getMoveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_move",
		Description: "Fetches move metadata; unknown moves yield a harmless placeholder record",
	}
}

// getMoveHandler resolves a move through the lookup cache. It never
// fails: upstream failures come back as a cached placeholder.
func getMoveHandler(d Dex) mcp.ToolHandlerFor[MoveInput, MoveResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MoveInput) (*mcp.CallToolResult, MoveResult, error) {
		return nil, moveResult(d.Move(ctx, input.Name)), nil
	}
}

// startBattleTool defines the MCP tool schema for battle setup.
func startBattleTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "start_battle",
		Description: "Starts a 1v1 battle against a randomly chosen wild opponent",
	}
}

// startBattleHandler sets up a battle for the named player creature.
func startBattleHandler(b Battler) mcp.ToolHandlerFor[StartBattleInput, BattleStateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input StartBattleInput) (*mcp.CallToolResult, BattleStateResult, error) {
		state, err := b.StartBattle(ctx, input.Pokemon)
		if err != nil {
			return nil, BattleStateResult{}, fmt.Errorf("start battle failed: %w", err)
		}
		return nil, battleStateResult(state), nil
	}
}

// playTurnTool defines the MCP tool schema for playing one turn. The
// name is a parameter because play_turn_chance is registered as a
// backwards-compatible alias.
func playTurnTool(name string) *mcp.Tool {
	return &mcp.Tool{
		Name:        name,
		Description: "Plays one battle turn with the chosen move and returns the updated state",
	}
}

// playTurnHandler runs one turn against the caller-held state. A move
// outside the player's known list is still resolved through the cache
// and may come back as a placeholder no-op.
func playTurnHandler(b Battler) mcp.ToolHandlerFor[PlayTurnInput, BattleStateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PlayTurnInput) (*mcp.CallToolResult, BattleStateResult, error) {
		state, err := b.PlayTurn(ctx, battleStateFromResult(input.State), input.Move)
		if err != nil {
			return nil, BattleStateResult{}, fmt.Errorf("play turn failed: %w", err)
		}
		return nil, battleStateResult(state), nil
	}
}

// typeChartResource defines the readable effectiveness chart resource.
func typeChartResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "type_chart",
		Title:       "Type effectiveness chart",
		Description: "Partial attacking-type × defending-type damage multipliers; unlisted pairs are neutral",
		MIMEType:    "application/json",
		URI:         "dex://types",
	}
}

// typeChartResourceHandler serves the chart as JSON.
func typeChartResourceHandler(chart battle.TypeChart) mcp.ResourceHandler {
	return func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := typeChartResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}

		data, err := json.MarshalIndent(chart, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal type chart: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}
