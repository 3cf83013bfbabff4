// Package server parses server command configuration and wires the
// battle simulator behind the MCP stdio transport.
package server

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"pokebattle-mcp/internal/battle"
	"pokebattle-mcp/internal/dex"
	"pokebattle-mcp/internal/dex/sqlite"
	"pokebattle-mcp/internal/mcp"
	"pokebattle-mcp/internal/platform/cmd"
	"pokebattle-mcp/internal/pokeapi"
)

// Config holds server command configuration. DexPath is optional; when
// empty the lookup cache is memory-only for the process lifetime.
type Config struct {
	PokeAPIURL   string        `env:"POKEBATTLE_POKEAPI_URL"   envDefault:"https://pokeapi.co/api/v2"`
	FetchTimeout time.Duration `env:"POKEBATTLE_FETCH_TIMEOUT" envDefault:"30s"`
	DexPath      string        `env:"POKEBATTLE_DEX_PATH"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := cmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.PokeAPIURL, "pokeapi-url", cfg.PokeAPIURL, "PokéAPI base URL")
	fs.DurationVar(&cfg.FetchTimeout, "fetch-timeout", cfg.FetchTimeout, "upstream fetch timeout")
	fs.StringVar(&cfg.DexPath, "dex-path", cfg.DexPath, "SQLite path for the persistent dex cache (empty disables it)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP server on stdio and blocks until the context ends.
func Run(ctx context.Context, cfg Config) error {
	return cmd.RunWithTelemetry(ctx, "pokebattle-mcp", func(ctx context.Context) error {
		var store dex.Store
		if cfg.DexPath != "" {
			sqliteStore, err := sqlite.Open(cfg.DexPath)
			if err != nil {
				return fmt.Errorf("open dex store at %s: %w", cfg.DexPath, err)
			}
			defer func() {
				if err := sqliteStore.Close(); err != nil {
					log.Printf("close dex store: %v", err)
				}
			}()
			store = sqliteStore
		}

		client := pokeapi.NewClient(cfg.PokeAPIURL, cfg.FetchTimeout)
		dexService := dex.NewService(client, store)
		chart := battle.DefaultTypeChart()
		engine := battle.New(dexService, chart, nil)

		return mcp.New(dexService, engine, chart).Serve(ctx)
	})
}
