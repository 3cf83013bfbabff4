package server

import (
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.PokeAPIURL != "https://pokeapi.co/api/v2" {
		t.Fatalf("expected default PokéAPI URL, got %q", cfg.PokeAPIURL)
	}
	if cfg.FetchTimeout != 30*time.Second {
		t.Fatalf("expected default fetch timeout 30s, got %v", cfg.FetchTimeout)
	}
	if cfg.DexPath != "" {
		t.Fatalf("expected empty dex path, got %q", cfg.DexPath)
	}
}

func TestParseConfigFlagOverrides(t *testing.T) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	args := []string{
		"-pokeapi-url", "http://localhost:9999/api/v2",
		"-fetch-timeout", "5s",
		"-dex-path", "dex.db",
	}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.PokeAPIURL != "http://localhost:9999/api/v2" {
		t.Fatalf("expected flag URL, got %q", cfg.PokeAPIURL)
	}
	if cfg.FetchTimeout != 5*time.Second {
		t.Fatalf("expected fetch timeout 5s, got %v", cfg.FetchTimeout)
	}
	if cfg.DexPath != "dex.db" {
		t.Fatalf("expected dex path dex.db, got %q", cfg.DexPath)
	}
}

func TestParseConfigEnvOverride(t *testing.T) {
	t.Setenv("POKEBATTLE_POKEAPI_URL", "http://env-host/api/v2")
	t.Setenv("POKEBATTLE_FETCH_TIMEOUT", "2s")

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.PokeAPIURL != "http://env-host/api/v2" {
		t.Fatalf("expected env URL, got %q", cfg.PokeAPIURL)
	}
	if cfg.FetchTimeout != 2*time.Second {
		t.Fatalf("expected env fetch timeout 2s, got %v", cfg.FetchTimeout)
	}
}
