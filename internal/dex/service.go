package dex

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	apperrors "pokebattle-mcp/internal/platform/errors"
)

// FallbackSpecies is the degraded opponent pool used when the upstream
// species list cannot be fetched.
var FallbackSpecies = []string{"charmander", "squirtle", "bulbasaur", "pidgey", "geodude"}

// Provider fetches raw records from the upstream data source.
type Provider interface {
	FetchPokemon(ctx context.Context, name string) (Pokemon, error)
	FetchMove(ctx context.Context, name string) (Move, error)
	FetchSpeciesList(ctx context.Context) ([]string, error)
}

// Store is an optional persistent tier under the in-memory cache.
// Implementations only see records the provider resolved successfully;
// move placeholders stay in memory.
type Store interface {
	GetPokemon(ctx context.Context, key string) (Pokemon, bool, error)
	PutPokemon(ctx context.Context, key string, p Pokemon) error
	GetMove(ctx context.Context, key string) (Move, bool, error)
	PutMove(ctx context.Context, key string, m Move) error
}

// Service memoizes provider results per normalized name. Fills are
// serialized per key so concurrent callers trigger at most one upstream
// fetch and never observe a half-written record.
type Service struct {
	provider Provider
	store    Store // nil disables the persistent tier

	mu      sync.Mutex
	pokemon map[string]Pokemon
	moves   map[string]Move
	fills   map[string]*sync.Mutex

	speciesMu     sync.Mutex
	species       []string
	speciesFilled bool
}

// NewService creates a lookup cache over the provider. store may be nil.
func NewService(provider Provider, store Store) *Service {
	return &Service{
		provider: provider,
		store:    store,
		pokemon:  make(map[string]Pokemon),
		moves:    make(map[string]Move),
		fills:    make(map[string]*sync.Mutex),
	}
}

// Pokemon returns the cached record for name, fetching it on a miss.
// An unresolvable name is fatal and is never cached.
func (s *Service) Pokemon(ctx context.Context, name string) (Pokemon, error) {
	key := NormalizeName(name)
	if key == "" {
		return Pokemon{}, apperrors.New(apperrors.CodeInvalidArgument, "pokémon name is required")
	}

	s.mu.Lock()
	if p, ok := s.pokemon[key]; ok {
		s.mu.Unlock()
		return p, nil
	}
	fill := s.fillLock("pokemon/" + key)
	s.mu.Unlock()

	fill.Lock()
	defer fill.Unlock()

	// Another caller may have completed the fill while we waited.
	s.mu.Lock()
	if p, ok := s.pokemon[key]; ok {
		s.mu.Unlock()
		return p, nil
	}
	s.mu.Unlock()

	if s.store != nil {
		p, ok, err := s.store.GetPokemon(ctx, key)
		if err != nil {
			log.Printf("dex store read %s: %v", key, err)
		} else if ok {
			s.remember(key, p)
			return p, nil
		}
	}

	p, err := s.provider.FetchPokemon(ctx, key)
	if err != nil {
		if errors.Is(err, &apperrors.Error{Code: apperrors.CodeDexUpstreamUnavailable}) {
			return Pokemon{}, apperrors.Wrap(apperrors.CodeDexUpstreamUnavailable,
				fmt.Sprintf("pokémon %q lookup failed upstream", name), err)
		}
		return Pokemon{}, apperrors.Wrap(apperrors.CodeDexNotFound,
			fmt.Sprintf("pokémon %q not found", name), err)
	}
	if err := validatePokemon(p); err != nil {
		return Pokemon{}, apperrors.Wrap(apperrors.CodeDexNotFound,
			fmt.Sprintf("pokémon %q record is malformed", name), err)
	}

	s.remember(key, p)
	if s.store != nil {
		if err := s.store.PutPokemon(ctx, key, p); err != nil {
			log.Printf("dex store write %s: %v", key, err)
		}
	}
	return p, nil
}

// Move returns the cached record for name, fetching it on a miss. Upstream
// failures are absorbed: the result is a permanent no-op placeholder so a
// bad name never re-hits the provider.
func (s *Service) Move(ctx context.Context, name string) Move {
	key := NormalizeName(name)
	if key == "" {
		key = "tackle"
	}

	s.mu.Lock()
	if m, ok := s.moves[key]; ok {
		s.mu.Unlock()
		return m
	}
	fill := s.fillLock("move/" + key)
	s.mu.Unlock()

	fill.Lock()
	defer fill.Unlock()

	s.mu.Lock()
	if m, ok := s.moves[key]; ok {
		s.mu.Unlock()
		return m
	}
	s.mu.Unlock()

	if s.store != nil {
		m, ok, err := s.store.GetMove(ctx, key)
		if err != nil {
			log.Printf("dex store read %s: %v", key, err)
		} else if ok {
			s.rememberMove(key, m)
			return m
		}
	}

	m, err := s.provider.FetchMove(ctx, key)
	if err != nil {
		m = Move{Name: key, DamageClass: ClassStatus}
		s.rememberMove(key, m)
		return m
	}
	if m.DamageClass == "" {
		m.DamageClass = ClassStatus
	}
	if m.Ailment == "none" {
		m.Ailment = ""
	}

	s.rememberMove(key, m)
	if s.store != nil {
		if err := s.store.PutMove(ctx, key, m); err != nil {
			log.Printf("dex store write %s: %v", key, err)
		}
	}
	return m
}

// SpeciesList returns the upstream species names, fetched once per
// process. A fetch failure degrades to FallbackSpecies and the degraded
// pool is memoized like any other result.
func (s *Service) SpeciesList(ctx context.Context) []string {
	s.speciesMu.Lock()
	defer s.speciesMu.Unlock()
	if s.speciesFilled {
		return s.species
	}

	names, err := s.provider.FetchSpeciesList(ctx)
	if err != nil || len(names) == 0 {
		if err != nil {
			log.Printf("species list fetch failed, using fallback pool: %v", err)
		}
		names = FallbackSpecies
	}
	s.species = names
	s.speciesFilled = true
	return s.species
}

func (s *Service) remember(key string, p Pokemon) {
	s.mu.Lock()
	s.pokemon[key] = p
	s.mu.Unlock()
}

func (s *Service) rememberMove(key string, m Move) {
	s.mu.Lock()
	s.moves[key] = m
	s.mu.Unlock()
}

// fillLock returns the per-key fill mutex. Caller must hold s.mu.
func (s *Service) fillLock(key string) *sync.Mutex {
	if lock, ok := s.fills[key]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	s.fills[key] = lock
	return lock
}

func validatePokemon(p Pokemon) error {
	if p.Name == "" {
		return fmt.Errorf("name is empty")
	}
	if len(p.Stats) == 0 {
		return fmt.Errorf("stats are missing")
	}
	for stat, value := range p.Stats {
		if value < 0 {
			return fmt.Errorf("stat %s is negative", stat)
		}
	}
	if p.MaxHP <= 0 {
		return fmt.Errorf("max hp must be positive")
	}
	return nil
}
