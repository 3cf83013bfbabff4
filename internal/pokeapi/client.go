// Package pokeapi implements the upstream data provider against the
// PokeAPI REST service.
package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pokebattle-mcp/internal/dex"
	apperrors "pokebattle-mcp/internal/platform/errors"
)

// BaseURL is the default PokeAPI endpoint.
const BaseURL = "https://pokeapi.co/api/v2"

// speciesPageLimit requests the whole species index in one page.
const speciesPageLimit = 10000

// Client fetches creature and move data from PokeAPI.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a PokeAPI client. An empty baseURL uses the public
// endpoint; a non-positive timeout defaults to 30 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type pokemonResponse struct {
	Name  string `json:"name"`
	Stats []struct {
		BaseStat int `json:"base_stat"`
		Stat     struct {
			Name string `json:"name"`
		} `json:"stat"`
	} `json:"stats"`
	Types []struct {
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Moves []struct {
		Move struct {
			Name string `json:"name"`
		} `json:"move"`
	} `json:"moves"`
}

type moveResponse struct {
	Name     string `json:"name"`
	Power    *int   `json:"power"`
	Accuracy *int   `json:"accuracy"`
	Type     *struct {
		Name string `json:"name"`
	} `json:"type"`
	DamageClass *struct {
		Name string `json:"name"`
	} `json:"damage_class"`
	Meta *struct {
		Ailment *struct {
			Name string `json:"name"`
		} `json:"ailment"`
		AilmentChance int `json:"ailment_chance"`
	} `json:"meta"`
}

type speciesListResponse struct {
	Results []struct {
		Name string `json:"name"`
	} `json:"results"`
}

// FetchPokemon retrieves one species record by normalized name.
func (c *Client) FetchPokemon(ctx context.Context, name string) (dex.Pokemon, error) {
	var raw pokemonResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/pokemon/%s", c.baseURL, name), &raw); err != nil {
		return dex.Pokemon{}, err
	}

	stats := make(map[string]int, len(raw.Stats))
	for _, s := range raw.Stats {
		stats[s.Stat.Name] = s.BaseStat
	}
	types := make([]string, 0, len(raw.Types))
	for _, t := range raw.Types {
		types = append(types, t.Type.Name)
	}
	moves := make([]string, 0, len(raw.Moves))
	for _, m := range raw.Moves {
		moves = append(moves, m.Move.Name)
	}

	return dex.Pokemon{
		Name:  raw.Name,
		Stats: stats,
		MaxHP: stats[dex.StatHP],
		Types: types,
		Moves: moves,
	}, nil
}

// FetchMove retrieves one move record by normalized name.
func (c *Client) FetchMove(ctx context.Context, name string) (dex.Move, error) {
	var raw moveResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/move/%s", c.baseURL, name), &raw); err != nil {
		return dex.Move{}, err
	}

	move := dex.Move{
		Name:        raw.Name,
		Power:       raw.Power,
		Accuracy:    raw.Accuracy,
		DamageClass: dex.ClassStatus,
	}
	if raw.Type != nil {
		move.Type = raw.Type.Name
	}
	if raw.DamageClass != nil {
		move.DamageClass = raw.DamageClass.Name
	}
	if raw.Meta != nil {
		if raw.Meta.Ailment != nil {
			move.Ailment = raw.Meta.Ailment.Name
		}
		move.AilmentChance = raw.Meta.AilmentChance
	}
	return move, nil
}

// FetchSpeciesList retrieves the full ordered species index.
func (c *Client) FetchSpeciesList(ctx context.Context) ([]string, error) {
	var raw speciesListResponse
	url := fmt.Sprintf("%s/pokemon?limit=%d", c.baseURL, speciesPageLimit)
	if err := c.getJSON(ctx, url, &raw); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(raw.Results))
	for _, entry := range raw.Results {
		names = append(names, entry.Name)
	}
	return names, nil
}

func (c *Client) getJSON(ctx context.Context, url string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDexUpstreamUnavailable,
			fmt.Sprintf("fetch %s", url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperrors.New(apperrors.CodeDexNotFound, fmt.Sprintf("fetch %s: %s", url, resp.Status))
	}
	if resp.StatusCode != http.StatusOK {
		return apperrors.New(apperrors.CodeDexUpstreamUnavailable,
			fmt.Sprintf("fetch %s: %s", url, resp.Status))
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
