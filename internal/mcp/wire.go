package mcp

import (
	"pokebattle-mcp/internal/battle"
	"pokebattle-mcp/internal/dex"
)

// PokemonInput names the creature to look up.
type PokemonInput struct {
	Name string `json:"name" jsonschema:"pokémon name"`
}

// PokemonResult is the MCP tool output for a creature lookup.
type PokemonResult struct {
	Name  string         `json:"name" jsonschema:"normalized pokémon name"`
	Stats map[string]int `json:"stats" jsonschema:"base stats keyed by stat name"`
	MaxHP int            `json:"max_hp" jsonschema:"maximum hit points"`
	Types []string       `json:"types" jsonschema:"elemental types"`
	Moves []string       `json:"moves" jsonschema:"known move names"`
}

// MoveInput names the move to look up.
type MoveInput struct {
	Name string `json:"name" jsonschema:"move name"`
}

// MoveResult is the MCP tool output for a move lookup. Null power means
// the move is non-damaging; null accuracy means it never misses.
type MoveResult struct {
	Name          string `json:"name"`
	Power         *int   `json:"power"`
	Accuracy      *int   `json:"accuracy"`
	Type          string `json:"type,omitempty"`
	DamageClass   string `json:"damage_class"`
	Ailment       string `json:"ailment,omitempty"`
	AilmentChance int    `json:"ailment_chance"`
}

// StartBattleInput names the player's creature.
type StartBattleInput struct {
	Pokemon string `json:"pokemon" jsonschema:"the player's pokémon name"`
}

// StatusState is an active affliction on a combatant.
type StatusState struct {
	Kind     string `json:"kind" jsonschema:"one of burn, poison, paralysis, sleep, freeze"`
	Duration *int   `json:"duration,omitempty" jsonschema:"remaining turns, absent when the status persists until cured"`
}

// CombatantState is one combatant's view in a battle state.
type CombatantState struct {
	Name   string         `json:"name"`
	Stats  map[string]int `json:"stats"`
	MaxHP  int            `json:"max_hp"`
	Types  []string       `json:"types"`
	Moves  []string       `json:"moves"`
	HP     int            `json:"hp"`
	Status *StatusState   `json:"status,omitempty"`
}

// BattleStateResult is the full battle state passed through tool calls.
// Callers hold it between turns; the server keeps nothing.
type BattleStateResult struct {
	Player   CombatantState `json:"player"`
	Opponent CombatantState `json:"opponent"`
	Turn     int            `json:"turn"`
	Log      []string       `json:"log"`
	Finished bool           `json:"finished"`
	Winner   string         `json:"winner,omitempty"`
}

// PlayTurnInput carries the caller-held state and the chosen move.
type PlayTurnInput struct {
	State BattleStateResult `json:"state" jsonschema:"the battle state returned by start_battle or a previous turn"`
	Move  string            `json:"move" jsonschema:"the player's chosen move name"`
}

func pokemonResult(p dex.Pokemon) PokemonResult {
	return PokemonResult{
		Name:  p.Name,
		Stats: p.Stats,
		MaxHP: p.MaxHP,
		Types: p.Types,
		Moves: p.Moves,
	}
}

func moveResult(m dex.Move) MoveResult {
	return MoveResult{
		Name:          m.Name,
		Power:         m.Power,
		Accuracy:      m.Accuracy,
		Type:          m.Type,
		DamageClass:   m.DamageClass,
		Ailment:       m.Ailment,
		AilmentChance: m.AilmentChance,
	}
}

func combatantState(c battle.Combatant) CombatantState {
	state := CombatantState{
		Name:  c.Name,
		Stats: c.Stats,
		MaxHP: c.MaxHP,
		Types: c.Types,
		Moves: c.Moves,
		HP:    c.HP,
	}
	if c.Status != nil {
		state.Status = &StatusState{Kind: string(c.Status.Kind)}
		if c.Status.Duration != nil {
			duration := *c.Status.Duration
			state.Status.Duration = &duration
		}
	}
	return state
}

func combatantFromState(s CombatantState) battle.Combatant {
	c := battle.Combatant{
		Name:  s.Name,
		Stats: s.Stats,
		MaxHP: s.MaxHP,
		Types: s.Types,
		Moves: s.Moves,
		HP:    s.HP,
	}
	if s.Status != nil {
		c.Status = &dex.Status{Kind: dex.StatusKind(s.Status.Kind)}
		if s.Status.Duration != nil {
			duration := *s.Status.Duration
			c.Status.Duration = &duration
		}
	}
	return c
}

func battleStateResult(s battle.State) BattleStateResult {
	return BattleStateResult{
		Player:   combatantState(s.Player),
		Opponent: combatantState(s.Opponent),
		Turn:     s.Turn,
		Log:      s.Log,
		Finished: s.Finished(),
		Winner:   s.Winner(),
	}
}

func battleStateFromResult(r BattleStateResult) battle.State {
	return battle.State{
		Player:   combatantFromState(r.Player),
		Opponent: combatantFromState(r.Opponent),
		Turn:     r.Turn,
		Log:      r.Log,
	}
}
