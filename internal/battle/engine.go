package battle

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"pokebattle-mcp/internal/dex"
	apperrors "pokebattle-mcp/internal/platform/errors"
)

// defaultMove is used when a combatant has no known moves at all.
const defaultMove = "tackle"

// opponentRerolls bounds the best-effort attempts to avoid picking the
// player's own species as the opponent.
const opponentRerolls = 3

// State is one battle's complete state. It is a value passed into and
// returned from each turn call; the engine never retains it, so a single
// battle must not be driven from two callers at once.
type State struct {
	Player   Combatant
	Opponent Combatant
	Turn     int
	Log      []string
}

// Finished reports whether the battle is terminal. The battle ends the
// instant either combatant's hit points reach zero.
func (s *State) Finished() bool {
	return s.Player.Fainted() || s.Opponent.Fainted()
}

// Winner returns the display name of the winning combatant, or "" while
// the battle is ongoing. If both faint on the same turn the player wins.
func (s *State) Winner() string {
	if !s.Finished() {
		return ""
	}
	if s.Opponent.Fainted() {
		return s.Player.DisplayName()
	}
	return s.Opponent.DisplayName()
}

// Dex is the lookup surface the engine needs: memoized records and the
// species pool.
type Dex interface {
	Pokemon(ctx context.Context, name string) (dex.Pokemon, error)
	Move(ctx context.Context, name string) dex.Move
	SpeciesList(ctx context.Context) []string
}

// Engine runs battles over an injected dex, type chart and random
// source.
type Engine struct {
	dex   Dex
	chart TypeChart

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New creates a battle engine. A nil chart uses DefaultTypeChart; a nil
// rng seeds one from the clock.
func New(d Dex, chart TypeChart, rng *rand.Rand) *Engine {
	if chart == nil {
		chart = DefaultTypeChart()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{dex: d, chart: chart, rng: rng}
}

// StartBattle resolves the player's creature, picks a random opponent
// from the species pool and returns the opening battle state.
func (e *Engine) StartBattle(ctx context.Context, playerName string) (State, error) {
	player, err := e.dex.Pokemon(ctx, playerName)
	if err != nil {
		return State{}, err
	}

	opponent, err := e.pickOpponent(ctx, player.Name)
	if err != nil {
		return State{}, err
	}

	state := State{
		Player:   NewCombatant(player),
		Opponent: NewCombatant(opponent),
		Turn:     1,
	}
	state.Log = append(state.Log,
		fmt.Sprintf("A wild %s appeared! Battle starts!", state.Opponent.DisplayName()))
	return state, nil
}

// pickOpponent chooses uniformly from the species pool, re-rolling a
// bounded number of times to avoid the player's exact species when the
// pool has more than one member. Best effort, not guaranteed.
func (e *Engine) pickOpponent(ctx context.Context, playerName string) (dex.Pokemon, error) {
	pool := e.dex.SpeciesList(ctx)
	playerKey := dex.NormalizeName(playerName)

	e.rngMu.Lock()
	choice := pool[e.rng.Intn(len(pool))]
	if dex.NormalizeName(choice) == playerKey && len(pool) > 1 {
		for i := 0; i < opponentRerolls; i++ {
			candidate := pool[e.rng.Intn(len(pool))]
			if dex.NormalizeName(candidate) != playerKey {
				choice = candidate
				break
			}
		}
	}
	e.rngMu.Unlock()

	return e.dex.Pokemon(ctx, choice)
}

// PlayTurn runs one full turn: opponent move selection, speed ordering,
// per-actor action gating and damage, then end-of-turn status
// resolution. It returns the fully updated state; the input state is
// not mutated.
func (e *Engine) PlayTurn(ctx context.Context, state State, playerMove string) (State, error) {
	if err := validateState(&state); err != nil {
		return state, err
	}
	if state.Finished() {
		return state, apperrors.New(apperrors.CodeBattleFinished, "battle is already over")
	}

	// Work on copies so the caller's state (and its status pointers)
	// survives untouched.
	state.Player = state.Player.clone()
	state.Opponent = state.Opponent.clone()
	state.Log = append([]string(nil), state.Log...)

	e.rngMu.Lock()
	defer e.rngMu.Unlock()

	opponentMove := e.chooseOpponentMove(ctx, &state.Opponent)

	type action struct {
		attacker *Combatant
		defender *Combatant
		move     string
	}
	actions := []action{
		{&state.Player, &state.Opponent, dex.NormalizeName(playerMove)},
		{&state.Opponent, &state.Player, dex.NormalizeName(opponentMove)},
	}
	// Higher effective speed acts first; ties keep player-first order.
	if state.Opponent.EffectiveSpeed() > state.Player.EffectiveSpeed() {
		actions[0], actions[1] = actions[1], actions[0]
	}

	for _, act := range actions {
		ok, msg := CanAct(e.rng, act.attacker)
		if !ok {
			state.Log = append(state.Log, msg)
			continue
		}

		move := e.dex.Move(ctx, act.move)
		damage, outcome, message := Resolve(e.rng, e.chart, act.attacker, act.defender, move)

		switch {
		case message == missOutcome:
			state.Log = append(state.Log,
				fmt.Sprintf("%s used %s, but it missed!", act.attacker.DisplayName(), dex.DisplayName(move.Name)))
		case message != "":
			state.Log = append(state.Log,
				fmt.Sprintf("%s used %s! %s", act.attacker.DisplayName(), dex.DisplayName(move.Name), message))
		default:
			act.defender.Damage(damage)
			line := fmt.Sprintf("%s used %s! %d damage.", act.attacker.DisplayName(), dex.DisplayName(move.Name), damage)
			if outcome.TypeMultiplier > 1.0 {
				line += " Super effective!"
			} else if outcome.TypeMultiplier > 0 && outcome.TypeMultiplier < 1.0 {
				line += " Not very effective..."
			}
			if outcome.Critical {
				line += " Critical hit!"
			}
			state.Log = append(state.Log, line)

			// Secondary ailment roll, chance-gated; a defender that
			// already carries a status is never overwritten.
			if move.Ailment != "" {
				if applyMsg := applyAilment(e.rng, move, act.defender, false); applyMsg != "" {
					state.Log = append(state.Log, "Secondary effect: "+applyMsg)
				}
			}
		}

		// The second actor never acts on a turn the first actor ended.
		if state.Finished() {
			state.Log = append(state.Log, fmt.Sprintf("%s wins the battle!", state.Winner()))
			return state, nil
		}
	}

	// End-of-turn resolution in fixed order: player first.
	state.Log = append(state.Log, ApplyEndOfTurn(&state.Player)...)
	state.Log = append(state.Log, ApplyEndOfTurn(&state.Opponent)...)

	if state.Finished() {
		state.Log = append(state.Log, fmt.Sprintf("%s wins the battle!", state.Winner()))
		return state, nil
	}

	state.Turn++
	return state, nil
}

// chooseOpponentMove shuffles the opponent's known moves and picks the
// first damaging one, falling back to the first shuffled move or the
// default when the list is empty. Caller must hold rngMu.
func (e *Engine) chooseOpponentMove(ctx context.Context, opponent *Combatant) string {
	moves := make([]string, len(opponent.Moves))
	copy(moves, opponent.Moves)
	e.rng.Shuffle(len(moves), func(i, j int) {
		moves[i], moves[j] = moves[j], moves[i]
	})

	for _, name := range moves {
		if e.dex.Move(ctx, name).Damaging() {
			return name
		}
	}
	if len(moves) > 0 {
		return moves[0]
	}
	return defaultMove
}

// validateState fails fast on structurally malformed caller-supplied
// state rather than silently corrupt hit points. Hit points are clamped
// into range as a side effect.
func validateState(state *State) error {
	for _, c := range []*Combatant{&state.Player, &state.Opponent} {
		if c.Name == "" {
			return apperrors.New(apperrors.CodeBattleInvalidState, "combatant name is missing")
		}
		if len(c.Stats) == 0 {
			return apperrors.New(apperrors.CodeBattleInvalidState,
				fmt.Sprintf("combatant %s has no stats", c.Name))
		}
		if c.MaxHP <= 0 {
			return apperrors.New(apperrors.CodeBattleInvalidState,
				fmt.Sprintf("combatant %s has invalid max hp", c.Name))
		}
		c.clampHP()
	}
	if state.Turn < 1 {
		return apperrors.New(apperrors.CodeBattleInvalidState, "turn counter must start at 1")
	}
	return nil
}
