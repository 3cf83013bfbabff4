package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"pokebattle-mcp/internal/battle"
	"pokebattle-mcp/internal/dex"
)

type fakeDex struct {
	pokemon map[string]dex.Pokemon
	moves   map[string]dex.Move
	err     error
}

func (f *fakeDex) Pokemon(_ context.Context, name string) (dex.Pokemon, error) {
	if f.err != nil {
		return dex.Pokemon{}, f.err
	}
	p, ok := f.pokemon[dex.NormalizeName(name)]
	if !ok {
		return dex.Pokemon{}, errors.New("unknown pokémon")
	}
	return p, nil
}

func (f *fakeDex) Move(_ context.Context, name string) dex.Move {
	m, ok := f.moves[dex.NormalizeName(name)]
	if !ok {
		return dex.Move{Name: dex.NormalizeName(name), DamageClass: dex.ClassStatus}
	}
	return m
}

type fakeBattler struct {
	startState battle.State
	startErr   error
	turnState  battle.State
	turnErr    error

	gotPlayer string
	gotState  battle.State
	gotMove   string
}

func (f *fakeBattler) StartBattle(_ context.Context, playerName string) (battle.State, error) {
	f.gotPlayer = playerName
	return f.startState, f.startErr
}

func (f *fakeBattler) PlayTurn(_ context.Context, state battle.State, playerMove string) (battle.State, error) {
	f.gotState = state
	f.gotMove = playerMove
	return f.turnState, f.turnErr
}

func testPokemon(name string, speed int) dex.Pokemon {
	return dex.Pokemon{
		Name: name,
		Stats: map[string]int{
			dex.StatHP:      45,
			dex.StatAttack:  60,
			dex.StatDefense: 50,
			dex.StatSpeed:   speed,
		},
		MaxHP: 45,
		Types: []string{"normal"},
		Moves: []string{"tackle"},
	}
}

// TestGetPokemonHandlerReturnsRecord ensures lookups round-trip into wire shape.
func TestGetPokemonHandlerReturnsRecord(t *testing.T) {
	d := &fakeDex{pokemon: map[string]dex.Pokemon{"pikachu": testPokemon("pikachu", 90)}}
	handler := getPokemonHandler(d)

	_, result, err := handler(context.Background(), &mcp.CallToolRequest{}, PokemonInput{Name: "Pikachu"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Name != "pikachu" {
		t.Fatalf("expected name pikachu, got %q", result.Name)
	}
	if result.MaxHP != 45 {
		t.Fatalf("expected max hp 45, got %d", result.MaxHP)
	}
	if result.Stats[dex.StatSpeed] != 90 {
		t.Fatalf("expected speed 90, got %d", result.Stats[dex.StatSpeed])
	}
}

// TestGetPokemonHandlerPropagatesError ensures lookup failures surface to the caller.
func TestGetPokemonHandlerPropagatesError(t *testing.T) {
	d := &fakeDex{err: errors.New("upstream down")}
	handler := getPokemonHandler(d)

	if _, _, err := handler(context.Background(), &mcp.CallToolRequest{}, PokemonInput{Name: "mew"}); err == nil {
		t.Fatal("expected error")
	}
}

// TestGetMoveHandlerNeverFails ensures unknown moves yield placeholders instead of errors.
func TestGetMoveHandlerNeverFails(t *testing.T) {
	power := 40
	accuracy := 100
	d := &fakeDex{moves: map[string]dex.Move{
		"tackle": {Name: "tackle", Power: &power, Accuracy: &accuracy, Type: "normal", DamageClass: dex.ClassPhysical},
	}}
	handler := getMoveHandler(d)

	_, known, err := handler(context.Background(), &mcp.CallToolRequest{}, MoveInput{Name: "tackle"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if known.Power == nil || *known.Power != 40 {
		t.Fatalf("expected power 40, got %v", known.Power)
	}

	_, unknown, err := handler(context.Background(), &mcp.CallToolRequest{}, MoveInput{Name: "made-up-move"})
	if err != nil {
		t.Fatalf("expected no error for unknown move, got %v", err)
	}
	if unknown.Power != nil {
		t.Fatalf("expected nil power for placeholder, got %v", *unknown.Power)
	}
	if unknown.DamageClass != dex.ClassStatus {
		t.Fatalf("expected status class for placeholder, got %q", unknown.DamageClass)
	}
}

// TestStartBattleHandlerReturnsState ensures setup output carries both combatants.
func TestStartBattleHandlerReturnsState(t *testing.T) {
	player := battle.NewCombatant(testPokemon("charmander", 65))
	opponent := battle.NewCombatant(testPokemon("pidgey", 56))
	b := &fakeBattler{startState: battle.State{
		Player:   player,
		Opponent: opponent,
		Turn:     1,
		Log:      []string{"A wild pidgey appeared! Battle starts!"},
	}}
	handler := startBattleHandler(b)

	_, result, err := handler(context.Background(), &mcp.CallToolRequest{}, StartBattleInput{Pokemon: "charmander"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if b.gotPlayer != "charmander" {
		t.Fatalf("expected player charmander, got %q", b.gotPlayer)
	}
	if result.Player.Name != "charmander" || result.Opponent.Name != "pidgey" {
		t.Fatalf("unexpected combatants: %q vs %q", result.Player.Name, result.Opponent.Name)
	}
	if result.Turn != 1 {
		t.Fatalf("expected turn 1, got %d", result.Turn)
	}
	if result.Finished {
		t.Fatal("fresh battle should not be finished")
	}
	if len(result.Log) != 1 {
		t.Fatalf("expected one log line, got %d", len(result.Log))
	}
}

// TestStartBattleHandlerPropagatesError ensures setup failures surface to the caller.
func TestStartBattleHandlerPropagatesError(t *testing.T) {
	b := &fakeBattler{startErr: errors.New("pokémon not found")}
	handler := startBattleHandler(b)

	if _, _, err := handler(context.Background(), &mcp.CallToolRequest{}, StartBattleInput{Pokemon: "missingno"}); err == nil {
		t.Fatal("expected error")
	}
}

// TestPlayTurnHandlerRoundTripsState ensures the caller-held state survives the
// wire conversion, status included.
func TestPlayTurnHandlerRoundTripsState(t *testing.T) {
	player := battle.NewCombatant(testPokemon("charmander", 65))
	player.HP = 30
	duration := 2
	player.Status = &dex.Status{Kind: dex.StatusSleep, Duration: &duration}
	opponent := battle.NewCombatant(testPokemon("pidgey", 56))

	after := battle.State{Player: player, Opponent: opponent, Turn: 3, Log: []string{"charmander used tackle!"}}
	b := &fakeBattler{turnState: after}
	handler := playTurnHandler(b)

	input := PlayTurnInput{
		State: battleStateResult(battle.State{Player: player, Opponent: opponent, Turn: 2}),
		Move:  "tackle",
	}
	_, result, err := handler(context.Background(), &mcp.CallToolRequest{}, input)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if b.gotMove != "tackle" {
		t.Fatalf("expected move tackle, got %q", b.gotMove)
	}
	if b.gotState.Player.HP != 30 {
		t.Fatalf("expected player hp 30 passed through, got %d", b.gotState.Player.HP)
	}
	if b.gotState.Player.Status == nil || b.gotState.Player.Status.Kind != dex.StatusSleep {
		t.Fatal("expected sleep status passed through")
	}
	if b.gotState.Player.Status.Duration == nil || *b.gotState.Player.Status.Duration != 2 {
		t.Fatal("expected sleep duration 2 passed through")
	}
	if result.Turn != 3 {
		t.Fatalf("expected turn 3, got %d", result.Turn)
	}
	if result.Player.Status == nil || result.Player.Status.Kind != string(dex.StatusSleep) {
		t.Fatal("expected sleep status in result")
	}
}

// TestPlayTurnHandlerPropagatesError ensures invalid states surface to the caller.
func TestPlayTurnHandlerPropagatesError(t *testing.T) {
	b := &fakeBattler{turnErr: errors.New("invalid battle state")}
	handler := playTurnHandler(b)

	if _, _, err := handler(context.Background(), &mcp.CallToolRequest{}, PlayTurnInput{Move: "tackle"}); err == nil {
		t.Fatal("expected error")
	}
}

// TestTypeChartResourceHandlerServesChart ensures the resource serves JSON the
// chart round-trips from.
func TestTypeChartResourceHandlerServesChart(t *testing.T) {
	chart := battle.TypeChart{"fire": {"grass": 2.0, "water": 0.5}}
	handler := typeChartResourceHandler(chart)

	result, err := handler(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("expected one content entry, got %d", len(result.Contents))
	}
	content := result.Contents[0]
	if content.URI != "dex://types" {
		t.Fatalf("expected dex://types URI, got %q", content.URI)
	}
	if content.MIMEType != "application/json" {
		t.Fatalf("expected JSON mime type, got %q", content.MIMEType)
	}

	var decoded battle.TypeChart
	if err := json.Unmarshal([]byte(content.Text), &decoded); err != nil {
		t.Fatalf("decode chart: %v", err)
	}
	if decoded["fire"]["grass"] != 2.0 {
		t.Fatalf("expected fire against grass 2.0, got %v", decoded["fire"]["grass"])
	}
}

// TestBattleStateResultReportsWinner ensures terminal states carry the winner.
func TestBattleStateResultReportsWinner(t *testing.T) {
	player := battle.NewCombatant(testPokemon("charmander", 65))
	opponent := battle.NewCombatant(testPokemon("pidgey", 56))
	opponent.HP = 0

	result := battleStateResult(battle.State{Player: player, Opponent: opponent, Turn: 5})
	if !result.Finished {
		t.Fatal("expected finished state")
	}
	if result.Winner != "Charmander" {
		t.Fatalf("expected winner Charmander, got %q", result.Winner)
	}
}
