package battle

import (
	"fmt"
	"math/rand"

	"pokebattle-mcp/internal/dex"
)

// battleLevel fixes the simplified damage formula at level 50.
const battleLevel = 50

const critChance = 0.10

// missOutcome marks an accuracy-roll failure in a Resolve message.
const missOutcome = "miss"

// Outcome carries the multipliers behind a damaging hit so the engine
// can annotate the battle log.
type Outcome struct {
	STAB           float64
	TypeMultiplier float64
	Critical       bool
}

// Resolve resolves a single move use. When message is non-empty the move
// produced a non-damage outcome (missOutcome, an ailment-application
// line, or "It failed.") and damage is zero; otherwise damage and the
// structured outcome describe a hit.
//
// Secondary ailments of damaging moves are the engine's responsibility:
// Resolve handles only the deterministic ailment of status moves.
func Resolve(rng *rand.Rand, chart TypeChart, attacker, defender *Combatant, move dex.Move) (int, Outcome, string) {
	if move.DamageClass == dex.ClassStatus || move.Power == nil {
		if msg := applyAilment(rng, move, defender, true); msg != "" {
			return 0, Outcome{}, msg
		}
		return 0, Outcome{}, "It failed."
	}

	atkStat, defStat := dex.StatAttack, dex.StatDefense
	if move.DamageClass == dex.ClassSpecial {
		atkStat, defStat = dex.StatSpecialAttack, dex.StatSpecialDefense
	}
	atk := attacker.Stat(atkStat, dex.StatAttack)
	defense := defender.Stat(defStat, dex.StatDefense)

	// Burn halves physical attack.
	if attacker.Status != nil && attacker.Status.Kind == dex.StatusBurn && move.DamageClass == dex.ClassPhysical {
		atk /= 2
		if atk < 1 {
			atk = 1
		}
	}

	// Accuracy check short-circuits before any damage math. Nil
	// accuracy never misses.
	if move.Accuracy != nil {
		if rng.Intn(100)+1 > *move.Accuracy {
			return 0, Outcome{}, missOutcome
		}
	}

	crit := 1.0
	critical := rng.Float64() < critChance
	if critical {
		crit = 2.0
	}
	variance := 0.85 + rng.Float64()*0.15

	stab := 1.0
	for _, t := range attacker.Types {
		if move.Type != "" && t == move.Type {
			stab = 1.5
			break
		}
	}
	typeMultiplier := chart.Multiplier(move.Type, defender.Types)

	if defense < 1 {
		defense = 1
	}
	base := ((2*battleLevel/5+2)*float64(*move.Power)*(float64(atk)/float64(defense)))/50 + 2
	damage := int(base * stab * typeMultiplier * crit * variance)
	if damage < 0 {
		damage = 0
	}

	return damage, Outcome{STAB: stab, TypeMultiplier: typeMultiplier, Critical: critical}, ""
}

// applyAilment attempts to inflict the move's ailment on the target.
// Status moves apply deterministically; secondary effects are gated on
// the move's ailment chance. The returned message is empty when nothing
// happened. An existing status is never overwritten.
func applyAilment(rng *rand.Rand, move dex.Move, target *Combatant, deterministic bool) string {
	kind, ok := ailmentKind(move.Ailment)
	if !ok {
		return ""
	}

	if !deterministic {
		if move.AilmentChance <= 0 || rng.Intn(100)+1 > move.AilmentChance {
			return ""
		}
	}

	if target.Status != nil {
		return fmt.Sprintf("%s is already afflicted and the move had no effect.", target.DisplayName())
	}

	status := target.inflict(rng, kind)
	if kind == dex.StatusSleep {
		return fmt.Sprintf("%s fell asleep! (%d turn(s))", target.DisplayName(), *status.Duration)
	}
	return fmt.Sprintf("%s is afflicted with %s!", target.DisplayName(), kind)
}

// ailmentKind maps a move's ailment name onto a known status kind.
// Unknown ailments (confusion, infatuation, PokeAPI's "none") inflict
// nothing.
func ailmentKind(name string) (dex.StatusKind, bool) {
	switch dex.StatusKind(name) {
	case dex.StatusBurn, dex.StatusPoison, dex.StatusParalysis, dex.StatusSleep, dex.StatusFreeze:
		return dex.StatusKind(name), true
	}
	return "", false
}
