package battle

import (
	"fmt"
	"math/rand"

	"pokebattle-mcp/internal/dex"
)

// Status-check probabilities per classic mechanics. Paralysis succeeds
// to prevent the action; freeze succeeds to thaw. The two rolls are
// independent and must not be unified: their success semantics are
// opposite.
const (
	paralysisProcChance = 0.25
	freezeThawChance    = 0.20
)

// CanAct reports whether the combatant may act this turn. The returned
// message is non-empty only when the action is prevented.
//
// Sleep decrements its counter on every blocked turn; the status clears
// on the call where the counter is already exhausted on entry, and the
// combatant acts that same turn.
func CanAct(rng *rand.Rand, c *Combatant) (bool, string) {
	if c.Status == nil {
		return true, ""
	}

	switch c.Status.Kind {
	case dex.StatusParalysis:
		if rng.Float64() < paralysisProcChance {
			return false, fmt.Sprintf("%s is paralyzed! It can't move!", c.DisplayName())
		}
		return true, ""

	case dex.StatusSleep:
		if d := c.Status.Duration; d != nil && *d > 0 {
			*d--
			return false, fmt.Sprintf("%s is fast asleep...", c.DisplayName())
		}
		c.Status = nil
		return true, ""

	case dex.StatusFreeze:
		if rng.Float64() < freezeThawChance {
			c.Status = nil
			return true, ""
		}
		return false, fmt.Sprintf("%s is frozen solid!", c.DisplayName())
	}

	// Burn and poison never prevent action.
	return true, ""
}

// ApplyEndOfTurn applies passive status damage and duration decay after
// both actors have had their action phase. Burn costs max(1, maxHP/16)
// and poison max(1, maxHP/8); finite durations tick down and clear the
// status at zero.
func ApplyEndOfTurn(c *Combatant) []string {
	if c.Status == nil {
		return nil
	}

	var lines []string
	switch c.Status.Kind {
	case dex.StatusBurn:
		damage := passiveDamage(c.MaxHP, 16)
		c.Damage(damage)
		lines = append(lines, fmt.Sprintf("%s is hurt by burn and loses %d HP.", c.DisplayName(), damage))
	case dex.StatusPoison:
		damage := passiveDamage(c.MaxHP, 8)
		c.Damage(damage)
		lines = append(lines, fmt.Sprintf("%s is hurt by poison and loses %d HP.", c.DisplayName(), damage))
	}

	if d := c.Status.Duration; d != nil {
		*d--
		if *d <= 0 {
			kind := c.Status.Kind
			c.Status = nil
			lines = append(lines, fmt.Sprintf("%s is no longer %s.", c.DisplayName(), kind))
		}
	}
	return lines
}

func passiveDamage(maxHP, divisor int) int {
	damage := maxHP / divisor
	if damage < 1 {
		damage = 1
	}
	return damage
}
