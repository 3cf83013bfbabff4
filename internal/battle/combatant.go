// Package battle implements the turn-based battle engine: status
// effects, damage resolution, turn ordering and the per-turn state
// machine.
package battle

import (
	"math/rand"

	"pokebattle-mcp/internal/dex"
)

// Combatant is the per-battle view of a species: the immutable cached
// template plus the mutable battle fields (current hit points and
// status). Battles never write back to cached dex records.
type Combatant struct {
	Name   string
	Stats  map[string]int
	MaxHP  int
	Types  []string
	Moves  []string
	HP     int
	Status *dex.Status
}

// NewCombatant builds a battle-ready combatant from a cached record,
// starting at full hit points with no affliction.
func NewCombatant(p dex.Pokemon) Combatant {
	return Combatant{
		Name:  p.Name,
		Stats: p.Stats,
		MaxHP: p.MaxHP,
		Types: p.Types,
		Moves: p.Moves,
		HP:    p.MaxHP,
	}
}

// DisplayName renders the combatant's name for battle-log prose.
func (c *Combatant) DisplayName() string {
	return dex.DisplayName(c.Name)
}

// Fainted reports whether the combatant is out of the battle.
func (c *Combatant) Fainted() bool {
	return c.HP <= 0
}

// Stat returns a named stat, falling back to fallback and then to 1 so
// damage math never divides by zero on sparse records.
func (c *Combatant) Stat(name, fallback string) int {
	if value, ok := c.Stats[name]; ok {
		return value
	}
	if value, ok := c.Stats[fallback]; ok {
		return value
	}
	return 1
}

// EffectiveSpeed returns the speed stat after debuffs: paralysis halves
// raw speed (integer floor).
func (c *Combatant) EffectiveSpeed() int {
	speed := c.Stats[dex.StatSpeed]
	if c.Status != nil && c.Status.Kind == dex.StatusParalysis {
		speed /= 2
	}
	return speed
}

// Damage deducts amount from current hit points, clamped to [0, MaxHP].
func (c *Combatant) Damage(amount int) {
	c.HP -= amount
	c.clampHP()
}

func (c *Combatant) clampHP() {
	if c.HP < 0 {
		c.HP = 0
	}
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
}

// clone copies the combatant with its own status value, leaving the
// immutable template fields shared.
func (c Combatant) clone() Combatant {
	if c.Status != nil {
		status := *c.Status
		if status.Duration != nil {
			duration := *status.Duration
			status.Duration = &duration
		}
		c.Status = &status
	}
	return c
}

// inflict sets a fresh status on the combatant. Sleep gets a random
// 1-3 turn duration; every other ailment persists until cured.
func (c *Combatant) inflict(rng *rand.Rand, kind dex.StatusKind) *dex.Status {
	status := &dex.Status{Kind: kind}
	if kind == dex.StatusSleep {
		duration := rng.Intn(3) + 1
		status.Duration = &duration
	}
	c.Status = status
	return status
}
