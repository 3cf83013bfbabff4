// Package dex provides Pokémon and move records and the lookup cache
// that shields callers from the upstream data source.
package dex

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StatusKind identifies a major status affliction.
type StatusKind string

const (
	StatusBurn      StatusKind = "burn"
	StatusPoison    StatusKind = "poison"
	StatusParalysis StatusKind = "paralysis"
	StatusSleep     StatusKind = "sleep"
	StatusFreeze    StatusKind = "freeze"
)

// Status is an active affliction on a combatant. Duration nil means the
// status persists until cured; a positive value counts remaining turns.
type Status struct {
	Kind     StatusKind `json:"kind"`
	Duration *int       `json:"duration,omitempty"`
}

// Stat names as PokeAPI reports them.
const (
	StatHP             = "hp"
	StatAttack         = "attack"
	StatDefense        = "defense"
	StatSpecialAttack  = "special-attack"
	StatSpecialDefense = "special-defense"
	StatSpeed          = "speed"
)

// Damage classes for moves.
const (
	ClassPhysical = "physical"
	ClassSpecial  = "special"
	ClassStatus   = "status"
)

// Pokemon is an immutable cached species record. MaxHP mirrors the base
// hp stat and never changes after creation; battles track current hit
// points and status on their own state, never here.
type Pokemon struct {
	Name  string         `json:"name"`
	Stats map[string]int `json:"stats"`
	MaxHP int            `json:"max_hp"`
	Types []string       `json:"types"`
	Moves []string       `json:"moves"`
}

// Move is an immutable cached move record. Nil Power means the move is
// non-damaging; nil Accuracy means it never misses. Ailment is empty when
// the move inflicts nothing.
type Move struct {
	Name          string `json:"name"`
	Power         *int   `json:"power"`
	Accuracy      *int   `json:"accuracy"`
	Type          string `json:"type,omitempty"`
	DamageClass   string `json:"damage_class"`
	Ailment       string `json:"ailment,omitempty"`
	AilmentChance int    `json:"ailment_chance"`
}

// Placeholder reports whether this record stands in for a move the
// upstream source could not resolve.
func (m Move) Placeholder() bool {
	return m.Power == nil && m.Accuracy == nil && m.Type == "" &&
		m.DamageClass == ClassStatus && m.Ailment == ""
}

// Damaging reports whether the move can deal direct damage.
func (m Move) Damaging() bool {
	return (m.DamageClass == ClassPhysical || m.DamageClass == ClassSpecial) &&
		m.Power != nil && *m.Power > 0
}

var nameStripper = strings.NewReplacer(" ", "-", "'", "", ".", "", ":", "")

// NormalizeName converts a user-supplied name into a PokeAPI lookup key:
// trimmed, lowercased, spaces to hyphens, punctuation stripped.
func NormalizeName(name string) string {
	return nameStripper.Replace(strings.ToLower(strings.TrimSpace(name)))
}

var displayCaser = cases.Title(language.English)

// DisplayName renders a normalized name for battle-log prose,
// e.g. "mr-mime" becomes "Mr Mime".
func DisplayName(name string) string {
	return displayCaser.String(strings.ReplaceAll(NormalizeName(name), "-", " "))
}
