package battle

// TypeChart maps attacking type to defending type to a damage multiplier.
// Unlisted pairs are neutral (1.0); 0.0 marks an immunity.
type TypeChart map[string]map[string]float64

// DefaultTypeChart returns the partial effectiveness chart shipped with
// the simulator. The chart is a pluggable table; rows can be added
// without touching the damage calculator.
func DefaultTypeChart() TypeChart {
	return TypeChart{
		"normal":   {},
		"fire":     {"grass": 2.0, "water": 0.5, "fire": 0.5, "rock": 0.5, "ice": 2.0, "bug": 2.0, "steel": 2.0},
		"water":    {"fire": 2.0, "water": 0.5, "grass": 0.5, "ground": 2.0, "rock": 2.0},
		"grass":    {"water": 2.0, "fire": 0.5, "grass": 0.5, "ground": 2.0, "rock": 2.0, "flying": 0.5},
		"electric": {"water": 2.0, "electric": 0.5, "ground": 0.0, "flying": 2.0},
		"ground":   {"fire": 2.0, "electric": 2.0, "grass": 0.5, "flying": 0.0},
		"ice":      {"grass": 2.0, "ground": 2.0, "flying": 2.0, "dragon": 2.0, "fire": 0.5, "water": 0.5},
	}
}

// Multiplier returns the combined effectiveness of moveType against every
// defending type, defaulting to 1.0 per unlisted pair.
func (c TypeChart) Multiplier(moveType string, defenderTypes []string) float64 {
	if moveType == "" {
		return 1.0
	}
	multiplier := 1.0
	row := c[moveType]
	for _, defending := range defenderTypes {
		if value, ok := row[defending]; ok {
			multiplier *= value
		}
	}
	return multiplier
}
