package strategy

import "SignalDesk/internal/model"

type tier struct {
	MinPct int
	Level  model.Level
	Label  string
}

// tiers is ordered from the strongest bucket down.
var tiers = []tier{
	{71, model.LevelVeryStrong, "Very strong"},
	{41, model.LevelStrong, "Strong"},
	{1, model.LevelAdequate, "Adequate"},
	{0, model.LevelBelowThreshold, "Below threshold"},
}

var buyPalette = map[model.Level]string{
	model.LevelVeryStrong:     "#2E7D32",
	model.LevelStrong:         "#4CAF50",
	model.LevelAdequate:       "#FFEB3B",
	model.LevelBelowThreshold: "#F44336",
}

var sellPalette = map[model.Level]string{
	model.LevelVeryStrong:     "#B71C1C",
	model.LevelStrong:         "#E53935",
	model.LevelAdequate:       "#FF9800",
	model.LevelBelowThreshold: "#9E9E9E",
}

// mapTier buckets a strength percent.
func mapTier(pct int) tier {
	for _, t := range tiers {
		if pct >= t.MinPct {
			return t
		}
	}
	return tiers[len(tiers)-1]
}

// LevelColor returns the display color of a level for the given decision side.
func LevelColor(d model.Decision, l model.Level) string {
	if d == model.DecisionSell {
		return sellPalette[l]
	}
	return buyPalette[l]
}
