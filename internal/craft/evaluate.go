package craft

import (
	"math"
	"strconv"
	"strings"

	"github.com/xtding233/craft-odds/internal/refdata"
)

// Evaluate returns the probability that a single craft in context c rolls
// every selected option at or above its level.
//
// The slot count is read from the first selection's entry; every other
// selected option is assumed to share it. A selected option without a level
// table in c makes the whole context impossible.
func Evaluate(tool *refdata.Tool, c Context, sels []Selection) float64 {
	crit, ok := parseSelections(sels)
	if !ok {
		return 0
	}
	return evaluate(tool, c, crit)
}

func evaluate(tool *refdata.Tool, c Context, crit []criterion) float64 {
	first, ok := tool.Leaf(crit[0].option, c.SlotType, c.Race, c.Rank)
	if !ok {
		return 0
	}
	slot := SlotProbability(first.SlotCount, len(crit))
	if slot == 0 {
		return 0
	}

	level := 1.0
	for _, cr := range crit {
		leaf, ok := tool.Leaf(cr.option, c.SlotType, c.Race, c.Rank)
		if !ok || !leaf.HasLevels() {
			return 0
		}
		level *= LevelProbability(leaf, cr.level)
	}
	return slot * level
}

// LevelProbability sums the chances of every level at or above atLeast.
// Table entries are chances of rolling exactly that level. The sum is capped
// at 1.
func LevelProbability(leaf *refdata.Leaf, atLeast float64) float64 {
	if !leaf.HasLevels() {
		return 0
	}
	var p float64
	for _, lc := range leaf.Levels {
		if lc.Level >= atLeast {
			p += lc.Percent / 100
		}
	}
	return min(p, 1)
}

// parseSelections reports false for anything that must not be computed:
// no rows, a blank option or level, a non-numeric level or a repeated option.
func parseSelections(sels []Selection) ([]criterion, bool) {
	if len(sels) == 0 {
		return nil, false
	}
	out := make([]criterion, 0, len(sels))
	seen := make(map[string]bool, len(sels))
	for _, s := range sels {
		if s.Option == "" || strings.TrimSpace(s.Level) == "" {
			return nil, false
		}
		lvl, err := strconv.ParseFloat(strings.TrimSpace(s.Level), 64)
		if err != nil || math.IsNaN(lvl) || math.IsInf(lvl, 0) {
			return nil, false
		}
		if seen[s.Option] {
			return nil, false
		}
		seen[s.Option] = true
		out = append(out, criterion{option: s.Option, level: lvl})
	}
	return out, true
}
