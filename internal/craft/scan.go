package craft

import (
	"sort"

	"github.com/xtding233/craft-odds/internal/refdata"
)

// Scan evaluates every context reachable from the first selected option and
// returns those with a non-zero probability, in enumeration order.
// Incomplete selections produce no results.
func Scan(store *refdata.Store, sels []Selection) []Result {
	crit, ok := parseSelections(sels)
	if !ok {
		return nil
	}

	var results []Result
	for _, tool := range store.Tools() {
		slots, ok := tool.Option(crit[0].option)
		if !ok {
			continue
		}
		for _, slot := range slots.Keys() {
			races, _ := slots.Get(slot)
			for _, race := range races.Keys() {
				ranks, _ := races.Get(race)
				for _, rank := range ranks.Keys() {
					c := Context{Tool: tool.Name, SlotType: slot, Race: race, Rank: rank}
					p := evaluate(tool, c, crit)
					if p <= 0 {
						continue
					}
					results = append(results, Result{
						Context:       c,
						Probability:   p,
						ExpectedTries: 1 / p,
					})
				}
			}
		}
	}
	return results
}

// Rank returns a copy of results sorted by ascending expected tries.
// Equal entries keep their scan order.
func Rank(results []Result) []Result {
	out := append([]Result(nil), results...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExpectedTries < out[j].ExpectedTries
	})
	return out
}

// Calculate runs Scan and Rank.
func Calculate(store *refdata.Store, sels []Selection) []Result {
	return Rank(Scan(store, sels))
}
