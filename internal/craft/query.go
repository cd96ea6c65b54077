package craft

import (
	"sort"

	"github.com/xtding233/craft-odds/internal/refdata"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ListAllOptions returns every option offered by any tool, deduplicated and
// sorted in Korean collation order.
func ListAllOptions(store *refdata.Store) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range store.Tools() {
		for _, option := range t.Options.Keys() {
			if seen[option] {
				continue
			}
			seen[option] = true
			out = append(out, option)
		}
	}
	collate.New(language.Korean).SortStrings(out)
	return out
}

// ListAvailableLevels returns the distinct level thresholds found for option
// in any tool or context, sorted numerically.
func ListAvailableLevels(store *refdata.Store, option string) []string {
	type level struct {
		key string
		num float64
	}
	seen := make(map[string]bool)
	var levels []level
	for _, t := range store.Tools() {
		slots, ok := t.Option(option)
		if !ok {
			continue
		}
		for _, slot := range slots.Keys() {
			races, _ := slots.Get(slot)
			for _, race := range races.Keys() {
				ranks, _ := races.Get(race)
				for _, rank := range ranks.Keys() {
					leaf, _ := ranks.Get(rank)
					if !leaf.HasLevels() {
						continue
					}
					for _, lc := range leaf.Levels {
						if seen[lc.Key] {
							continue
						}
						seen[lc.Key] = true
						levels = append(levels, level{key: lc.Key, num: lc.Level})
					}
				}
			}
		}
	}

	sort.SliceStable(levels, func(i, j int) bool { return levels[i].num < levels[j].num })
	out := make([]string, len(levels))
	for i, l := range levels {
		out[i] = l.key
	}
	return out
}
