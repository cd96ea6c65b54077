package refdata

import (
	"fmt"
	"math"
	"strings"
)

// MinSlotCount is the number of option slots drawn per craft.
const MinSlotCount = 3

// percentSlack absorbs rounding in level tables that add up to 100%.
const percentSlack = 1e-7

// Validate checks semantic constraints of a snapshot and reports every
// violation at once.
func Validate(s *Store) error {
	var errs []string

	if len(s.Tools()) == 0 {
		errs = append(errs, "no tools")
	}

	s.Walk(func(tool, option, slot, race, rank string, leaf *Leaf) {
		where := strings.Join([]string{tool, option, slot, race, rank}, "/")
		if leaf == nil {
			errs = append(errs, where+": missing entry")
			return
		}
		if leaf.SlotCount < MinSlotCount {
			errs = append(errs, fmt.Sprintf("%s: slot count %d must be >= %d", where, leaf.SlotCount, MinSlotCount))
		}
		seen := make(map[float64]bool, len(leaf.Levels))
		var total float64
		for _, lc := range leaf.Levels {
			total += lc.Percent
			if math.IsNaN(lc.Percent) || lc.Percent < 0 || lc.Percent > 100 {
				errs = append(errs, fmt.Sprintf("%s: level %s percentage must be in [0,100]", where, lc.Key))
			}
			if seen[lc.Level] {
				errs = append(errs, fmt.Sprintf("%s: level %s listed twice", where, lc.Key))
			}
			seen[lc.Level] = true
		}
		if total > 100+percentSlack {
			errs = append(errs, fmt.Sprintf("%s: level percentages add up to %g, more than 100", where, total))
		}
	})

	for _, r := range s.Ranks() {
		if r.Name == "" {
			errs = append(errs, "rank name must not be empty")
		}
	}
	for _, t := range s.Tools() {
		p, ok := s.Price(t.Name)
		if !ok {
			continue
		}
		if p.PerAttempt < 0 || p.BundlePrice < 0 || p.BundleSize < 0 {
			errs = append(errs, fmt.Sprintf("%s: price fields must be >= 0", t.Name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("reference data validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
