package craft

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/xtding233/craft-odds/internal/refdata"
)

// RankFilter maps a rank name to whether its results are displayed.
// It only hides rows; it never changes what Scan computes.
type RankFilter map[string]bool

// DefaultRankFilter shows the ranks the manifest marks visible. When none is
// marked, only the first rank is shown.
func DefaultRankFilter(ranks []refdata.Rank) RankFilter {
	f := make(RankFilter, len(ranks))
	shown := false
	for _, r := range ranks {
		f[r.Name] = r.Visible
		shown = shown || r.Visible
	}
	if !shown && len(ranks) > 0 {
		f[ranks[0].Name] = true
	}
	return f
}

// Visible reports whether rank is shown. Unknown ranks are hidden.
func (f RankFilter) Visible(rank string) bool {
	return f[rank]
}

// Apply keeps the results whose rank is visible, preserving order.
func (f RankFilter) Apply(results []Result) []Result {
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if f.Visible(r.Rank) {
			out = append(out, r)
		}
	}
	return out
}

// FormatProbability renders p as a percentage with four decimals.
func FormatProbability(p float64) string {
	return fmt.Sprintf("%.4f%%", p*100)
}

// FormatTries renders expected tries floored, with thousands separators.
func FormatTries(tries float64) string {
	if math.IsNaN(tries) || math.IsInf(tries, 0) {
		return "-"
	}
	return humanize.Comma(int64(math.Floor(tries)))
}
