package craft

import (
	"errors"
	"math"
	"sort"

	"github.com/xtding233/craft-odds/internal/refdata"
)

// DefaultMaxAttempts bounds one simulated trial.
const DefaultMaxAttempts = 1_000_000

var ErrSimParams = errors.New("invalid simulation params")

// SimParams describes the crafting mechanics of one context.
type SimParams struct {
	SlotCount   int       // option slots the tool offers; DrawSize of them are drawn
	LevelProbs  []float64 // per selected option, chance of rolling at least the wanted level
	MaxAttempts int       // per trial; <= 0 means DefaultMaxAttempts
}

// Stats summarizes attempts-until-success over all trials.
type Stats struct {
	Trials   int
	Censored int // trials that hit MaxAttempts without success
	Mean     float64
	Var      float64
	StdDev   float64
	P50      float64
	P90      float64
	P99      float64
	// Optional: raw samples if caller needs histograms/exports
	Samples []int `json:"-"`
}

// SimParamsFor extracts the mechanics of context c for sels.
// It reports false when the context cannot satisfy the selections.
func SimParamsFor(tool *refdata.Tool, c Context, sels []Selection) (SimParams, bool) {
	crit, ok := parseSelections(sels)
	if !ok {
		return SimParams{}, false
	}
	first, ok := tool.Leaf(crit[0].option, c.SlotType, c.Race, c.Rank)
	if !ok {
		return SimParams{}, false
	}
	p := SimParams{SlotCount: first.SlotCount}
	for _, cr := range crit {
		leaf, ok := tool.Leaf(cr.option, c.SlotType, c.Race, c.Rank)
		if !ok || !leaf.HasLevels() {
			return SimParams{}, false
		}
		p.LevelProbs = append(p.LevelProbs, LevelProbability(leaf, cr.level))
	}
	return p, true
}

func (p SimParams) validate() error {
	k := len(p.LevelProbs)
	if k == 0 || k > MaxSelections {
		return ErrSimParams
	}
	if p.SlotCount < DrawSize {
		return ErrSimParams
	}
	for _, lp := range p.LevelProbs {
		if err := validateProb(lp); err != nil {
			return err
		}
	}
	return nil
}

// attempt plays one craft: draws DrawSize distinct slots and rolls a level for
// each wanted option that was drawn. Wanted options occupy slots 0..k-1.
func attempt(p SimParams, rng RandomSource, scratch []int) (bool, error) {
	drawn := drawSlots(rng, scratch, len(p.LevelProbs))
	if drawn < len(p.LevelProbs) {
		return false, nil
	}
	for _, lp := range p.LevelProbs {
		hit, err := Draw(lp, rng)
		if err != nil {
			return false, err
		}
		if !hit {
			return false, nil
		}
	}
	return true, nil
}

// simulateOne returns the number of attempts until the first success, and
// false when MaxAttempts ran out first.
func simulateOne(p SimParams, rng RandomSource, scratch []int) (int, bool, error) {
	limit := p.MaxAttempts
	if limit <= 0 {
		limit = DefaultMaxAttempts
	}
	for n := 1; n <= limit; n++ {
		ok, err := attempt(p, rng, scratch)
		if err != nil {
			return 0, false, err
		}
		if ok {
			return n, true, nil
		}
	}
	return limit, false, nil
}

// Simulate repeats trials and returns summary stats. The mean converges on
// the ExpectedTries Evaluate predicts for the same context.
func Simulate(p SimParams, trials int, rng RandomSource) (Stats, error) {
	if trials <= 0 {
		return Stats{}, nil
	}
	if err := p.validate(); err != nil {
		return Stats{}, err
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	scratch := make([]int, p.SlotCount)
	samples := make([]int, trials)
	censored := 0
	for i := 0; i < trials; i++ {
		v, ok, err := simulateOne(p, rng, scratch)
		if err != nil {
			return Stats{}, err
		}
		if !ok {
			censored++
		}
		samples[i] = v
	}
	st := calcStats(samples)
	st.Censored = censored
	return st, nil
}

// calcStats computes mean/variance/percentiles for integer samples.
func calcStats(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	mean := sum / float64(n)

	// variance (population)
	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return float64(cp[0])
		}
		if p >= 1 {
			return float64(cp[n-1])
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return float64(cp[i])
		}
		return float64(cp[i])*(1-f) + float64(cp[i+1])*f
	}

	return Stats{
		Trials:  n,
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		P99:     percentile(0.99),
		Samples: xs,
	}
}
