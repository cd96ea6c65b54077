package cost

import "math"

// Price defines what one crafting attempt with a tool costs.
type Price struct {
	Currency    string `yaml:"currency,omitempty" json:"currency,omitempty"` // e.g. "gold"
	PerAttempt  int    `yaml:"per_attempt" json:"per_attempt"`               // price of a single attempt
	BundlePrice int    `yaml:"bundle_price,omitempty" json:"bundle_price,omitempty"`
	BundleSize  int    `yaml:"bundle_size,omitempty" json:"bundle_size,omitempty"` // attempts per bundle; <=1 disables bundles
}

// IsZero reports whether no price was configured.
func (p Price) IsZero() bool {
	return p.PerAttempt == 0 && p.BundlePrice == 0
}

// Plan is the cheapest way to buy at least a number of attempts.
type Plan struct {
	Bundles  int `json:"bundles"`
	Singles  int `json:"singles"`
	Attempts int `json:"attempts"` // may exceed the target by part of a bundle
	Total    int `json:"total"`
}

// PlanFor finds the cheapest purchase covering at least n attempts. Buying a
// whole bundle may beat the singles for a remainder, so cost(b) for b
// bundles is checked at 0, floor(n/size) and ceil(n/size); it is piecewise
// linear in b, so the minimum is at one of them.
func (p Price) PlanFor(n int) Plan {
	if n <= 0 {
		return Plan{}
	}
	if p.BundlePrice <= 0 || p.BundleSize <= 1 {
		return Plan{Singles: n, Attempts: n, Total: n * p.PerAttempt}
	}

	floor := n / p.BundleSize
	ceil := (n + p.BundleSize - 1) / p.BundleSize
	candidates := []int{floor, 0, ceil}
	if p.PerAttempt <= 0 {
		// bundles only
		candidates = []int{ceil}
	}

	best := Plan{Total: -1}
	for _, b := range candidates {
		singles := max(n-b*p.BundleSize, 0)
		plan := Plan{
			Bundles:  b,
			Singles:  singles,
			Attempts: b*p.BundleSize + singles,
			Total:    b*p.BundlePrice + singles*p.PerAttempt,
		}
		if best.Total < 0 || plan.Total < best.Total {
			best = plan
		}
	}
	return best
}

// ForAttempts returns the cost of the cheapest plan covering n attempts.
func (p Price) ForAttempts(n int) int {
	return p.PlanFor(n).Total
}

// Expected returns the cost of the attempts needed on average.
// Partial attempts are rounded up since attempts are bought whole.
func (p Price) Expected(tries float64) int {
	return p.ExpectedPlan(tries).Total
}

// ExpectedPlan is the purchase behind Expected.
func (p Price) ExpectedPlan(tries float64) Plan {
	if math.IsNaN(tries) || math.IsInf(tries, 0) || tries <= 0 {
		return Plan{}
	}
	return p.PlanFor(int(math.Ceil(tries)))
}
