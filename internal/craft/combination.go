package craft

// Combination returns n choose r, or 0 when r > n or r < 0.
// Each step of the product C = C*(n-i)/(i+1) is itself a binomial
// coefficient, so the integer division is exact.
func Combination(n, r int) int64 {
	if r > n || r < 0 {
		return 0
	}
	if r > n-r {
		r = n - r
	}
	c := int64(1)
	for i := 0; i < r; i++ {
		c = c * int64(n-i) / int64(i+1)
	}
	return c
}

// SlotProbability is the chance that k specific option slots are all among
// the DrawSize slots drawn out of n.
func SlotProbability(n, k int) float64 {
	den := Combination(n, DrawSize)
	if den == 0 {
		return 0
	}
	return float64(Combination(n-k, DrawSize-k)) / float64(den)
}
