// Package odds turns simulated win probabilities into prices.
package odds

import "math"

// Fair is a vig-free price for one side of a market.
type Fair struct {
	Probability float64 `json:"probability"` // 0–1
	Decimal     float64 `json:"decimal"`
	American    int     `json:"american"`
}

// FromProbability prices an outcome with no bookmaker margin. A zero
// probability has no finite price and returns zero odds.
func FromProbability(p float64) Fair {
	f := Fair{Probability: p}
	if p <= 0 || p > 1 {
		return f
	}
	f.Decimal = math.Round(100/p) / 100
	f.American = American(p)
	return f
}

// American converts a win probability to a moneyline.
func American(p float64) int {
	switch {
	case p <= 0 || p >= 1:
		return 0
	case p >= 0.5:
		return -int(math.Round(100 * p / (1 - p)))
	default:
		return int(math.Round(100 * (1 - p) / p))
	}
}

// RemoveVig2 converts two-way decimal odds to fair probabilities
// by stripping the bookmaker's overround.
func RemoveVig2(a, b float64) (float64, float64) {
	rawA := 1.0 / a
	rawB := 1.0 / b
	total := rawA + rawB
	return rawA / total, rawB / total
}

// Edge compares a simulated probability for side A against a two-way
// market quoted in decimal odds. Positive means the model likes A more
// than the market does.
func Edge(simA, decimalA, decimalB float64) float64 {
	if decimalA <= 1 || decimalB <= 1 {
		return 0
	}
	fairA, _ := RemoveVig2(decimalA, decimalB)
	return simA - fairA
}
