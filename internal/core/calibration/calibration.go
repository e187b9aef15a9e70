// Package calibration scores head-to-head win probabilities against
// completed games and, when prices are available, against the market.
package calibration

import (
	"fmt"
	"time"

	"github.com/charleschow/hockey-sim/internal/core/odds"
)

const (
	bucketCount = 10
	// edgeThreshold is the model-minus-market gap that counts as a bet.
	edgeThreshold = 0.03
)

// Game is a completed game with an optional two-way market in decimal odds.
type Game struct {
	Date      time.Time
	Home      string
	Away      string
	HomeGoals int
	AwayGoals int
	HomeOdds  float64
	AwayOdds  float64
}

func (g Game) HomeWon() bool { return g.HomeGoals > g.AwayGoals }

func (g Game) HasMarket() bool { return g.HomeOdds > 1 && g.AwayOdds > 1 }

// Prediction pairs a game with the model's home win probability.
type Prediction struct {
	Game
	ModelHome float64
}

type Bucket struct {
	Label      string
	Count      int
	MeanPred   float64
	ActualFreq float64
}

type Result struct {
	Games       int
	ModelBrier  float64
	HomeBias    float64 // mean(model - actual)
	MarketGames int
	MarketBrier float64 // over MarketGames only
	ModelBrierM float64 // model Brier on the same MarketGames
	Bets        int
	BetUnits    float64 // flat one-unit stakes on every edge above threshold
	Buckets     []Bucket
}

type bucketAccum struct {
	sumPred float64
	count   int
	wins    int
}

// Evaluate computes two-outcome Brier scores. Games can not end level, so
// the away probability is 1 - home and a single squared error suffices.
func Evaluate(preds []Prediction) Result {
	var (
		r       Result
		buckets = make([]bucketAccum, bucketCount)
	)
	for _, p := range preds {
		actual := 0.0
		if p.HomeWon() {
			actual = 1
		}
		r.Games++
		se := sq(p.ModelHome - actual)
		r.ModelBrier += se
		r.HomeBias += p.ModelHome - actual
		addToBucket(buckets, p.ModelHome, actual)

		if !p.HasMarket() {
			continue
		}
		fairHome, _ := odds.RemoveVig2(p.HomeOdds, p.AwayOdds)
		r.MarketGames++
		r.MarketBrier += sq(fairHome - actual)
		r.ModelBrierM += se

		edge := odds.Edge(p.ModelHome, p.HomeOdds, p.AwayOdds)
		switch {
		case edge >= edgeThreshold:
			r.Bets++
			r.BetUnits += stake(p.HomeOdds, p.HomeWon())
		case -edge >= edgeThreshold:
			r.Bets++
			r.BetUnits += stake(p.AwayOdds, !p.HomeWon())
		}
	}
	if r.Games > 0 {
		r.ModelBrier /= float64(r.Games)
		r.HomeBias /= float64(r.Games)
	}
	if r.MarketGames > 0 {
		r.MarketBrier /= float64(r.MarketGames)
		r.ModelBrierM /= float64(r.MarketGames)
	}
	for i, b := range buckets {
		if b.count == 0 {
			continue
		}
		r.Buckets = append(r.Buckets, Bucket{
			Label:      fmt.Sprintf("%d-%d%%", i*10, (i+1)*10),
			Count:      b.count,
			MeanPred:   b.sumPred / float64(b.count),
			ActualFreq: float64(b.wins) / float64(b.count),
		})
	}
	return r
}

func stake(decimal float64, won bool) float64 {
	if won {
		return decimal - 1
	}
	return -1
}

func addToBucket(buckets []bucketAccum, pred, actual float64) {
	idx := int(pred * bucketCount)
	if idx >= bucketCount {
		idx = bucketCount - 1
	}
	if idx < 0 {
		idx = 0
	}
	buckets[idx].sumPred += pred
	buckets[idx].count++
	if actual > 0.5 {
		buckets[idx].wins++
	}
}

func sq(x float64) float64 { return x * x }
