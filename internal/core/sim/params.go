package sim

// Params are the game-level model constants.
type Params struct {
	HomeAdvantage  float64
	ShotsPerGame   float64
	ShotsStdDev    float64
	ReferenceGoals float64
	MinShots       int
	MinExpected    float64

	EvenStrengthShare float64
	ReboundChance     float64
	RushChance        float64
	MinDistanceFt     float64
	MaxDistanceFt     float64
	MaxAngleDeg       float64

	// EmptyNetMargin is the largest goal gap that still triggers a pulled
	// goalie. The leading team shoots at the vacated net unless
	// TrailerShootsEmptyNet is set.
	EmptyNetMargin        int
	EmptyNetMinDistanceFt float64
	EmptyNetMaxDistanceFt float64
	EmptyNetBoost         float64
	TrailerShootsEmptyNet bool

	MaxGoalProb        float64
	OvertimeLikelihood float64
}

func DefaultParams() Params {
	return Params{
		HomeAdvantage:         0.25,
		ShotsPerGame:          30,
		ShotsStdDev:           5,
		ReferenceGoals:        3.0,
		MinShots:              15,
		MinExpected:           0.1,
		EvenStrengthShare:     0.85,
		ReboundChance:         0.10,
		RushChance:            0.15,
		MinDistanceFt:         5,
		MaxDistanceFt:         60,
		MaxAngleDeg:           60,
		EmptyNetMargin:        2,
		EmptyNetMinDistanceFt: 60,
		EmptyNetMaxDistanceFt: 200,
		EmptyNetBoost:         0.10,
		MaxGoalProb:           0.90,
		OvertimeLikelihood:    0.12,
	}
}
