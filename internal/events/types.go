package events

// BatchStartedEvent announces a Monte Carlo batch before its first run.
type BatchStartedEvent struct {
	Runs    int    `json:"runs"`
	Seed    uint64 `json:"seed,omitempty"`
	Seeded  bool   `json:"seeded"`
	Workers int    `json:"workers"`
	Games   int    `json:"games"`
}

// SeasonCompleteEvent is published once per finished season run.
// Done counts completed runs, which is not the same as Run when workers race.
type SeasonCompleteEvent struct {
	Run       int   `json:"run"`
	Done      int   `json:"done"`
	Total     int   `json:"total"`
	ElapsedMS int64 `json:"elapsed_ms"`
}

// BatchCompleteEvent summarises a finished batch. Leaders holds the top
// playoff odds in forecast order.
type BatchCompleteEvent struct {
	Runs      int           `json:"runs"`
	Teams     int           `json:"teams"`
	ElapsedMS int64         `json:"elapsed_ms"`
	Leaders   []PlayoffOdds `json:"leaders,omitempty"`
}

type PlayoffOdds struct {
	Team       string  `json:"team"`
	AvgPoints  float64 `json:"avg_points"`
	PlayoffPct float64 `json:"playoff_pct"`
}

// BatchFailedEvent carries the error text of an aborted batch.
type BatchFailedEvent struct {
	Error string `json:"error"`
}
