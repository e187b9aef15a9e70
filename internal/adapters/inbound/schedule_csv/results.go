package schedule_csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charleschow/hockey-sim/internal/core/calibration"
	"github.com/charleschow/hockey-sim/internal/core/schedule"
)

var resultColumns = map[string]string{
	"date":          "date",
	"visitor":       "visitor",
	"away":          "visitor",
	"home":          "home",
	"visitor_goals": "visitor_goals",
	"away_goals":    "visitor_goals",
	"home_goals":    "home_goals",
	"home_odds":     "home_odds",
	"visitor_odds":  "visitor_odds",
	"away_odds":     "visitor_odds",
}

func ReadResultsFile(path string) ([]calibration.Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results: %w", err)
	}
	defer f.Close()
	return ReadResults(f)
}

// ReadResults parses completed games. Goal columns are required; the
// decimal odds columns are optional and left zero when absent or blank.
func ReadResults(r io.Reader) ([]calibration.Game, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := columnIndex(header, resultColumns)
	for _, want := range []string{"date", "visitor", "home", "visitor_goals", "home_goals"} {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, want)
		}
	}

	var games []calibration.Game
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read results: %w", err)
		}
		line, _ := cr.FieldPos(0)
		get := func(col string) string {
			i, ok := cols[col]
			if !ok {
				return ""
			}
			return field(rec, i)
		}

		date, err := schedule.ParseDate(get("date"))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", schedule.ErrMalformedRow, line, err)
		}
		g := calibration.Game{Date: date, Home: get("home"), Away: get("visitor")}
		if g.Home == "" || g.Away == "" {
			return nil, fmt.Errorf("%w: row %d: missing team", schedule.ErrMalformedRow, line)
		}
		if g.HomeGoals, err = strconv.Atoi(get("home_goals")); err != nil {
			return nil, fmt.Errorf("%w: row %d: home_goals: %v", schedule.ErrMalformedRow, line, err)
		}
		if g.AwayGoals, err = strconv.Atoi(get("visitor_goals")); err != nil {
			return nil, fmt.Errorf("%w: row %d: visitor_goals: %v", schedule.ErrMalformedRow, line, err)
		}
		g.HomeOdds, _ = strconv.ParseFloat(get("home_odds"), 64)
		g.AwayOdds, _ = strconv.ParseFloat(get("visitor_odds"), 64)
		games = append(games, g)
	}
	return games, nil
}
