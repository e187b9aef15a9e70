// Package schedule validates and orders the season's fixtures.
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrMalformedRow marks a schedule row that cannot be played. It is
// always fatal for the whole run.
var ErrMalformedRow = errors.New("malformed schedule row")

var dateLayouts = []string{"1/2/2006", "01/02/2006", "2006-01-02"}

// Row is one raw schedule line as read from a file.
type Row struct {
	Line    int
	Date    string
	Visitor string
	Home    string
}

type Game struct {
	Date time.Time `json:"date"`
	Home string    `json:"home"`
	Away string    `json:"away"`
}

// Schedule is a date-ordered list of games. Games sharing a date keep
// their listed order.
type Schedule struct {
	games []Game
}

// ParseDate accepts m/d/yyyy and ISO dates.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// Build validates every row before returning; one bad row fails the lot.
func Build(rows []Row) (*Schedule, error) {
	games := make([]Game, 0, len(rows))
	for i, r := range rows {
		line := r.Line
		if line == 0 {
			line = i + 1
		}
		date, err := ParseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedRow, line, err)
		}
		home := strings.TrimSpace(r.Home)
		away := strings.TrimSpace(r.Visitor)
		switch {
		case home == "":
			return nil, fmt.Errorf("%w: row %d: missing home team", ErrMalformedRow, line)
		case away == "":
			return nil, fmt.Errorf("%w: row %d: missing visitor", ErrMalformedRow, line)
		case strings.EqualFold(home, away):
			return nil, fmt.Errorf("%w: row %d: %s listed against itself", ErrMalformedRow, line, home)
		}
		games = append(games, Game{Date: date, Home: home, Away: away})
	}
	return New(games), nil
}

// New orders already-validated games.
func New(games []Game) *Schedule {
	out := make([]Game, len(games))
	copy(out, games)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return &Schedule{games: out}
}

func (s *Schedule) Games() []Game { return s.games }

func (s *Schedule) Len() int { return len(s.games) }

// Teams lists every team that appears, sorted.
func (s *Schedule) Teams() []string {
	seen := make(map[string]struct{})
	for _, g := range s.games {
		seen[g.Home] = struct{}{}
		seen[g.Away] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Map returns a copy with every team name passed through fn, typically
// a league resolver.
func (s *Schedule) Map(fn func(string) string) *Schedule {
	out := make([]Game, len(s.games))
	for i, g := range s.games {
		out[i] = Game{Date: g.Date, Home: fn(g.Home), Away: fn(g.Away)}
	}
	return &Schedule{games: out}
}

// Span returns the first and last game dates.
func (s *Schedule) Span() (time.Time, time.Time) {
	if len(s.games) == 0 {
		return time.Time{}, time.Time{}
	}
	return s.games[0].Date, s.games[len(s.games)-1].Date
}
