package season

import (
	"fmt"
	"time"
)

// StreakType is the per-team result of one game.
type StreakType string

const (
	Win    StreakType = "W"
	Loss   StreakType = "L"
	OTLoss StreakType = "OT"
)

var StreakTypes = []StreakType{Win, Loss, OTLoss}

// Record is a standings line. A regulation win is worth 2 points, an
// overtime loss 1.
type Record struct {
	W   int `json:"w"`
	L   int `json:"l"`
	OT  int `json:"ot"`
	PTS int `json:"pts"`
}

func (r Record) Games() int { return r.W + r.L + r.OT }

func (r *Record) add(t StreakType) {
	switch t {
	case Win:
		r.W++
		r.PTS += 2
	case Loss:
		r.L++
	case OTLoss:
		r.OT++
		r.PTS++
	}
}

// Totals are season shot and goal counts.
type Totals struct {
	GF int `json:"gf"`
	GA int `json:"ga"`
	SF int `json:"sf"`
	SA int `json:"sa"`
}

// Streaks tracks the open streak plus every closed one.
type Streaks struct {
	W     []int `json:"w"`
	L     []int `json:"l"`
	OT    []int `json:"ot"`
	MaxW  int   `json:"max_w"`
	MaxL  int   `json:"max_l"`
	MaxOT int   `json:"max_ot"`

	current StreakType
	length  int
}

// Record extends the open streak or closes it and starts a new one.
func (s *Streaks) Record(t StreakType) {
	if s.current == t {
		s.length++
		return
	}
	s.Close()
	s.current = t
	s.length = 1
}

// Close records the open streak, if any. Calling it twice is harmless.
func (s *Streaks) Close() {
	if s.current == "" || s.length == 0 {
		return
	}
	n := s.length
	switch s.current {
	case Win:
		s.W = append(s.W, n)
		s.MaxW = max(s.MaxW, n)
	case Loss:
		s.L = append(s.L, n)
		s.MaxL = max(s.MaxL, n)
	case OTLoss:
		s.OT = append(s.OT, n)
		s.MaxOT = max(s.MaxOT, n)
	}
	s.current = ""
	s.length = 0
}

// Current is the open streak.
func (s *Streaks) Current() (StreakType, int) { return s.current, s.length }

func (s *Streaks) Max(t StreakType) int {
	switch t {
	case Win:
		return s.MaxW
	case Loss:
		return s.MaxL
	case OTLoss:
		return s.MaxOT
	}
	return 0
}

// Length sums closed streaks plus the open one.
func (s *Streaks) Length() int {
	n := s.length
	for _, l := range [][]int{s.W, s.L, s.OT} {
		for _, v := range l {
			n += v
		}
	}
	return n
}

// GameKey identifies a game for notes and logs.
type GameKey struct {
	Date time.Time
	Home string
	Away string
}

func (k GameKey) String() string {
	return fmt.Sprintf("%s %s vs %s", k.Date.Format("2006-01-02"), k.Home, k.Away)
}
