// Package xg scores individual shots. The heuristic here stands in for a
// trained shot-quality model; anything satisfying Model can replace it.
package xg

import "math"

type ShotType string

const (
	Wrist    ShotType = "wrist"
	Slap     ShotType = "slap"
	Backhand ShotType = "backhand"
	EmptyNet ShotType = "empty_net"
)

// ShotTypes are the regulation shot types sampled by the simulator.
var ShotTypes = []ShotType{Wrist, Slap, Backhand}

type Strength string

const (
	EvenStrength Strength = "EV"
	PowerPlay    Strength = "PP"
	EmptyNetAtt  Strength = "EN"
)

// Features describes one shot attempt.
type Features struct {
	DistanceFt float64  `json:"distance_ft"`
	AngleDeg   float64  `json:"angle_deg"`
	Type       ShotType `json:"type"`
	Rebound    bool     `json:"rebound"`
	Rush       bool     `json:"rush"`
	Strength   Strength `json:"strength"`
}

// Model maps shot features to a goal probability in [0, 1].
type Model interface {
	ExpectedGoal(f Features) float64
}

// ModelFunc adapts a plain function to Model.
type ModelFunc func(Features) float64

func (fn ModelFunc) ExpectedGoal(f Features) float64 { return fn(f) }

// Heuristic is the default distance/angle model.
type Heuristic struct {
	MaxDistance    float64
	MaxAngle       float64
	MinBase        float64
	ReboundBoost   float64
	RushBoost      float64
	OffWristFactor float64
	Cap            float64
}

func DefaultHeuristic() Heuristic {
	return Heuristic{
		MaxDistance:    60,
		MaxAngle:       60,
		MinBase:        0.01,
		ReboundBoost:   1.25,
		RushBoost:      1.15,
		OffWristFactor: 0.9,
		Cap:            0.9,
	}
}

// ExpectedGoal is non-increasing in distance and angle, rounded to 3 dp.
func (h Heuristic) ExpectedGoal(f Features) float64 {
	base := math.Max(h.MinBase, (h.MaxDistance-f.DistanceFt)/h.MaxDistance)
	angle := (h.MaxAngle - clamp(f.AngleDeg, 0, h.MaxAngle)) / h.MaxAngle
	p := base * angle
	if f.Type != Wrist {
		p *= h.OffWristFactor
	}
	if f.Rebound {
		p *= h.ReboundBoost
	}
	if f.Rush {
		p *= h.RushBoost
	}
	p = math.Min(p, h.Cap)
	return math.Round(p*1000) / 1000
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
