package league

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Role is the position group an injury profile belongs to. Forwards cost
// goals-for when sidelined, defensemen add goals-against.
type Role string

const (
	RoleForward Role = "forward"
	RoleDefense Role = "defense"
)

// GoalieSlot selects which of a team's two goaltenders starts a game.
type GoalieSlot string

const (
	Starter GoalieSlot = "starter"
	Backup  GoalieSlot = "backup"
)

// Skater is a roster entry. A zero Factor means the default 1.0.
type Skater struct {
	Name   string  `yaml:"name" json:"name"`
	Factor float64 `yaml:"factor,omitempty" json:"factor,omitempty"`
}

// ShotFactor returns the shooter's personal multiplier on expected goals.
func (s Skater) ShotFactor() float64 {
	if s.Factor <= 0 {
		return 1.0
	}
	return s.Factor
}

// UnmarshalYAML accepts either a bare player name or a {name, factor} map.
func (s *Skater) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Name = node.Value
		s.Factor = 0
		return nil
	}
	type plain Skater
	var p plain
	if err := node.Decode(&p); err != nil {
		return fmt.Errorf("roster entry line %d: %w", node.Line, err)
	}
	*s = Skater(p)
	return nil
}

type Goalie struct {
	Name    string  `yaml:"name" json:"name"`
	SavePct float64 `yaml:"sv" json:"sv"`
}

type InjuryProfile struct {
	Role   Role    `yaml:"role" json:"role"`
	Impact float64 `yaml:"impact" json:"impact"`
}

// TeamProfile is the static reference record for one club.
type TeamProfile struct {
	Name           string   `yaml:"-" json:"name"`
	GoalsFor       float64  `yaml:"gf" json:"gf"`
	GoalsAgainst   float64  `yaml:"ga" json:"ga"`
	PowerPlayPct   float64  `yaml:"pp" json:"pp"`
	PenaltyKillPct float64  `yaml:"pk" json:"pk"`
	Starter        Goalie   `yaml:"starter" json:"starter"`
	Backup         Goalie   `yaml:"backup" json:"backup"`
	Roster         []Skater `yaml:"roster" json:"roster"`

	// Susceptible lists roster players that carry an injury profile,
	// in roster order.
	Susceptible []string `yaml:"-" json:"-"`

	// Synthesized is set for teams that were absent from the tables and
	// were filled with league-average defaults.
	Synthesized bool `yaml:"-" json:"synthesized,omitempty"`
}

func (t *TeamProfile) Goalie(slot GoalieSlot) Goalie {
	if slot == Backup {
		return t.Backup
	}
	return t.Starter
}

// SpecialTeamsStrength is PP% + PK%, the "ST%" column of team reports.
func (t *TeamProfile) SpecialTeamsStrength() float64 {
	return t.PowerPlayPct + t.PenaltyKillPct
}

// Document is the YAML layout of the reference tables.
type Document struct {
	LeagueAvgSavePct float64                  `yaml:"league_avg_sv"`
	TopTier          []string                 `yaml:"top_tier"`
	Aliases          map[string]string        `yaml:"aliases"`
	InjuryProfiles   map[string]InjuryProfile `yaml:"injury_profiles"`
	Teams            map[string]*TeamProfile  `yaml:"teams"`
}
