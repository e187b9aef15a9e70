package league

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed league.yaml
var defaultTables []byte

// Defaults used when a schedule names a team the tables do not know.
const (
	DefaultGoalsPerGame   = 3.0
	DefaultPowerPlayPct   = 20.0
	DefaultPenaltyKillPct = 80.0
	DefaultStarterSavePct = 0.905
	DefaultBackupSavePct  = 0.895
	DefaultLeagueSavePct  = 0.905
)

// League is the read-only set of reference tables. It is safe to share
// across goroutines once built; nothing in this package mutates it after
// Parse returns.
type League struct {
	teams    map[string]*TeamProfile
	index    map[string]string
	aliases  map[string]string
	injuries map[string]InjuryProfile
	topTier  []string
	avgSave  float64
}

// Default returns the tables compiled into the binary.
func Default() (*League, error) {
	return Parse(defaultTables)
}

// MustDefault is Default for package-level setup in tests and tools.
func MustDefault() *League {
	lg, err := Default()
	if err != nil {
		panic(err)
	}
	return lg
}

// Parse decodes a YAML tables document.
func Parse(data []byte) (*League, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse league tables: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument validates a decoded document and builds the lookup indexes.
func FromDocument(doc Document) (*League, error) {
	if len(doc.Teams) == 0 {
		return nil, fmt.Errorf("league tables: no teams")
	}
	lg := &League{
		teams:    make(map[string]*TeamProfile, len(doc.Teams)),
		index:    make(map[string]string, len(doc.Teams)),
		aliases:  make(map[string]string, len(doc.Aliases)),
		injuries: make(map[string]InjuryProfile, len(doc.InjuryProfiles)),
		avgSave:  doc.LeagueAvgSavePct,
	}
	if lg.avgSave <= 0 {
		lg.avgSave = DefaultLeagueSavePct
	}

	for name, p := range doc.InjuryProfiles {
		if p.Role != RoleForward && p.Role != RoleDefense {
			return nil, fmt.Errorf("injury profile %q: unknown role %q", name, p.Role)
		}
		lg.injuries[name] = p
	}

	for name, t := range doc.Teams {
		if t == nil {
			return nil, fmt.Errorf("team %q: empty profile", name)
		}
		if t.Starter.SavePct <= 0 || t.Starter.SavePct >= 1 {
			return nil, fmt.Errorf("team %q: starter save pct %v out of range", name, t.Starter.SavePct)
		}
		if t.Backup.SavePct <= 0 || t.Backup.SavePct >= 1 {
			return nil, fmt.Errorf("team %q: backup save pct %v out of range", name, t.Backup.SavePct)
		}
		t.Name = name
		t.Susceptible = nil
		for _, s := range t.Roster {
			if _, ok := lg.injuries[s.Name]; ok {
				t.Susceptible = append(t.Susceptible, s.Name)
			}
		}
		lg.teams[name] = t
		lg.index[normalizeKey(name)] = name
	}

	for alias, canonical := range doc.Aliases {
		if _, ok := lg.teams[canonical]; !ok {
			return nil, fmt.Errorf("alias %q points at unknown team %q", alias, canonical)
		}
		lg.aliases[normalizeKey(alias)] = canonical
	}

	for _, name := range doc.TopTier {
		if _, ok := lg.teams[name]; !ok {
			return nil, fmt.Errorf("top tier team %q not in tables", name)
		}
		lg.topTier = append(lg.topTier, name)
	}
	return lg, nil
}

// LeagueAvgSavePct is the reference save percentage goalie adjustments
// are measured against.
func (lg *League) LeagueAvgSavePct() float64 { return lg.avgSave }

// Resolve maps a free-form team name onto its canonical table name.
// Unknown names come back trimmed, with ok=false.
func (lg *League) Resolve(name string) (string, bool) {
	key := Normalize(name, lg.aliases)
	if _, ok := lg.teams[key]; ok {
		return key, true
	}
	if canonical, ok := lg.index[key]; ok {
		return canonical, true
	}
	return collapseWhitespace(name), false
}

// Team returns the profile for name, synthesizing league-average defaults
// for teams the tables do not contain. The synthesized profile is a fresh
// value and is never stored in the League.
func (lg *League) Team(name string) *TeamProfile {
	if canonical, ok := lg.Resolve(name); ok {
		return lg.teams[canonical]
	}
	return Synthesize(collapseWhitespace(name))
}

// Known reports whether name resolves to a real table entry.
func (lg *League) Known(name string) bool {
	_, ok := lg.Resolve(name)
	return ok
}

// Synthesize builds the league-average profile used for unknown teams.
func Synthesize(name string) *TeamProfile {
	return &TeamProfile{
		Name:           name,
		GoalsFor:       DefaultGoalsPerGame,
		GoalsAgainst:   DefaultGoalsPerGame,
		PowerPlayPct:   DefaultPowerPlayPct,
		PenaltyKillPct: DefaultPenaltyKillPct,
		Starter:        Goalie{Name: "Generic Starter", SavePct: DefaultStarterSavePct},
		Backup:         Goalie{Name: "Generic Backup", SavePct: DefaultBackupSavePct},
		Synthesized:    true,
	}
}

// Names lists every team in the tables, sorted.
func (lg *League) Names() []string {
	out := make([]string, 0, len(lg.teams))
	for name := range lg.teams {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (lg *League) Len() int { return len(lg.teams) }

// TopTier returns the elite group used for head-to-head deltas in team
// reports.
func (lg *League) TopTier() []string {
	out := make([]string, len(lg.topTier))
	copy(out, lg.topTier)
	return out
}

func (lg *League) IsTopTier(name string) bool {
	for _, t := range lg.topTier {
		if t == name {
			return true
		}
	}
	return false
}

func (lg *League) InjuryProfile(player string) (InjuryProfile, bool) {
	p, ok := lg.injuries[player]
	return p, ok
}
