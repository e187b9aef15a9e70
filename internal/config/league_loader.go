package config

import (
	"fmt"
	"os"

	"github.com/charleschow/hockey-sim/internal/core/league"
)

// LoadLeague reads reference tables from path, or returns the embedded
// tables when path is empty.
func LoadLeague(path string) (*league.League, error) {
	if path == "" {
		return league.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read league tables: %w", err)
	}
	lg, err := league.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lg, nil
}
