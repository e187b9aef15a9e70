// Package schedule_csv reads the master schedule file.
package schedule_csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charleschow/hockey-sim/internal/core/schedule"
)

var ErrMissingColumn = errors.New("schedule csv: missing column")

// headerAliases maps accepted header spellings to the canonical column.
var headerAliases = map[string]string{
	"date":    "date",
	"visitor": "visitor",
	"away":    "visitor",
	"home":    "home",
}

func ReadFile(path string) ([]schedule.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schedule: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a CSV with date, visitor and home columns in any order.
// Headers are matched case-insensitively and a leading byte order mark is
// ignored. Rows are returned raw; validation happens in schedule.Build.
func Read(r io.Reader) ([]schedule.Row, error) {
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
	cols := columnIndex(header, headerAliases)
	for _, want := range []string{"date", "visitor", "home"} {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, want)
		}
	}

	var rows []schedule.Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read schedule: %w", err)
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, schedule.Row{
			Line:    line,
			Date:    field(rec, cols["date"]),
			Visitor: field(rec, cols["visitor"]),
			Home:    field(rec, cols["home"]),
		})
	}
	return rows, nil
}

// columnIndex maps canonical column names to header positions. Headers
// match case-insensitively and the first duplicate wins.
func columnIndex(header []string, aliases map[string]string) map[string]int {
	cols := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if canon, ok := aliases[key]; ok {
			if _, dup := cols[canon]; !dup {
				cols[canon] = i
			}
		}
	}
	return cols
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return strings.TrimSpace(rec[i])
	}
	return ""
}
