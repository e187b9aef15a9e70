// Package display renders season and forecast results as fixed-width
// terminal tables.
package display

import (
	"fmt"
	"io"
	"strings"
)

const (
	dividerHeavy = "========================================================================"
	dividerLight = "~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~"
)

// shortName is the nickname part of a club name: "Toronto Maple Leafs"
// becomes "Leafs".
func shortName(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return name
	}
	return parts[len(parts)-1]
}

func fit(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width-1] + "."
}

func header(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n  %s\n%s\n", dividerHeavy, title, dividerHeavy)
}
