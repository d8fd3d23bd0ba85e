package core

import (
	"strings"

	"golang.org/x/text/cases"
)

// FoldEqual reports whether a and b are equal under Unicode case folding,
// ignoring surrounding whitespace.
func FoldEqual(a, b string) bool {
	// A Caser is stateful, so each call gets its own.
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(a)) == fold.String(strings.TrimSpace(b))
}
