package orchestrator

import (
	"github.com/pmezard/go-difflib/difflib"
)

// createTableDiff renders a unified diff between a table's previous and new
// CREATE TABLE statement, for debug-level logging around the canvas
// drop-and-recreate step. Grounded on tengo/diff.go's
// UnsupportedDiffError.ExtendedError, which renders the same kind of
// expected-vs-actual CREATE TABLE comparison with the same library.
func createTableDiff(previousCreate, newCreate string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(previousCreate),
		B:        difflib.SplitLines(newCreate),
		FromFile: "previous",
		ToFile:   "recreated",
		Context:  1,
	}
	return difflib.GetUnifiedDiffString(diff)
}
