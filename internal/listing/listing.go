// Package listing turns stored submissions into sortable table rows.
package listing

import (
	"cmp"
	"net/url"
	"slices"

	"github.com/gsarma/codepad/internal/models"
)

// ColumnKey identifies a table column.
type ColumnKey string

const (
	ColumnUsername   ColumnKey = "username"
	ColumnLanguage   ColumnKey = "language"
	ColumnStdin      ColumnKey = "stdin"
	ColumnStdout     ColumnKey = "stdout"
	ColumnSourceCode ColumnKey = "sourceCode"
	ColumnTimestamp  ColumnKey = "timestamp"
	ColumnActions    ColumnKey = "actions"
)

// Column describes one table column.
type Column struct {
	Key      ColumnKey
	Label    string
	Sortable bool
}

// Columns lists the table columns in display order.
var Columns = []Column{
	{Key: ColumnUsername, Label: "NAME", Sortable: true},
	{Key: ColumnLanguage, Label: "CODE LANGUAGE", Sortable: true},
	{Key: ColumnStdin, Label: "INPUT", Sortable: true},
	{Key: ColumnStdout, Label: "OUTPUT", Sortable: true},
	{Key: ColumnSourceCode, Label: "SOURCE CODE", Sortable: true},
	{Key: ColumnTimestamp, Label: "TIME STAMP", Sortable: true},
	{Key: ColumnActions, Label: "ACTIONS"},
}

// sortValues extracts the value a column is ordered by.
var sortValues = map[ColumnKey]func(models.Submission) string{
	ColumnUsername:   func(s models.Submission) string { return s.User.Username },
	ColumnLanguage:   func(s models.Submission) string { return s.Language },
	ColumnStdin:      func(s models.Submission) string { return s.Stdin },
	ColumnStdout:     func(s models.Submission) string { return s.Stdout },
	ColumnSourceCode: func(s models.Submission) string { return s.SourceCode },
	ColumnTimestamp:  func(s models.Submission) string { return s.Timestamp },
}

// Direction is the order of a sorted column.
type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// Sort is the table's sort descriptor. The zero value selects no column and
// keeps rows in the order the storage service returned them.
type Sort struct {
	Column    ColumnKey
	Direction Direction
}

// ParseSort reads a descriptor from query values. Unknown or unsortable
// columns yield the zero Sort; a missing direction means ascending.
func ParseSort(column, direction string) Sort {
	if _, ok := sortValues[ColumnKey(column)]; !ok {
		return Sort{}
	}
	dir := Ascending
	if Direction(direction) == Descending {
		dir = Descending
	}
	return Sort{Column: ColumnKey(column), Direction: dir}
}

// Toggle returns the descriptor after the user clicks a column header:
// the same column flips direction, another column starts ascending.
func (s Sort) Toggle(column ColumnKey) Sort {
	if s.Column == column {
		if s.Direction == Ascending {
			return Sort{Column: column, Direction: Descending}
		}
		return Sort{Column: column, Direction: Ascending}
	}
	return Sort{Column: column, Direction: Ascending}
}

// Query encodes the descriptor as URL query values.
func (s Sort) Query() url.Values {
	q := url.Values{}
	if s.Column != "" {
		q.Set("sort", string(s.Column))
		q.Set("dir", string(s.Direction))
	}
	return q
}

// Apply returns a sorted copy of rows. Rows with equal keys keep their
// relative order.
func (s Sort) Apply(rows []models.Submission) []models.Submission {
	out := slices.Clone(rows)
	value, ok := sortValues[s.Column]
	if !ok {
		return out
	}
	slices.SortStableFunc(out, func(a, b models.Submission) int {
		c := cmp.Compare(value(a), value(b))
		if s.Direction == Descending {
			return -c
		}
		return c
	})
	return out
}
