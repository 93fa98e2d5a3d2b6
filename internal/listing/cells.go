package listing

import (
	"github.com/gsarma/codepad/internal/models"
)

const (
	emptyPlaceholder = "-"
	sourcePreviewLen = 100
	ellipsis         = "..."
)

// Cell is the formatted content of one table cell.
type Cell struct {
	Column ColumnKey
	Text   string

	// Date and Time are set for the timestamp column.
	Date string
	Time string

	// Code is the full source code behind the detail view trigger.
	Code string
}

var renderers = map[ColumnKey]func(models.Submission) Cell{
	ColumnUsername: func(s models.Submission) Cell {
		return Cell{Text: s.User.Username}
	},
	ColumnLanguage: func(s models.Submission) Cell {
		return Cell{Text: s.Language}
	},
	ColumnStdin: func(s models.Submission) Cell {
		return Cell{Text: orPlaceholder(s.Stdin)}
	},
	ColumnStdout: func(s models.Submission) Cell {
		return Cell{Text: orPlaceholder(s.Stdout)}
	},
	ColumnSourceCode: func(s models.Submission) Cell {
		return Cell{Text: truncate(s.SourceCode, sourcePreviewLen)}
	},
	ColumnTimestamp: func(s models.Submission) Cell {
		date, clock := splitTimestamp(s.Timestamp)
		return Cell{Date: date, Time: clock}
	},
	ColumnActions: func(s models.Submission) Cell {
		return Cell{Text: "View", Code: s.SourceCode}
	},
}

// Render formats a submission for the given column.
func Render(s models.Submission, column ColumnKey) Cell {
	render, ok := renderers[column]
	if !ok {
		return Cell{Column: column}
	}
	c := render(s)
	c.Column = column
	return c
}

// Row is one rendered table row, with cells in Columns order.
type Row struct {
	Cells []Cell
}

// Rows renders every submission into table rows.
func Rows(subs []models.Submission) []Row {
	rows := make([]Row, 0, len(subs))
	for _, s := range subs {
		cells := make([]Cell, 0, len(Columns))
		for _, col := range Columns {
			cells = append(cells, Render(s, col.Key))
		}
		rows = append(rows, Row{Cells: cells})
	}
	return rows
}

func orPlaceholder(s string) string {
	if s == "" {
		return emptyPlaceholder
	}
	return s
}

// truncate shortens s to n characters and appends an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + ellipsis
}

// splitTimestamp takes the date from characters 0-9 and the time from
// characters 11-15 of an ISO-8601 timestamp.
func splitTimestamp(ts string) (date, clock string) {
	date = ts[:min(len(ts), 10)]
	if len(ts) > 11 {
		clock = ts[11:min(len(ts), 16)]
	}
	return date, clock
}
