package listing

import "github.com/gsarma/codepad/internal/models"

const (
	LoadingMessage = "Submissions loading"
	EmptyMessage   = "No submissions yet!"
)

// Header is a rendered column header. Next is the sort a click selects.
type Header struct {
	Column
	Active    bool
	Direction Direction
	Next      Sort
}

// Link returns the URL under base that applies Next, or "" for columns that
// do not sort.
func (h Header) Link(base string) string {
	if !h.Sortable {
		return ""
	}
	return base + "?" + h.Next.Query().Encode()
}

// View is everything the submissions table needs to render.
type View struct {
	Loading bool
	Sort    Sort
	Rows    []Row
	Err     error
}

// NewView builds a loaded view, sorted by s.
func NewView(subs []models.Submission, s Sort) View {
	return View{Sort: s, Rows: Rows(s.Apply(subs))}
}

// FailedView is rendered when the listing could not be fetched.
func FailedView(err error, s Sort) View {
	return View{Sort: s, Rows: []Row{}, Err: err}
}

// LoadingView is rendered before the rows have been fetched.
func LoadingView(s Sort) View {
	return View{Loading: true, Sort: s}
}

// Placeholder is the text shown in place of an empty table body.
func (v View) Placeholder() string {
	if v.Loading {
		return LoadingMessage
	}
	return EmptyMessage
}

// Empty reports whether the table body has no rows to show.
func (v View) Empty() bool {
	return len(v.Rows) == 0
}

// Headers returns the column headers in display order.
func (v View) Headers() []Header {
	headers := make([]Header, 0, len(Columns))
	for _, col := range Columns {
		h := Header{Column: col, Active: v.Sort.Column == col.Key}
		if h.Active {
			h.Direction = v.Sort.Direction
		}
		if col.Sortable {
			h.Next = v.Sort.Toggle(col.Key)
		}
		headers = append(headers, h)
	}
	return headers
}
