package listing

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gsarma/codepad/internal/models"
)

func sub(user, lang, ts string) models.Submission {
	return models.Submission{
		User:       models.User{Username: user},
		Language:   lang,
		SourceCode: "code by " + user,
		Timestamp:  ts,
	}
}

func usernames(subs []models.Submission) []string {
	out := make([]string, 0, len(subs))
	for _, s := range subs {
		out = append(out, s.User.Username)
	}
	return out
}

func TestSort_ApplyByLanguage(t *testing.T) {
	rows := []models.Submission{
		sub("carol", "Python", "2024-01-03T00:00:00Z"),
		sub("alice", "C++", "2024-01-01T00:00:00Z"),
		sub("bob", "Java", "2024-01-02T00:00:00Z"),
	}

	asc := Sort{Column: ColumnLanguage, Direction: Ascending}.Apply(rows)
	assert.Equal(t, []string{"alice", "bob", "carol"}, usernames(asc))

	desc := Sort{Column: ColumnLanguage, Direction: Descending}.Apply(rows)
	assert.Equal(t, []string{"carol", "bob", "alice"}, usernames(desc))

	assert.Equal(t, []string{"carol", "alice", "bob"}, usernames(rows), "input is not modified")
}

func TestSort_ZeroValueKeepsServerOrder(t *testing.T) {
	rows := []models.Submission{sub("b", "Java", ""), sub("a", "C++", ""), sub("c", "Python", "")}

	got := Sort{}.Apply(rows)

	assert.Equal(t, []string{"b", "a", "c"}, usernames(got))
}

func TestSort_StableForEqualKeys(t *testing.T) {
	rows := []models.Submission{
		sub("first", "Python", ""),
		sub("x", "C++", ""),
		sub("second", "Python", ""),
		sub("third", "Python", ""),
	}

	asc := Sort{Column: ColumnLanguage, Direction: Ascending}.Apply(rows)
	assert.Equal(t, []string{"x", "first", "second", "third"}, usernames(asc))

	desc := Sort{Column: ColumnLanguage, Direction: Descending}.Apply(rows)
	assert.Equal(t, []string{"first", "second", "third", "x"}, usernames(desc))
}

func TestSort_ByNestedUsernameAndTimestamp(t *testing.T) {
	rows := []models.Submission{
		sub("bob", "Java", "2024-01-02T00:00:00Z"),
		sub("alice", "Java", "2024-01-03T00:00:00Z"),
		sub("carol", "Java", "2024-01-01T00:00:00Z"),
	}

	byUser := Sort{Column: ColumnUsername, Direction: Ascending}.Apply(rows)
	assert.Equal(t, []string{"alice", "bob", "carol"}, usernames(byUser))

	byTime := Sort{Column: ColumnTimestamp, Direction: Descending}.Apply(rows)
	assert.Equal(t, []string{"alice", "bob", "carol"}, usernames(byTime))
}

func TestSort_Toggle(t *testing.T) {
	s := Sort{}

	s = s.Toggle(ColumnLanguage)
	assert.Equal(t, Sort{Column: ColumnLanguage, Direction: Ascending}, s)

	s = s.Toggle(ColumnLanguage)
	assert.Equal(t, Sort{Column: ColumnLanguage, Direction: Descending}, s)

	s = s.Toggle(ColumnLanguage)
	assert.Equal(t, Sort{Column: ColumnLanguage, Direction: Ascending}, s)

	s = s.Toggle(ColumnUsername)
	assert.Equal(t, Sort{Column: ColumnUsername, Direction: Ascending}, s)
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		name      string
		column    string
		direction string
		want      Sort
	}{
		{name: "empty", want: Sort{}},
		{name: "unknown column", column: "password", direction: "ascending", want: Sort{}},
		{name: "actions are not sortable", column: "actions", want: Sort{}},
		{name: "default direction", column: "language", want: Sort{Column: ColumnLanguage, Direction: Ascending}},
		{name: "descending", column: "stdout", direction: "descending", want: Sort{Column: ColumnStdout, Direction: Descending}},
		{name: "garbage direction", column: "stdin", direction: "sideways", want: Sort{Column: ColumnStdin, Direction: Ascending}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSort(tt.column, tt.direction))
		})
	}
}

func TestRender(t *testing.T) {
	long := strings.Repeat("a", 150)
	s := models.Submission{
		User:       models.User{Username: "alice"},
		Language:   "Python",
		Stdin:      "",
		Stdout:     "",
		SourceCode: long,
		Timestamp:  "2024-03-05T14:07:33.120Z",
	}

	assert.Equal(t, "alice", Render(s, ColumnUsername).Text)
	assert.Equal(t, "Python", Render(s, ColumnLanguage).Text)
	assert.Equal(t, "-", Render(s, ColumnStdin).Text)
	assert.Equal(t, "-", Render(s, ColumnStdout).Text)

	src := Render(s, ColumnSourceCode)
	assert.Equal(t, strings.Repeat("a", 100)+"...", src.Text)

	ts := Render(s, ColumnTimestamp)
	assert.Equal(t, "2024-03-05", ts.Date)
	assert.Equal(t, "14:07", ts.Time)

	actions := Render(s, ColumnActions)
	assert.Equal(t, long, actions.Code, "the detail view holds the full code")
	assert.Equal(t, ColumnActions, actions.Column)
}

func TestRender_ShortValues(t *testing.T) {
	s := models.Submission{Stdin: "5", Stdout: "25\n", SourceCode: strings.Repeat("b", 100), Timestamp: "2024-03-05"}

	assert.Equal(t, "5", Render(s, ColumnStdin).Text)
	assert.Equal(t, "25\n", Render(s, ColumnStdout).Text)
	assert.Equal(t, strings.Repeat("b", 100), Render(s, ColumnSourceCode).Text, "exactly 100 characters is not truncated")

	ts := Render(s, ColumnTimestamp)
	assert.Equal(t, "2024-03-05", ts.Date)
	assert.Empty(t, ts.Time)
}

func TestRows_CellsFollowColumnOrder(t *testing.T) {
	rows := Rows([]models.Submission{sub("alice", "Java", "2024-01-01T09:30:00Z")})

	require.Len(t, rows, 1)
	require.Len(t, rows[0].Cells, len(Columns))
	for i, col := range Columns {
		assert.Equal(t, col.Key, rows[0].Cells[i].Column)
	}
}

func TestView_Placeholder(t *testing.T) {
	assert.Equal(t, "Submissions loading", LoadingView(Sort{}).Placeholder())
	assert.Equal(t, "No submissions yet!", NewView(nil, Sort{}).Placeholder())

	failed := FailedView(errors.New("boom"), Sort{})
	assert.True(t, failed.Empty())
	assert.Equal(t, "No submissions yet!", failed.Placeholder())
}

func TestView_ShowsEveryFetchedRow(t *testing.T) {
	subs := []models.Submission{sub("a", "", ""), sub("b", "", ""), sub("c", "", "")}

	v := NewView(subs, Sort{})

	assert.Len(t, v.Rows, 3)
	assert.False(t, v.Empty())
}

func TestView_Headers(t *testing.T) {
	v := NewView(nil, Sort{Column: ColumnLanguage, Direction: Ascending})

	headers := v.Headers()

	require.Len(t, headers, len(Columns))
	lang := headers[1]
	assert.True(t, lang.Active)
	assert.Equal(t, Ascending, lang.Direction)
	assert.Equal(t, Sort{Column: ColumnLanguage, Direction: Descending}, lang.Next)
	assert.Equal(t, "/submissions?dir=descending&sort=language", lang.Link("/submissions"))

	user := headers[0]
	assert.False(t, user.Active)
	assert.Equal(t, "/submissions/sort?dir=ascending&sort=username", user.Link("/submissions/sort"))

	assert.Empty(t, headers[6].Link("/submissions"), "actions column has no sort link")
}
