package code

import (
	"context"
	"slices"
)

// StatusAccepted is the status description Judge0 reports for a clean run.
const StatusAccepted = "Accepted"

// Languages maps the language names offered in the form to Judge0 language ids.
var Languages = map[string]string{
	"Javascript": "63",
	"Python":     "71",
	"Java":       "62",
	"C++":        "54",
}

// languageOrder is the order languages are offered in the form.
var languageOrder = []string{"Javascript", "Python", "Java", "C++"}

// LanguageNames returns the supported language names in display order.
func LanguageNames() []string {
	return slices.Clone(languageOrder)
}

// Result is the outcome of a single successful code execution.
type Result struct {
	Stdout string
	Status string
}

// Provider defines the interface a code execution service must implement.
type Provider interface {
	Execute(ctx context.Context, sourceCode, language, stdin string) (*Result, error)
}
