package models

// Draft is the in-progress submission held in the user's session until it is
// discarded or persisted.
type Draft struct {
	Username     string `json:"username" form:"username" validate:"required"`
	CodeLanguage string `json:"codeLanguage" form:"codeLanguage" validate:"required,language"`
	SourceCode   string `json:"sourceCode" form:"sourceCode" validate:"required"`
	StdIn        string `json:"stdIn" form:"stdIn"`
}

// NewSubmission is the payload sent to the storage service: the executed
// draft plus the output captured from the last successful run.
type NewSubmission struct {
	Username     string `json:"username"`
	CodeLanguage string `json:"codeLanguage"`
	SourceCode   string `json:"sourceCode"`
	StdIn        string `json:"stdIn"`
	Stdout       string `json:"stdout"`
}

// User is the owner of a persisted submission.
type User struct {
	Username string `json:"username"`
}

// Submission is a persisted record as returned by the storage service.
type Submission struct {
	User       User   `json:"user"`
	Language   string `json:"language"`
	Stdin      string `json:"stdin"`
	Stdout     string `json:"stdout"`
	SourceCode string `json:"sourceCode"`
	Timestamp  string `json:"timestamp"`
}
