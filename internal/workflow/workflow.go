// Package workflow implements the execute-then-submit flow of the submission
// form. A draft can only be persisted after it has been executed
// successfully; the State field is the single source of that rule.
package workflow

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/gsarma/codepad/internal/apperr"
	"github.com/gsarma/codepad/internal/code"
	"github.com/gsarma/codepad/internal/models"
)

// State is the position of a session in the submission flow.
type State int

const (
	// Idle: nothing executed yet, or the last result was saved or discarded.
	// Only the execute action is offered.
	Idle State = iota
	// Executed: the draft ran with status Accepted and its output is held.
	// Only the submit action is offered.
	Executed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Executed:
		return "executed"
	default:
		return "unknown"
	}
}

// ErrNotExecuted is returned by Submit when no successful execution is held.
var ErrNotExecuted = errors.New("workflow: submit requires a successful execution")

// Workflow is the per-session state of the submission form.
type Workflow struct {
	State  State        `json:"state"`
	Draft  models.Draft `json:"draft"`
	Output string       `json:"output"`

	// Errors holds inline validation messages keyed by form field.
	Errors map[string]string `json:"errors,omitempty"`
	// RootError is the form-level message, e.g. a non-Accepted status.
	RootError string `json:"rootError,omitempty"`
}

// CanExecute reports whether the compile action is offered.
func (w *Workflow) CanExecute() bool { return w.State == Idle }

// CanSubmit reports whether the submit action is offered.
func (w *Workflow) CanSubmit() bool { return w.State == Executed }

// Recorder persists executed submissions.
type Recorder interface {
	Create(ctx context.Context, sub models.NewSubmission) (string, error)
}

// DraftValidator checks a draft before any network call.
type DraftValidator interface {
	Draft(d models.Draft) error
}

// Controller owns the state transitions of a Workflow.
type Controller struct {
	provider  code.Provider
	recorder  Recorder
	validator DraftValidator
}

func NewController(provider code.Provider, recorder Recorder, validator DraftValidator) *Controller {
	return &Controller{
		provider:  provider,
		recorder:  recorder,
		validator: validator,
	}
}

// Execute runs the draft. Starting an execution always returns the workflow
// to Idle; only an Accepted run moves it to Executed with the new output.
// On failure the previous output is left as it was.
func (c *Controller) Execute(ctx context.Context, w *Workflow, d models.Draft) error {
	w.State = Idle
	w.Draft = d
	w.Errors = nil
	w.RootError = ""

	if err := c.validator.Draft(d); err != nil {
		surface(w, err)
		return err
	}

	res, err := c.provider.Execute(ctx, d.SourceCode, d.CodeLanguage, d.StdIn)
	if err != nil {
		surface(w, err)
		log.Info().Err(err).Str("username", d.Username).Str("language", d.CodeLanguage).Msg("execution failed")
		return err
	}

	w.State = Executed
	w.Output = res.Stdout
	log.Info().Str("username", d.Username).Str("language", d.CodeLanguage).Msg("execution accepted")
	return nil
}

// Submit persists the executed draft with its output. It is only valid in
// Executed. Success clears the form back to Idle; failure keeps the draft
// and output so the user can retry without recompiling.
func (c *Controller) Submit(ctx context.Context, w *Workflow) (string, error) {
	if w.State != Executed {
		return "", ErrNotExecuted
	}
	w.Errors = nil
	w.RootError = ""

	msg, err := c.recorder.Create(ctx, models.NewSubmission{
		Username:     w.Draft.Username,
		CodeLanguage: w.Draft.CodeLanguage,
		SourceCode:   w.Draft.SourceCode,
		StdIn:        w.Draft.StdIn,
		Stdout:       w.Output,
	})
	if err != nil {
		w.RootError = err.Error()
		log.Warn().Err(err).Str("username", w.Draft.Username).Msg("submission failed")
		return "", err
	}

	log.Info().Str("username", w.Draft.Username).Str("language", w.Draft.CodeLanguage).Msg("submission saved")
	*w = Workflow{}
	return msg, nil
}

// Reset discards an unsaved execution result and keeps the draft for editing.
func (c *Controller) Reset(w *Workflow) {
	w.State = Idle
	w.Output = ""
	w.Errors = nil
	w.RootError = ""
}

func surface(w *Workflow, err error) {
	var verr *apperr.ValidationError
	var failed *apperr.ExecutionFailedError
	switch {
	case errors.As(err, &verr):
		w.Errors = verr.Fields
	case errors.As(err, &failed):
		w.RootError = failed.Status
	}
}
