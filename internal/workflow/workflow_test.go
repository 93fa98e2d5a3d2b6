package workflow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gsarma/codepad/internal/apperr"
	"github.com/gsarma/codepad/internal/code"
	"github.com/gsarma/codepad/internal/models"
	"github.com/gsarma/codepad/internal/validation"
	"github.com/gsarma/codepad/internal/workflow"
)

// stubProvider implements code.Provider for workflow tests.
type stubProvider struct {
	executeFn func(ctx context.Context, sourceCode, language, stdin string) (*code.Result, error)
	calls     int
}

func (s *stubProvider) Execute(ctx context.Context, sourceCode, language, stdin string) (*code.Result, error) {
	s.calls++
	if s.executeFn != nil {
		return s.executeFn(ctx, sourceCode, language, stdin)
	}
	return &code.Result{Status: code.StatusAccepted}, nil
}

// stubRecorder implements workflow.Recorder for workflow tests.
type stubRecorder struct {
	createFn func(ctx context.Context, sub models.NewSubmission) (string, error)
	got      []models.NewSubmission
}

func (s *stubRecorder) Create(ctx context.Context, sub models.NewSubmission) (string, error) {
	s.got = append(s.got, sub)
	if s.createFn != nil {
		return s.createFn(ctx, sub)
	}
	return "Submission created", nil
}

func aliceDraft() models.Draft {
	return models.Draft{Username: "alice", CodeLanguage: "Python", SourceCode: "print(1)", StdIn: ""}
}

func accepted(stdout string) *stubProvider {
	return &stubProvider{executeFn: func(context.Context, string, string, string) (*code.Result, error) {
		return &code.Result{Stdout: stdout, Status: code.StatusAccepted}, nil
	}}
}

func TestExecute_Accepted_MovesToExecuted(t *testing.T) {
	p := accepted("1\n")
	c := workflow.NewController(p, &stubRecorder{}, validation.New())
	w := &workflow.Workflow{}

	require.NoError(t, c.Execute(context.Background(), w, aliceDraft()))

	assert.Equal(t, workflow.Executed, w.State)
	assert.Equal(t, "1\n", w.Output)
	assert.Equal(t, aliceDraft(), w.Draft)
	assert.True(t, w.CanSubmit())
	assert.False(t, w.CanExecute())
}

func TestExecute_Rejected_StaysIdleWithVerbatimStatus(t *testing.T) {
	p := &stubProvider{executeFn: func(context.Context, string, string, string) (*code.Result, error) {
		return nil, &apperr.ExecutionFailedError{Status: "Wrong Answer"}
	}}
	c := workflow.NewController(p, &stubRecorder{}, validation.New())
	w := &workflow.Workflow{Output: "previous"}

	err := c.Execute(context.Background(), w, aliceDraft())

	var failed *apperr.ExecutionFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, workflow.Idle, w.State)
	assert.Equal(t, "Wrong Answer", w.RootError)
	assert.Equal(t, "previous", w.Output, "output is unchanged on failure")
	assert.False(t, w.CanSubmit())
}

func TestExecute_InternalError_StaysIdle(t *testing.T) {
	p := &stubProvider{executeFn: func(context.Context, string, string, string) (*code.Result, error) {
		return nil, &apperr.InternalError{Op: "submit to judge0", Err: errors.New("timeout")}
	}}
	c := workflow.NewController(p, &stubRecorder{}, validation.New())
	w := &workflow.Workflow{}

	err := c.Execute(context.Background(), w, aliceDraft())

	var internal *apperr.InternalError
	require.True(t, errors.As(err, &internal))
	assert.Equal(t, workflow.Idle, w.State)
	assert.Empty(t, w.RootError)
}

func TestExecute_InvalidDraft_NoNetworkCall(t *testing.T) {
	drafts := []models.Draft{
		{CodeLanguage: "Python", SourceCode: "x"},
		{Username: "alice", SourceCode: "x"},
		{Username: "alice", CodeLanguage: "Python"},
		{},
	}
	for _, d := range drafts {
		p := accepted("never")
		c := workflow.NewController(p, &stubRecorder{}, validation.New())
		w := &workflow.Workflow{}

		err := c.Execute(context.Background(), w, d)

		var verr *apperr.ValidationError
		require.True(t, errors.As(err, &verr), "draft %+v", d)
		assert.Equal(t, 0, p.calls, "draft %+v must not reach the execution service", d)
		assert.Equal(t, workflow.Idle, w.State)
		assert.NotEmpty(t, w.Errors)
		assert.Equal(t, d, w.Draft, "draft is kept so the form can be re-rendered")
	}
}

func TestExecute_FromExecuted_ReExecutes(t *testing.T) {
	c := workflow.NewController(accepted("2\n"), &stubRecorder{}, validation.New())
	w := &workflow.Workflow{State: workflow.Executed, Draft: aliceDraft(), Output: "1\n"}

	d := aliceDraft()
	d.SourceCode = "print(2)"
	require.NoError(t, c.Execute(context.Background(), w, d))

	assert.Equal(t, workflow.Executed, w.State)
	assert.Equal(t, "2\n", w.Output, "a new result overwrites the unsaved one")
}

func TestExecute_FromExecuted_FailureReturnsToIdle(t *testing.T) {
	p := &stubProvider{executeFn: func(context.Context, string, string, string) (*code.Result, error) {
		return nil, &apperr.ExecutionFailedError{Status: "Compilation Error"}
	}}
	c := workflow.NewController(p, &stubRecorder{}, validation.New())
	w := &workflow.Workflow{State: workflow.Executed, Draft: aliceDraft(), Output: "1\n"}

	require.Error(t, c.Execute(context.Background(), w, aliceDraft()))
	assert.Equal(t, workflow.Idle, w.State)
	assert.False(t, w.CanSubmit())
}

func TestSubmit_FromIdle_IsRejected(t *testing.T) {
	rec := &stubRecorder{}
	c := workflow.NewController(accepted(""), rec, validation.New())
	w := &workflow.Workflow{Draft: aliceDraft()}

	_, err := c.Submit(context.Background(), w)

	assert.ErrorIs(t, err, workflow.ErrNotExecuted)
	assert.Empty(t, rec.got, "nothing is persisted without an execution")
}

func TestSubmit_Success_ClearsToIdle(t *testing.T) {
	rec := &stubRecorder{}
	c := workflow.NewController(accepted("1\n"), rec, validation.New())
	w := &workflow.Workflow{}
	require.NoError(t, c.Execute(context.Background(), w, aliceDraft()))

	msg, err := c.Submit(context.Background(), w)

	require.NoError(t, err)
	assert.Equal(t, "Submission created", msg)
	assert.Equal(t, workflow.Workflow{}, *w)
	require.Len(t, rec.got, 1)
	assert.Equal(t, models.NewSubmission{
		Username:     "alice",
		CodeLanguage: "Python",
		SourceCode:   "print(1)",
		StdIn:        "",
		Stdout:       "1\n",
	}, rec.got[0])
}

func TestSubmit_Failure_KeepsExecutedState(t *testing.T) {
	rec := &stubRecorder{createFn: func(context.Context, models.NewSubmission) (string, error) {
		return "", &apperr.SubmissionFailedError{StatusCode: 500, Message: "db down"}
	}}
	c := workflow.NewController(accepted("1\n"), rec, validation.New())
	w := &workflow.Workflow{}
	require.NoError(t, c.Execute(context.Background(), w, aliceDraft()))

	_, err := c.Submit(context.Background(), w)

	var failed *apperr.SubmissionFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, workflow.Executed, w.State)
	assert.Equal(t, aliceDraft(), w.Draft)
	assert.Equal(t, "1\n", w.Output)
	assert.Equal(t, "db down", w.RootError)

	// retry without recompiling
	rec.createFn = nil
	_, err = c.Submit(context.Background(), w)
	require.NoError(t, err)
	assert.Equal(t, workflow.Idle, w.State)
	assert.Len(t, rec.got, 2)
}

func TestReset_DiscardsOutputKeepsDraft(t *testing.T) {
	c := workflow.NewController(accepted("1\n"), &stubRecorder{}, validation.New())
	w := &workflow.Workflow{}
	require.NoError(t, c.Execute(context.Background(), w, aliceDraft()))

	c.Reset(w)

	assert.Equal(t, workflow.Idle, w.State)
	assert.Empty(t, w.Output)
	assert.Equal(t, aliceDraft(), w.Draft)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", workflow.Idle.String())
	assert.Equal(t, "executed", workflow.Executed.String())
	assert.Equal(t, "unknown", workflow.State(7).String())
}
