package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/gsarma/codepad/internal/apperr"
	"github.com/gsarma/codepad/internal/code"
	"github.com/gsarma/codepad/internal/listing"
	"github.com/gsarma/codepad/internal/models"
	"github.com/gsarma/codepad/internal/session"
	"github.com/gsarma/codepad/internal/workflow"
)

// Toast messages.
const (
	msgExecuted    = "Execution Successful"
	msgExecFailed  = "Execution Failed!"
	msgInternal    = "Internal Server Error!"
	msgNotExecuted = "Compile your code before submitting"
	msgFetchFailed = "Problem fetching data"
)

const (
	// toastHeader carries a toast for responses rendered into an existing page.
	toastHeader       = "X-Codepad-Toast"
	submissionsPath   = "/submissions"
	submissionRowPath = "/submissions/rows"
	submissionSort    = "/submissions/sort"
)

// Lister reads the stored submissions.
type Lister interface {
	ListAll(ctx context.Context) ([]models.Submission, error)
}

type Handler struct {
	controller *workflow.Controller
	lister     Lister
	sessions   session.Store
	sessionTTL time.Duration
}

func NewHandler(controller *workflow.Controller, lister Lister, sessions session.Store, sessionTTL time.Duration) *Handler {
	return &Handler{
		controller: controller,
		lister:     lister,
		sessions:   sessions,
		sessionTTL: sessionTTL,
	}
}

type formPage struct {
	Flashes   []session.Flash
	Workflow  *workflow.Workflow
	Languages []string
}

type submissionsPage struct {
	Flashes      []session.Flash
	Table        submissionsTable
	RowsPath     string
	FetchFailed  string
	EmptyMessage string
}

// submissionsTable is the data of table.tmpl. Header links go to PagePath
// without script and to SortPath with it.
type submissionsTable struct {
	View     listing.View
	PagePath string
	SortPath string
}

func newTable(v listing.View) submissionsTable {
	return submissionsTable{View: v, PagePath: submissionsPath, SortPath: submissionSort}
}

// Form renders the submission form for the current workflow state.
func (h *Handler) Form(c *gin.Context) {
	s := sessionFrom(c)
	flashes := s.PopFlashes()
	h.commit(c, s)

	c.HTML(http.StatusOK, "form.tmpl", formPage{
		Flashes:   flashes,
		Workflow:  &s.Workflow,
		Languages: code.LanguageNames(),
	})
}

// Execute runs the posted draft and redirects back to the form.
func (h *Handler) Execute(c *gin.Context) {
	s := sessionFrom(c)

	var d models.Draft
	if err := c.ShouldBind(&d); err != nil {
		c.String(http.StatusBadRequest, "invalid form: %v", err)
		return
	}

	err := h.controller.Execute(c.Request.Context(), &s.Workflow, d)

	var verr *apperr.ValidationError
	var failed *apperr.ExecutionFailedError
	switch {
	case err == nil:
		s.AddFlash(session.FlashSuccess, msgExecuted)
	case errors.As(err, &verr):
		// shown inline next to the fields
	case errors.As(err, &failed):
		s.AddFlash(session.FlashError, msgExecFailed)
	default:
		log.Error().Err(err).Str("session", s.ID).Msg("execute")
		s.AddFlash(session.FlashError, msgInternal)
	}

	h.commit(c, s)
	c.Redirect(http.StatusSeeOther, "/")
}

// Submit persists the executed draft and redirects back to the form.
func (h *Handler) Submit(c *gin.Context) {
	s := sessionFrom(c)

	msg, err := h.controller.Submit(c.Request.Context(), &s.Workflow)

	var failed *apperr.SubmissionFailedError
	switch {
	case err == nil:
		s.AddFlash(session.FlashSuccess, msg)
	case errors.Is(err, workflow.ErrNotExecuted):
		s.AddFlash(session.FlashError, msgNotExecuted)
	case errors.As(err, &failed):
		s.AddFlash(session.FlashError, failed.Message)
	default:
		log.Error().Err(err).Str("session", s.ID).Msg("submit")
		s.AddFlash(session.FlashError, msgInternal)
	}

	h.commit(c, s)
	c.Redirect(http.StatusSeeOther, "/")
}

// Reset drops an unsaved execution so the draft can be edited again.
func (h *Handler) Reset(c *gin.Context) {
	s := sessionFrom(c)
	h.controller.Reset(&s.Workflow)
	h.commit(c, s)
	c.Redirect(http.StatusSeeOther, "/")
}

// Submissions renders the listing page. The rows are loaded by the page
// itself from SubmissionRows.
func (h *Handler) Submissions(c *gin.Context) {
	s := sessionFrom(c)
	flashes := s.PopFlashes()
	h.commit(c, s)

	sort := listing.ParseSort(c.Query("sort"), c.Query("dir"))
	c.HTML(http.StatusOK, "submissions.tmpl", submissionsPage{
		Flashes:      flashes,
		Table:        newTable(listing.LoadingView(sort)),
		RowsPath:     submissionRowPath + queryString(sort),
		FetchFailed:  msgFetchFailed,
		EmptyMessage: listing.EmptyMessage,
	})
}

// SubmissionRows fetches the submissions, keeps them in the session for
// later re-sorting and renders the table in the requested order.
func (h *Handler) SubmissionRows(c *gin.Context) {
	s := sessionFrom(c)
	sort := listing.ParseSort(c.Query("sort"), c.Query("dir"))

	subs, err := h.lister.ListAll(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("list submissions")
		s.Listing = nil
		h.commit(c, s)
		c.Header(toastHeader, msgFetchFailed)
		c.HTML(http.StatusBadGateway, "table.tmpl", newTable(listing.FailedView(err, sort)))
		return
	}

	s.Listing = &session.Listing{Submissions: subs}
	h.commit(c, s)
	c.HTML(http.StatusOK, "table.tmpl", newTable(listing.NewView(subs, sort)))
}

// SortSubmissions re-renders the table from the submissions already loaded
// by SubmissionRows. Without a loaded listing it falls back to fetching.
func (h *Handler) SortSubmissions(c *gin.Context) {
	s := sessionFrom(c)
	if s.Listing == nil {
		h.SubmissionRows(c)
		return
	}

	sort := listing.ParseSort(c.Query("sort"), c.Query("dir"))
	c.HTML(http.StatusOK, "table.tmpl", newTable(listing.NewView(s.Listing.Submissions, sort)))
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// commit saves the session. Save errors are logged, not returned.
func (h *Handler) commit(c *gin.Context, s *session.Session) {
	if err := h.sessions.Save(c.Request.Context(), s); err != nil {
		log.Error().Err(err).Str("session", s.ID).Msg("save session")
	}
}

func queryString(s listing.Sort) string {
	q := s.Query().Encode()
	if q == "" {
		return ""
	}
	return "?" + q
}
