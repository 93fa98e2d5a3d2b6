// Package session keeps the per-browser UI state: the submission workflow
// and the queue of pending toast notifications.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/gsarma/codepad/internal/models"
	"github.com/gsarma/codepad/internal/workflow"
)

// ErrNotFound is returned by a Store when no session exists for an id.
var ErrNotFound = errors.New("session not found")

// Flash levels.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot toast notification shown on the next rendered page.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Listing is the submissions collection fetched for the listing page.
// Re-sorting the table reads it instead of the storage service.
type Listing struct {
	Submissions []models.Submission `json:"submissions"`
}

// Session is the state owned by one browser.
type Session struct {
	ID       string            `json:"id"`
	Workflow workflow.Workflow `json:"workflow"`
	Flashes  []Flash           `json:"flashes,omitempty"`
	// Listing is nil until the listing page has loaded its rows.
	Listing *Listing `json:"listing,omitempty"`
}

// New returns an empty session with a fresh id.
func New() *Session {
	return &Session{ID: uuid.NewString()}
}

// AddFlash queues a notification.
func (s *Session) AddFlash(level, message string) {
	s.Flashes = append(s.Flashes, Flash{Level: level, Message: message})
}

// PopFlashes returns and clears the queued notifications.
func (s *Session) PopFlashes() []Flash {
	f := s.Flashes
	s.Flashes = nil
	return f
}

// Store persists sessions between requests.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
}

// ValidID reports whether id looks like an id issued by New.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
