// Package storage is the client for the submission storage service.
//
// The storage service persists executed drafts and lists every stored
// submission. It is the source of truth for whether a create succeeded;
// this client never retries.
//
// Usage:
//
//	client := storage.New("https://storage.example.com")
//	msg, err := client.Create(ctx, models.NewSubmission{...})
//	subs, err := client.ListAll(ctx)
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gsarma/codepad/internal/apperr"
	"github.com/gsarma/codepad/internal/models"
)

const (
	submitPath = "/api/v1/submission/submit"
	listPath   = "/api/v1/submission/all"

	// DefaultFailureMessage is shown when the service gives no reason.
	DefaultFailureMessage = "Failed to save submission"
	// DefaultSuccessMessage is returned when a 201 carries no message.
	DefaultSuccessMessage = "Submission saved"
)

// Client talks to the storage service over JSON/HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each request made by the client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// New creates a storage client. baseURL is the service root
// (e.g. "https://storage.example.com").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type createRequest struct {
	Data models.NewSubmission `json:"data"`
}

type messageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type listResponse struct {
	Submissions []models.Submission `json:"submissions"`
}

// Create persists an executed submission. Success is HTTP 201; the returned
// string is the confirmation message from the response body. Every other
// outcome is an *apperr.SubmissionFailedError.
func (c *Client) Create(ctx context.Context, sub models.NewSubmission) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, submitPath, createRequest{Data: sub})
	if err != nil {
		return "", &apperr.SubmissionFailedError{Message: err.Error()}
	}
	defer resp.Body.Close()

	body := parseMessage(resp.Body)

	if resp.StatusCode != http.StatusCreated {
		msg := body.Message
		if msg == "" {
			msg = body.Error
		}
		if msg == "" {
			msg = DefaultFailureMessage
		}
		return "", &apperr.SubmissionFailedError{StatusCode: resp.StatusCode, Message: msg}
	}

	if body.Message == "" {
		return DefaultSuccessMessage, nil
	}
	return body.Message, nil
}

// ListAll returns every persisted submission in the order the service sent
// them. Any failure is an *apperr.FetchFailedError.
func (c *Client) ListAll(ctx context.Context) ([]models.Submission, error) {
	resp, err := c.do(ctx, http.MethodGet, listPath, nil)
	if err != nil {
		return nil, &apperr.FetchFailedError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &apperr.FetchFailedError{Err: fmt.Errorf("storage returned HTTP %d", resp.StatusCode)}
	}

	var out listResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &apperr.FetchFailedError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if out.Submissions == nil {
		out.Submissions = []models.Submission{}
	}
	return out.Submissions, nil
}

// --- internal helpers ---

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("storage: marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

func parseMessage(r io.Reader) messageResponse {
	var body messageResponse
	_ = json.NewDecoder(r).Decode(&body)
	return body
}
