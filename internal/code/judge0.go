package code

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gsarma/codepad/internal/apperr"
)

// Judge0Config holds the connection settings for a Judge0 deployment behind
// RapidAPI. URL is the full submissions endpoint
// (e.g. "https://judge0-ce.p.rapidapi.com/submissions").
type Judge0Config struct {
	URL     string
	APIKey  string
	Host    string
	Timeout time.Duration
}

// Judge0Provider calls the Judge0 REST API to execute source code.
type Judge0Provider struct {
	url    string
	apiKey string
	host   string
	client *http.Client
}

// NewJudge0Provider constructs a Judge0Provider from the given config.
// A zero Timeout leaves the HTTP client without a deadline.
func NewJudge0Provider(cfg Judge0Config) *Judge0Provider {
	return &Judge0Provider{
		url:    strings.TrimRight(cfg.URL, "/"),
		apiKey: cfg.APIKey,
		host:   cfg.Host,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type judge0Request struct {
	LanguageID string  `json:"language_id"`
	SourceCode string  `json:"source_code"`
	Stdin      *string `json:"stdin"`
}

type judge0Response struct {
	Stdout *string `json:"stdout"`
	Status struct {
		Description string `json:"description"`
	} `json:"status"`
}

// Execute submits source code to Judge0 and waits synchronously for the result.
// Only the "Accepted" status counts as success; any other status comes back
// as an *apperr.ExecutionFailedError carrying the description.
func (p *Judge0Provider) Execute(ctx context.Context, sourceCode, language, stdin string) (*Result, error) {
	fields := map[string]string{}
	if sourceCode == "" {
		fields["sourceCode"] = "Source code is required"
	}
	if language == "" {
		fields["codeLanguage"] = "Language is required"
	}
	languageID, ok := Languages[language]
	if language != "" && !ok {
		fields["codeLanguage"] = fmt.Sprintf("Unsupported language %q", language)
	}
	if len(fields) > 0 {
		return nil, &apperr.ValidationError{Fields: fields}
	}

	reqBody := judge0Request{
		LanguageID: languageID,
		SourceCode: sourceCode,
	}
	if stdin != "" {
		reqBody.Stdin = &stdin
	}

	bodyJSON, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &apperr.InternalError{Op: "marshal judge0 request", Err: err}
	}

	query := url.Values{}
	query.Set("wait", "true")
	query.Set("fields", "*")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.url+"?"+query.Encode(), bytes.NewReader(bodyJSON))
	if err != nil {
		return nil, &apperr.InternalError{Op: "build judge0 request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-RapidAPI-Key", p.apiKey)
	req.Header.Set("X-RapidAPI-Host", p.host)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &apperr.InternalError{Op: "submit to judge0", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperr.InternalError{
			Op:  "submit to judge0",
			Err: fmt.Errorf("judge0 returned HTTP %d", resp.StatusCode),
		}
	}

	var raw judge0Response
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, &apperr.InternalError{Op: "decode judge0 response", Err: err}
	}

	if raw.Status.Description == "" {
		return nil, &apperr.InternalError{
			Op:  "decode judge0 response",
			Err: errors.New("missing status description"),
		}
	}

	log.Debug().
		Str("language", language).
		Str("status", raw.Status.Description).
		Msg("judge0 execution finished")

	if raw.Status.Description != StatusAccepted {
		return nil, &apperr.ExecutionFailedError{Status: raw.Status.Description}
	}

	res := &Result{Status: raw.Status.Description}
	if raw.Stdout != nil {
		res.Stdout = *raw.Stdout
	}
	return res, nil
}
