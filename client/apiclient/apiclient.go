// Package apiclient talks to the taskboard HTTP API and satisfies the same
// board contract as the in-process service.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/taskboard-dev/taskboard/client/boardsync"
	"github.com/taskboard-dev/taskboard/shared/domain"
	internal_errors "github.com/taskboard-dev/taskboard/shared/errors"
	"github.com/taskboard-dev/taskboard/shared/utils"
)

// TokenSource yields the session token to send for a principal.
// ok is false for callers that should go out unauthenticated.
type TokenSource interface {
	Token(p domain.Principal) (token string, ok bool)
}

// StaticToken sends one token for every authenticated principal.
type StaticToken string

func (t StaticToken) Token(p domain.Principal) (string, bool) {
	return string(t), t != "" && p.Authenticated
}

// APIClient handles all communication with the backend API.
type APIClient struct {
	BaseURL    string
	HttpClient *http.Client
	tokens     TokenSource
}

var _ boardsync.Backend = (*APIClient)(nil)

func New(baseURL string, tokens TokenSource) *APIClient {
	return &APIClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HttpClient: &http.Client{},
		tokens:     tokens,
	}
}

// do is the single helper for making API requests. A non-2xx answer becomes a
// typed error whose kind follows the status code; out is decoded only on success.
func (c *APIClient) do(ctx context.Context, p domain.Principal, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create API request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if token, ok := c.tokens.Token(p); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return internal_errors.Transient("Backend unavailable, please retry", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := utils.Decode(resp.Body, out); err != nil {
		return internal_errors.Transient("Unexpected response from backend", err)
	}
	return nil
}

func responseError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	message := strings.TrimSpace(string(raw))
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	kind := internal_errors.KindFromStatus(resp.StatusCode)
	if kind == internal_errors.KindTransient {
		return internal_errors.Transient(message, fmt.Errorf("backend returned status %d", resp.StatusCode))
	}
	return internal_errors.New(kind, message)
}
