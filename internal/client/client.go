// Package client talks to the election API on behalf of one voter. It
// implements the collaborator interfaces of the ballot workflow and the
// results source.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/election-portal/internal/ballot"
	"github.com/gravadigital/election-portal/internal/config"
	"github.com/gravadigital/election-portal/internal/logger"
	"github.com/gravadigital/election-portal/internal/tabulation"
)

var (
	_ ballot.PositionDirectory  = (*Client)(nil)
	_ ballot.CandidateDirectory = (*Client)(nil)
	_ ballot.ElectionStatus     = (*Client)(nil)
	_ ballot.VoteStatus         = (*Client)(nil)
	_ ballot.VoteSink           = (*Client)(nil)
	_ tabulation.Source         = (*Client)(nil)
)

// APIError is a non-2xx answer. Message is the server's human-readable
// reason and may be empty.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d %s", e.Status, http.StatusText(e.Status))
}

// Reason is the message to show a voter.
func (e *APIError) Reason() string {
	return e.Message
}

// TransportError is a request that never got an answer.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "request failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Reason is empty: the voter sees the generic failure text.
func (e *TransportError) Reason() string {
	return ""
}

// Client is an authenticated API client.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *log.Logger
}

// New creates a client for baseURL using a bearer token.
func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
		log:     logger.Client(),
	}
}

// NewFromConfig creates a client from the BALLOT_* settings.
func NewFromConfig(cfg *config.Config) *Client {
	return New(cfg.Client.APIURL, cfg.Client.Token, cfg.Client.Timeout)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// do sends one request and decodes the envelope's data into out. It returns
// the envelope message.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (string, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.log.Debug("request", "method", method, "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", method, "path", path, "error", err)
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Message = env.Message
			if apiErr.Message == "" {
				apiErr.Message = env.Error
			}
		}
		c.log.Warn("request rejected", "method", method, "path", path, "status", resp.StatusCode, "message", apiErr.Message)
		return "", apiErr
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode %s %s: %w", method, path, decodeErr)
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", fmt.Errorf("decode %s %s data: %w", method, path, err)
		}
	}
	return env.Message, nil
}
