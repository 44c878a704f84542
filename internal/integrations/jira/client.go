// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-19
// Last Modified: 2026-10-19

// Package jira is a minimal Jira Cloud REST v3 client covering the calls
// needed to maintain curation issues.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ErrUnexpectedResponse is wrapped by every ResponseError.
var ErrUnexpectedResponse = errors.New("API unexpected response")

// APIError is returned when Jira answers with a status code other than
// the one the call expects.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API call failed: %s %s: status code %d, %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// ResponseError is returned when a successful response does not have the
// expected JSON shape.
type ResponseError struct {
	Path   string
	Body   string
	Reason string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%v from %s (%s): %s", ErrUnexpectedResponse, e.Path, e.Reason, e.Body)
}

func (e *ResponseError) Unwrap() error {
	return ErrUnexpectedResponse
}

// Client talks to one Jira site.
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	observe    func(method string, statusCode int)
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. The client is used as-is, so
// bearer-token auth must already be applied by its transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRequestObserver registers a callback invoked after every response.
func WithRequestObserver(fn func(method string, statusCode int)) Option {
	return func(c *Client) {
		c.observe = fn
	}
}

// Issue is an issue as returned by the search endpoint.
type Issue struct {
	ID     string                     `json:"id"`
	Key    string                     `json:"key"`
	Fields map[string]json.RawMessage `json:"fields"`
}

// SearchResult is one page of search results.
type SearchResult struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// StatusName returns fields.status.name.
func (i Issue) StatusName() (string, error) {
	raw, ok := i.Fields["status"]
	if !ok {
		return "", fmt.Errorf("issue %s has no status field", i.Key)
	}
	var status struct {
		Name *string `json:"name"`
	}
	if err := json.Unmarshal(raw, &status); err != nil || status.Name == nil {
		return "", fmt.Errorf("issue %s has malformed status field", i.Key)
	}
	return *status.Name, nil
}

// StringField returns a plain string custom field. A missing or null field
// yields "".
func (i Issue) StringField(id string) (string, error) {
	raw, ok := i.Fields[id]
	if !ok || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("issue %s field %s is not a string", i.Key, id)
	}
	return s, nil
}

// Transition is one workflow transition available from an issue's current status.
type Transition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	To   struct {
		Name string `json:"name"`
	} `json:"to"`
}

// SearchIssues returns one page of issues matching jql, starting at startAt.
func (c *Client) SearchIssues(ctx context.Context, jql string, startAt int, fields []string) (*SearchResult, error) {
	query := url.Values{}
	query.Set("jql", jql)
	query.Set("startAt", strconv.Itoa(startAt))
	query.Set("fields", strings.Join(fields, ","))

	path := "/search?" + query.Encode()
	body, err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var result SearchResult
	var shape struct {
		Issues *[]Issue `json:"issues"`
	}
	if err := json.Unmarshal(body, &shape); err != nil || shape.Issues == nil {
		return nil, &ResponseError{Path: path, Body: string(body), Reason: "missing issues array"}
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &ResponseError{Path: path, Body: string(body), Reason: err.Error()}
	}
	return &result, nil
}

// CreateIssue creates an issue in the configured project and returns its key.
func (c *Client) CreateIssue(ctx context.Context, fields IssueFields) (string, error) {
	payload, err := fields.payload(c.cfg)
	if err != nil {
		return "", err
	}

	body, err := c.do(ctx, http.MethodPost, "/issue", payload, http.StatusCreated)
	if err != nil {
		return "", err
	}

	var created struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(body, &created); err != nil || created.Key == "" {
		return "", &ResponseError{Path: "/issue", Body: string(body), Reason: "missing issue key"}
	}
	return created.Key, nil
}

// GetTransitions lists the transitions allowed from the issue's current status.
func (c *Client) GetTransitions(ctx context.Context, key string) ([]Transition, error) {
	path := "/issue/" + url.PathEscape(key) + "/transitions"
	body, err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var result struct {
		Transitions *[]Transition `json:"transitions"`
	}
	if err := json.Unmarshal(body, &result); err != nil || result.Transitions == nil {
		return nil, &ResponseError{Path: path, Body: string(body), Reason: "missing transitions array"}
	}
	return *result.Transitions, nil
}

// DoTransition applies a workflow transition by id.
func (c *Client) DoTransition(ctx context.Context, key, transitionID string) error {
	payload := map[string]interface{}{
		"transition": map[string]string{"id": transitionID},
	}
	_, err := c.do(ctx, http.MethodPost, "/issue/"+url.PathEscape(key)+"/transitions", payload, http.StatusNoContent)
	return err
}

// UpdateFields applies the updates to an issue in a single edit call.
func (c *Client) UpdateFields(ctx context.Context, key string, updates ...FieldUpdate) error {
	if len(updates) == 0 {
		return fmt.Errorf("no field updates for issue %s", key)
	}

	fields := make(map[string]interface{}, len(updates))
	for _, u := range updates {
		if err := u.apply(fields, c.cfg.Fields); err != nil {
			return err
		}
	}

	_, err := c.do(ctx, http.MethodPut, "/issue/"+url.PathEscape(key), map[string]interface{}{"fields": fields}, http.StatusNoContent)
	return err
}

// GetIssue returns the raw JSON of an issue.
func (c *Client) GetIssue(ctx context.Context, key string) (json.RawMessage, error) {
	path := "/issue/" + url.PathEscape(key)
	body, err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &ResponseError{Path: path, Body: string(body), Reason: "invalid JSON"}
	}
	return json.RawMessage(body), nil
}

// do performs one API call and fails unless Jira answers with successCode.
func (c *Client) do(ctx context.Context, method, path string, payload interface{}, successCode int) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.Auth.BearerToken == "" && c.cfg.Auth.Email != "" {
		req.SetBasicAuth(c.cfg.Auth.Email, c.cfg.Auth.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if c.observe != nil {
		c.observe(method, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != successCode {
		return nil, &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
