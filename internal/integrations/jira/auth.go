// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-19
// Last Modified: 2026-10-19

package jira

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

// Auth holds the credentials for one client. Either Email and Token
// (basic auth with an Atlassian API token) or BearerToken (OAuth 2.0
// access token) must be set.
type Auth struct {
	Email       string
	Token       string
	BearerToken string
}

// CustomFields maps the curation fields to the site's custom field ids.
type CustomFields struct {
	DatasetName    string
	DOI            string
	Depositor      string
	CurationStatus string
}

// Config describes the Jira site and project a client works against.
type Config struct {
	// BaseURL is the REST API root, e.g. https://example.atlassian.net/rest/api/3
	BaseURL   string
	Project   string
	IssueType string
	Fields    CustomFields
	Auth      Auth
}

// Validate checks that every value the client needs is present.
func (c Config) Validate() error {
	var missing []string
	if c.BaseURL == "" {
		missing = append(missing, "base_url")
	}
	if c.Project == "" {
		missing = append(missing, "project")
	}
	if c.IssueType == "" {
		missing = append(missing, "issue_type")
	}
	if c.Fields.DatasetName == "" || c.Fields.DOI == "" || c.Fields.Depositor == "" || c.Fields.CurationStatus == "" {
		missing = append(missing, "fields")
	}
	if len(missing) > 0 {
		return fmt.Errorf("jira config incomplete: missing %s", strings.Join(missing, ", "))
	}
	if c.Auth.BearerToken == "" && (c.Auth.Email == "" || c.Auth.Token == "") {
		return errors.New("jira credentials required: email and token, or bearer token")
	}
	return nil
}

// ParseCredentials splits an "email:token" argument at the first colon.
func ParseCredentials(s string) (Auth, error) {
	email, token, ok := strings.Cut(s, ":")
	if !ok || email == "" || token == "" {
		return Auth{}, errors.New("credentials must be in the form email:token")
	}
	return Auth{Email: email, Token: token}, nil
}

// NewClient creates a client for the configured site. Bearer tokens are
// sent through an oauth2 transport; email/token pairs use basic auth.
func NewClient(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var hc *http.Client
	if cfg.Auth.BearerToken != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: cfg.Auth.BearerToken},
		)
		hc = oauth2.NewClient(ctx, ts)
	} else {
		hc = &http.Client{}
	}

	c := &Client{
		cfg:        cfg,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: hc,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}
