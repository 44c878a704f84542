// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-19
// Last Modified: 2026-10-19

// Package curation reconciles Dryad emails against Jira curation issues.
package curation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ucsb-rds/dryad-curator/internal/integrations/jira"
)

// Tracker is the subset of the Jira API the reconciler needs.
type Tracker interface {
	SearchIssues(ctx context.Context, jql string, startAt int, fields []string) (*jira.SearchResult, error)
	CreateIssue(ctx context.Context, fields jira.IssueFields) (string, error)
	GetTransitions(ctx context.Context, key string) ([]jira.Transition, error)
	DoTransition(ctx context.Context, key, transitionID string) error
	UpdateFields(ctx context.Context, key string, updates ...jira.FieldUpdate) error
}

// Issue is a curation issue as seen by the reconciler. DOI is empty when
// the issue's DOI field is unset.
type Issue struct {
	Key    string
	Status string
	DOI    string
}

// MultipleMatchesError means more than one curation issue carries the DOI.
type MultipleMatchesError struct {
	DOI  string
	Keys []string
}

func (e *MultipleMatchesError) Error() string {
	return fmt.Sprintf("multiple curation issues match doi %s: %s", e.DOI, strings.Join(e.Keys, ", "))
}

// Locator finds the curation issue for a DOI.
//
// The DOI is a custom field that JQL cannot filter on, so every lookup
// downloads all curation issues and scans them. Cost grows with the number
// of issues; results are never cached so a lookup always reflects the
// tracker's current state.
type Locator struct {
	tracker  Tracker
	jql      string
	doiField string
}

// NewLocator creates a locator over the issues of one project and issue type.
func NewLocator(tracker Tracker, project, issueType, doiField string) *Locator {
	return &Locator{
		tracker:  tracker,
		jql:      fmt.Sprintf("project=%s and issuetype=%s", project, issueType),
		doiField: doiField,
	}
}

// All returns every curation issue, paging until an empty page.
func (l *Locator) All(ctx context.Context) ([]Issue, error) {
	var issues []Issue
	start := 0
	for {
		page, err := l.tracker.SearchIssues(ctx, l.jql, start, []string{"status", l.doiField})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch curation issues: %w", err)
		}
		if len(page.Issues) == 0 {
			break
		}
		for _, raw := range page.Issues {
			issue, err := l.decode(raw)
			if err != nil {
				return nil, err
			}
			issues = append(issues, issue)
		}
		start += len(page.Issues)
	}
	return issues, nil
}

// FindByDOI returns the single issue carrying doi, or nil if none does.
func (l *Locator) FindByDOI(ctx context.Context, doi string) (*Issue, error) {
	if doi == "" {
		return nil, errors.New("doi cannot be empty")
	}

	issues, err := l.All(ctx)
	if err != nil {
		return nil, err
	}

	var matches []Issue
	for _, issue := range issues {
		if issue.DOI == doi {
			matches = append(matches, issue)
		}
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return &matches[0], nil
	default:
		keys := make([]string, len(matches))
		for i, m := range matches {
			keys[i] = m.Key
		}
		return nil, &MultipleMatchesError{DOI: doi, Keys: keys}
	}
}

func (l *Locator) decode(raw jira.Issue) (Issue, error) {
	status, err := raw.StatusName()
	if err != nil {
		return Issue{}, &jira.ResponseError{Path: "/search", Reason: err.Error()}
	}
	doi, err := raw.StringField(l.doiField)
	if err != nil {
		return Issue{}, &jira.ResponseError{Path: "/search", Reason: err.Error()}
	}
	return Issue{Key: raw.Key, Status: status, DOI: doi}, nil
}
