// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-19
// Last Modified: 2026-10-19

package curation

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ucsb-rds/dryad-curator/internal/integrations/jira"
)

const doiField = "customfield_10396"

// fakeTracker is an in-memory tracker that records every call in order.
type fakeTracker struct {
	issues   []fakeIssue
	pageSize int

	// workflow maps a status to the statuses reachable from it.
	workflow map[string][]string

	calls    []string
	created  []jira.IssueFields
	updates  map[string][]jira.FieldUpdate
	failCall string
}

type fakeIssue struct {
	key    string
	status string
	doi    *string
}

func newFakeTracker(issues ...fakeIssue) *fakeTracker {
	return &fakeTracker{
		issues:   issues,
		pageSize: 2,
		workflow: map[string][]string{
			StatusWaitingOnPeerReview: {StatusInProgress},
			StatusToDo:                {StatusInProgress},
			StatusInProgress:          {StatusToDo, StatusResolved, StatusWaitingOnPeerReview},
			StatusResolved:            {StatusToDo},
		},
		updates: map[string][]jira.FieldUpdate{},
	}
}

func strPtr(s string) *string { return &s }

func (f *fakeTracker) record(call string) error {
	f.calls = append(f.calls, call)
	if f.failCall != "" && strings.HasPrefix(call, f.failCall) {
		return fmt.Errorf("injected failure on %s", call)
	}
	return nil
}

func (f *fakeTracker) find(key string) *fakeIssue {
	for i := range f.issues {
		if f.issues[i].key == key {
			return &f.issues[i]
		}
	}
	return nil
}

func (f *fakeTracker) SearchIssues(ctx context.Context, jql string, startAt int, fields []string) (*jira.SearchResult, error) {
	if err := f.record("search " + strconv.Itoa(startAt)); err != nil {
		return nil, err
	}
	res := &jira.SearchResult{StartAt: startAt, Issues: []jira.Issue{}}
	for i := startAt; i < len(f.issues) && i < startAt+f.pageSize; i++ {
		is := f.issues[i]
		doi := "null"
		if is.doi != nil {
			doi = strconv.Quote(*is.doi)
		}
		res.Issues = append(res.Issues, jira.Issue{
			Key: is.key,
			Fields: map[string]json.RawMessage{
				"status": json.RawMessage(`{"name":` + strconv.Quote(is.status) + `}`),
				doiField: json.RawMessage(doi),
			},
		})
	}
	return res, nil
}

func (f *fakeTracker) CreateIssue(ctx context.Context, fields jira.IssueFields) (string, error) {
	if err := f.record("create"); err != nil {
		return "", err
	}
	f.created = append(f.created, fields)
	key := fmt.Sprintf("RDS-%d", 100+len(f.created))
	f.issues = append(f.issues, fakeIssue{key: key, status: StatusToDo, doi: strPtr(fields.DOI)})
	return key, nil
}

func (f *fakeTracker) GetTransitions(ctx context.Context, key string) ([]jira.Transition, error) {
	if err := f.record("transitions " + key); err != nil {
		return nil, err
	}
	issue := f.find(key)
	if issue == nil {
		return nil, fmt.Errorf("no issue %s", key)
	}
	var out []jira.Transition
	for i, to := range f.workflow[issue.status] {
		t := jira.Transition{ID: strconv.Itoa(i + 1), Name: "to " + to}
		t.To.Name = to
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTracker) DoTransition(ctx context.Context, key, transitionID string) error {
	issue := f.find(key)
	idx, _ := strconv.Atoi(transitionID)
	to := f.workflow[issue.status][idx-1]
	if err := f.record("transition " + key + " -> " + to); err != nil {
		return err
	}
	issue.status = to
	return nil
}

func (f *fakeTracker) UpdateFields(ctx context.Context, key string, updates ...jira.FieldUpdate) error {
	parts := make([]string, len(updates))
	for i, u := range updates {
		parts[i] = u.String()
	}
	if err := f.record("update " + key + " " + strings.Join(parts, ",")); err != nil {
		return err
	}
	f.updates[key] = append(f.updates[key], updates...)
	return nil
}

// writes returns the recorded calls that change tracker state.
func (f *fakeTracker) writes() []string {
	var out []string
	for _, c := range f.calls {
		if strings.HasPrefix(c, "create") || strings.HasPrefix(c, "transition ") || strings.HasPrefix(c, "update ") {
			out = append(out, c)
		}
	}
	return out
}
