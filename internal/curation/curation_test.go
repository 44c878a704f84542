// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-19
// Last Modified: 2026-10-19

package curation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ucsb-rds/dryad-curator/internal/email"
	"github.com/ucsb-rds/dryad-curator/internal/integrations/jira"
)

const testDOI = "10.5061/dryad.abc123"

func newLocator(tr *fakeTracker) *Locator {
	return NewLocator(tr, "RDS", "Curation", doiField)
}

func TestLocatorPagesUntilEmpty(t *testing.T) {
	tr := newFakeTracker(
		fakeIssue{key: "RDS-1", status: StatusToDo, doi: strPtr("10.5061/dryad.a")},
		fakeIssue{key: "RDS-2", status: StatusResolved, doi: nil},
		fakeIssue{key: "RDS-3", status: StatusInProgress, doi: strPtr(testDOI)},
	)

	all, err := newLocator(tr).All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Issue{
		{Key: "RDS-1", Status: StatusToDo, DOI: "10.5061/dryad.a"},
		{Key: "RDS-2", Status: StatusResolved, DOI: ""},
		{Key: "RDS-3", Status: StatusInProgress, DOI: testDOI},
	}, all)
	assert.Equal(t, []string{"search 0", "search 2", "search 3"}, tr.calls)
}

func TestFindByDOI(t *testing.T) {
	tr := newFakeTracker(
		fakeIssue{key: "RDS-1", status: StatusToDo, doi: strPtr("10.5061/dryad.a")},
		fakeIssue{key: "RDS-3", status: StatusInProgress, doi: strPtr(testDOI)},
	)
	loc := newLocator(tr)

	issue, err := loc.FindByDOI(context.Background(), testDOI)
	require.NoError(t, err)
	require.NotNil(t, issue)
	assert.Equal(t, "RDS-3", issue.Key)

	again, err := loc.FindByDOI(context.Background(), testDOI)
	require.NoError(t, err)
	assert.Equal(t, issue, again)

	none, err := loc.FindByDOI(context.Background(), "10.5061/dryad.zzz")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestFindByDOIIgnoresIssuesWithoutDOI(t *testing.T) {
	tr := newFakeTracker(fakeIssue{key: "RDS-1", status: StatusToDo})

	_, err := newLocator(tr).FindByDOI(context.Background(), "")
	assert.Error(t, err)

	issue, err := newLocator(tr).FindByDOI(context.Background(), testDOI)
	require.NoError(t, err)
	assert.Nil(t, issue)
}

func TestFindByDOIMultipleMatches(t *testing.T) {
	tr := newFakeTracker(
		fakeIssue{key: "RDS-1", status: StatusToDo, doi: strPtr(testDOI)},
		fakeIssue{key: "RDS-2", status: StatusToDo, doi: strPtr("other")},
		fakeIssue{key: "RDS-3", status: StatusResolved, doi: strPtr(testDOI)},
	)

	_, err := newLocator(tr).FindByDOI(context.Background(), testDOI)
	var multi *MultipleMatchesError
	require.ErrorAs(t, err, &multi)
	assert.Equal(t, []string{"RDS-1", "RDS-3"}, multi.Keys)
	assert.Equal(t, testDOI, multi.DOI)
}

func TestFindByDOISearchFailure(t *testing.T) {
	tr := newFakeTracker(fakeIssue{key: "RDS-1", status: StatusToDo})
	tr.failCall = "search"

	_, err := newLocator(tr).FindByDOI(context.Background(), testDOI)
	assert.ErrorContains(t, err, "failed to fetch curation issues")
}

// dispose runs Decide and Execute the way the pipeline does.
func dispose(t *testing.T, tr *fakeTracker, typ email.MessageType, fields *email.Fields, body string) (*Outcome, error) {
	t.Helper()
	ctx := context.Background()

	var issue *Issue
	if fields != nil && fields.DOI != "" {
		var err error
		issue, err = newLocator(tr).FindByDOI(ctx, fields.DOI)
		require.NoError(t, err)
	}

	engine := NewEngine(tr, nil)
	plan, err := engine.Decide(typ, fields, issue, body)
	require.NoError(t, err)
	return engine.Execute(ctx, plan)
}

func submissionFields() *email.Fields {
	return &email.Fields{DOI: testDOI, DatasetName: "Kelp forest survey", Depositor: "Jane Doe"}
}

func TestSubmissionCreatesIssue(t *testing.T) {
	tr := newFakeTracker(fakeIssue{key: "RDS-1", status: StatusToDo, doi: strPtr("other")})
	body := "Dear Jane Doe,\n\nThank you.\n"

	out, err := dispose(t, tr, email.TypeSubmission, submissionFields(), body)
	require.NoError(t, err)
	assert.Equal(t, ActionCreate, out.Action)
	assert.Equal(t, "RDS-101", out.IssueKey)
	assert.Equal(t, "creating new issue", out.Message)

	assert.Equal(t, []string{"create"}, tr.writes())
	require.Len(t, tr.created, 1)
	created := tr.created[0]
	assert.Equal(t, jira.CurationSubmitted, created.CurationStatus)
	assert.Equal(t, "Dryad curation doi:"+testDOI, created.Summary)
	assert.Equal(t, testDOI, created.DOI)
	assert.Equal(t, "Kelp forest survey", created.DatasetName)
	assert.Equal(t, "Jane Doe", created.Depositor)
	assert.Len(t, created.Description.Paragraphs(), 2)
}

func TestSubmissionWaitingOnPeerReview(t *testing.T) {
	tr := newFakeTracker(fakeIssue{key: "RDS-5", status: StatusWaitingOnPeerReview, doi: strPtr(testDOI)})

	out, err := dispose(t, tr, email.TypeSubmission, submissionFields(), "")
	require.NoError(t, err)
	assert.Equal(t, ActionTransition, out.Action)
	assert.Equal(t, "RDS-5", out.IssueKey)

	assert.Equal(t, []string{
		"transition RDS-5 -> In Progress",
		"transition RDS-5 -> To Do",
		"update RDS-5 assignee=<none>,curation_status=Submitted",
	}, tr.writes())
	assert.Equal(t, StatusToDo, tr.find("RDS-5").status)
}

func TestSubmissionExistingIssueIgnored(t *testing.T) {
	for _, status := range []string{StatusToDo, StatusInProgress, StatusResolved} {
		t.Run(status, func(t *testing.T) {
			tr := newFakeTracker(fakeIssue{key: "RDS-5", status: status, doi: strPtr(testDOI)})

			out, err := dispose(t, tr, email.TypeSubmission, submissionFields(), "")
			require.NoError(t, err)
			assert.Equal(t, ActionIgnore, out.Action)
			assert.Equal(t, "RDS-5", out.IssueKey)
			assert.Empty(t, tr.writes())
		})
	}
}

func TestWithdrawalFromToDo(t *testing.T) {
	tr := newFakeTracker(fakeIssue{key: "RDS-7", status: StatusToDo, doi: strPtr(testDOI)})

	out, err := dispose(t, tr, email.TypeWithdrawal, &email.Fields{DOI: testDOI}, "")
	require.NoError(t, err)
	assert.Equal(t, ActionTransition, out.Action)
	assert.Equal(t, []string{
		"transition RDS-7 -> In Progress",
		"transition RDS-7 -> Resolved",
		"update RDS-7 resolution=Won't Do,curation_status=Withdrawn",
	}, tr.writes())
}

func TestWithdrawalFromInProgress(t *testing.T) {
	tr := newFakeTracker(fakeIssue{key: "RDS-7", status: StatusInProgress, doi: strPtr(testDOI)})

	_, err := dispose(t, tr, email.TypeWithdrawal, &email.Fields{DOI: testDOI}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"transition RDS-7 -> Resolved",
		"update RDS-7 resolution=Won't Do,curation_status=Withdrawn",
	}, tr.writes())
}

func TestWithdrawalNoOps(t *testing.T) {
	t.Run("resolved", func(t *testing.T) {
		tr := newFakeTracker(fakeIssue{key: "RDS-7", status: StatusResolved, doi: strPtr(testDOI)})
		out, err := dispose(t, tr, email.TypeWithdrawal, &email.Fields{DOI: testDOI}, "")
		require.NoError(t, err)
		assert.Equal(t, ActionIgnore, out.Action)
		assert.Empty(t, tr.writes())
	})

	t.Run("no issue", func(t *testing.T) {
		tr := newFakeTracker()
		out, err := dispose(t, tr, email.TypeWithdrawal, &email.Fields{DOI: testDOI}, "")
		require.NoError(t, err)
		assert.Equal(t, ActionIgnore, out.Action)
		assert.Empty(t, tr.writes())
	})
}

func TestUnhandledTypesIgnored(t *testing.T) {
	for _, typ := range []email.MessageType{email.TypePublication, email.TypePeerReview} {
		tr := newFakeTracker(fakeIssue{key: "RDS-1", status: StatusToDo, doi: strPtr(testDOI)})
		out, err := dispose(t, tr, typ, &email.Fields{}, "")
		require.NoError(t, err)
		assert.Equal(t, ActionIgnore, out.Action)
		assert.Contains(t, out.Message, "ignoring")
		assert.Empty(t, tr.calls)
	}
}

func TestDecideIsDeterministic(t *testing.T) {
	engine := NewEngine(newFakeTracker(), nil)
	issue := &Issue{Key: "RDS-9", Status: StatusWaitingOnPeerReview, DOI: testDOI}

	a, err := engine.Decide(email.TypeSubmission, submissionFields(), issue, "body")
	require.NoError(t, err)
	b, err := engine.Decide(email.TypeSubmission, submissionFields(), issue, "body")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMissingTransitionIsFatal(t *testing.T) {
	tr := newFakeTracker(fakeIssue{key: "RDS-5", status: StatusWaitingOnPeerReview, doi: strPtr(testDOI)})
	tr.workflow[StatusWaitingOnPeerReview] = []string{StatusResolved}

	_, err := dispose(t, tr, email.TypeSubmission, submissionFields(), "")
	var notAllowed *TransitionNotAllowedError
	require.ErrorAs(t, err, &notAllowed)
	assert.Equal(t, StatusInProgress, notAllowed.Status)
	assert.Equal(t, []string{StatusResolved}, notAllowed.Available)
	assert.Empty(t, tr.writes())
}

func TestSecondHopMissingStopsBeforeUpdate(t *testing.T) {
	tr := newFakeTracker(fakeIssue{key: "RDS-5", status: StatusWaitingOnPeerReview, doi: strPtr(testDOI)})
	tr.workflow[StatusInProgress] = []string{StatusResolved}

	_, err := dispose(t, tr, email.TypeSubmission, submissionFields(), "")
	var notAllowed *TransitionNotAllowedError
	require.True(t, errors.As(err, &notAllowed))
	assert.Equal(t, StatusToDo, notAllowed.Status)
	assert.Equal(t, []string{"transition RDS-5 -> In Progress"}, tr.writes())
}

func TestCreateFailurePropagates(t *testing.T) {
	tr := newFakeTracker()
	tr.failCall = "create"

	_, err := dispose(t, tr, email.TypeSubmission, submissionFields(), "")
	assert.ErrorContains(t, err, "failed to create curation issue")
}
