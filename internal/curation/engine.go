// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-19
// Last Modified: 2026-10-19

package curation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ucsb-rds/dryad-curator/internal/email"
	"github.com/ucsb-rds/dryad-curator/internal/integrations/jira"
)

// Workflow statuses and resolutions of the curation issue type.
const (
	StatusWaitingOnPeerReview = "Waiting on Peer Review"
	StatusInProgress          = "In Progress"
	StatusToDo                = "To Do"
	StatusResolved            = "Resolved"

	ResolutionWontDo = "Won't Do"
)

// Action is the kind of disposition applied to an email.
type Action string

const (
	ActionCreate     Action = "create"
	ActionTransition Action = "transition"
	ActionIgnore     Action = "ignore"
)

// Plan is the full list of tracker writes for one email, decided before
// any of them is made.
type Plan struct {
	Action   Action
	Message  string
	IssueKey string

	// Create is set for ActionCreate.
	Create *jira.IssueFields

	// Path lists the statuses to move through, one transition each.
	Path []string

	// Updates are applied in one edit after the last transition.
	Updates []jira.FieldUpdate
}

// Outcome reports what Execute did.
type Outcome struct {
	Action   Action
	Message  string
	IssueKey string
}

// TransitionNotAllowedError means the workflow offers no transition from
// the issue's current status to the requested one.
type TransitionNotAllowedError struct {
	Key       string
	Status    string
	Available []string
}

func (e *TransitionNotAllowedError) Error() string {
	return fmt.Sprintf("issue %s: new status %q not found in allowable transitions [%s]",
		e.Key, e.Status, strings.Join(e.Available, ", "))
}

// Engine decides and applies dispositions.
type Engine struct {
	tracker Tracker
	logger  *zap.Logger
}

// NewEngine creates an engine. A nil logger discards output.
func NewEngine(tracker Tracker, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{tracker: tracker, logger: logger}
}

// Decide returns the plan for an email. It performs no I/O, so the same
// inputs always give the same plan.
func (e *Engine) Decide(t email.MessageType, fields *email.Fields, issue *Issue, body string) (*Plan, error) {
	switch t {
	case email.TypeSubmission:
		return decideSubmission(fields, issue, body)
	case email.TypeWithdrawal:
		return decideWithdrawal(issue)
	default:
		return &Plan{
			Action:  ActionIgnore,
			Message: UnhandledMessage(t),
		}, nil
	}
}

// UnhandledMessage is the disposition message for types that never change
// the tracker.
func UnhandledMessage(t email.MessageType) string {
	return fmt.Sprintf("%s email, ignoring", t)
}

func decideSubmission(fields *email.Fields, issue *Issue, body string) (*Plan, error) {
	if issue == nil {
		if fields == nil || fields.DOI == "" {
			return nil, fmt.Errorf("submission has no doi")
		}
		return &Plan{
			Action:  ActionCreate,
			Message: "creating new issue",
			Create: &jira.IssueFields{
				Summary:        "Dryad curation doi:" + fields.DOI,
				Description:    jira.TextToADF(body),
				DatasetName:    fields.DatasetName,
				DOI:            fields.DOI,
				Depositor:      fields.Depositor,
				CurationStatus: jira.CurationSubmitted,
			},
		}, nil
	}

	if issue.Status != StatusWaitingOnPeerReview {
		return &Plan{
			Action:   ActionIgnore,
			Message:  "issue already exists, ignoring",
			IssueKey: issue.Key,
		}, nil
	}

	status, err := jira.SetCurationStatus(jira.CurationSubmitted)
	if err != nil {
		return nil, err
	}
	// The workflow has no direct Waiting on Peer Review -> To Do transition.
	return &Plan{
		Action:   ActionTransition,
		Message:  "issue already exists, is PPR, changing to To Do",
		IssueKey: issue.Key,
		Path:     []string{StatusInProgress, StatusToDo},
		Updates:  []jira.FieldUpdate{jira.ClearAssignee(), status},
	}, nil
}

func decideWithdrawal(issue *Issue) (*Plan, error) {
	if issue == nil {
		return &Plan{
			Action:  ActionIgnore,
			Message: "no issue for withdrawn dataset, ignoring",
		}, nil
	}
	if issue.Status == StatusResolved {
		return &Plan{
			Action:   ActionIgnore,
			Message:  "issue already resolved, ignoring",
			IssueKey: issue.Key,
		}, nil
	}

	resolution, err := jira.SetResolution(ResolutionWontDo)
	if err != nil {
		return nil, err
	}
	status, err := jira.SetCurationStatus(jira.CurationWithdrawn)
	if err != nil {
		return nil, err
	}

	path := []string{StatusInProgress, StatusResolved}
	if issue.Status == StatusInProgress {
		path = []string{StatusResolved}
	}
	return &Plan{
		Action:   ActionTransition,
		Message:  "dataset withdrawn, resolving issue",
		IssueKey: issue.Key,
		Path:     path,
		Updates:  []jira.FieldUpdate{resolution, status},
	}, nil
}

// Execute applies a plan. It stops at the first failed call; writes
// already made are not undone.
func (e *Engine) Execute(ctx context.Context, plan *Plan) (*Outcome, error) {
	out := &Outcome{Action: plan.Action, Message: plan.Message, IssueKey: plan.IssueKey}

	switch plan.Action {
	case ActionIgnore:
		e.logger.Info("ignoring email", zap.String("reason", plan.Message), zap.String("issue", plan.IssueKey))
		return out, nil

	case ActionCreate:
		key, err := e.tracker.CreateIssue(ctx, *plan.Create)
		if err != nil {
			return nil, fmt.Errorf("failed to create curation issue: %w", err)
		}
		e.logger.Info("created curation issue", zap.String("issue", key), zap.String("doi", plan.Create.DOI))
		out.IssueKey = key
		return out, nil

	case ActionTransition:
		for _, status := range plan.Path {
			if err := e.ChangeStatus(ctx, plan.IssueKey, status); err != nil {
				return nil, err
			}
		}
		if len(plan.Updates) > 0 {
			if err := e.tracker.UpdateFields(ctx, plan.IssueKey, plan.Updates...); err != nil {
				return nil, fmt.Errorf("failed to update issue %s: %w", plan.IssueKey, err)
			}
			e.logger.Info("updated issue fields", zap.String("issue", plan.IssueKey), zap.Stringers("updates", plan.Updates))
		}
		return out, nil
	}

	return nil, fmt.Errorf("unknown disposition action %q", plan.Action)
}

// ChangeStatus moves an issue to status using the transition the workflow
// offers from its current status.
func (e *Engine) ChangeStatus(ctx context.Context, key, status string) error {
	transitions, err := e.tracker.GetTransitions(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to list transitions for %s: %w", key, err)
	}

	var available []string
	for _, t := range transitions {
		if t.To.Name == status {
			if err := e.tracker.DoTransition(ctx, key, t.ID); err != nil {
				return fmt.Errorf("failed to move %s to %q: %w", key, status, err)
			}
			e.logger.Info("changed issue status", zap.String("issue", key), zap.String("status", status))
			return nil
		}
		available = append(available, t.To.Name)
	}
	return &TransitionNotAllowedError{Key: key, Status: status, Available: available}
}
