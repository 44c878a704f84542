// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-19

// Package pipeline provides the core pipeline engine for dryad-curator.
// It defines the Step interface and Context structure used by all pipeline steps.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/ucsb-rds/dryad-curator/internal/core/config"
	"github.com/ucsb-rds/dryad-curator/internal/curation"
	"github.com/ucsb-rds/dryad-curator/internal/email"
)

// ErrSkipPipeline indicates that the pipeline should stop gracefully.
// This is not an error condition, just an early exit.
var ErrSkipPipeline = errors.New("skip remaining pipeline steps")

// Step defines the interface that all pipeline steps must implement.
type Step interface {
	// Name returns the unique identifier for this step.
	Name() string

	// Run executes the step's logic.
	// It should return ErrSkipPipeline to stop the pipeline gracefully,
	// or any other error to indicate failure.
	Run(ctx *Context) error
}

// Result holds the accumulated results from pipeline execution.
type Result struct {
	MessageType email.MessageType `json:"message_type,omitempty"`
	DOI         string            `json:"doi,omitempty"`
	Disposition curation.Action   `json:"disposition,omitempty"`
	Message     string            `json:"message,omitempty"`
	IssueKey    string            `json:"issue_key,omitempty"`
	IssueStatus string            `json:"issue_status,omitempty"`
	Skipped     bool              `json:"skipped,omitempty"`
	SkipReason  string            `json:"skip_reason,omitempty"`
}

// Context carries data through the pipeline steps.
type Context struct {
	// Ctx is the Go context for cancellation.
	Ctx context.Context

	// Message is the email being processed.
	Message *email.Message

	// Config is the loaded configuration.
	Config *config.Config

	// Result accumulates the processing results.
	Result *Result

	// Type is set by the classify step.
	Type email.MessageType

	// Fields is set by the extract step.
	Fields *email.Fields

	// Issue is set by the locate step; nil when no curation issue matches.
	Issue *curation.Issue

	// Plan is set by the dispose step before it is executed.
	Plan *curation.Plan
}

// NewContext creates a new pipeline context for a message.
func NewContext(ctx context.Context, msg *email.Message, cfg *config.Config) *Context {
	return &Context{
		Ctx:     ctx,
		Message: msg,
		Config:  cfg,
		Result:  &Result{},
	}
}

// Pipeline executes a sequence of steps.
type Pipeline struct {
	steps []Step
}

// New creates a new pipeline with the given steps.
func New(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Run executes all steps in order.
// Stops on the first error (unless it's ErrSkipPipeline, which is graceful).
func (p *Pipeline) Run(ctx *Context) error {
	for _, step := range p.steps {
		if err := step.Run(ctx); err != nil {
			if errors.Is(err, ErrSkipPipeline) {
				// Graceful early exit
				return nil
			}
			return fmt.Errorf("step '%s' failed: %w", step.Name(), err)
		}
	}
	return nil
}

// Steps returns the list of steps (for introspection).
func (p *Pipeline) Steps() []Step {
	return p.steps
}
