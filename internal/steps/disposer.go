// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-19
// Last Modified: 2026-10-19

package steps

import (
	"errors"

	"go.uber.org/zap"

	"github.com/ucsb-rds/dryad-curator/internal/core/pipeline"
	"github.com/ucsb-rds/dryad-curator/internal/curation"
)

// Disposer decides and applies the tracker change for the email.
type Disposer struct {
	engine *curation.Engine
	logger *zap.Logger
}

// NewDisposer creates a new dispose step.
func NewDisposer(deps *pipeline.Dependencies) (*Disposer, error) {
	if deps.Engine == nil {
		return nil, errors.New("dispose step requires a disposition engine")
	}
	return &Disposer{
		engine: deps.Engine,
		logger: deps.Log().With(zap.String("step", "dispose")),
	}, nil
}

// Name returns the step name.
func (s *Disposer) Name() string {
	return "dispose"
}

// Run executes the disposition.
func (s *Disposer) Run(ctx *pipeline.Context) error {
	plan, err := s.engine.Decide(ctx.Type, ctx.Fields, ctx.Issue, ctx.Message.Text)
	if err != nil {
		return err
	}
	ctx.Plan = plan
	s.logger.Info("disposition decided",
		zap.String("action", string(plan.Action)),
		zap.String("message", plan.Message),
		zap.Strings("path", plan.Path))

	outcome, err := s.engine.Execute(ctx.Ctx, plan)
	if err != nil {
		return err
	}

	ctx.Result.Disposition = outcome.Action
	ctx.Result.Message = outcome.Message
	if outcome.IssueKey != "" {
		ctx.Result.IssueKey = outcome.IssueKey
	}
	return nil
}
