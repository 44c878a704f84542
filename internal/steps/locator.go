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

// Locator finds the curation issue for the extracted DOI.
type Locator struct {
	locator *curation.Locator
	logger  *zap.Logger
}

// NewLocator creates a new locate step.
func NewLocator(deps *pipeline.Dependencies) (*Locator, error) {
	if deps.Locator == nil {
		return nil, errors.New("locate step requires an issue locator")
	}
	return &Locator{
		locator: deps.Locator,
		logger:  deps.Log().With(zap.String("step", "locate")),
	}, nil
}

// Name returns the step name.
func (s *Locator) Name() string {
	return "locate"
}

// Run looks up the issue. Messages without a DOI skip the lookup.
func (s *Locator) Run(ctx *pipeline.Context) error {
	if ctx.Fields == nil || ctx.Fields.DOI == "" {
		s.logger.Debug("no doi extracted, skipping lookup")
		return nil
	}

	issue, err := s.locator.FindByDOI(ctx.Ctx, ctx.Fields.DOI)
	if err != nil {
		return err
	}

	ctx.Issue = issue
	if issue == nil {
		s.logger.Info("no curation issue for doi", zap.String("doi", ctx.Fields.DOI))
		return nil
	}

	ctx.Result.IssueKey = issue.Key
	ctx.Result.IssueStatus = issue.Status
	s.logger.Info("found curation issue",
		zap.String("doi", ctx.Fields.DOI),
		zap.String("issue", issue.Key),
		zap.String("status", issue.Status))
	return nil
}
