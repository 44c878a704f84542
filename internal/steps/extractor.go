// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-19
// Last Modified: 2026-10-19

package steps

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ucsb-rds/dryad-curator/internal/core/pipeline"
	"github.com/ucsb-rds/dryad-curator/internal/curation"
	"github.com/ucsb-rds/dryad-curator/internal/email"
)

// Extractor pulls the identifying fields for the classified message type.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates a new extractor step.
func NewExtractor(deps *pipeline.Dependencies) *Extractor {
	return &Extractor{
		logger: deps.Log().With(zap.String("step", "extract")),
	}
}

// Name returns the step name.
func (s *Extractor) Name() string {
	return "extract"
}

// Run extracts all fields or fails. Types that never change the tracker
// end the pipeline here with an ignore disposition.
func (s *Extractor) Run(ctx *pipeline.Context) error {
	if ctx.Type == "" {
		return fmt.Errorf("message has not been classified")
	}

	if !ctx.Type.Handled() {
		ctx.Fields = &email.Fields{}
		ctx.Result.Disposition = curation.ActionIgnore
		ctx.Result.Message = curation.UnhandledMessage(ctx.Type)
		ctx.Result.Skipped = true
		ctx.Result.SkipReason = ctx.Result.Message
		s.logger.Info("ignoring email", zap.String("type", string(ctx.Type)))
		return pipeline.ErrSkipPipeline
	}

	fields, err := email.Extract(ctx.Type, ctx.Message.Text)
	if err != nil {
		return err
	}

	ctx.Fields = fields
	ctx.Result.DOI = fields.DOI
	s.logger.Info("extracted fields",
		zap.String("doi", fields.DOI),
		zap.String("dataset_name", fields.DatasetName),
		zap.String("depositor", fields.Depositor))
	return nil
}
