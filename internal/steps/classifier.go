// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-19
// Last Modified: 2026-10-19

// Package steps contains the pipeline steps that take one Dryad email
// from raw text to a tracker disposition.
// Each step implements the pipeline.Step interface.
package steps

import (
	"go.uber.org/zap"

	"github.com/ucsb-rds/dryad-curator/internal/core/pipeline"
	"github.com/ucsb-rds/dryad-curator/internal/email"
)

// Classifier determines the message type from marker phrases.
type Classifier struct {
	logger *zap.Logger
}

// NewClassifier creates a new classifier step.
func NewClassifier(deps *pipeline.Dependencies) *Classifier {
	return &Classifier{
		logger: deps.Log().With(zap.String("step", "classify")),
	}
}

// Name returns the step name.
func (s *Classifier) Name() string {
	return "classify"
}

// Run classifies the message.
func (s *Classifier) Run(ctx *pipeline.Context) error {
	t, err := email.Classify(ctx.Message.Text)
	if err != nil {
		return err
	}

	ctx.Type = t
	ctx.Result.MessageType = t
	s.logger.Info("classified email", zap.String("type", string(t)))
	return nil
}
