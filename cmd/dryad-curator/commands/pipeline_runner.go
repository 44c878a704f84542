// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-19

package commands

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/ucsb-rds/dryad-curator/internal/core/config"
	"github.com/ucsb-rds/dryad-curator/internal/core/pipeline"
	"github.com/ucsb-rds/dryad-curator/internal/email"
	"github.com/ucsb-rds/dryad-curator/internal/steps"
	"github.com/ucsb-rds/dryad-curator/internal/tui"
)

// Wrapper step to send status updates
type statusReportingStep struct {
	inner      pipeline.Step
	statusChan chan<- tui.PipelineStatusMsg
}

func (s *statusReportingStep) Name() string {
	return s.inner.Name()
}

func (s *statusReportingStep) Run(ctx *pipeline.Context) error {
	s.statusChan <- tui.PipelineStatusMsg{Step: s.Name(), Status: tui.StatusStarted, Message: "Starting..."}

	err := s.inner.Run(ctx)

	if err != nil {
		if errors.Is(err, pipeline.ErrSkipPipeline) {
			s.statusChan <- tui.PipelineStatusMsg{Step: s.Name(), Status: tui.StatusSkipped, Message: ctx.Result.SkipReason}
			return err
		}
		s.statusChan <- tui.PipelineStatusMsg{Step: s.Name(), Status: tui.StatusError, Message: err.Error()}
		return err
	}

	s.statusChan <- tui.PipelineStatusMsg{Step: s.Name(), Status: tui.StatusSuccess, Message: summarize(s.Name(), ctx)}
	return nil
}

// summarize describes what a step produced for the progress log.
func summarize(step string, ctx *pipeline.Context) string {
	switch step {
	case "classify":
		return string(ctx.Type)
	case "extract":
		if ctx.Fields != nil && ctx.Fields.DOI != "" {
			return ctx.Fields.DOI
		}
	case "locate":
		if ctx.Issue != nil {
			return ctx.Issue.Key + " (" + ctx.Issue.Status + ")"
		}
		return "no issue"
	case "dispose":
		return ctx.Result.Message
	}
	return "Completed"
}

// runSteps builds and runs the pipeline for one message. When statusChan is
// non-nil each step reports progress on it and the channel is closed when
// the run ends.
func runSteps(ctx context.Context, deps *pipeline.Dependencies, stepNames []string, msg *email.Message, cfg *config.Config, statusChan chan<- tui.PipelineStatusMsg) (*pipeline.Result, error) {
	if statusChan != nil {
		defer close(statusChan)
	}

	registry := pipeline.NewRegistry()
	steps.RegisterAll(registry)

	built, err := registry.BuildFromNames(stepNames, deps)
	if err != nil {
		if statusChan != nil {
			statusChan <- tui.PipelineStatusMsg{Step: "init", Status: tui.StatusError, Message: err.Error()}
		}
		return nil, err
	}

	p := built
	if statusChan != nil {
		var wrapped []pipeline.Step
		for _, step := range built.Steps() {
			wrapped = append(wrapped, &statusReportingStep{inner: step, statusChan: statusChan})
		}
		p = pipeline.New(wrapped...)
	}

	pCtx := pipeline.NewContext(ctx, msg, cfg)
	if err := p.Run(pCtx); err != nil {
		return pCtx.Result, err
	}
	return pCtx.Result, nil
}

// runWithTUI runs the pipeline in a goroutine while the progress display
// renders its status messages. The display's last frame shows the result.
func runWithTUI(ctx context.Context, out io.Writer, deps *pipeline.Dependencies, stepNames []string, msg *email.Message, cfg *config.Config, opts ...tea.ProgramOption) (*pipeline.Result, error) {
	type runResult struct {
		result *pipeline.Result
		err    error
	}

	statusChan := make(chan tui.PipelineStatusMsg)
	done := make(chan runResult, 1)

	opts = append([]tea.ProgramOption{tea.WithOutput(out), tea.WithContext(ctx)}, opts...)
	program := tea.NewProgram(tui.NewModel(stepNames, statusChan), opts...)

	go func() {
		result, err := runSteps(ctx, deps, stepNames, msg, cfg, statusChan)
		done <- runResult{result: result, err: err}

		final := tui.ResultMsg{Success: err == nil}
		if err != nil {
			final.Output = "Error: " + err.Error()
		} else {
			final.Output = formatResult(result)
		}
		// No-op if the display has already exited.
		program.Send(final)
	}()

	_, tuiErr := program.Run()

	// The display may quit before the pipeline does; keep the steps unblocked.
	go func() {
		for range statusChan {
		}
	}()

	if tuiErr != nil && !errors.Is(tuiErr, tea.ErrProgramKilled) {
		deps.Log().Warn("progress display failed", zap.Error(tuiErr))
	}

	r := <-done
	return r.result, r.err
}
