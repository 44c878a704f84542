// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-19

package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ucsb-rds/dryad-curator/internal/core/config"
	"github.com/ucsb-rds/dryad-curator/internal/core/pipeline"
	"github.com/ucsb-rds/dryad-curator/internal/curation"
	"github.com/ucsb-rds/dryad-curator/internal/email"
	"github.com/ucsb-rds/dryad-curator/internal/integrations/jira"
	"github.com/ucsb-rds/dryad-curator/internal/metrics"
)

var (
	processTUI      bool
	processWorkflow string
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process [<email>:<token>] <message-file>",
	Short: "Process one Dryad email against the curation issues",
	Long: `Process a single Dryad notification email through the pipeline:
classify it, extract its fields, find the curation issue for its DOI and
create or transition that issue as needed.

The message file may be a raw RFC 5322 message or the plain text body.
Credentials may be given as the first argument or in the config file.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(&processTUI, "tui", false, "Show step progress while processing")
	processCmd.Flags().StringVar(&processWorkflow, "workflow", "", "Workflow preset to run (overrides config)")
}

func runProcess(cmd *cobra.Command, args []string) error {
	auth, args, err := splitCredentials(args, 1)
	if err != nil {
		return err
	}

	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	msg, err := email.ReadFile(args[0])
	if err != nil {
		return err
	}

	rec := metrics.NewRecorder()
	start := time.Now()
	result, err := processMessage(cmd.Context(), cmd.OutOrStdout(), cfg, auth, msg, logger, rec)
	rec.RecordRun(time.Since(start), err)
	recordEmail(rec, result, err)
	pushMetrics(cfg, rec, logger)

	if err != nil {
		logger.Error("processing failed", zap.Error(err))
		return err
	}

	printResult(cmd.OutOrStdout(), result)
	return nil
}

func processMessage(ctx context.Context, out io.Writer, cfg *config.Config, auth *jira.Auth, msg *email.Message, logger *zap.Logger, rec *metrics.Recorder) (*pipeline.Result, error) {
	deps, err := newDependencies(ctx, cfg, auth, logger, rec)
	if err != nil {
		return nil, err
	}

	explicitSteps, workflow := cfg.Steps, cfg.Workflow
	if processWorkflow != "" {
		explicitSteps, workflow = nil, processWorkflow
	}
	stepNames := pipeline.ResolveSteps(explicitSteps, workflow)
	logger.Debug("running pipeline", zap.Strings("steps", stepNames))

	if processTUI {
		return runWithTUI(ctx, out, deps, stepNames, msg, cfg)
	}
	return runSteps(ctx, deps, stepNames, msg, cfg, nil)
}

// newDependencies connects to Jira and wires the locator and engine over
// the client.
func newDependencies(ctx context.Context, cfg *config.Config, auth *jira.Auth, logger *zap.Logger, rec *metrics.Recorder) (*pipeline.Dependencies, error) {
	var opts []jira.Option
	if rec != nil {
		opts = append(opts, jira.WithRequestObserver(rec.ObserveTrackerRequest))
	}

	client, err := jira.NewClient(ctx, cfg.Jira.ClientConfig(auth), opts...)
	if err != nil {
		return nil, err
	}

	return &pipeline.Dependencies{
		Locator: curation.NewLocator(client, cfg.Jira.Project, cfg.Jira.IssueType, cfg.Jira.Fields.DOI),
		Engine:  curation.NewEngine(client, logger),
		Logger:  logger,
	}, nil
}

func recordEmail(rec *metrics.Recorder, result *pipeline.Result, err error) {
	var messageType, disposition string
	if result != nil {
		messageType = string(result.MessageType)
		disposition = string(result.Disposition)
	}
	if err != nil {
		disposition = "error"
	}
	if disposition == "" {
		disposition = "none"
	}
	rec.RecordEmail(messageType, disposition)
}

// pushMetrics sends the run's metrics when a Pushgateway is configured.
// A failed push does not fail the run.
func pushMetrics(cfg *config.Config, rec *metrics.Recorder, logger *zap.Logger) {
	if cfg.Metrics.PushgatewayURL == "" {
		return
	}
	if err := rec.Push(cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
		logger.Warn("failed to push metrics",
			zap.String("url", cfg.Metrics.PushgatewayURL),
			zap.Error(err))
	}
}

// printResult writes the status line.
func printResult(w io.Writer, result *pipeline.Result) {
	fmt.Fprintln(w, formatResult(result))
}

// formatResult renders a result for stdout and the progress display.
// Workflows that stop before the dispose step report what they found
// instead of a disposition.
func formatResult(result *pipeline.Result) string {
	var b strings.Builder
	if result.Disposition == "" {
		fmt.Fprintf(&b, "Type: %s", result.MessageType)
		if result.DOI != "" {
			fmt.Fprintf(&b, "\nDOI: %s", result.DOI)
		}
		if result.IssueKey != "" {
			fmt.Fprintf(&b, "\nIssue: %s (%s)", result.IssueKey, result.IssueStatus)
		}
		return b.String()
	}

	fmt.Fprintf(&b, "Disposition: %s", result.Message)
	if result.Disposition == curation.ActionCreate {
		fmt.Fprintf(&b, "\n%s", result.IssueKey)
	}
	return b.String()
}
