// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-19

// Package commands implements the dryad-curator CLI.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ucsb-rds/dryad-curator/internal/core/config"
	"github.com/ucsb-rds/dryad-curator/internal/integrations/github"
	"github.com/ucsb-rds/dryad-curator/internal/integrations/jira"
	"github.com/ucsb-rds/dryad-curator/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dryad-curator",
	Short: "Reconcile Dryad notification emails with Jira curation issues",
	Long: `dryad-curator reads one Dryad notification email, works out what kind of
notification it is, and creates or updates the matching curation issue in Jira.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (default: .dryad-curator.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig finds and loads the config file, resolving 'extends' through
// GitHub. Without a config file the built-in defaults are used.
func loadConfig(ctx context.Context) (*config.Config, error) {
	path := config.FindConfigPath(cfgFile)
	if path == "" {
		if cfgFile != "" {
			return nil, fmt.Errorf("config file not found: %s", cfgFile)
		}
		return config.Default(), nil
	}

	fetcher := func(ref string) ([]byte, error) {
		org, repo, branch, file, err := config.ParseExtendsRef(ref)
		if err != nil {
			return nil, err
		}
		// Public repositories can be read without a token.
		ghClient := github.NewClient(ctx, os.Getenv("GITHUB_TOKEN"))
		return ghClient.GetFileContent(ctx, org, repo, file, branch)
	}

	cfg, err := config.LoadWithInheritance(path, fetcher)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return cfg, nil
}

// newLogger builds the run logger. --verbose forces debug level.
func newLogger(cfg *config.Config, w io.Writer) (*zap.Logger, error) {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.Logging.Format, w)
	if err != nil {
		return nil, err
	}
	return logging.ForRun(logger, uuid.NewString()), nil
}

// splitCredentials takes an optional leading email:token argument off args.
// want is the number of arguments that follow it.
func splitCredentials(args []string, want int) (*jira.Auth, []string, error) {
	if len(args) == want {
		return nil, args, nil
	}
	auth, err := jira.ParseCredentials(args[0])
	if err != nil {
		return nil, nil, err
	}
	return &auth, args[1:], nil
}

// setup loads the config and logger shared by every command.
func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := loadConfig(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
