// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-19
// Last Modified: 2026-10-19

package commands

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ucsb-rds/dryad-curator/internal/integrations/jira"
)

// issueCmd represents the issue command
var issueCmd = &cobra.Command{
	Use:   "issue [<email>:<token>] <key>",
	Short: "Print the raw JSON of a Jira issue",
	Long: `Fetch an issue and print the JSON Jira returns for it. Useful for
finding custom field ids and workflow status names.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runIssue,
}

func init() {
	rootCmd.AddCommand(issueCmd)
}

func runIssue(cmd *cobra.Command, args []string) error {
	auth, args, err := splitCredentials(args, 1)
	if err != nil {
		return err
	}

	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client, err := jira.NewClient(cmd.Context(), cfg.Jira.ClientConfig(auth))
	if err != nil {
		return err
	}

	raw, err := client.GetIssue(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "    "); err != nil {
		return fmt.Errorf("failed to format issue %s: %w", args[0], err)
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(cmd.OutOrStdout())
	return err
}
