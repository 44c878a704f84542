// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-19
// Last Modified: 2026-10-19

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// locateCmd represents the locate command
var locateCmd = &cobra.Command{
	Use:   "locate [<email>:<token>] <doi>",
	Short: "Find the curation issue for a DOI",
	Long: `Scan every curation issue in the project and report the one whose DOI
field matches. More than one match is an error.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runLocate,
}

func init() {
	rootCmd.AddCommand(locateCmd)
}

func runLocate(cmd *cobra.Command, args []string) error {
	auth, args, err := splitCredentials(args, 1)
	if err != nil {
		return err
	}

	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	deps, err := newDependencies(cmd.Context(), cfg, auth, logger, nil)
	if err != nil {
		return err
	}

	doi := args[0]
	issue, err := deps.Locator.FindByDOI(cmd.Context(), doi)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if issue == nil {
		fmt.Fprintf(out, "No curation issue for %s\n", doi)
		return nil
	}
	fmt.Fprintf(out, "Issue: %s (%s)\n", issue.Key, issue.Status)
	return nil
}
