// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-19
// Last Modified: 2026-10-19

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ucsb-rds/dryad-curator/internal/email"
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <message-file>",
	Short: "Classify an email and print its fields without contacting Jira",
	Args:  cobra.ExactArgs(1),
	RunE:  runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	_, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	msg, err := email.ReadFile(args[0])
	if err != nil {
		return err
	}
	logger.Debug("read message", zap.String("file", args[0]), zap.String("subject", msg.Subject))

	msgType, err := email.Classify(msg.Text)
	if err != nil {
		return err
	}
	fields, err := email.Extract(msgType, msg.Text)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Type: %s\n", msgType)
	if !msgType.Handled() {
		fmt.Fprintln(out, "No action is taken for this type.")
		return nil
	}
	if fields.Depositor != "" {
		fmt.Fprintf(out, "Depositor: %s\n", fields.Depositor)
	}
	if fields.DatasetName != "" {
		fmt.Fprintf(out, "Dataset: %s\n", fields.DatasetName)
	}
	fmt.Fprintf(out, "DOI: %s\n", fields.DOI)
	return nil
}
