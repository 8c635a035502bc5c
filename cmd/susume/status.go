package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/root-talis/susume"
	"github.com/root-talis/susume/unit"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report applied and pending units",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(cmd, func(ctx context.Context, runner susume.Susume) error {
				report, err := runner.Status(ctx)
				if err != nil {
					return err
				}

				for _, state := range report.Units {
					appliedAt := "-"
					if !state.AppliedAt.IsZero() {
						appliedAt = state.AppliedAt.Format("2006-01-02 15:04:05")
					}

					fmt.Printf("%-10s  %-19s  %s\n", colorStatus(state.Status), appliedAt, state.Name)
				}

				fmt.Printf(
					"%d applied, %d pending, %d missing\n",
					report.AppliedCount, report.PendingCount, report.MissingCount,
				)
				return nil
			})
		},
	}
}

func colorStatus(status unit.Status) string {
	switch status {
	case unit.Applied:
		return color.GreenString(status.String())
	case unit.Missing:
		return color.RedString(status.String())
	default:
		return color.YellowString(status.String())
	}
}
