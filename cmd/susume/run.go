package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/root-talis/susume"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute all pending units",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(cmd, func(ctx context.Context, runner susume.Susume) error {
				result, err := runner.Run(ctx)
				if err != nil {
					return err
				}

				fmt.Printf(
					"Results: %d succeeded, %d failed, %d skipped\n",
					result.Applied, result.Failed, result.Skipped,
				)

				if result.Failed > 0 {
					return fmt.Errorf("halted at %s: %w", result.FailedUnit, result.Err)
				}
				return nil
			})
		},
	}
}
