package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/root-talis/susume"
)

func newAdoptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adopt",
		Short: "Mark all pending units as applied without executing them",
		Long: `adopt fast-forwards every pending unit into the ledger without
invoking it. Use it for units that were applied out-of-band, such as
self-contained legacy units that cannot safely be run again. No
verification is performed against the target schema.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(cmd, func(ctx context.Context, runner susume.Susume) error {
				result, err := runner.Adopt(ctx)
				if err != nil {
					return err
				}

				for _, name := range result.Adopted {
					fmt.Printf("adopted %s\n", name)
				}
				fmt.Printf("Adopted %d units\n", len(result.Adopted))
				return nil
			})
		},
	}
}
