package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vcut/internal/services"
	"vcut/internal/timerange"
)

// usageArgs tags positional-argument errors so they exit with the usage code.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", services.ErrInvalidInput, err)
		}
		return nil
	}
}

func parseRangeArgs(values []string) ([]timerange.Range, error) {
	ranges, err := timerange.ParseRanges(values)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", services.ErrInvalidInput, err)
	}
	return ranges, nil
}
