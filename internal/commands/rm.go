package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newRmCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q", args[0])
			}

			rt, err := newRuntime(opts)
			if err != nil {
				return err
			}
			if err := rt.view.Load(cmd.Context()); err != nil {
				return fmt.Errorf("loading transactions: %w", err)
			}

			if err := rt.view.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("deleting transaction %d: %w", id, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %d\n", id)
			renderSnapshot(cmd.OutOrStdout(), rt.view.Snapshot(), rt.notices.Active())
			return nil
		},
	}

	return cmd
}
