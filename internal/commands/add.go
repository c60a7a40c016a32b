package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zero-coolio/ofc/internal/core"
)

func newAddCommand(opts *options) *cobra.Command {
	var kind string
	var category string
	var date string

	cmd := &cobra.Command{
		Use:   "add <amount> <description>",
		Short: "Submit a new transaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := core.MoneyFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}

			k := core.Kind(kind)
			if kind == "" {
				// A signed amount implies its own kind.
				k = core.KindFromSign(amount)
			}
			if !k.IsValid() {
				return fmt.Errorf("invalid kind %q: must be credit or debit", kind)
			}

			occurredAt := time.Now().UTC()
			if date != "" {
				if occurredAt, err = time.Parse("2006-01-02", date); err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
			}

			rt, err := newRuntime(opts)
			if err != nil {
				return err
			}
			if err := rt.view.Load(cmd.Context()); err != nil {
				return fmt.Errorf("loading transactions: %w", err)
			}

			txn, err := rt.view.Submit(cmd.Context(), core.Draft{
				Amount:      amount,
				Kind:        k,
				Description: args[1],
				Category:    category,
				OccurredAt:  occurredAt,
			})
			if err != nil {
				return fmt.Errorf("submitting transaction: %w", err)
			}

			if txn.Optimistic {
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %q (awaiting confirmation)\n", formatAmount(txn), txn.Description)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %q (id %d)\n", formatAmount(txn), txn.Description, txn.ID)
			}
			renderSnapshot(cmd.OutOrStdout(), rt.view.Snapshot(), rt.notices.Active())
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "credit or debit; defaults to the amount's sign")
	cmd.Flags().StringVar(&category, "category", "", "category name; created when unknown")
	cmd.Flags().StringVar(&date, "date", "", "occurrence date (YYYY-MM-DD); defaults to today")

	return cmd
}
