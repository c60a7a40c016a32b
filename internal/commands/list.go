package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zero-coolio/ofc/internal/core"
)

func newListCommand(opts *options) *cobra.Command {
	var kind string
	var category string
	var query string
	var from string
	var to string
	var days int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions with the running balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(opts)
			if err != nil {
				return err
			}

			spec, err := buildFilter(kind, category, query, from, to, days)
			if err != nil {
				return err
			}

			if err := rt.view.Load(cmd.Context()); err != nil {
				return fmt.Errorf("loading transactions: %w", err)
			}
			rt.view.ApplyFilter(spec)

			renderSnapshot(cmd.OutOrStdout(), rt.view.Snapshot(), rt.notices.Active())
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "filter by kind: credit or debit")
	cmd.Flags().StringVar(&category, "category", "", "filter by category name or id")
	cmd.Flags().StringVarP(&query, "query", "q", "", "substring match on description and category")
	cmd.Flags().StringVar(&from, "from", "", "start date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date, inclusive (YYYY-MM-DD)")
	cmd.Flags().IntVar(&days, "days", 30, "shorthand window ending today; 0 disables it")

	return cmd
}

// buildFilter assembles a filter spec from flag values. An explicit --from
// or --to wins over the --days window.
func buildFilter(kind, category, query, from, to string, days int) (core.FilterSpec, error) {
	var spec core.FilterSpec

	if kind != "" {
		k := core.Kind(kind)
		if !k.IsValid() {
			return spec, fmt.Errorf("invalid kind %q: must be credit or debit", kind)
		}
		spec.Kind = k
	}
	spec.CategoryKey = category
	spec.Query = query

	if from != "" || to != "" {
		var err error
		if spec.From, err = parseDay(from); err != nil {
			return spec, fmt.Errorf("invalid --from: %w", err)
		}
		if spec.To, err = parseDay(to); err != nil {
			return spec, fmt.Errorf("invalid --to: %w", err)
		}
		if !spec.To.IsZero() {
			// --to names a whole day, so the bound sits at its last instant.
			spec.To = spec.To.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		if !spec.To.IsZero() && !spec.From.IsZero() && spec.To.Before(spec.From) {
			return spec, fmt.Errorf("--to %s is before --from %s", to, from)
		}
		return spec, nil
	}

	if days > 0 {
		now := time.Now().UTC()
		spec.To = now
		spec.From = now.AddDate(0, 0, -days)
	}
	return spec, nil
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}
