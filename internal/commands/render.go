package commands

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/zero-coolio/ofc/internal/core"
	"github.com/zero-coolio/ofc/internal/ledger"
	"github.com/zero-coolio/ofc/internal/notify"
)

// renderSnapshot writes the transaction table, the closing balance, and any
// active notices.
func renderSnapshot(w io.Writer, snap ledger.Snapshot, notices []notify.Notice) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tAMOUNT\tCATEGORY\tDESCRIPTION")
	for _, t := range snap.Transactions {
		id := strconv.FormatInt(t.ID, 10)
		if t.Optimistic {
			id = "pending"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			id,
			t.OccurredAt.UTC().Format("2006-01-02"),
			formatAmount(t),
			t.CategoryName,
			t.Description,
		)
	}
	tw.Flush()

	if len(snap.Balance) > 0 {
		closing := snap.Balance[len(snap.Balance)-1]
		fmt.Fprintf(w, "\nBalance: %s\n", closing.Balance.String())
	} else {
		fmt.Fprintln(w, "\nNo transactions.")
	}

	for _, n := range notices {
		fmt.Fprintf(w, "[%s] %s\n", n.Severity, n.Text)
	}
}

// formatAmount renders a signed amount with an explicit sign prefix so
// credits and debits are distinguishable at a glance. The normalized sign
// is the source of truth, the same one the balance arithmetic uses.
func formatAmount(t core.Transaction) string {
	if t.Amount.IsNegative() {
		return "-" + t.Amount.Abs().String()
	}
	return "+" + t.Amount.Abs().String()
}
