package commands

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-coolio/ofc/internal/core"
	"github.com/zero-coolio/ofc/internal/ledger"
	"github.com/zero-coolio/ofc/internal/notify"
)

func TestRenderSnapshot(t *testing.T) {
	amt, err := core.MoneyFromString("10.00")
	require.NoError(t, err)
	neg, err := core.MoneyFromString("-3.25")
	require.NoError(t, err)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	snap := ledger.Snapshot{
		Transactions: []core.Transaction{
			{LocalID: "abc", Amount: neg, Kind: core.Debit, Description: "lunch", CategoryName: "food", OccurredAt: day.AddDate(0, 0, 1), Optimistic: true},
			{ID: 7, Amount: amt, Kind: core.Credit, Description: "refund", OccurredAt: day},
		},
		Balance: []core.BalancePoint{
			{At: day, Balance: amt},
			{At: day.AddDate(0, 0, 1), Balance: amt.Add(neg)},
		},
	}
	notices := []notify.Notice{{ID: 1, Severity: notify.Warn, Text: "reload failed"}}

	var buf bytes.Buffer
	renderSnapshot(&buf, snap, notices)
	out := buf.String()

	assert.Contains(t, out, "pending")
	assert.Contains(t, out, "-3.25")
	assert.Contains(t, out, "+10.00")
	assert.Contains(t, out, "Balance: 6.75")
	assert.Contains(t, out, "[warn] reload failed")
}

// The prefix follows the normalized amount's sign, never the kind field,
// so the table can't disagree with the balance arithmetic.
func TestFormatAmountFollowsSign(t *testing.T) {
	neg, err := core.MoneyFromString("-2.00")
	require.NoError(t, err)
	pos, err := core.MoneyFromString("2.00")
	require.NoError(t, err)

	assert.Equal(t, "-2.00", formatAmount(core.Transaction{Amount: neg, Kind: core.Credit}))
	assert.Equal(t, "+2.00", formatAmount(core.Transaction{Amount: pos, Kind: core.Debit}))
}

func TestRenderSnapshotEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderSnapshot(&buf, ledger.Snapshot{}, nil)
	assert.Contains(t, buf.String(), "No transactions.")
}
