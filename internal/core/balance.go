package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// BalancePoint is one point of a running-balance series: the cumulative
// balance after including the transaction at At.
type BalancePoint struct {
	At      time.Time
	Balance Money
}

// BalanceSeries derives the time-ordered running balance for the given
// transactions. It owns its ordering: the input is re-sorted ascending by
// OccurredAt (ties by id ascending, i.e. creation order) regardless of how
// the caller sorted it, so the series is a pure function of the set. An
// empty input yields an empty series.
func BalanceSeries(txs []Transaction) []BalancePoint {
	if len(txs) == 0 {
		return nil
	}
	sorted := append([]Transaction(nil), txs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.OccurredAt.Equal(b.OccurredAt) {
			return a.OccurredAt.Before(b.OccurredAt)
		}
		return a.ID < b.ID
	})

	points := make([]BalancePoint, 0, len(sorted))
	running := decimal.Zero
	for _, t := range sorted {
		running = running.Add(t.Amount.Decimal)
		points = append(points, BalancePoint{
			At:      t.OccurredAt,
			Balance: NewMoney(running.Round(2)),
		})
	}
	return points
}
