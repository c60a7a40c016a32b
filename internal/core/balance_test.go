package core

import (
	"testing"
	"time"
)

func TestBalanceSeries(t *testing.T) {
	txs := []Transaction{
		{ID: 1, Amount: money(t, "10.00"), Kind: Credit, OccurredAt: day(1)},
		{ID: 2, Amount: money(t, "-3.50"), Kind: Debit, OccurredAt: day(2)},
		{ID: 3, Amount: money(t, "0.25"), Kind: Credit, OccurredAt: day(3)},
	}
	points := BalanceSeries(txs)
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	want := []string{"10.00", "6.50", "6.75"}
	for i, w := range want {
		if points[i].Balance.String() != w {
			t.Fatalf("point %d: got %s, want %s", i, points[i].Balance, w)
		}
	}
}

// The deriver owns its ordering: a display-sorted (descending) input must
// produce the same ascending series.
func TestBalanceSeriesIgnoresInputOrder(t *testing.T) {
	txs := []Transaction{
		{ID: 3, Amount: money(t, "0.25"), Kind: Credit, OccurredAt: day(3)},
		{ID: 1, Amount: money(t, "10.00"), Kind: Credit, OccurredAt: day(1)},
		{ID: 2, Amount: money(t, "-3.50"), Kind: Debit, OccurredAt: day(2)},
	}
	points := BalanceSeries(txs)
	if got := points[len(points)-1].Balance.String(); got != "6.75" {
		t.Fatalf("final balance %s, want 6.75", got)
	}
	for i := 1; i < len(points); i++ {
		if points[i].At.Before(points[i-1].At) {
			t.Fatal("series not ascending")
		}
	}
}

func TestBalanceSeriesEmpty(t *testing.T) {
	if pts := BalanceSeries(nil); len(pts) != 0 {
		t.Fatalf("empty input must yield empty series, got %d points", len(pts))
	}
}

// Summing a thousand one-cent credits must come out at exactly 10.00; this
// is where a float64 accumulator starts to drift.
func TestBalanceSeriesDecimalPrecision(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	txs := make([]Transaction, 1000)
	for i := range txs {
		txs[i] = Transaction{
			ID:         int64(i + 1),
			Amount:     money(t, "0.01"),
			Kind:       Credit,
			OccurredAt: base.Add(time.Duration(i) * time.Minute),
		}
	}
	points := BalanceSeries(txs)
	if got := points[999].Balance.String(); got != "10.00" {
		t.Fatalf("cumulative balance %s, want exactly 10.00", got)
	}
}
