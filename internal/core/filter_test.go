package core

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func sampleTxs(t *testing.T) []Transaction {
	return []Transaction{
		{ID: 1, Amount: money(t, "100.00"), Kind: Credit, Description: "salary", CategoryID: 1, CategoryName: "Income", OccurredAt: day(1)},
		{ID: 2, Amount: money(t, "-12.50"), Kind: Debit, Description: "lunch", CategoryID: 2, CategoryName: "Food", OccurredAt: day(2)},
		{ID: 3, Amount: money(t, "-3.00"), Kind: Debit, Description: "coffee", CategoryID: 2, CategoryName: "Food", OccurredAt: day(3)},
		{ID: 4, Amount: money(t, "25.00"), Kind: Credit, Description: "refund lunch", CategoryID: 0, CategoryName: "", OccurredAt: day(3)},
	}
}

func ids(txs []Transaction) []int64 {
	out := make([]int64, len(txs))
	for i, t := range txs {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterSpecMatches(t *testing.T) {
	txs := sampleTxs(t)

	cases := []struct {
		name string
		spec FilterSpec
		want []int64
	}{
		{"no constraints", FilterSpec{}, []int64{1, 2, 3, 4}},
		{"kind", FilterSpec{Kind: Debit}, []int64{2, 3}},
		{"category by id", FilterSpec{CategoryKey: "2"}, []int64{2, 3}},
		{"category by name", FilterSpec{CategoryKey: "food"}, []int64{2, 3}},
		{"query on description", FilterSpec{Query: "LUNCH"}, []int64{2, 4}},
		{"query on category", FilterSpec{Query: "income"}, []int64{1}},
		{"date range inclusive", FilterSpec{From: day(2), To: day(3)}, []int64{2, 3, 4}},
		{"combined", FilterSpec{Kind: Debit, From: day(3)}, []int64{3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(tc.spec.Apply(txs))
			if !equalIDs(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

// Constraints combine with AND, so applying them in either order must yield
// the same result set.
func TestFilterConstraintCommutativity(t *testing.T) {
	txs := sampleTxs(t)
	kindOnly := FilterSpec{Kind: Debit}
	catOnly := FilterSpec{CategoryKey: "Food"}
	combined := FilterSpec{Kind: Debit, CategoryKey: "Food"}

	ab := catOnly.Apply(kindOnly.Apply(txs))
	ba := kindOnly.Apply(catOnly.Apply(txs))
	both := combined.Apply(txs)

	if !equalIDs(ids(ab), ids(ba)) {
		t.Fatalf("order-dependent constraints: %v vs %v", ids(ab), ids(ba))
	}
	if !equalIDs(ids(ab), ids(both)) {
		t.Fatalf("sequential and combined application disagree: %v vs %v", ids(ab), ids(both))
	}
}

func TestSortForDisplay(t *testing.T) {
	txs := []Transaction{
		{ID: 1, OccurredAt: day(1)},
		{ID: 2, OccurredAt: day(3)},
		{ID: 3, OccurredAt: day(3)},
		{LocalID: "local", Optimistic: true, OccurredAt: day(3)},
		{ID: 4, OccurredAt: day(2)},
	}
	sorted := SortForDisplay(txs)

	// Newest first; optimistic record leads its timestamp group.
	if !sorted[0].Optimistic {
		t.Fatalf("expected optimistic record first, got id=%d", sorted[0].ID)
	}
	want := []int64{0, 3, 2, 4, 1}
	if !equalIDs(ids(sorted), want) {
		t.Fatalf("got %v, want %v", ids(sorted), want)
	}

	// Input order untouched.
	if txs[0].ID != 1 || txs[4].ID != 4 {
		t.Fatal("SortForDisplay mutated its input")
	}
}
