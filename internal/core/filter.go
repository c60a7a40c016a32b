package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FilterSpec selects a subsequence of the canonical collection. Every field
// is optional; an absent field constrains nothing. Present constraints
// combine with logical AND, so the order they are checked in never changes
// the result.
type FilterSpec struct {
	Kind        Kind   // empty = any
	CategoryKey string // numeric id or name; empty = any
	Query       string // case-insensitive substring over description + category
	From        time.Time // inclusive; zero = open
	To          time.Time // inclusive; zero = open
}

// IsZero reports whether the spec constrains nothing.
func (f FilterSpec) IsZero() bool {
	return f.Kind == "" && f.CategoryKey == "" && f.Query == "" && f.From.IsZero() && f.To.IsZero()
}

// Signature returns a stable string form of the spec, usable as a cache key.
func (f FilterSpec) Signature() string {
	return fmt.Sprintf("k=%s|c=%s|q=%s|from=%d|to=%d",
		f.Kind, strings.ToLower(f.CategoryKey), strings.ToLower(f.Query),
		f.From.UnixNano(), f.To.UnixNano())
}

// Matches reports whether t satisfies every present constraint.
func (f FilterSpec) Matches(t Transaction) bool {
	if f.Kind != "" && t.Kind != f.Kind {
		return false
	}
	if f.CategoryKey != "" && !matchesCategory(t, f.CategoryKey) {
		return false
	}
	if f.Query != "" {
		haystack := strings.ToLower(t.Description + " " + t.CategoryName)
		if !strings.Contains(haystack, strings.ToLower(f.Query)) {
			return false
		}
	}
	if !f.From.IsZero() && t.OccurredAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && t.OccurredAt.After(f.To) {
		return false
	}
	return true
}

// Apply returns the matching subsequence of txs, preserving input order.
func (f FilterSpec) Apply(txs []Transaction) []Transaction {
	if f.IsZero() {
		return append([]Transaction(nil), txs...)
	}
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

func matchesCategory(t Transaction, key string) bool {
	if id, err := strconv.ParseInt(key, 10, 64); err == nil {
		return t.CategoryID == id
	}
	return strings.EqualFold(t.CategoryName, key)
}

// SortForDisplay orders transactions newest first: OccurredAt descending,
// ties broken by id descending. Optimistic records have no id yet and sort
// to the front among equal timestamps since they represent the most recent
// user action. The input slice is not mutated.
func SortForDisplay(txs []Transaction) []Transaction {
	out := append([]Transaction(nil), txs...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.OccurredAt.Equal(b.OccurredAt) {
			return a.OccurredAt.After(b.OccurredAt)
		}
		if a.Optimistic != b.Optimistic {
			return a.Optimistic
		}
		return a.ID > b.ID
	})
	return out
}
