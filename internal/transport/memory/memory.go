// Package memory is an in-process backend for demos and tests. It mimics
// the reference service's quirks on purpose: bulk loads come wrapped in an
// items envelope with signed amounts, while submit confirmations echo the
// magnitude-plus-discriminator convention, so consumers exercise the same
// normalization paths they need against the real service.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/zero-coolio/ofc/internal/core"
	"github.com/zero-coolio/ofc/internal/transport"
)

type Store struct {
	mu         sync.Mutex
	nextTxnID  int64
	nextCatID  int64
	txns       []core.Transaction
	categories []core.Category
}

func New() *Store {
	return &Store{}
}

// Seed loads initial data, assigning ids. Intended for demos and tests.
func (s *Store) Seed(cats []string, txns []core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range cats {
		s.addCategoryLocked(name)
	}
	for _, t := range txns {
		s.nextTxnID++
		t.ID = s.nextTxnID
		t.Optimistic = false
		t.LocalID = ""
		if t.CreatedAt.IsZero() {
			t.CreatedAt = time.Now().UTC()
		}
		if t.CategoryName != "" {
			t.CategoryID = s.addCategoryLocked(t.CategoryName).ID
		}
		s.txns = append(s.txns, t)
	}
}

// LoadTransactions serves the items+total envelope shape.
func (s *Store) LoadTransactions(_ context.Context, opts transport.LoadOptions) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]any, 0, len(s.txns))
	for i, t := range s.txns {
		if opts.Offset > 0 && i < opts.Offset {
			continue
		}
		if opts.Limit > 0 && len(items) >= opts.Limit {
			break
		}
		items = append(items, map[string]any{
			"id":          t.ID,
			"amount":      json.Number(t.Amount.StringFixed(2)), // pre-signed
			"kind":        string(t.Kind),
			"description": t.Description,
			"category_id": t.CategoryID,
			"category":    t.CategoryName,
			"occurred_at": t.OccurredAt.UTC().Format("2006-01-02"),
			"created_at":  t.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return map[string]any{"items": items, "total": len(s.txns)}, nil
}

// LoadCategories serves a bare sequence.
func (s *Store) LoadCategories(_ context.Context) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]any, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, map[string]any{
			"id":         c.ID,
			"name":       c.Name,
			"created_at": c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out, nil
}

// SubmitTransaction stores the draft and echoes a confirmed record in the
// unsigned-magnitude convention.
func (s *Store) SubmitTransaction(_ context.Context, draft core.Draft) (map[string]any, error) {
	if err := draft.Validate(); err != nil {
		return nil, &transport.Error{Op: "submit", Status: 422, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTxnID++
	t := core.Transaction{
		ID:          s.nextTxnID,
		Amount:      core.NormalizeSign(draft.Amount, draft.Kind),
		Kind:        draft.Kind,
		Description: draft.Description,
		OccurredAt:  draft.OccurredAt.UTC(),
		CreatedAt:   time.Now().UTC(),
	}
	if draft.Category != "" {
		cat := s.addCategoryLocked(draft.Category)
		t.CategoryID = cat.ID
		t.CategoryName = cat.Name
	}
	s.txns = append(s.txns, t)

	rec := map[string]any{
		"id":          t.ID,
		"amount":      json.Number(t.Amount.Abs().StringFixed(2)), // magnitude
		"txn_type":    string(t.Kind),
		"description": t.Description,
		"occurred_at": t.OccurredAt.Format("2006-01-02"),
		"created_at":  t.CreatedAt.Format(time.RFC3339),
	}
	if t.CategoryName != "" {
		rec["category"] = t.CategoryName
		rec["category_id"] = t.CategoryID
	}
	return rec, nil
}

// DeleteTransaction removes by id.
func (s *Store) DeleteTransaction(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.txns {
		if t.ID == id {
			s.txns = append(s.txns[:i], s.txns[i+1:]...)
			return nil
		}
	}
	return &transport.Error{Op: "delete", Status: 404, Err: fmt.Errorf("transaction %d not found", id)}
}

// CreateCategory creates the category, or returns the existing record when
// the name already exists under any casing.
func (s *Store) CreateCategory(_ context.Context, name string) (map[string]any, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &transport.Error{Op: "create_category", Status: 422, Err: core.ErrEmptyName}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.addCategoryLocked(name)
	return map[string]any{
		"id":         c.ID,
		"name":       c.Name,
		"created_at": c.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func (s *Store) addCategoryLocked(name string) core.Category {
	name = strings.TrimSpace(name)
	for _, c := range s.categories {
		if c.SameName(name) {
			return c
		}
	}
	s.nextCatID++
	c := core.Category{ID: s.nextCatID, Name: name, CreatedAt: time.Now().UTC()}
	s.categories = append(s.categories, c)
	return c
}
