package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Credit Kind = "credit"
	Debit  Kind = "debit"
)

type (
	// Kind discriminates the direction of a transaction. It is informational
	// once the amount has been sign-normalized.
	Kind string

	// Transaction is one ledger record in the canonical collection.
	// Amount is always signed after ingestion; Kind is never consulted for
	// arithmetic past that point.
	Transaction struct {
		ID           int64  // server-assigned; zero until confirmed
		LocalID      string // set for locally-created records pending confirmation
		Amount       Money
		Kind         Kind
		Description  string
		CategoryID   int64 // zero when the record carries only a name
		CategoryName string
		OccurredAt   time.Time // business time of the transaction
		CreatedAt    time.Time // record-creation time, tie-breaking only
		Optimistic   bool
	}

	// Category is a user-defined grouping. Name is the natural key and is
	// matched case-insensitively.
	Category struct {
		ID        int64
		Name      string
		CreatedAt time.Time
	}

	// Draft holds user input for a transaction about to be submitted.
	Draft struct {
		Amount      Money
		Kind        Kind
		Description string
		Category    string
		OccurredAt  time.Time
	}

	// ContentKey identifies a transaction by content rather than id. It is
	// the reconciliation key for optimistic records, which have no server id
	// yet. OccurredAt is taken at day granularity since upstream sources mix
	// calendar dates and instants.
	ContentKey struct {
		Amount      string
		Kind        Kind
		Day         string
		Description string
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidKind      = errors.New("invalid kind")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyName        = errors.New("empty name")
	ErrDescriptionSize  = errors.New("description too long (max 200 characters)")
)

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	return k == Credit || k == Debit
}

// Key returns the content-addressed reconciliation key for t.
func (t Transaction) Key() ContentKey {
	return ContentKey{
		Amount:      t.Amount.StringFixed(2),
		Kind:        t.Kind,
		Day:         t.OccurredAt.UTC().Format("2006-01-02"),
		Description: t.Description,
	}
}

// Confirmed reports whether t carries a server-assigned id.
func (t Transaction) Confirmed() bool {
	return t.ID != 0 && !t.Optimistic
}

func (d Draft) Validate() error {
	if d.Amount.IsZero() {
		return ErrInvalidAmount
	}
	if !d.Kind.IsValid() {
		return ErrInvalidKind
	}
	if d.OccurredAt.IsZero() {
		return ErrInvalidDate
	}
	if len(d.Description) > 200 {
		return ErrDescriptionSize
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// SameName reports whether c matches the given name, case-insensitively.
func (c Category) SameName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(c.Name), strings.TrimSpace(name))
}
