package ledger

import (
	"context"
	"fmt"

	"github.com/zero-coolio/ofc/internal/core"
	"github.com/zero-coolio/ofc/internal/log"
	"github.com/zero-coolio/ofc/internal/normalize"
	"github.com/zero-coolio/ofc/internal/notify"
)

// ResolveCategory matches user-typed free text against the known category
// set, case-insensitively and exactly. A miss means the caller needs a
// creation round-trip; the resolver never creates anything itself.
func (v *View) ResolveCategory(name string) (core.Category, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.resolveLocked(name)
}

func (v *View) resolveLocked(name string) (core.Category, bool) {
	for _, c := range v.categories {
		if c.SameName(name) {
			return c, true
		}
	}
	return core.Category{}, false
}

// EnsureCategory resolves name to an existing category or creates it on the
// backend, returning the canonical name.
func (v *View) EnsureCategory(ctx context.Context, name string) (string, error) {
	if err := (core.Category{Name: name}).Validate(); err != nil {
		return "", err
	}
	return v.ensureCategory(ctx, name)
}

// ensureCategory resolves name to an existing category or creates it,
// returning the canonical name. After the creation round-trip the known set
// is re-checked before the server's answer is adopted: two callers racing
// to create the same name must collapse onto the first-created record, not
// produce two categories differing only by case.
func (v *View) ensureCategory(ctx context.Context, name string) (string, error) {
	if cat, ok := v.ResolveCategory(name); ok {
		return cat.Name, nil
	}

	rec, err := v.backend.CreateCategory(ctx, name)
	if err != nil {
		v.notices.Post(notify.Error, fmt.Sprintf("creating category %q failed: %v", name, err))
		return "", err
	}

	created, decodeErr := normalize.Category(rec)

	v.mu.Lock()
	defer v.mu.Unlock()

	// The set may have changed while the round-trip was in flight.
	if existing, ok := v.resolveLocked(name); ok {
		if decodeErr == nil && created.ID != existing.ID {
			v.logger.Debug("concurrent category creation reconciled",
				log.FieldCategory, existing.Name)
		}
		return existing.Name, nil
	}

	if decodeErr != nil {
		// Server accepted the name but the echo was unusable; trust the
		// input until the next reload brings the real record.
		v.logger.Warn("unusable category confirmation", log.FieldError, decodeErr.Error())
		return name, nil
	}

	v.categories = append(v.categories, created)
	return created.Name, nil
}
