package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/zero-coolio/ofc/internal/core"
)

// Transaction decodes one raw record into a canonical transaction. Field
// names are matched tolerantly: the upstream variants disagree on whether
// the discriminator is "kind", "txn_type" or "type", whether category comes
// as a name or an id, and whether occurred_at is an instant or a calendar
// date. The amount's sign is normalized here, exactly once; nothing
// downstream derives sign from kind again.
func Transaction(m map[string]any) (core.Transaction, error) {
	amount, ok := amountField(m, "amount")
	if !ok {
		return core.Transaction{}, fmt.Errorf("record has no usable amount: %v", m["amount"])
	}

	kind := kindField(m)
	if kind == "" {
		// No discriminator anywhere: trust the sign.
		kind = core.KindFromSign(amount)
	}

	occurredAt, ok := timeField(m, "occurred_at", "date")
	if !ok {
		// Some push payloads carry only created_at.
		occurredAt, ok = timeField(m, "created_at")
		if !ok {
			return core.Transaction{}, fmt.Errorf("record has no usable timestamp")
		}
	}
	createdAt, _ := timeField(m, "created_at")

	t := core.Transaction{
		ID:          intField(m, "id"),
		Amount:      core.NormalizeSign(amount, kind),
		Kind:        kind,
		Description: stringField(m, "description"),
		OccurredAt:  occurredAt,
		CreatedAt:   createdAt,
	}

	// Category arrives as a name, an id, or both.
	if name := stringField(m, "category", "category_name"); name != "" {
		t.CategoryName = name
	}
	t.CategoryID = intField(m, "category_id")

	return t, nil
}

// Category decodes one raw category record.
func Category(m map[string]any) (core.Category, error) {
	name := stringField(m, "name")
	if name == "" {
		return core.Category{}, fmt.Errorf("category record has no name")
	}
	createdAt, _ := timeField(m, "created_at")
	return core.Category{
		ID:        intField(m, "id"),
		Name:      name,
		CreatedAt: createdAt,
	}, nil
}

func amountField(m map[string]any, key string) (core.Money, bool) {
	switch v := m[key].(type) {
	case json.Number:
		money, err := core.MoneyFromString(v.String())
		return money, err == nil
	case float64:
		return core.MoneyFromFloat(v), true
	case string:
		money, err := core.MoneyFromString(v)
		return money, err == nil
	default:
		return core.Money{}, false
	}
}

func kindField(m map[string]any) core.Kind {
	for _, key := range []string{"kind", "txn_type", "type"} {
		if s, ok := m[key].(string); ok {
			k := core.Kind(strings.ToLower(strings.TrimSpace(s)))
			if k.IsValid() {
				return k
			}
		}
	}
	return ""
}

func stringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

func intField(m map[string]any, key string) int64 {
	switch v := m[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

// timeFormats covers the granularities seen upstream, from full instants
// down to calendar dates.
var timeFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func timeField(m map[string]any, keys ...string) (time.Time, bool) {
	for _, key := range keys {
		s, ok := m[key].(string)
		if !ok {
			continue
		}
		for _, layout := range timeFormats {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.UTC(), true
			}
		}
	}
	return time.Time{}, false
}
