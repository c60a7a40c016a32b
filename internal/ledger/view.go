// Package ledger owns the canonical in-memory collection of transactions
// and categories and derives every view the presentation layer shows: the
// filtered table, the running-balance series, and the category list.
//
// The collection is owned exclusively by the View. Transport and
// presentation code only read derived snapshots or submit intents; each
// operation holds the View's lock while it touches the collection, so a
// filter or derive pass never observes a partially-applied update.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zero-coolio/ofc/internal/cache"
	"github.com/zero-coolio/ofc/internal/core"
	"github.com/zero-coolio/ofc/internal/log"
	"github.com/zero-coolio/ofc/internal/normalize"
	"github.com/zero-coolio/ofc/internal/notify"
	"github.com/zero-coolio/ofc/internal/transport"
)

// Snapshot is one consistent derived view of the canonical collection.
type Snapshot struct {
	Transactions []core.Transaction // filtered, newest first
	Balance      []core.BalancePoint
}

// Config holds what a View needs at construction time.
type Config struct {
	Backend  transport.Backend
	Notices  *notify.Center
	Logger   *log.Logger
	PageSize int // bulk-load page size; zero = server default

	// Derived-snapshot memo cache. Zero values pick sensible defaults.
	CacheSize int
	CacheTTL  time.Duration
}

// View is the ledger view-model.
type View struct {
	backend transport.Backend
	notices *notify.Center
	logger  *log.Logger
	opts    transport.LoadOptions

	mu         sync.Mutex
	txns       []core.Transaction // canonical collection, insertion order
	categories []core.Category
	filter     core.FilterSpec

	loadSeq    uint64 // issued bulk-load sequence numbers
	appliedSeq uint64 // highest sequence applied so far
	rev        uint64 // bumped on every collection mutation

	derived *cache.LRU[Snapshot]
}

// New creates a View over the given backend.
func New(cfg Config) *View {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentLedger)
	}
	notices := cfg.Notices
	if notices == nil {
		notices = notify.NewCenter(logger.WithComponent(log.ComponentNotify))
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = 32
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &View{
		backend: cfg.Backend,
		notices: notices,
		logger:  logger,
		opts:    transport.LoadOptions{Limit: cfg.PageSize},
		derived: cache.New[Snapshot](size, ttl),
	}
}

// Notices exposes the notification center for the presentation layer.
func (v *View) Notices() *notify.Center { return v.notices }

// Load bulk-loads transactions and categories. A failed load leaves the
// collection at its last-known-good state. Loads are sequence-numbered in
// issue order; a load that resolves after a later one has been applied is
// discarded, so rapid reloads settle on the newest result. Unconfirmed
// optimistic records survive a reload unless the loaded data contains
// their confirmed counterpart.
func (v *View) Load(ctx context.Context) error {
	v.mu.Lock()
	v.loadSeq++
	seq := v.loadSeq
	v.mu.Unlock()

	rawTxns, err := v.backend.LoadTransactions(ctx, v.opts)
	if err != nil {
		v.notices.Post(notify.Error, fmt.Sprintf("loading transactions failed: %v", err))
		return err
	}
	rawCats, err := v.backend.LoadCategories(ctx)
	if err != nil {
		v.notices.Post(notify.Error, fmt.Sprintf("loading categories failed: %v", err))
		return err
	}

	cats := v.decodeCategories(rawCats)
	txns := v.decodeTransactions(rawTxns, cats)

	v.mu.Lock()
	defer v.mu.Unlock()

	if seq <= v.appliedSeq {
		v.logger.Debug("discarding stale bulk load", log.FieldLoadSeq, seq, "applied_seq", v.appliedSeq)
		return nil
	}
	v.appliedSeq = seq

	// Carry over optimistic records the load did not confirm.
	for _, existing := range v.txns {
		if existing.Optimistic && !containsKey(txns, existing.Key()) {
			txns = append(txns, existing)
		}
	}

	v.txns = txns
	v.categories = cats
	v.bumpLocked()
	v.logger.Info("bulk load applied", log.FieldLoadSeq, seq, log.FieldCount, len(txns))
	return nil
}

// ApplyFilter sets the filter every derived view reflects.
func (v *View) ApplyFilter(spec core.FilterSpec) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = spec
}

// Filter returns the active filter.
func (v *View) Filter() core.FilterSpec {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

// Snapshot returns the filtered transaction view and its running-balance
// series, derived together from one consistent state of the collection.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

// Transactions returns the current filtered, display-ordered view.
func (v *View) Transactions() []core.Transaction {
	return v.Snapshot().Transactions
}

// Balance returns the running-balance series for the current filtered view.
func (v *View) Balance() []core.BalancePoint {
	return v.Snapshot().Balance
}

// CategoryNames returns the known category names, sorted for autocomplete.
func (v *View) CategoryNames() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	names := make([]string, 0, len(v.categories))
	for _, c := range v.categories {
		names = append(names, c.Name)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}

// Submit validates the draft, inserts an optimistic record, and sends the
// draft to the server. On confirmation the optimistic record is replaced by
// the server's record, matched by content key since the optimistic one has
// no id. On failure the optimistic insert is rolled back and the failure
// reported. Validation failures block before any network call.
func (v *View) Submit(ctx context.Context, draft core.Draft) (core.Transaction, error) {
	if err := draft.Validate(); err != nil {
		return core.Transaction{}, err
	}
	draft.Amount = core.NormalizeSign(draft.Amount, draft.Kind)

	if draft.Category != "" {
		name, err := v.ensureCategory(ctx, draft.Category)
		if err != nil {
			return core.Transaction{}, err
		}
		draft.Category = name
	}

	opt := core.Transaction{
		LocalID:      uuid.NewString(),
		Amount:       draft.Amount,
		Kind:         draft.Kind,
		Description:  draft.Description,
		CategoryName: draft.Category,
		OccurredAt:   draft.OccurredAt,
		CreatedAt:    time.Now().UTC(),
		Optimistic:   true,
	}

	v.mu.Lock()
	if pending, ok := v.findOptimisticLocked(opt.Key()); ok {
		// One unconfirmed record per content key; a duplicate submit
		// piggybacks on the pending one.
		v.mu.Unlock()
		return pending, nil
	}
	v.txns = append(v.txns, opt)
	v.bumpLocked()
	v.mu.Unlock()

	v.logger.Debug("optimistic insert", log.FieldLocalID, opt.LocalID,
		log.FieldAmount, opt.Amount.String(), log.FieldKind, string(opt.Kind))

	rec, err := v.backend.SubmitTransaction(ctx, draft)
	if err != nil {
		v.mu.Lock()
		v.removeLocalLocked(opt.LocalID)
		v.bumpLocked()
		v.mu.Unlock()
		v.notices.Post(notify.Error, fmt.Sprintf("submit failed: %v", err))
		return core.Transaction{}, err
	}

	confirmed, decodeErr := normalize.Transaction(rec)
	v.mu.Lock()
	defer v.mu.Unlock()
	if decodeErr != nil {
		// The create went through but the echo was unusable. Keep the
		// optimistic record; the push channel or the next reload confirms it.
		v.logger.Warn("unusable submit confirmation", log.FieldError, decodeErr.Error())
		return opt, nil
	}
	return v.reconcileLocked(confirmed), nil
}

// Delete removes the record optimistically and asks the server to delete
// it. A failed round-trip restores the record, original fields intact, at
// its original position.
func (v *View) Delete(ctx context.Context, id int64) error {
	v.mu.Lock()
	idx := v.indexByIDLocked(id)
	if idx < 0 {
		v.mu.Unlock()
		return fmt.Errorf("unknown transaction %d", id)
	}
	removed := v.txns[idx]
	v.txns = append(v.txns[:idx], v.txns[idx+1:]...)
	v.bumpLocked()
	v.mu.Unlock()

	if err := v.backend.DeleteTransaction(ctx, id); err != nil {
		v.mu.Lock()
		if idx > len(v.txns) {
			idx = len(v.txns)
		}
		v.txns = append(v.txns[:idx], append([]core.Transaction{removed}, v.txns[idx:]...)...)
		v.bumpLocked()
		v.mu.Unlock()
		v.notices.Post(notify.Error, fmt.Sprintf("delete failed: %v", err))
		return err
	}
	return nil
}

// ApplyPush ingests one raw record delivered by the push channel. Malformed
// records are dropped; a record confirming a pending optimistic entry
// replaces it, a known id is ignored, anything else is appended.
func (v *View) ApplyPush(m map[string]any) {
	tx, err := normalize.Transaction(m)
	if err != nil {
		v.logger.Warn("dropping malformed pushed record", log.FieldError, err.Error())
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.reconcileLocked(tx)
}

// reconcileLocked folds a confirmed record into the canonical collection:
// by id when already known, by content key against a pending optimistic
// record, otherwise appended.
func (v *View) reconcileLocked(confirmed core.Transaction) core.Transaction {
	confirmed.Optimistic = false
	if confirmed.CategoryName == "" && confirmed.CategoryID != 0 {
		for _, c := range v.categories {
			if c.ID == confirmed.CategoryID {
				confirmed.CategoryName = c.Name
				break
			}
		}
	}

	if confirmed.ID != 0 {
		if idx := v.indexByIDLocked(confirmed.ID); idx >= 0 {
			return v.txns[idx]
		}
	}

	key := confirmed.Key()
	for i, t := range v.txns {
		if t.Optimistic && t.Key() == key {
			confirmed.LocalID = ""
			v.txns[i] = confirmed
			v.bumpLocked()
			v.logger.Debug("optimistic record confirmed",
				log.FieldTxnID, confirmed.ID, log.FieldLocalID, t.LocalID)
			return confirmed
		}
	}

	v.txns = append(v.txns, confirmed)
	v.bumpLocked()
	return confirmed
}

func (v *View) snapshotLocked() Snapshot {
	key := fmt.Sprintf("%s|rev=%d", v.filter.Signature(), v.rev)
	if s, ok := v.derived.Get(key); ok {
		return s
	}
	filtered := v.filter.Apply(v.txns)
	s := Snapshot{
		Transactions: core.SortForDisplay(filtered),
		Balance:      core.BalanceSeries(filtered),
	}
	v.derived.Set(key, s)
	return s
}

func (v *View) decodeTransactions(raw any, cats []core.Category) []core.Transaction {
	byID := make(map[int64]string, len(cats))
	for _, c := range cats {
		byID[c.ID] = c.Name
	}
	records := normalize.Records(raw)
	out := make([]core.Transaction, 0, len(records))
	for _, m := range records {
		t, err := normalize.Transaction(m)
		if err != nil {
			v.logger.Warn("skipping malformed transaction record", log.FieldError, err.Error())
			continue
		}
		if t.CategoryName == "" && t.CategoryID != 0 {
			t.CategoryName = byID[t.CategoryID]
		}
		out = append(out, t)
	}
	return out
}

func (v *View) decodeCategories(raw any) []core.Category {
	records := normalize.Records(raw)
	out := make([]core.Category, 0, len(records))
	for _, m := range records {
		c, err := normalize.Category(m)
		if err != nil {
			v.logger.Warn("skipping malformed category record", log.FieldError, err.Error())
			continue
		}
		out = append(out, c)
	}
	return out
}

func (v *View) indexByIDLocked(id int64) int {
	for i, t := range v.txns {
		if t.ID == id && !t.Optimistic {
			return i
		}
	}
	return -1
}

func (v *View) findOptimisticLocked(key core.ContentKey) (core.Transaction, bool) {
	for _, t := range v.txns {
		if t.Optimistic && t.Key() == key {
			return t, true
		}
	}
	return core.Transaction{}, false
}

func (v *View) removeLocalLocked(localID string) {
	for i, t := range v.txns {
		if t.LocalID == localID {
			v.txns = append(v.txns[:i], v.txns[i+1:]...)
			return
		}
	}
}

// bumpLocked advances the revision and drops the memoized snapshots, whose
// keys all carry the now-stale revision.
func (v *View) bumpLocked() {
	v.rev++
	v.derived.Purge()
}

func containsKey(txns []core.Transaction, key core.ContentKey) bool {
	for _, t := range txns {
		if t.Key() == key {
			return true
		}
	}
	return false
}
