// Package memory keeps the ledger and the cache store in process. It backs the
// local run mode (LEDGER_DRIVER=memory) and the reconciliation tests, and it
// honors the same contract as the Postgres ledger: row locks held until the
// unit of work ends, staged writes, atomic commit.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"
)

var (
	ErrTxDone          = errors.New("unit of work already finished")
	ErrUniqueViolation = errors.New("unique constraint violation")
	ErrRowNotFound     = errors.New("row not found")
)

type Ledger struct {
	mu            sync.Mutex
	payments      map[string]entities.Payment
	subscriptions map[string]entities.Subscription
	plans         map[string]entities.Plan
	chargebacks   map[string]entities.Chargeback
	claims        map[string]entities.Claim

	locks          *keyLocks
	failNextCommit error
	commits        int
}

var _ interfaces.ILedger = (*Ledger)(nil)

func NewLedger() *Ledger {
	return &Ledger{
		payments:      make(map[string]entities.Payment),
		subscriptions: make(map[string]entities.Subscription),
		plans:         make(map[string]entities.Plan),
		chargebacks:   make(map[string]entities.Chargeback),
		claims:        make(map[string]entities.Claim),
		locks:         newKeyLocks(),
	}
}

func (l *Ledger) Begin(ctx context.Context) (interfaces.IUnitOfWork, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &unitOfWork{
		l:             l,
		heldSet:       make(map[string]struct{}),
		payments:      newStaged[entities.Payment](),
		subscriptions: newStaged[entities.Subscription](),
		plans:         newStaged[entities.Plan](),
		chargebacks:   newStaged[entities.Chargeback](),
		claims:        newStaged[entities.Claim](),
	}, nil
}

// FailNextCommit makes the next Commit return err without applying anything.
func (l *Ledger) FailNextCommit(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failNextCommit = err
}

// Commits counts successful commits.
func (l *Ledger) Commits() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.commits
}

func (l *Ledger) PutPayment(p entities.Payment) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.payments[p.ID] = p
}

func (l *Ledger) PutSubscription(s entities.Subscription) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subscriptions[s.ID] = s
}

func (l *Ledger) PutPlan(p entities.Plan) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.plans[p.ID] = p
}

func (l *Ledger) PutChargeback(c entities.Chargeback) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.chargebacks[c.ID] = c
}

func (l *Ledger) Payment(id string) (entities.Payment, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.payments[id]
	return p, ok
}

func (l *Ledger) Subscription(id string) (entities.Subscription, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.subscriptions[id]
	return s, ok
}

func (l *Ledger) Plan(id string) (entities.Plan, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.plans[id]
	return p, ok
}

func (l *Ledger) Payments() []entities.Payment {
	l.mu.Lock()
	defer l.mu.Unlock()
	return sortedRows(l.payments)
}

func (l *Ledger) Subscriptions() []entities.Subscription {
	l.mu.Lock()
	defer l.mu.Unlock()
	return sortedRows(l.subscriptions)
}

func (l *Ledger) Chargebacks() []entities.Chargeback {
	l.mu.Lock()
	defer l.mu.Unlock()
	return sortedRows(l.chargebacks)
}

func (l *Ledger) Claims() []entities.Claim {
	l.mu.Lock()
	defer l.mu.Unlock()
	return sortedRows(l.claims)
}

func sortedRows[T any](rows map[string]T) []T {
	ids := make([]string, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, rows[id])
	}
	return out
}

// staged holds the writes of one unit of work for a single table.
type staged[T any] struct {
	upserts map[string]T
	removed map[string]struct{}
}

func newStaged[T any]() *staged[T] {
	return &staged[T]{upserts: make(map[string]T), removed: make(map[string]struct{})}
}

// find returns the first row visible to the unit of work that matches.
// Caller holds Ledger.mu.
func (s *staged[T]) find(committed map[string]T, match func(T) bool) (T, bool) {
	for _, row := range s.upserts {
		if match(row) {
			return row, true
		}
	}
	for id, row := range committed {
		if s.shadowed(id) {
			continue
		}
		if match(row) {
			return row, true
		}
	}
	var zero T
	return zero, false
}

func (s *staged[T]) filter(committed map[string]T, match func(T) bool) []T {
	visible := make(map[string]T)
	for id, row := range committed {
		if !s.shadowed(id) && match(row) {
			visible[id] = row
		}
	}
	for id, row := range s.upserts {
		if match(row) {
			visible[id] = row
		}
	}
	return sortedRows(visible)
}

func (s *staged[T]) shadowed(id string) bool {
	if _, ok := s.upserts[id]; ok {
		return true
	}
	_, ok := s.removed[id]
	return ok
}

func (s *staged[T]) exists(committed map[string]T, id string) bool {
	if _, ok := s.upserts[id]; ok {
		return true
	}
	if _, ok := s.removed[id]; ok {
		return false
	}
	_, ok := committed[id]
	return ok
}

func (s *staged[T]) put(id string, row T) {
	delete(s.removed, id)
	s.upserts[id] = row
}

func (s *staged[T]) remove(id string) {
	delete(s.upserts, id)
	s.removed[id] = struct{}{}
}

// conflicts reports whether applying the staged rows would leave two rows
// sharing a non-empty unique key.
func (s *staged[T]) conflicts(committed map[string]T, keyOf func(T) string) bool {
	owner := make(map[string]string)
	for id, row := range committed {
		if s.shadowed(id) {
			continue
		}
		if k := keyOf(row); k != "" {
			owner[k] = id
		}
	}
	for id, row := range s.upserts {
		k := keyOf(row)
		if k == "" {
			continue
		}
		if other, ok := owner[k]; ok && other != id {
			return true
		}
		owner[k] = id
	}
	return false
}

func (s *staged[T]) apply(committed map[string]T) {
	for id := range s.removed {
		delete(committed, id)
	}
	for id, row := range s.upserts {
		committed[id] = row
	}
}
