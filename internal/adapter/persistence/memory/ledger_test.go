package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"billing_reconciler/internal/domain/entities"
)

func TestLedger_StagedWritesAreInvisibleUntilCommit(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()
	l.PutPayment(entities.Payment{ID: "p1", ExternalID: "100", Status: entities.PaymentStatusPending})

	uow, err := l.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	p, err := uow.Payments().GetByExternalIDForUpdate(ctx, "100")
	if err != nil || p.ID != "p1" {
		t.Fatalf("expected p1, got %+v err=%v", p, err)
	}
	p.Status = entities.PaymentStatusApproved
	if err := uow.Payments().Update(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}

	seen, _ := uow.Payments().GetByID(ctx, "p1")
	if seen.Status != entities.PaymentStatusApproved {
		t.Fatalf("own unit of work must see staged write, got %s", seen.Status)
	}
	if stored, _ := l.Payment("p1"); stored.Status != entities.PaymentStatusPending {
		t.Fatalf("staged write leaked before commit: %s", stored.Status)
	}

	if err := uow.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if stored, _ := l.Payment("p1"); stored.Status != entities.PaymentStatusApproved {
		t.Fatalf("expected approved after commit, got %s", stored.Status)
	}
	if err := uow.Rollback(ctx); err != nil {
		t.Fatalf("rollback after commit must be a no-op, got %v", err)
	}
}

func TestLedger_FailedCommitAppliesNothing(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()
	l.PutPayment(entities.Payment{ID: "p1", ExternalID: "100", Status: entities.PaymentStatusPending})
	boom := errors.New("disk full")
	l.FailNextCommit(boom)

	uow, _ := l.Begin(ctx)
	p, _ := uow.Payments().GetByExternalIDForUpdate(ctx, "100")
	p.Status = entities.PaymentStatusApproved
	_ = uow.Payments().Update(ctx, p)
	_ = uow.Subscriptions().Add(ctx, entities.Subscription{ID: "s1", UserID: "u1"})

	if err := uow.Commit(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if stored, _ := l.Payment("p1"); stored.Status != entities.PaymentStatusPending {
		t.Fatalf("payment changed after failed commit: %s", stored.Status)
	}
	if len(l.Subscriptions()) != 0 {
		t.Fatalf("subscription leaked after failed commit")
	}

	// the lock must be released by the failed commit
	uow2, _ := l.Begin(ctx)
	lockCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if _, err := uow2.Payments().GetByExternalIDForUpdate(lockCtx, "100"); err != nil {
		t.Fatalf("expected lock to be free, got %v", err)
	}
	_ = uow2.Rollback(ctx)
}

func TestLedger_RowLockSerializesUnitsOfWork(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()
	l.PutPayment(entities.Payment{ID: "p1", ExternalID: "100", Status: entities.PaymentStatusPending})

	first, _ := l.Begin(ctx)
	p, _ := first.Payments().GetByExternalIDForUpdate(ctx, "100")

	second, _ := l.Begin(ctx)
	shortCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if _, err := second.Payments().GetByExternalIDForUpdate(shortCtx, "100"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected second locker to block until deadline, got %v", err)
	}

	got := make(chan entities.Payment, 1)
	go func() {
		third, _ := l.Begin(ctx)
		defer third.Rollback(ctx)
		row, _ := third.Payments().GetByExternalIDForUpdate(ctx, "100")
		got <- row
	}()

	p.Status = entities.PaymentStatusApproved
	_ = first.Payments().Update(ctx, p)
	if err := first.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	select {
	case row := <-got:
		if row.Status != entities.PaymentStatusApproved {
			t.Fatalf("waiter must observe committed state, got %s", row.Status)
		}
	case <-time.After(time.Second):
		t.Fatalf("waiter never acquired the lock")
	}
}

func TestLedger_UniqueChargebackID(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()
	l.PutChargeback(entities.Chargeback{ID: "c1", ChargebackID: 77})

	uow, _ := l.Begin(ctx)
	_ = uow.Chargebacks().Add(ctx, entities.Chargeback{ID: "c2", ChargebackID: 77})
	if err := uow.Commit(ctx); !errors.Is(err, ErrUniqueViolation) {
		t.Fatalf("expected unique violation, got %v", err)
	}
	if len(l.Chargebacks()) != 1 {
		t.Fatalf("expected a single chargeback row")
	}
}

func TestLedger_RemoveAndMissingRows(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()
	l.PutPayment(entities.Payment{ID: "p1", ExternalID: "100"})

	uow, _ := l.Begin(ctx)
	if err := uow.Payments().Update(ctx, entities.Payment{ID: "nope"}); !errors.Is(err, ErrRowNotFound) {
		t.Fatalf("expected ErrRowNotFound, got %v", err)
	}
	if err := uow.Payments().Remove(ctx, "p1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if p, _ := uow.Payments().GetByExternalID(ctx, "100"); p.ID != "" {
		t.Fatalf("removed row still visible: %+v", p)
	}
	if err := uow.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if _, ok := l.Payment("p1"); ok {
		t.Fatalf("payment must be gone")
	}
	if _, err := uow.Payments().GetByID(ctx, "p1"); !errors.Is(err, ErrTxDone) {
		t.Fatalf("expected ErrTxDone after commit, got %v", err)
	}
}

func TestLedger_ListActivePlans(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()
	l.PutPlan(entities.Plan{ID: "a", IsActive: true})
	l.PutPlan(entities.Plan{ID: "b", IsActive: false})

	uow, _ := l.Begin(ctx)
	defer uow.Rollback(ctx)
	_ = uow.Plans().Add(ctx, entities.Plan{ID: "c", IsActive: true})
	plans, err := uow.Plans().ListActive(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(plans) != 2 || plans[0].ID != "a" || plans[1].ID != "c" {
		t.Fatalf("unexpected plans %+v", plans)
	}
}
