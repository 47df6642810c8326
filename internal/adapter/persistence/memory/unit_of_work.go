package memory

import (
	"context"
	"strconv"

	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"
)

type unitOfWork struct {
	l       *Ledger
	held    []string
	heldSet map[string]struct{}
	done    bool

	payments      *staged[entities.Payment]
	subscriptions *staged[entities.Subscription]
	plans         *staged[entities.Plan]
	chargebacks   *staged[entities.Chargeback]
	claims        *staged[entities.Claim]
}

var _ interfaces.IUnitOfWork = (*unitOfWork)(nil)

func (u *unitOfWork) Payments() interfaces.IPaymentRepository { return paymentRepo{u} }

func (u *unitOfWork) Subscriptions() interfaces.ISubscriptionRepository {
	return subscriptionRepo{u}
}

func (u *unitOfWork) Plans() interfaces.IPlanRepository { return planRepo{u} }

func (u *unitOfWork) Chargebacks() interfaces.IChargebackRepository { return chargebackRepo{u} }

func (u *unitOfWork) Claims() interfaces.IClaimRepository { return claimRepo{u} }

func (u *unitOfWork) LockKey(ctx context.Context, key string) error {
	if u.done {
		return ErrTxDone
	}
	if _, ok := u.heldSet[key]; ok {
		return nil
	}
	if err := u.l.locks.acquire(ctx, key); err != nil {
		return err
	}
	u.heldSet[key] = struct{}{}
	u.held = append(u.held, key)
	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.done {
		return ErrTxDone
	}
	defer u.finish()
	if err := ctx.Err(); err != nil {
		return err
	}

	l := u.l
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.failNextCommit; err != nil {
		l.failNextCommit = nil
		return err
	}
	if u.payments.conflicts(l.payments, func(p entities.Payment) string { return p.ExternalID }) ||
		u.plans.conflicts(l.plans, func(p entities.Plan) string { return p.ExternalPlanID }) ||
		u.chargebacks.conflicts(l.chargebacks, func(c entities.Chargeback) string { return strconv.FormatInt(c.ChargebackID, 10) }) ||
		u.claims.conflicts(l.claims, func(c entities.Claim) string { return strconv.FormatInt(c.MPClaimID, 10) }) {
		return ErrUniqueViolation
	}

	u.payments.apply(l.payments)
	u.subscriptions.apply(l.subscriptions)
	u.plans.apply(l.plans)
	u.chargebacks.apply(l.chargebacks)
	u.claims.apply(l.claims)
	l.commits++
	return nil
}

func (u *unitOfWork) Rollback(_ context.Context) error {
	if u.done {
		return nil
	}
	u.finish()
	return nil
}

func (u *unitOfWork) finish() {
	u.done = true
	for i := len(u.held) - 1; i >= 0; i-- {
		u.l.locks.release(u.held[i])
	}
	u.held = nil
}

func (u *unitOfWork) check(ctx context.Context) error {
	if u.done {
		return ErrTxDone
	}
	return ctx.Err()
}

// forUpdate resolves a row, locks it by id and re-reads it, so the caller sees
// the state left by whichever unit of work held the lock before.
func forUpdate[T any](ctx context.Context, u *unitOfWork, table string, find func() (T, bool), idOf func(T) string) (T, error) {
	var zero T
	if err := u.check(ctx); err != nil {
		return zero, err
	}
	for {
		row, ok := find()
		if !ok {
			return zero, nil
		}
		id := idOf(row)
		if err := u.LockKey(ctx, table+":"+id); err != nil {
			return zero, err
		}
		again, ok := find()
		if !ok {
			return zero, nil
		}
		if idOf(again) == id {
			return again, nil
		}
	}
}

type paymentRepo struct{ u *unitOfWork }

func (r paymentRepo) find(match func(entities.Payment) bool) (entities.Payment, bool) {
	r.u.l.mu.Lock()
	defer r.u.l.mu.Unlock()
	return r.u.payments.find(r.u.l.payments, match)
}

func (r paymentRepo) GetByID(ctx context.Context, id string) (entities.Payment, error) {
	if err := r.u.check(ctx); err != nil {
		return entities.Payment{}, err
	}
	p, _ := r.find(func(p entities.Payment) bool { return p.ID == id })
	return p, nil
}

func (r paymentRepo) GetByExternalID(ctx context.Context, externalID string) (entities.Payment, error) {
	if err := r.u.check(ctx); err != nil {
		return entities.Payment{}, err
	}
	p, _ := r.find(func(p entities.Payment) bool { return p.ExternalID == externalID })
	return p, nil
}

func (r paymentRepo) GetByExternalIDForUpdate(ctx context.Context, externalID string) (entities.Payment, error) {
	return forUpdate(ctx, r.u, "payments", func() (entities.Payment, bool) {
		return r.find(func(p entities.Payment) bool { return p.ExternalID == externalID })
	}, func(p entities.Payment) string { return p.ID })
}

func (r paymentRepo) Add(ctx context.Context, p entities.Payment) error {
	if err := r.u.check(ctx); err != nil {
		return err
	}
	r.u.l.mu.Lock()
	defer r.u.l.mu.Unlock()
	if r.u.payments.exists(r.u.l.payments, p.ID) {
		return ErrUniqueViolation
	}
	r.u.payments.put(p.ID, p)
	return nil
}

func (r paymentRepo) Update(ctx context.Context, p entities.Payment) error {
	if err := r.u.check(ctx); err != nil {
		return err
	}
	r.u.l.mu.Lock()
	defer r.u.l.mu.Unlock()
	if !r.u.payments.exists(r.u.l.payments, p.ID) {
		return ErrRowNotFound
	}
	r.u.payments.put(p.ID, p)
	return nil
}

func (r paymentRepo) Remove(ctx context.Context, id string) error {
	if err := r.u.check(ctx); err != nil {
		return err
	}
	r.u.l.mu.Lock()
	defer r.u.l.mu.Unlock()
	if !r.u.payments.exists(r.u.l.payments, id) {
		return ErrRowNotFound
	}
	r.u.payments.remove(id)
	return nil
}

type subscriptionRepo struct{ u *unitOfWork }

func (r subscriptionRepo) find(match func(entities.Subscription) bool) (entities.Subscription, bool) {
	r.u.l.mu.Lock()
	defer r.u.l.mu.Unlock()
	return r.u.subscriptions.find(r.u.l.subscriptions, match)
}

func (r subscriptionRepo) forUpdate(ctx context.Context, match func(entities.Subscription) bool) (entities.Subscription, error) {
	return forUpdate(ctx, r.u, "subscriptions", func() (entities.Subscription, bool) {
		return r.find(match)
	}, func(s entities.Subscription) string { return s.ID })
}

func (r subscriptionRepo) GetByExternalID(ctx context.Context, externalID string) (entities.Subscription, error) {
	if err := r.u.check(ctx); err != nil {
		return entities.Subscription{}, err
	}
	s, _ := r.find(func(s entities.Subscription) bool { return s.ExternalID == externalID })
	return s, nil
}

func (r subscriptionRepo) GetByIDForUpdate(ctx context.Context, id string) (entities.Subscription, error) {
	return r.forUpdate(ctx, func(s entities.Subscription) bool { return s.ID == id })
}

func (r subscriptionRepo) GetByExternalIDForUpdate(ctx context.Context, externalID string) (entities.Subscription, error) {
	return r.forUpdate(ctx, func(s entities.Subscription) bool { return s.ExternalID == externalID })
}

func (r subscriptionRepo) GetByPaymentIDForUpdate(ctx context.Context, paymentID string) (entities.Subscription, error) {
	return r.forUpdate(ctx, func(s entities.Subscription) bool { return s.PaymentID == paymentID })
}

func (r subscriptionRepo) GetActiveByCustomerIDForUpdate(ctx context.Context, customerID string) (entities.Subscription, error) {
	return r.forUpdate(ctx, func(s entities.Subscription) bool {
		return s.CustomerID == customerID &&
			(s.Status == entities.SubscriptionStatusActive || s.Status == entities.SubscriptionStatusPaused)
	})
}

func (r subscriptionRepo) GetActiveByUserID(ctx context.Context, userID string) (entities.Subscription, error) {
	if err := r.u.check(ctx); err != nil {
		return entities.Subscription{}, err
	}
	s, _ := r.find(func(s entities.Subscription) bool {
		return s.UserID == userID && s.Status == entities.SubscriptionStatusActive
	})
	return s, nil
}

func (r subscriptionRepo) Add(ctx context.Context, s entities.Subscription) error {
	if err := r.u.check(ctx); err != nil {
		return err
	}
	r.u.l.mu.Lock()
	defer r.u.l.mu.Unlock()
	if r.u.subscriptions.exists(r.u.l.subscriptions, s.ID) {
		return ErrUniqueViolation
	}
	r.u.subscriptions.put(s.ID, s)
	return nil
}

func (r subscriptionRepo) Update(ctx context.Context, s entities.Subscription) error {
	if err := r.u.check(ctx); err != nil {
		return err
	}
	r.u.l.mu.Lock()
	defer r.u.l.mu.Unlock()
	if !r.u.subscriptions.exists(r.u.l.subscriptions, s.ID) {
		return ErrRowNotFound
	}
	r.u.subscriptions.put(s.ID, s)
	return nil
}

type planRepo struct{ u *unitOfWork }

func (r planRepo) find(match func(entities.Plan) bool) (entities.Plan, bool) {
	r.u.l.mu.Lock()
	defer r.u.l.mu.Unlock()
	return r.u.plans.find(r.u.l.plans, match)
}

func (r planRepo) GetByID(ctx context.Context, id string) (entities.Plan, error) {
	if err := r.u.check(ctx); err != nil {
		return entities.Plan{}, err
	}
	p, _ := r.find(func(p entities.Plan) bool { return p.ID == id })
	return p, nil
}

func (r planRepo) GetByExternalIDForUpdate(ctx context.Context, externalPlanID string) (entities.Plan, error) {
	return forUpdate(ctx, r.u, "plans", func() (entities.Plan, bool) {
		return r.find(func(p entities.Plan) bool { return p.ExternalPlanID == externalPlanID })
	}, func(p entities.Plan) string { return p.ID })
}

func (r planRepo) ListActive(ctx context.Context) ([]entities.Plan, error) {
	if err := r.u.check(ctx); err != nil {
		return nil, err
	}
	r.u.l.mu.Lock()
	defer r.u.l.mu.Unlock()
	return r.u.plans.filter(r.u.l.plans, func(p entities.Plan) bool { return p.IsActive }), nil
}

func (r planRepo) Add(ctx context.Context, p entities.Plan) error {
	if err := r.u.check(ctx); err != nil {
		return err
	}
	r.u.l.mu.Lock()
	defer r.u.l.mu.Unlock()
	if r.u.plans.exists(r.u.l.plans, p.ID) {
		return ErrUniqueViolation
	}
	r.u.plans.put(p.ID, p)
	return nil
}

func (r planRepo) Update(ctx context.Context, p entities.Plan) error {
	if err := r.u.check(ctx); err != nil {
		return err
	}
	r.u.l.mu.Lock()
	defer r.u.l.mu.Unlock()
	if !r.u.plans.exists(r.u.l.plans, p.ID) {
		return ErrRowNotFound
	}
	r.u.plans.put(p.ID, p)
	return nil
}

type chargebackRepo struct{ u *unitOfWork }

func (r chargebackRepo) GetByChargebackID(ctx context.Context, chargebackID int64) (entities.Chargeback, error) {
	if err := r.u.check(ctx); err != nil {
		return entities.Chargeback{}, err
	}
	r.u.l.mu.Lock()
	defer r.u.l.mu.Unlock()
	c, _ := r.u.chargebacks.find(r.u.l.chargebacks, func(c entities.Chargeback) bool { return c.ChargebackID == chargebackID })
	return c, nil
}

func (r chargebackRepo) Add(ctx context.Context, c entities.Chargeback) error {
	if err := r.u.check(ctx); err != nil {
		return err
	}
	r.u.l.mu.Lock()
	defer r.u.l.mu.Unlock()
	if r.u.chargebacks.exists(r.u.l.chargebacks, c.ID) {
		return ErrUniqueViolation
	}
	r.u.chargebacks.put(c.ID, c)
	return nil
}

func (r chargebackRepo) Update(ctx context.Context, c entities.Chargeback) error {
	if err := r.u.check(ctx); err != nil {
		return err
	}
	r.u.l.mu.Lock()
	defer r.u.l.mu.Unlock()
	if !r.u.chargebacks.exists(r.u.l.chargebacks, c.ID) {
		return ErrRowNotFound
	}
	r.u.chargebacks.put(c.ID, c)
	return nil
}

type claimRepo struct{ u *unitOfWork }

func (r claimRepo) GetByMPClaimID(ctx context.Context, mpClaimID int64) (entities.Claim, error) {
	if err := r.u.check(ctx); err != nil {
		return entities.Claim{}, err
	}
	r.u.l.mu.Lock()
	defer r.u.l.mu.Unlock()
	c, _ := r.u.claims.find(r.u.l.claims, func(c entities.Claim) bool { return c.MPClaimID == mpClaimID })
	return c, nil
}

func (r claimRepo) Add(ctx context.Context, c entities.Claim) error {
	if err := r.u.check(ctx); err != nil {
		return err
	}
	r.u.l.mu.Lock()
	defer r.u.l.mu.Unlock()
	if r.u.claims.exists(r.u.l.claims, c.ID) {
		return ErrUniqueViolation
	}
	r.u.claims.put(c.ID, c)
	return nil
}

func (r claimRepo) Update(ctx context.Context, c entities.Claim) error {
	if err := r.u.check(ctx); err != nil {
		return err
	}
	r.u.l.mu.Lock()
	defer r.u.l.mu.Unlock()
	if !r.u.claims.exists(r.u.l.claims, c.ID) {
		return ErrRowNotFound
	}
	r.u.claims.put(c.ID, c)
	return nil
}
