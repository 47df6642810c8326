package usecase

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"
)

const DefaultPlanCatalogTTL = time.Hour

type IPlanCatalogUseCase interface {
	ListActive(ctx context.Context) ([]entities.Plan, error)
}

// PlanCatalogUseCase serves the active plans through the cache. Entries are
// keyed by the catalog version token, which plan updates bump.
type PlanCatalogUseCase struct {
	ledger   interfaces.ILedger
	cache    interfaces.ICacheStore
	versions *CacheVersions
	ttl      time.Duration
}

var _ IPlanCatalogUseCase = (*PlanCatalogUseCase)(nil)

func NewPlanCatalogUseCase(ledger interfaces.ILedger, cache interfaces.ICacheStore, versions *CacheVersions, ttl time.Duration) *PlanCatalogUseCase {
	if ttl <= 0 {
		ttl = DefaultPlanCatalogTTL
	}
	return &PlanCatalogUseCase{ledger: ledger, cache: cache, versions: versions, ttl: ttl}
}

func (u *PlanCatalogUseCase) ListActive(ctx context.Context) ([]entities.Plan, error) {
	key, err := u.versions.Key(ctx, entities.CacheVersionPlans)
	if err != nil {
		log.Printf("[plan][catalog] version lookup failed, reading ledger err=%v", err)
		return u.load(ctx)
	}

	if raw, found, err := u.cache.Get(ctx, key); err != nil {
		log.Printf("[plan][catalog] cache read failed key=%s err=%v", key, err)
	} else if found {
		var plans []entities.Plan
		if err := json.Unmarshal(raw, &plans); err == nil {
			return plans, nil
		}
		log.Printf("[plan][catalog] cached entry unreadable key=%s", key)
	}

	plans, err := u.load(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(plans); err == nil {
		if err := u.cache.Set(ctx, key, raw, u.ttl); err != nil {
			log.Printf("[plan][catalog] cache write failed key=%s err=%v", key, err)
		}
	}
	return plans, nil
}

func (u *PlanCatalogUseCase) load(ctx context.Context) ([]entities.Plan, error) {
	const op = "plan.catalog"
	uow, err := begin(ctx, u.ledger, op)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback(ctx)
	plans, err := uow.Plans().ListActive(ctx)
	if err != nil {
		return nil, storeErr(op, "list plans", err)
	}
	if plans == nil {
		plans = []entities.Plan{}
	}
	return plans, nil
}
