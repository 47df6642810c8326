package usecase

import (
	"context"
	"log"

	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"
)

// EffectDispatcher fires the side effects of a committed reconciliation.
//
// Dispatch runs after commit. Failures are logged and never fail the job.
type EffectDispatcher struct {
	outbox   interfaces.IEmailOutbox
	realtime interfaces.IRealtimePublisher
	cache    interfaces.ICacheStore
	versions *CacheVersions
}

func NewEffectDispatcher(outbox interfaces.IEmailOutbox, realtime interfaces.IRealtimePublisher, cache interfaces.ICacheStore, versions *CacheVersions) *EffectDispatcher {
	return &EffectDispatcher{outbox: outbox, realtime: realtime, cache: cache, versions: versions}
}

func (d *EffectDispatcher) Dispatch(ctx context.Context, effects entities.Effects) {
	if effects.Empty() {
		return
	}
	for _, key := range effects.InvalidateKeys {
		if d.cache == nil {
			break
		}
		if err := d.cache.Delete(ctx, key); err != nil {
			log.Printf("[dispatch] cache invalidation failed key=%s err=%v", key, err)
		}
	}
	for _, base := range effects.BumpVersions {
		if d.versions == nil {
			break
		}
		if err := d.versions.Bump(ctx, base); err != nil {
			log.Printf("[dispatch] cache version bump failed key=%s err=%v", base, err)
		}
	}
	for _, email := range effects.Emails {
		if d.outbox == nil {
			log.Printf("[dispatch] no outbox configured, email dropped template=%s user_id=%s", email.Template, email.UserID)
			continue
		}
		if err := d.outbox.SendEmail(ctx, email); err != nil {
			log.Printf("[dispatch] email failed template=%s user_id=%s err=%v", email.Template, email.UserID, err)
		}
	}
	for _, admin := range effects.Admin {
		if d.outbox == nil {
			continue
		}
		if err := d.outbox.SendAdmin(ctx, admin); err != nil {
			log.Printf("[dispatch] admin notice failed subject=%q err=%v", admin.Subject, err)
		}
	}
	for _, notice := range effects.Realtime {
		if d.realtime == nil {
			continue
		}
		if err := d.realtime.Publish(ctx, notice); err != nil {
			log.Printf("[dispatch] realtime publish failed event=%s user_id=%s err=%v", notice.Event, notice.UserID, err)
		}
	}
}
