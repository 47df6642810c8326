package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"billing_reconciler/internal/usecase/interfaces"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

var ErrIdempotencyInFlight = errors.New("another request with the same idempotency key is still running")

const (
	defaultFactoryTimeout = 30 * time.Second
	// claimGrace covers storing the result after the factory deadline.
	claimGrace          = 15 * time.Second
	defaultPollInterval = 100 * time.Millisecond
)

// IdempotencyCache runs a factory at most once per key while its result is
// cached. Callers in the same process share one flight; callers in other
// processes wait on the claim marker and read the winner's result.
//
// A started factory runs to completion even when its caller goes away, bounded
// by factoryTimeout. The claim outlives that bound, so no other process can
// take over a key while its factory may still be running.
type IdempotencyCache struct {
	store          interfaces.ICacheStore
	group          singleflight.Group
	factoryTimeout time.Duration
	claimTTL       time.Duration
	pollInterval   time.Duration
}

func NewIdempotencyCache(store interfaces.ICacheStore) *IdempotencyCache {
	c := &IdempotencyCache{store: store, pollInterval: defaultPollInterval}
	c.setFactoryTimeout(defaultFactoryTimeout)
	return c
}

func (c *IdempotencyCache) setFactoryTimeout(d time.Duration) {
	c.factoryTimeout = d
	c.claimTTL = d + claimGrace
}

// GetOrCreate returns the cached value for key or stores what factory
// produces under ttl. Factory errors are returned and nothing is cached.
// If ctx ends first the caller gets ctx.Err() while the flight carries on.
func (c *IdempotencyCache) GetOrCreate(ctx context.Context, key string, ttl time.Duration, factory func(context.Context) ([]byte, error)) ([]byte, error) {
	flight := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		return c.getOrCreate(flight, key, ttl, factory)
	})
	select {
	case <-ctx.Done():
		log.Printf("[cache][idempotency] caller left before result key=%s err=%v", key, ctx.Err())
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Printf("[cache][idempotency] shared in-flight result key=%s", key)
		}
		return res.Val.([]byte), nil
	}
}

func (c *IdempotencyCache) getOrCreate(ctx context.Context, key string, ttl time.Duration, factory func(context.Context) ([]byte, error)) ([]byte, error) {
	claimKey := key + ":lock"
	token := []byte(uuid.NewString())
	deadline := time.Now().Add(c.claimTTL)
	for {
		cached, found, err := c.store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if found {
			log.Printf("[cache][idempotency] hit key=%s", key)
			return cached, nil
		}

		claimed, err := c.store.SetIfAbsent(ctx, claimKey, token, c.claimTTL)
		if err != nil {
			return nil, err
		}
		if claimed {
			return c.produce(ctx, key, claimKey, token, ttl, factory)
		}

		if !time.Now().Before(deadline) {
			log.Printf("[cache][idempotency] gave up waiting key=%s", key)
			return nil, ErrIdempotencyInFlight
		}
		time.Sleep(c.pollInterval)
	}
}

func (c *IdempotencyCache) produce(ctx context.Context, key, claimKey string, token []byte, ttl time.Duration, factory func(context.Context) ([]byte, error)) ([]byte, error) {
	// The previous holder may have stored its result right before we claimed.
	if cached, found, err := c.store.Get(ctx, key); err != nil {
		c.release(ctx, key, claimKey, token)
		return nil, err
	} else if found {
		c.release(ctx, key, claimKey, token)
		return cached, nil
	}

	fctx, cancel := context.WithTimeout(ctx, c.factoryTimeout)
	value, err := factory(fctx)
	cancel()
	if err != nil {
		log.Printf("[cache][idempotency] factory failed key=%s err=%v", key, err)
		c.release(ctx, key, claimKey, token)
		return nil, err
	}
	if err := c.store.Set(ctx, key, value, ttl); err != nil {
		// The claim stays until it expires so no other caller repeats the work.
		log.Printf("[cache][idempotency] store failed, holding claim key=%s err=%v", key, err)
		return value, nil
	}
	log.Printf("[cache][idempotency] stored key=%s ttl=%s", key, ttl)
	c.release(ctx, key, claimKey, token)
	return value, nil
}

// release drops the claim only while it still carries our token.
func (c *IdempotencyCache) release(ctx context.Context, key, claimKey string, token []byte) {
	deleted, err := c.store.DeleteIfValue(ctx, claimKey, token)
	if err != nil {
		log.Printf("[cache][idempotency] release claim failed key=%s err=%v", key, err)
		return
	}
	if !deleted {
		log.Printf("[cache][idempotency] claim no longer ours key=%s", key)
	}
}

// GetOrCreateJSON is GetOrCreate for JSON encodable results.
func GetOrCreateJSON[T any](ctx context.Context, c *IdempotencyCache, key string, ttl time.Duration, factory func(context.Context) (T, error)) (T, error) {
	var out T
	raw, err := c.GetOrCreate(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, err := factory(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}

const versionTokenTTL = 30 * 24 * time.Hour

// CacheVersions hands out version tokens for cached collections. Bumping a
// token orphans every entry cached under the previous one.
type CacheVersions struct {
	store interfaces.ICacheStore
}

func NewCacheVersions(store interfaces.ICacheStore) *CacheVersions {
	return &CacheVersions{store: store}
}

func versionKey(base string) string {
	return "version:" + base
}

func (v *CacheVersions) Bump(ctx context.Context, base string) error {
	return v.store.Set(ctx, versionKey(base), []byte(uuid.NewString()), versionTokenTTL)
}

// Key returns base suffixed with its current version token, creating the
// token on first use.
func (v *CacheVersions) Key(ctx context.Context, base string) (string, error) {
	token, found, err := v.store.Get(ctx, versionKey(base))
	if err != nil {
		return "", err
	}
	if !found {
		if _, err := v.store.SetIfAbsent(ctx, versionKey(base), []byte(uuid.NewString()), versionTokenTTL); err != nil {
			return "", err
		}
		token, found, err = v.store.Get(ctx, versionKey(base))
		if err != nil {
			return "", err
		}
		if !found {
			return "", errors.New("cache version token vanished for " + base)
		}
	}
	return base + ":v" + string(token), nil
}
