// Package status memoizes tariff classification per calendar day.
//
// The cache is read-through and needs no explicit invalidation: the key
// carries the tariff's date fingerprint and the current day, so any date edit
// or day rollover is a natural miss, and entries expire at local midnight.
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/upravdom/upravdom/internal/billingperiod"
	"github.com/upravdom/upravdom/internal/clock"
	tariffdomain "github.com/upravdom/upravdom/internal/tariff/domain"
	"github.com/upravdom/upravdom/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Classifier computes a tariff's status against a period descriptor.
// Swappable so tests can count invocations.
type Classifier func(tariffdomain.Tariff, billingperiod.Descriptor) (tariffdomain.StatusInfo, error)

// Key identifies one cached classification.
type Key struct {
	TariffID        snowflake.ID
	DateFingerprint string
	Day             string
}

func (k Key) String() string {
	return fmt.Sprintf("tariff:status:%d:%s:%s", k.TariffID, k.DateFingerprint, k.Day)
}

type Params struct {
	fx.In

	Store   Store
	Clock   clock.Clock
	Log     *zap.Logger
	Metrics *telemetry.Metrics `optional:"true"`
}

// Cache implements tariffdomain.StatusProvider.
type Cache struct {
	store    Store
	clock    clock.Clock
	log      *zap.Logger
	metrics  *telemetry.Metrics
	classify Classifier
}

func New(p Params) *Cache {
	return &Cache{
		store:    p.Store,
		clock:    p.Clock,
		log:      p.Log.Named("tariff.status"),
		metrics:  p.Metrics,
		classify: tariffdomain.Classify,
	}
}

// WithClassifier swaps the classifier. Test hook.
func (c *Cache) WithClassifier(fn Classifier) *Cache {
	c.classify = fn
	return c
}

// Info returns the tariff's status and editability, cached for the rest of
// the current calendar day.
func (c *Cache) Info(ctx context.Context, t tariffdomain.Tariff) (tariffdomain.StatusInfo, error) {
	now := c.clock.Now()
	if info, ok := c.lookup(ctx, t, now); ok {
		return info, nil
	}

	period := billingperiod.Compute(now)
	return c.fill(ctx, t, period, now)
}

// InfoMany classifies a batch against a single period descriptor, so "today"
// is computed once for the whole set.
func (c *Cache) InfoMany(ctx context.Context, tariffs []tariffdomain.Tariff) (map[snowflake.ID]tariffdomain.StatusInfo, error) {
	now := c.clock.Now()
	period := billingperiod.Compute(now)

	out := make(map[snowflake.ID]tariffdomain.StatusInfo, len(tariffs))
	for _, t := range tariffs {
		if info, ok := c.lookup(ctx, t, now); ok {
			out[t.ID] = info
			continue
		}
		info, err := c.fill(ctx, t, period, now)
		if err != nil {
			return nil, err
		}
		out[t.ID] = info
	}
	return out, nil
}

func (c *Cache) lookup(ctx context.Context, t tariffdomain.Tariff, now time.Time) (tariffdomain.StatusInfo, bool) {
	key := c.keyFor(t, now)
	raw, ok, err := c.store.Get(ctx, key.String())
	if err != nil {
		// A degraded cache must not fail reads; recompute instead.
		c.log.Warn("status cache get failed", zap.String("key", key.String()), zap.Error(err))
		return tariffdomain.StatusInfo{}, false
	}
	if !ok {
		return tariffdomain.StatusInfo{}, false
	}

	var info tariffdomain.StatusInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		c.log.Warn("status cache entry corrupt", zap.String("key", key.String()), zap.Error(err))
		return tariffdomain.StatusInfo{}, false
	}
	c.metrics.CacheHit()
	return info, true
}

func (c *Cache) fill(ctx context.Context, t tariffdomain.Tariff, period billingperiod.Descriptor, now time.Time) (tariffdomain.StatusInfo, error) {
	info, err := c.classify(t, period)
	if err != nil {
		return tariffdomain.StatusInfo{}, err
	}
	c.metrics.CacheMiss()

	raw, err := json.Marshal(info)
	if err != nil {
		return tariffdomain.StatusInfo{}, err
	}

	key := c.keyFor(t, now)
	if err := c.store.Set(ctx, key.String(), raw, billingperiod.UntilEndOfDay(now)); err != nil {
		c.log.Warn("status cache set failed", zap.String("key", key.String()), zap.Error(err))
	}
	return info, nil
}

func (c *Cache) keyFor(t tariffdomain.Tariff, now time.Time) Key {
	return Key{
		TariffID:        t.ID,
		DateFingerprint: fingerprint(t),
		Day:             now.Format(billingperiod.DateLayout),
	}
}

// fingerprint hashes the tariff's date fields so any mutation of either date
// produces a fresh cache key.
func fingerprint(t tariffdomain.Tariff) string {
	h := fnv.New64a()
	h.Write([]byte(t.StartDate.Format(billingperiod.DateLayout)))
	h.Write([]byte{'|'})
	if t.EndDate != nil {
		h.Write([]byte(t.EndDate.Format(billingperiod.DateLayout)))
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
