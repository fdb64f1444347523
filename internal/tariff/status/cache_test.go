package status

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/upravdom/upravdom/internal/billingperiod"
	"github.com/upravdom/upravdom/internal/clock"
	tariffdomain "github.com/upravdom/upravdom/internal/tariff/domain"
	"go.uber.org/zap/zaptest"
)

type countingClassifier struct {
	mu    sync.Mutex
	calls int
}

func (c *countingClassifier) classify(t tariffdomain.Tariff, p billingperiod.Descriptor) (tariffdomain.StatusInfo, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return tariffdomain.Classify(t, p)
}

func (c *countingClassifier) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func setupCache(t *testing.T, now time.Time) (*Cache, *countingClassifier, *clock.FakeClock) {
	t.Helper()
	counter := &countingClassifier{}
	fake := clock.NewFakeClock(now)
	cache := New(Params{
		Store: NewMemoryStore(),
		Clock: fake,
		Log:   zaptest.NewLogger(t),
	}).WithClassifier(counter.classify)
	return cache, counter, fake
}

func TestInfoClassifiesOncePerDay(t *testing.T) {
	cache, counter, _ := setupCache(t, date(2025, time.March, 20))
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	tariff := tariffdomain.Tariff{ID: node.Generate(), StartDate: date(2025, time.March, 1)}
	ctx := context.Background()

	first, err := cache.Info(ctx, tariff)
	if err != nil {
		t.Fatalf("first info: %v", err)
	}
	second, err := cache.Info(ctx, tariff)
	if err != nil {
		t.Fatalf("second info: %v", err)
	}

	if first != second {
		t.Fatalf("cached answer diverged: %+v vs %+v", first, second)
	}
	if counter.Calls() != 1 {
		t.Fatalf("classifier ran %d times, want 1", counter.Calls())
	}
	if first.Status != tariffdomain.StatusCurrent || !first.CanEdit {
		t.Fatalf("got %+v, want editable current", first)
	}
}

func TestInfoRecomputesOnDayRollover(t *testing.T) {
	cache, counter, fake := setupCache(t, date(2025, time.March, 20))
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	tariff := tariffdomain.Tariff{ID: node.Generate(), StartDate: date(2025, time.March, 1)}
	ctx := context.Background()

	if _, err := cache.Info(ctx, tariff); err != nil {
		t.Fatalf("info: %v", err)
	}

	fake.SetNow(date(2025, time.March, 21))
	if _, err := cache.Info(ctx, tariff); err != nil {
		t.Fatalf("info after rollover: %v", err)
	}

	if counter.Calls() != 2 {
		t.Fatalf("classifier ran %d times, want fresh run on a new day", counter.Calls())
	}
}

func TestInfoRecomputesWhenDatesChange(t *testing.T) {
	cache, counter, _ := setupCache(t, date(2025, time.March, 20))
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	tariff := tariffdomain.Tariff{ID: node.Generate(), StartDate: date(2025, time.March, 1)}
	ctx := context.Background()

	if _, err := cache.Info(ctx, tariff); err != nil {
		t.Fatalf("info: %v", err)
	}

	end := date(2025, time.March, 31)
	tariff.EndDate = &end
	info, err := cache.Info(ctx, tariff)
	if err != nil {
		t.Fatalf("info after end date set: %v", err)
	}

	if counter.Calls() != 2 {
		t.Fatalf("classifier ran %d times, want a miss for the new fingerprint", counter.Calls())
	}
	if info.Status != tariffdomain.StatusCurrent || !info.CanEdit {
		t.Fatalf("got %+v, want editable current", info)
	}
}

func TestInfoManySharesOneDescriptor(t *testing.T) {
	cache, counter, _ := setupCache(t, date(2025, time.March, 20))
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	tariffs := []tariffdomain.Tariff{
		{ID: node.Generate(), StartDate: date(2025, time.March, 1)},
		{ID: node.Generate(), StartDate: date(2025, time.April, 1)},
		{ID: node.Generate(), StartDate: date(2024, time.June, 1)},
	}

	infos, err := cache.InfoMany(context.Background(), tariffs)
	if err != nil {
		t.Fatalf("info many: %v", err)
	}

	if len(infos) != 3 {
		t.Fatalf("got %d infos, want 3", len(infos))
	}
	if infos[tariffs[0].ID].Status != tariffdomain.StatusCurrent {
		t.Fatalf("first tariff status = %s, want current", infos[tariffs[0].ID].Status)
	}
	if infos[tariffs[1].ID].Status != tariffdomain.StatusFuture {
		t.Fatalf("second tariff status = %s, want future", infos[tariffs[1].ID].Status)
	}
	if counter.Calls() != 3 {
		t.Fatalf("classifier ran %d times, want 3", counter.Calls())
	}
}

func TestKeyEncodesDayAndFingerprint(t *testing.T) {
	tariff := tariffdomain.Tariff{ID: 42, StartDate: date(2025, time.March, 1)}

	key := Key{
		TariffID:        tariff.ID,
		DateFingerprint: fingerprint(tariff),
		Day:             "2025-03-20",
	}

	want := "tariff:status:42:" + fingerprint(tariff) + ":2025-03-20"
	if key.String() != want {
		t.Fatalf("key = %s, want %s", key.String(), want)
	}

	end := date(2025, time.March, 31)
	tariff.EndDate = &end
	if fingerprint(tariff) == key.DateFingerprint {
		t.Fatal("fingerprint must change when the end date changes")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("v"), -time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, err := store.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("expired entry must read as a miss, got ok=%t err=%v", ok, err)
	}

	if err := store.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	raw, ok, err := store.Get(ctx, "k")
	if err != nil || !ok || string(raw) != "v" {
		t.Fatalf("live entry must read back, got %q ok=%t err=%v", raw, ok, err)
	}
}
