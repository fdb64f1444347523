package clock

import (
	"fmt"
	"time"

	"github.com/upravdom/upravdom/internal/config"
	"go.uber.org/fx"
)

// Module provides the billing clock.
var Module = fx.Module("clock", fx.Provide(New))

// Clock supplies "now" in the billing time zone. Injected everywhere instead
// of time.Now so period arithmetic is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	loc *time.Location
}

// New builds a SystemClock pinned to the configured billing time zone.
func New(cfg config.Config) (Clock, error) {
	loc, err := time.LoadLocation(cfg.BillingTimezone)
	if err != nil {
		return nil, fmt.Errorf("load billing timezone %q: %w", cfg.BillingTimezone, err)
	}
	return &SystemClock{loc: loc}, nil
}

func (c *SystemClock) Now() time.Time {
	loc := c.loc
	if loc == nil {
		loc = time.UTC
	}
	return time.Now().In(loc)
}
