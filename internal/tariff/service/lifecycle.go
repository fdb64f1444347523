package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/upravdom/upravdom/internal/billingperiod"
	tariffdomain "github.com/upravdom/upravdom/internal/tariff/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// The lifecycle mutator. Three events change a service's tariff timeline:
// the service is deleted, its calculation basis changes, or an operator sets
// an end date. Each handler runs inside the caller's transaction and uses the
// classifier directly so the partitioning reflects this very moment, not a
// cached answer.

// EnsureInitialTariff seeds the rate-0 tariff a freshly created service
// starts with.
func (s *Service) EnsureInitialTariff(ctx context.Context, tx *gorm.DB, serviceID snowflake.ID, unit tariffdomain.Unit) error {
	period := billingperiod.Compute(s.clock.Now())
	if err := s.createZeroRate(ctx, tx, serviceID, unit, period.ActiveStart, nil); err != nil {
		return err
	}
	s.metrics.Lifecycle("initial_tariff")
	return nil
}

// HandleUnitChanged applies Event B: the service's calculation basis changed,
// so every live tariff must carry the new unit.
func (s *Service) HandleUnitChanged(ctx context.Context, tx *gorm.DB, serviceID snowflake.ID, unit tariffdomain.Unit) error {
	tariffs, err := s.repo.FindByService(ctx, tx, serviceID)
	if err != nil {
		return err
	}
	if len(tariffs) == 0 {
		return s.EnsureInitialTariff(ctx, tx, serviceID, unit)
	}

	now := s.clock.Now()
	period := billingperiod.Compute(now)

	for i := range tariffs {
		t := &tariffs[i]
		info, err := tariffdomain.Classify(*t, period)
		if err != nil {
			return err
		}

		switch info.Status {
		case tariffdomain.StatusFuture:
			// Not yet in force, the unit just changes in place.
			t.Unit = unit
			t.UpdatedAt = now.UTC()
			if err := s.repo.Update(ctx, tx, t); err != nil {
				return err
			}

		case tariffdomain.StatusCurrent:
			if billingperiod.SameDay(t.StartDate, period.ActiveStart) {
				t.Unit = unit
				t.UpdatedAt = now.UTC()
				if err := s.repo.Update(ctx, tx, t); err != nil {
					return err
				}
				continue
			}

			// An older tariff still covering the active window is locked:
			// close it just before the active period and start pricing over.
			closed := billingperiod.DayOf(period.CloseBoundary())
			t.EndDate = &closed
			t.UpdatedAt = now.UTC()
			if err := s.repo.Update(ctx, tx, t); err != nil {
				return err
			}
			if err := s.createZeroRate(ctx, tx, serviceID, unit, period.ActiveStart, nil); err != nil {
				return err
			}
		}
	}

	s.metrics.Lifecycle("unit_changed")
	s.log.Info("calculation basis changed",
		zap.Int64("service_id", serviceID.Int64()),
		zap.String("unit", string(unit)),
	)
	return nil
}

// HandleServiceDeleted applies Event A: the owning service is going away, so
// the timeline is wound down without leaving dangling forward pricing.
func (s *Service) HandleServiceDeleted(ctx context.Context, tx *gorm.DB, serviceID snowflake.ID) error {
	tariffs, err := s.repo.FindByService(ctx, tx, serviceID)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	period := billingperiod.Compute(now)
	deleted := make(map[snowflake.ID]bool, len(tariffs))

	for i := range tariffs {
		t := &tariffs[i]
		info, err := tariffdomain.Classify(*t, period)
		if err != nil {
			return err
		}

		switch info.Status {
		case tariffdomain.StatusFuture:
			if err := s.repo.Delete(ctx, tx, t.ID); err != nil {
				return err
			}
			deleted[t.ID] = true

		case tariffdomain.StatusCurrent:
			if billingperiod.SameDay(t.StartDate, period.ActiveStart) {
				if err := s.repo.Delete(ctx, tx, t.ID); err != nil {
					return err
				}
				deleted[t.ID] = true
				continue
			}

			closed := billingperiod.DayOf(period.CloseBoundary())
			t.EndDate = &closed
			t.UpdatedAt = now.UTC()
			if err := s.repo.Update(ctx, tx, t); err != nil {
				return err
			}
		}
	}

	// Placeholder tariffs that were never priced have no billing value.
	for i := range tariffs {
		t := &tariffs[i]
		if deleted[t.ID] || !t.Rate.IsZero() {
			continue
		}
		if err := s.repo.Delete(ctx, tx, t.ID); err != nil {
			return err
		}
	}

	s.metrics.Lifecycle("service_deleted")
	s.log.Info("tariff timeline wound down", zap.Int64("service_id", serviceID.Int64()))
	return nil
}

// handleEndDateSet applies Event C after an end date was written: shift the
// successor to start the next day, or create an open-ended rate-0 successor
// so the service never loses forward pricing coverage.
func (s *Service) handleEndDateSet(ctx context.Context, tx *gorm.DB, t *tariffdomain.Tariff) error {
	nextStart := billingperiod.DayOf(*t.EndDate).AddDate(0, 0, 1)

	successor, err := s.repo.FindSuccessor(ctx, tx, t.ServiceID, t.StartDate)
	if err != nil {
		return err
	}

	if successor != nil {
		successor.StartDate = nextStart
		successor.UpdatedAt = s.clock.Now().UTC()
		if err := s.repo.Update(ctx, tx, successor); err != nil {
			return err
		}
	} else {
		if err := s.createZeroRate(ctx, tx, t.ServiceID, t.Unit, nextStart, nil); err != nil {
			return err
		}
	}

	s.metrics.Lifecycle("end_date_set")
	return nil
}

func (s *Service) createZeroRate(ctx context.Context, tx *gorm.DB, serviceID snowflake.ID, unit tariffdomain.Unit, start time.Time, end *time.Time) error {
	now := s.clock.Now().UTC()
	return s.repo.Insert(ctx, tx, &tariffdomain.Tariff{
		ID:        s.genID.Generate(),
		ServiceID: serviceID,
		Rate:      decimal.Zero,
		Unit:      unit,
		StartDate: billingperiod.DayOf(start),
		EndDate:   end,
		CreatedAt: now,
		UpdatedAt: now,
	})
}
