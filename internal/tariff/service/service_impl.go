package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/upravdom/upravdom/internal/billingperiod"
	"github.com/upravdom/upravdom/internal/clock"
	tariffdomain "github.com/upravdom/upravdom/internal/tariff/domain"
	"github.com/upravdom/upravdom/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    tariffdomain.Repository
	Status  tariffdomain.StatusProvider
	Metrics *telemetry.Metrics `optional:"true"`
	Locker  *Locker            `optional:"true"`
}

// Service implements both tariffdomain.Service and tariffdomain.Lifecycle.
type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    tariffdomain.Repository
	status  tariffdomain.StatusProvider
	metrics *telemetry.Metrics
	locker  *Locker
}

func New(p Params) *Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("tariff.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		status:  p.Status,
		metrics: p.Metrics,
		locker:  p.Locker,
	}
}

func (s *Service) Create(ctx context.Context, req tariffdomain.CreateRequest) (*tariffdomain.Response, error) {
	serviceID, err := parseID(req.ServiceID)
	if err != nil {
		return nil, tariffdomain.ErrInvalidService
	}

	var errs tariffdomain.ValidationErrors
	now := s.clock.Now()

	if req.Rate.IsNegative() {
		errs = append(errs, tariffdomain.FieldError{
			Field: "rate", Code: "negative_rate", Message: "rate must not be negative",
		})
	}

	unit, ok := tariffdomain.ParseUnit(req.Unit)
	if !ok {
		errs = append(errs, tariffdomain.FieldError{
			Field: "unit", Code: "invalid_unit", Message: "unknown pricing unit",
		})
	}

	start, startErrs := s.parseStartDate(req.StartDate, now)
	errs = append(errs, startErrs...)

	var end *time.Time
	if req.EndDate != nil {
		parsed, endErrs := s.parseEndDate(*req.EndDate, now)
		errs = append(errs, endErrs...)
		end = parsed
	}

	if len(errs) == 0 && end != nil && end.Before(start) {
		errs = append(errs, tariffdomain.FieldError{
			Field: "end_date", Code: "end_before_start", Message: "end date precedes start date",
		})
	}

	if len(errs) > 0 {
		return nil, errs
	}

	var entity *tariffdomain.Tariff
	err = s.withServiceLock(ctx, serviceID, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			existing, err := s.repo.FindOverlapping(ctx, tx, serviceID, start, end, 0)
			if err != nil {
				return err
			}
			if existing != nil {
				return tariffdomain.ValidationErrors{{
					Field:   "start_date",
					Code:    "overlapping_tariff",
					Message: fmt.Sprintf("interval overlaps tariff starting %s", existing.StartDate.Format(billingperiod.DateLayout)),
				}}
			}

			entity = &tariffdomain.Tariff{
				ID:        s.genID.Generate(),
				ServiceID: serviceID,
				Rate:      req.Rate,
				Unit:      unit,
				StartDate: start,
				EndDate:   end,
				CreatedAt: now.UTC(),
				UpdatedAt: now.UTC(),
			}
			return s.repo.Insert(ctx, tx, entity)
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("tariff created",
		zap.Int64("tariff_id", entity.ID.Int64()),
		zap.Int64("service_id", serviceID.Int64()),
	)
	return s.toResponse(ctx, entity)
}

func (s *Service) List(ctx context.Context, req tariffdomain.ListRequest) ([]tariffdomain.Response, error) {
	serviceID, err := parseID(req.ServiceID)
	if err != nil {
		return nil, tariffdomain.ErrInvalidService
	}

	items, err := s.repo.FindByService(ctx, s.db, serviceID)
	if err != nil {
		return nil, err
	}

	infos, err := s.status.InfoMany(ctx, items)
	if err != nil {
		return nil, err
	}

	resp := make([]tariffdomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, buildResponse(&items[i], infos[items[i].ID]))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*tariffdomain.Response, error) {
	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, entity)
}

func (s *Service) Update(ctx context.Context, id string, req tariffdomain.UpdateRequest) (*tariffdomain.Response, error) {
	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()

	if req.StartDate != nil {
		requested, parseErr := s.parseDate(*req.StartDate)
		if parseErr != nil || !billingperiod.SameDay(requested, entity.StartDate) {
			return nil, tariffdomain.ValidationErrors{{
				Field:   "start_date",
				Code:    "start_date_immutable",
				Message: "start date is fixed at creation time",
			}}
		}
	}

	info, err := s.status.Info(ctx, *entity)
	if err != nil {
		return nil, err
	}
	if !info.CanEdit {
		return nil, tariffdomain.ErrTariffLocked
	}

	var errs tariffdomain.ValidationErrors

	if req.Rate != nil && req.Rate.IsNegative() {
		errs = append(errs, tariffdomain.FieldError{
			Field: "rate", Code: "negative_rate", Message: "rate must not be negative",
		})
	}

	var unit *tariffdomain.Unit
	if req.Unit != nil {
		parsed, ok := tariffdomain.ParseUnit(*req.Unit)
		if !ok {
			errs = append(errs, tariffdomain.FieldError{
				Field: "unit", Code: "invalid_unit", Message: "unknown pricing unit",
			})
		} else {
			unit = &parsed
		}
	}

	var newEnd *time.Time
	if req.EndDate != nil {
		parsed, endErrs := s.parseEndDate(*req.EndDate, now)
		errs = append(errs, endErrs...)
		if len(endErrs) == 0 && parsed.Before(entity.StartDate) {
			errs = append(errs, tariffdomain.FieldError{
				Field: "end_date", Code: "end_before_start", Message: "end date precedes start date",
			})
		}
		newEnd = parsed
	}

	if len(errs) > 0 {
		return nil, errs
	}

	endChanged := newEnd != nil && (entity.EndDate == nil || !billingperiod.SameDay(*entity.EndDate, *newEnd))

	err = s.withServiceLock(ctx, entity.ServiceID, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if req.Rate != nil {
				entity.Rate = *req.Rate
			}
			if unit != nil {
				entity.Unit = *unit
			}
			if newEnd != nil {
				entity.EndDate = newEnd
			}
			entity.UpdatedAt = now.UTC()
			if err := s.repo.Update(ctx, tx, entity); err != nil {
				return err
			}

			if endChanged {
				return s.handleEndDateSet(ctx, tx, entity)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return s.toResponse(ctx, entity)
}

// Delete removes a tariff. Only expired tariffs may go; current and future
// ones are part of the live timeline.
func (s *Service) Delete(ctx context.Context, id string) error {
	entity, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	info, err := s.status.Info(ctx, *entity)
	if err != nil {
		return err
	}
	if info.Status != tariffdomain.StatusExpired {
		return tariffdomain.ErrNotExpired
	}

	if err := s.repo.Delete(ctx, s.db, entity.ID); err != nil {
		return err
	}
	s.log.Info("tariff deleted", zap.Int64("tariff_id", entity.ID.Int64()))
	return nil
}

func (s *Service) Status(ctx context.Context, id string) (*tariffdomain.StatusInfo, error) {
	entity, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	info, err := s.status.Info(ctx, *entity)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *Service) StatusMany(ctx context.Context, ids []string) (map[string]tariffdomain.StatusInfo, error) {
	parsed := make([]snowflake.ID, 0, len(ids))
	seen := make(map[snowflake.ID]struct{}, len(ids))
	for _, id := range ids {
		p, err := parseID(id)
		if err != nil {
			return nil, tariffdomain.ErrInvalidID
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		parsed = append(parsed, p)
	}

	tariffs, err := s.repo.FindByIDs(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if len(tariffs) != len(parsed) {
		return nil, tariffdomain.ErrNotFound
	}

	infos, err := s.status.InfoMany(ctx, tariffs)
	if err != nil {
		return nil, err
	}

	out := make(map[string]tariffdomain.StatusInfo, len(infos))
	for id, info := range infos {
		out[id.String()] = info
	}
	return out, nil
}

func (s *Service) StartDateOptions(ctx context.Context) (*tariffdomain.StartDateOptions, error) {
	today := s.clock.Now()
	allowed := billingperiod.AllowedStartDates(today)

	dates := make([]string, 0, len(allowed))
	for _, d := range allowed {
		dates = append(dates, d.Format(billingperiod.DateLayout))
	}
	return &tariffdomain.StartDateOptions{
		AllowedStartDates: dates,
		Examples:          billingperiod.DateExamples(today),
	}, nil
}

func (s *Service) load(ctx context.Context, id string) (*tariffdomain.Tariff, error) {
	parsed, err := parseID(id)
	if err != nil {
		return nil, tariffdomain.ErrInvalidID
	}
	entity, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, tariffdomain.ErrNotFound
	}
	return entity, nil
}

func (s *Service) toResponse(ctx context.Context, t *tariffdomain.Tariff) (*tariffdomain.Response, error) {
	info, err := s.status.Info(ctx, *t)
	if err != nil {
		return nil, err
	}
	resp := buildResponse(t, info)
	return &resp, nil
}

func buildResponse(t *tariffdomain.Tariff, info tariffdomain.StatusInfo) tariffdomain.Response {
	resp := tariffdomain.Response{
		ID:        t.ID,
		ServiceID: t.ServiceID,
		Rate:      t.Rate,
		Unit:      t.Unit,
		StartDate: t.StartDate.Format(billingperiod.DateLayout),
		Status:    info.Status,
		CanEdit:   info.CanEdit,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.EndDate != nil {
		formatted := t.EndDate.Format(billingperiod.DateLayout)
		resp.EndDate = &formatted
	}
	return resp
}

// parseStartDate validates the operator-chosen first day of a tariff window.
func (s *Service) parseStartDate(raw string, now time.Time) (time.Time, tariffdomain.ValidationErrors) {
	examples := billingperiod.DateExamples(now)

	parsed, err := s.parseDate(raw)
	if err != nil {
		return time.Time{}, tariffdomain.ValidationErrors{{
			Field:   "start_date",
			Code:    "invalid_date",
			Message: fmt.Sprintf("not a valid date, expected e.g. %v", examples),
		}}
	}

	var errs tariffdomain.ValidationErrors
	if !billingperiod.ValidateStartDate(parsed) {
		errs = append(errs, tariffdomain.FieldError{
			Field:   "start_date",
			Code:    "not_first_of_month",
			Message: fmt.Sprintf("must be the first day of a month, e.g. %v", examples),
		})
	}
	if parsed.After(billingperiod.DayOf(now).AddDate(maxYearsAhead, 0, 0)) {
		errs = append(errs, tariffdomain.FieldError{
			Field:   "start_date",
			Code:    "too_far_ahead",
			Message: fmt.Sprintf("must be within %d years", maxYearsAhead),
		})
	}
	return parsed, errs
}

func (s *Service) parseEndDate(raw string, now time.Time) (*time.Time, tariffdomain.ValidationErrors) {
	parsed, err := s.parseDate(raw)
	if err != nil {
		return nil, tariffdomain.ValidationErrors{{
			Field: "end_date", Code: "invalid_date", Message: "not a valid date",
		}}
	}

	var errs tariffdomain.ValidationErrors
	if !billingperiod.ValidateEndDate(parsed) {
		errs = append(errs, tariffdomain.FieldError{
			Field: "end_date", Code: "not_last_of_month", Message: "must be the last day of a month",
		})
	}
	if parsed.After(billingperiod.DayOf(now).AddDate(maxYearsAhead, 0, 0)) {
		errs = append(errs, tariffdomain.FieldError{
			Field:   "end_date",
			Code:    "too_far_ahead",
			Message: fmt.Sprintf("must be within %d years", maxYearsAhead),
		})
	}
	return &parsed, errs
}

const maxYearsAhead = 10

func (s *Service) parseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(billingperiod.DateLayout, raw, s.clock.Now().Location())
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(raw)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
