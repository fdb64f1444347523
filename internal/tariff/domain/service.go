package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is the operator-facing tariff API.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error

	Status(ctx context.Context, id string) (*StatusInfo, error)
	StatusMany(ctx context.Context, ids []string) (map[string]StatusInfo, error)
	StartDateOptions(ctx context.Context) (*StartDateOptions, error)
}

// Lifecycle keeps a service's tariff timeline consistent across the three
// triggering events. Callers run it inside their own transaction.
type Lifecycle interface {
	// EnsureInitialTariff seeds a rate-0 open-ended tariff starting at the
	// active period start for a service that has none.
	EnsureInitialTariff(ctx context.Context, tx *gorm.DB, serviceID snowflake.ID, unit Unit) error

	// HandleUnitChanged applies the calculation-basis change rules: future
	// tariffs get the new unit in place, the editable current tariff too,
	// and a locked current tariff is closed with a rate-0 replacement.
	HandleUnitChanged(ctx context.Context, tx *gorm.DB, serviceID snowflake.ID, unit Unit) error

	// HandleServiceDeleted removes future tariffs, closes or removes current
	// ones, and drops never-priced leftovers.
	HandleServiceDeleted(ctx context.Context, tx *gorm.DB, serviceID snowflake.ID) error
}

// StatusProvider answers status queries, normally through the day-scoped cache.
type StatusProvider interface {
	Info(ctx context.Context, t Tariff) (StatusInfo, error)
	InfoMany(ctx context.Context, tariffs []Tariff) (map[snowflake.ID]StatusInfo, error)
}

type CreateRequest struct {
	ServiceID string          `json:"service_id"`
	Rate      decimal.Decimal `json:"rate"`
	Unit      string          `json:"unit"`
	StartDate string          `json:"start_date"`
	EndDate   *string         `json:"end_date,omitempty"`
}

type ListRequest struct {
	ServiceID string `json:"service_id"`
}

// UpdateRequest carries the editable fields. StartDate is accepted on the
// wire only so its mutation can be rejected explicitly.
type UpdateRequest struct {
	Rate      *decimal.Decimal `json:"rate,omitempty"`
	Unit      *string          `json:"unit,omitempty"`
	StartDate *string          `json:"start_date,omitempty"`
	EndDate   *string          `json:"end_date,omitempty"`
}

type Response struct {
	ID        snowflake.ID    `json:"id"`
	ServiceID snowflake.ID    `json:"service_id"`
	Rate      decimal.Decimal `json:"rate"`
	Unit      Unit            `json:"unit"`
	StartDate string          `json:"start_date"`
	EndDate   *string         `json:"end_date,omitempty"`
	Status    Status          `json:"status"`
	CanEdit   bool            `json:"can_edit"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// StartDateOptions backs the start-date picker and validation messages.
type StartDateOptions struct {
	AllowedStartDates []string `json:"allowed_start_dates"`
	Examples          []string `json:"examples"`
}

var (
	ErrNotFound           = errors.New("tariff_not_found")
	ErrInvalidID          = errors.New("invalid_tariff_id")
	ErrInvalidService     = errors.New("invalid_service")
	ErrMissingStartDate   = errors.New("tariff_missing_start_date")
	ErrStartDateImmutable = errors.New("start_date_immutable")
	ErrTariffLocked       = errors.New("tariff_locked")
	ErrNotExpired         = errors.New("tariff_not_expired")
)

// FieldError is one user-correctable validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrors collects every failed field check so the caller can show
// all problems at once.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string { return "validation error" }

// AsValidationErrors unwraps err into ValidationErrors if possible.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
