package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Calculation string  `json:"calculation"`
	MeterType   *string `json:"meter_type,omitempty"`
}

type UpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Calculation *string `json:"calculation,omitempty"`
	MeterType   *string `json:"meter_type,omitempty"`
}

type Response struct {
	ID          snowflake.ID `json:"id"`
	Name        string       `json:"name"`
	Code        string       `json:"code"`
	Calculation Calculation  `json:"calculation"`
	MeterType   *MeterType   `json:"meter_type,omitempty"`
	Unit        string       `json:"unit"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

var (
	ErrNotFound           = errors.New("service_not_found")
	ErrInvalidID          = errors.New("invalid_service_id")
	ErrInvalidName        = errors.New("invalid_service_name")
	ErrInvalidCode        = errors.New("invalid_service_code")
	ErrDuplicateCode      = errors.New("duplicate_service_code")
	ErrInvalidCalculation = errors.New("invalid_calculation")
	ErrInvalidMeterType   = errors.New("invalid_meter_type")
	ErrMeterTypeRequired  = errors.New("meter_type_required")
)
