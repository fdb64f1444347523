package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Meter is a consumption meter installed in an apartment for one utility
// service.
type Meter struct {
	ID          snowflake.ID    `json:"id" gorm:"primaryKey"`
	ApartmentID snowflake.ID    `json:"apartment_id" gorm:"not null;index"`
	ServiceID   snowflake.ID    `json:"service_id" gorm:"column:service_id;not null;index"`
	Serial      string          `json:"serial" gorm:"type:text;not null;uniqueIndex"`
	LastReading decimal.Decimal `json:"last_reading" gorm:"type:decimal(12,3);not null;default:0"`
	InstalledAt time.Time       `json:"installed_at" gorm:"type:date;not null"`
	VerifiedAt  *time.Time      `json:"verified_at,omitempty" gorm:"type:date"`
	CreatedAt   time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Meter) TableName() string { return "meters" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, m *Meter) error
	Update(ctx context.Context, db *gorm.DB, m *Meter) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	DeleteByService(ctx context.Context, db *gorm.DB, serviceID snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Meter, error)
	FindByApartment(ctx context.Context, db *gorm.DB, apartmentID snowflake.ID) ([]Meter, error)
	List(ctx context.Context, db *gorm.DB) ([]Meter, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Meter, error)
	List(ctx context.Context, apartmentID string) ([]Meter, error)
	Get(ctx context.Context, id string) (*Meter, error)
	RecordReading(ctx context.Context, id string, reading decimal.Decimal) (*Meter, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	ApartmentID string `json:"apartment_id"`
	ServiceID   string `json:"service_id"`
	Serial      string `json:"serial"`
	InstalledAt string `json:"installed_at"`
}

var (
	ErrNotFound         = errors.New("meter_not_found")
	ErrInvalidID        = errors.New("invalid_meter_id")
	ErrInvalidSerial    = errors.New("invalid_meter_serial")
	ErrDuplicateSerial  = errors.New("duplicate_meter_serial")
	ErrInvalidApartment = errors.New("invalid_meter_apartment")
	ErrInvalidService   = errors.New("invalid_meter_service")
	ErrInvalidDate      = errors.New("invalid_meter_date")
	ErrReadingDecreased = errors.New("meter_reading_decreased")
)
