package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Apartment is one unit of the managed building.
type Apartment struct {
	ID        snowflake.ID    `json:"id" gorm:"primaryKey"`
	Number    string          `json:"number" gorm:"type:text;not null;uniqueIndex"`
	Floor     int             `json:"floor" gorm:"not null"`
	Rooms     int             `json:"rooms" gorm:"not null"`
	AreaM2    decimal.Decimal `json:"area_m2" gorm:"type:decimal(8,2);not null"`
	OwnerID   *snowflake.ID   `json:"owner_id,omitempty" gorm:"index"`
	CreatedAt time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Apartment) TableName() string { return "apartments" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, a *Apartment) error
	Update(ctx context.Context, db *gorm.DB, a *Apartment) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Apartment, error)
	List(ctx context.Context, db *gorm.DB) ([]Apartment, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Apartment, error)
	List(ctx context.Context) ([]Apartment, error)
	Get(ctx context.Context, id string) (*Apartment, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Apartment, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Number  string          `json:"number"`
	Floor   int             `json:"floor"`
	Rooms   int             `json:"rooms"`
	AreaM2  decimal.Decimal `json:"area_m2"`
	OwnerID *string         `json:"owner_id,omitempty"`
}

type UpdateRequest struct {
	Floor   *int             `json:"floor,omitempty"`
	Rooms   *int             `json:"rooms,omitempty"`
	AreaM2  *decimal.Decimal `json:"area_m2,omitempty"`
	OwnerID *string          `json:"owner_id,omitempty"`
}

var (
	ErrNotFound        = errors.New("apartment_not_found")
	ErrInvalidID       = errors.New("invalid_apartment_id")
	ErrInvalidNumber   = errors.New("invalid_apartment_number")
	ErrDuplicateNumber = errors.New("duplicate_apartment_number")
	ErrInvalidArea     = errors.New("invalid_apartment_area")
	ErrInvalidOwner    = errors.New("invalid_apartment_owner")
)
