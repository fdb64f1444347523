package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Owner is a registered apartment owner.
type Owner struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	FullName  string       `json:"full_name" gorm:"type:text;not null"`
	Email     string       `json:"email" gorm:"type:text;not null;uniqueIndex"`
	Phone     string       `json:"phone" gorm:"type:text"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Owner) TableName() string { return "owners" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, o *Owner) error
	Update(ctx context.Context, db *gorm.DB, o *Owner) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Owner, error)
	List(ctx context.Context, db *gorm.DB) ([]Owner, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Owner, error)
	List(ctx context.Context) ([]Owner, error)
	Get(ctx context.Context, id string) (*Owner, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Owner, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type UpdateRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

var (
	ErrNotFound       = errors.New("owner_not_found")
	ErrInvalidID      = errors.New("invalid_owner_id")
	ErrInvalidName    = errors.New("invalid_owner_name")
	ErrInvalidEmail   = errors.New("invalid_owner_email")
	ErrDuplicateEmail = errors.New("duplicate_owner_email")
)
