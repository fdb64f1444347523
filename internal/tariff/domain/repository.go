package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository persists tariff records. The gorm handle is passed per call so
// lifecycle mutations can run every statement inside one transaction.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, t *Tariff) error
	Update(ctx context.Context, db *gorm.DB, t *Tariff) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Tariff, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]Tariff, error)
	FindByService(ctx context.Context, db *gorm.DB, serviceID snowflake.ID) ([]Tariff, error)

	// FindOverlapping returns any tariff of the service whose interval
	// intersects [start, end] (end nil = open-ended), excluding excludeID.
	// Touching at a boundary day counts as overlap.
	FindOverlapping(ctx context.Context, db *gorm.DB, serviceID snowflake.ID, start time.Time, end *time.Time, excludeID snowflake.ID) (*Tariff, error)

	// FindSuccessor returns the chronologically next tariff of the service,
	// i.e. the one with the smallest start date strictly after the given day.
	FindSuccessor(ctx context.Context, db *gorm.DB, serviceID snowflake.ID, after time.Time) (*Tariff, error)
}
