package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, u *UtilityService) error
	Update(ctx context.Context, db *gorm.DB, u *UtilityService) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*UtilityService, error)
	List(ctx context.Context, db *gorm.DB) ([]UtilityService, error)
}
