package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	ownerdomain "github.com/upravdom/upravdom/internal/owner/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() ownerdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, o *ownerdomain.Owner) error {
	return db.WithContext(ctx).Create(o).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, o *ownerdomain.Owner) error {
	return db.WithContext(ctx).Save(o).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&ownerdomain.Owner{}, "id = ?", id).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ownerdomain.Owner, error) {
	var o ownerdomain.Owner
	err := db.WithContext(ctx).First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]ownerdomain.Owner, error) {
	var items []ownerdomain.Owner
	err := db.WithContext(ctx).Order("full_name ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
