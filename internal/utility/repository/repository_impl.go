package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	utilitydomain "github.com/upravdom/upravdom/internal/utility/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() utilitydomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, u *utilitydomain.UtilityService) error {
	return db.WithContext(ctx).Create(u).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, u *utilitydomain.UtilityService) error {
	return db.WithContext(ctx).Save(u).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&utilitydomain.UtilityService{}, "id = ?", id).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*utilitydomain.UtilityService, error) {
	var u utilitydomain.UtilityService
	err := db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]utilitydomain.UtilityService, error) {
	var items []utilitydomain.UtilityService
	err := db.WithContext(ctx).Order("name ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
