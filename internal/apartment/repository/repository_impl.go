package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	apartmentdomain "github.com/upravdom/upravdom/internal/apartment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() apartmentdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, a *apartmentdomain.Apartment) error {
	return db.WithContext(ctx).Create(a).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, a *apartmentdomain.Apartment) error {
	return db.WithContext(ctx).Save(a).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&apartmentdomain.Apartment{}, "id = ?", id).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*apartmentdomain.Apartment, error) {
	var a apartmentdomain.Apartment
	err := db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]apartmentdomain.Apartment, error) {
	var items []apartmentdomain.Apartment
	err := db.WithContext(ctx).Order("number ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
