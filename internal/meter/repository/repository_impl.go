package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	meterdomain "github.com/upravdom/upravdom/internal/meter/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() meterdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, m *meterdomain.Meter) error {
	return db.WithContext(ctx).Create(m).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, m *meterdomain.Meter) error {
	return db.WithContext(ctx).Save(m).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&meterdomain.Meter{}, "id = ?", id).Error
}

func (r *repo) DeleteByService(ctx context.Context, db *gorm.DB, serviceID snowflake.ID) error {
	return db.WithContext(ctx).Delete(&meterdomain.Meter{}, "service_id = ?", serviceID).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*meterdomain.Meter, error) {
	var m meterdomain.Meter
	err := db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repo) FindByApartment(ctx context.Context, db *gorm.DB, apartmentID snowflake.ID) ([]meterdomain.Meter, error) {
	var items []meterdomain.Meter
	err := db.WithContext(ctx).
		Where("apartment_id = ?", apartmentID).
		Order("serial ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]meterdomain.Meter, error) {
	var items []meterdomain.Meter
	err := db.WithContext(ctx).Order("serial ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
