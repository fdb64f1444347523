package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	tariffdomain "github.com/upravdom/upravdom/internal/tariff/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() tariffdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, t *tariffdomain.Tariff) error {
	return db.WithContext(ctx).Create(t).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, t *tariffdomain.Tariff) error {
	// Save writes every column so a cleared end_date becomes NULL again.
	return db.WithContext(ctx).Save(t).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&tariffdomain.Tariff{}, "id = ?", id).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*tariffdomain.Tariff, error) {
	var t tariffdomain.Tariff
	err := db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]tariffdomain.Tariff, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []tariffdomain.Tariff
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindByService(ctx context.Context, db *gorm.DB, serviceID snowflake.ID) ([]tariffdomain.Tariff, error) {
	var items []tariffdomain.Tariff
	err := db.WithContext(ctx).
		Where("service_id = ?", serviceID).
		Order("start_date ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindOverlapping(ctx context.Context, db *gorm.DB, serviceID snowflake.ID, start time.Time, end *time.Time, excludeID snowflake.ID) (*tariffdomain.Tariff, error) {
	q := db.WithContext(ctx).
		Where("service_id = ?", serviceID).
		Where("(end_date IS NULL OR end_date >= ?)", start)
	if end != nil {
		q = q.Where("start_date <= ?", *end)
	}
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var t tariffdomain.Tariff
	err := q.Order("start_date ASC").First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repo) FindSuccessor(ctx context.Context, db *gorm.DB, serviceID snowflake.ID, after time.Time) (*tariffdomain.Tariff, error) {
	var t tariffdomain.Tariff
	err := db.WithContext(ctx).
		Where("service_id = ? AND start_date > ?", serviceID, after).
		Order("start_date ASC").
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
