package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TeasRepository struct {
	db *gorm.DB
}

func NewTeasRepository(db *gorm.DB) *TeasRepository {
	return &TeasRepository{
		db: db,
	}
}

func (r *TeasRepository) ListTeas(ctx context.Context) ([]Tea, error) {
	var teas []Tea
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Find(&teas).Error; err != nil {
		return nil, err
	}
	return teas, nil
}

// ListTeasByCategory returns the teas referencing the given category.
func (r *TeasRepository) ListTeasByCategory(ctx context.Context, categoryID string) ([]Tea, error) {
	var teas []Tea
	if err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("name asc").
		Find(&teas).Error; err != nil {
		return nil, err
	}
	return teas, nil
}

func (r *TeasRepository) GetTea(ctx context.Context, id string) (*Tea, error) {
	var tea Tea
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
		First(&tea).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeaNotFound
		}
		return nil, err // Other DB error
	}
	return &tea, nil
}

func (r *TeasRepository) CreateTea(ctx context.Context, tea *Tea) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(tea).Error
	return translateError(err)
}

// UpdateTea replaces every mutable column of the tea identified by tea.ID.
func (r *TeasRepository) UpdateTea(ctx context.Context, tea *Tea) error {
	res := r.db.WithContext(ctx).
		Model(&Tea{ID: tea.ID}).
		Select("name", "description", "category_id", "price", "quantity", "picture").
		Updates(tea)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTeaNotFound
	}
	return nil
}

// DeleteTea removes the tea and returns the removed record.
func (r *TeasRepository) DeleteTea(ctx context.Context, id string) (*Tea, error) {
	var tea Tea
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&tea).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTeaNotFound
			}
			return err
		}
		return tx.Delete(&Tea{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &tea, nil
}

func (r *TeasRepository) CountTeas(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Tea{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
