package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type CategoriesRepository struct {
	db *gorm.DB
}

func NewCategoriesRepository(db *gorm.DB) *CategoriesRepository {
	return &CategoriesRepository{
		db: db,
	}
}

// ListCategories returns every category sorted by name.
func (r *CategoriesRepository) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := r.db.WithContext(ctx).
		Order("name asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoriesRepository) GetCategory(ctx context.Context, id string) (*Category, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *CategoriesRepository) FindCategoryByName(ctx context.Context, name string) (*Category, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *CategoriesRepository) first(ctx context.Context, query string, arg string) (*Category, error) {
	var category Category
	if err := r.db.WithContext(ctx).
		Where(query, arg).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *CategoriesRepository) CreateCategory(ctx context.Context, category *Category) error {
	return translateError(r.db.WithContext(ctx).Create(category).Error)
}

// UpdateCategory replaces name and description of the category identified by category.ID.
func (r *CategoriesRepository) UpdateCategory(ctx context.Context, category *Category) error {
	res := r.db.WithContext(ctx).
		Model(&Category{ID: category.ID}).
		Select("name", "description").
		Updates(category)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// DeleteCategory removes the category. The teas foreign key rejects the
// delete with ErrReferenceViolation while any tea still references it.
func (r *CategoriesRepository) DeleteCategory(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&Category{}, "id = ?", id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *CategoriesRepository) CountCategories(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Category{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
