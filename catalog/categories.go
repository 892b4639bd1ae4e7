package catalog

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/lotustea/tea-catalog/models"
)

// CategoryDetail is a category together with the teas referencing it.
type CategoryDetail struct {
	Category models.Category
	Teas     []models.Tea
}

// ListCategories returns all categories sorted by name.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, storeFailure("list categories", err)
	}
	return categories, nil
}

// GetCategory returns a single category.
func (s *Service) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.categories.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			return nil, notFound("category", id)
		}
		return nil, storeFailure("get category", err)
	}
	return category, nil
}

// GetCategoryWithTeas fetches a category and its teas concurrently.
func (s *Service) GetCategoryWithTeas(ctx context.Context, id string) (*CategoryDetail, error) {
	var (
		category *models.Category
		teas     []models.Tea
	)
	err := both(ctx,
		func(ctx context.Context) (err error) {
			category, err = s.GetCategory(ctx, id)
			return err
		},
		func(ctx context.Context) (err error) {
			teas, err = s.teas.ListTeasByCategory(ctx, id)
			return wrapStore("list teas by category", err)
		},
	)
	if err != nil {
		return nil, err
	}
	return &CategoryDetail{Category: *category, Teas: teas}, nil
}

// CreateCategory validates the form and stores a new category. When a
// category with the same name already exists nothing is written and the
// existing category is returned with created set to false.
func (s *Service) CreateCategory(ctx context.Context, form CategoryForm) (category *models.Category, created bool, err error) {
	form = form.Sanitize()
	if fields := form.Validate(); fields != nil {
		return nil, false, &ValidationError{Fields: fields}
	}

	existing, err := s.findByName(ctx, form.Name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	category = &models.Category{Name: form.Name, Description: form.Description}
	if err := s.categories.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, models.ErrDuplicateKey) {
			// lost a race with a concurrent create of the same name
			existing, ferr := s.findByName(ctx, form.Name)
			if ferr == nil && existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, storeFailure("create category", err)
	}

	s.logger.Info("category created", zap.String("id", category.ID), zap.String("name", category.Name))
	return category, true, nil
}

// UpdateCategory replaces name and description of an existing category.
func (s *Service) UpdateCategory(ctx context.Context, id string, form CategoryForm) (*models.Category, error) {
	form = form.Sanitize()
	if fields := form.Validate(); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	if _, err := s.GetCategory(ctx, id); err != nil {
		return nil, err
	}

	existing, err := s.findByName(ctx, form.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, duplicateName()
	}

	category := &models.Category{ID: id, Name: form.Name, Description: form.Description}
	if err := s.categories.UpdateCategory(ctx, category); err != nil {
		switch {
		case errors.Is(err, models.ErrCategoryNotFound):
			return nil, notFound("category", id)
		case errors.Is(err, models.ErrDuplicateKey):
			return nil, duplicateName()
		}
		return nil, storeFailure("update category", err)
	}

	s.logger.Info("category updated", zap.String("id", id))
	return category, nil
}

// DeleteCategory removes a category that no tea references. Deleting a
// category that does not exist succeeds without touching the store.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	detail, err := s.GetCategoryWithTeas(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if len(detail.Teas) > 0 {
		return &ConflictError{Category: detail.Category, Teas: detail.Teas}
	}

	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		switch {
		case errors.Is(err, models.ErrCategoryNotFound):
			return nil
		case errors.Is(err, models.ErrReferenceViolation):
			// a tea was attached between the check and the delete
			teas, lerr := s.teas.ListTeasByCategory(ctx, id)
			if lerr != nil {
				return storeFailure("list teas by category", lerr)
			}
			return &ConflictError{Category: detail.Category, Teas: teas}
		}
		return storeFailure("delete category", err)
	}

	s.logger.Info("category deleted", zap.String("id", id))
	return nil
}

// findByName returns nil without error when no category has the name.
func (s *Service) findByName(ctx context.Context, name string) (*models.Category, error) {
	category, err := s.categories.FindCategoryByName(ctx, name)
	if err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			return nil, nil
		}
		return nil, storeFailure("find category by name", err)
	}
	return category, nil
}

func duplicateName() *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: "name", Message: "Category name already exists"}}}
}
