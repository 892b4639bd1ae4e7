package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lotustea/tea-catalog/models"
)

// TeaFormData is what the tea update form needs: the tea and every category.
type TeaFormData struct {
	Tea        models.Tea
	Categories []models.Category
}

// ListTeas returns all teas in store order.
func (s *Service) ListTeas(ctx context.Context) ([]models.Tea, error) {
	teas, err := s.teas.ListTeas(ctx)
	if err != nil {
		return nil, storeFailure("list teas", err)
	}
	return teas, nil
}

// GetTeaDetail returns a tea with its category resolved.
func (s *Service) GetTeaDetail(ctx context.Context, id string) (*models.Tea, error) {
	tea, err := s.teas.GetTea(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrTeaNotFound) {
			return nil, notFound("tea", id)
		}
		return nil, storeFailure("get tea", err)
	}
	return tea, nil
}

// GetTeaForm fetches a tea and the category list concurrently.
func (s *Service) GetTeaForm(ctx context.Context, id string) (*TeaFormData, error) {
	var (
		tea        *models.Tea
		categories []models.Category
	)
	err := both(ctx,
		func(ctx context.Context) (err error) {
			tea, err = s.GetTeaDetail(ctx, id)
			return err
		},
		func(ctx context.Context) (err error) {
			categories, err = s.ListCategories(ctx)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return &TeaFormData{Tea: *tea, Categories: categories}, nil
}

// CreateTea validates the form and stores a new tea. The picture, if any, is
// stored only once the form is valid.
func (s *Service) CreateTea(ctx context.Context, form TeaForm, upload *Upload) (*models.Tea, error) {
	form, category, err := s.checkTeaForm(ctx, form)
	if err != nil {
		return nil, err
	}

	tea := &models.Tea{
		Name:        form.Name,
		Description: form.Description,
		CategoryID:  form.CategoryID,
		Price:       form.price(),
		Quantity:    form.quantity(),
	}
	if upload != nil {
		if tea.Picture, err = s.savePicture(ctx, upload); err != nil {
			return nil, err
		}
	}

	if err := s.teas.CreateTea(ctx, tea); err != nil {
		s.removePicture(ctx, tea.Picture)
		if errors.Is(err, models.ErrReferenceViolation) {
			return nil, s.invalidTea(ctx, []FieldError{missingCategory})
		}
		return nil, storeFailure("create tea", err)
	}

	tea.Category = *category
	s.logger.Info("tea created", zap.String("id", tea.ID), zap.String("name", tea.Name))
	return tea, nil
}

// UpdateTea replaces every field of an existing tea. The picture is replaced
// only when a new one is uploaded; the previous file stays in the store.
func (s *Service) UpdateTea(ctx context.Context, id string, form TeaForm, upload *Upload) (*models.Tea, error) {
	current, err := s.GetTeaDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	form, category, err := s.checkTeaForm(ctx, form)
	if err != nil {
		return nil, err
	}

	tea := &models.Tea{
		ID:          id,
		Name:        form.Name,
		Description: form.Description,
		CategoryID:  form.CategoryID,
		Price:       form.price(),
		Quantity:    form.quantity(),
		Picture:     current.Picture,
	}
	var uploaded string
	if upload != nil {
		if uploaded, err = s.savePicture(ctx, upload); err != nil {
			return nil, err
		}
		tea.Picture = uploaded
	}

	if err := s.teas.UpdateTea(ctx, tea); err != nil {
		s.removePicture(ctx, uploaded)
		switch {
		case errors.Is(err, models.ErrTeaNotFound):
			return nil, notFound("tea", id)
		case errors.Is(err, models.ErrReferenceViolation):
			return nil, s.invalidTea(ctx, []FieldError{missingCategory})
		}
		return nil, storeFailure("update tea", err)
	}

	tea.Category = *category
	s.logger.Info("tea updated", zap.String("id", id))
	return tea, nil
}

// DeleteTea removes a tea and then its picture. Failing to remove the
// picture is logged and does not fail the delete.
func (s *Service) DeleteTea(ctx context.Context, id string) error {
	removed, err := s.teas.DeleteTea(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrTeaNotFound) {
			return notFound("tea", id)
		}
		return storeFailure("delete tea", err)
	}

	s.removePicture(ctx, removed.Picture)
	s.logger.Info("tea deleted", zap.String("id", id))
	return nil
}

var missingCategory = FieldError{Field: "category", Message: "Tea category does not exist"}

// checkTeaForm sanitizes and validates the form and resolves its category.
// Any violation comes back as a *ValidationError carrying the category list.
func (s *Service) checkTeaForm(ctx context.Context, form TeaForm) (TeaForm, *models.Category, error) {
	form = form.Sanitize()
	fields := form.Validate()

	var category *models.Category
	if form.CategoryID != "" {
		c, err := s.GetCategory(ctx, form.CategoryID)
		switch {
		case errors.Is(err, ErrNotFound):
			fields = append(fields, missingCategory)
		case err != nil:
			return form, nil, err
		default:
			category = c
		}
	}

	if len(fields) > 0 {
		return form, nil, s.invalidTea(ctx, fields)
	}
	return form, category, nil
}

// invalidTea builds the validation failure for a tea form, attaching the
// category list the form is re-rendered with.
func (s *Service) invalidTea(ctx context.Context, fields []FieldError) error {
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return err
	}
	return &ValidationError{Fields: fields, Categories: categories}
}

func (s *Service) savePicture(ctx context.Context, upload *Upload) (string, error) {
	path, err := s.pictures.Save(ctx, upload.Filename, upload.Content)
	if err != nil {
		return "", fmt.Errorf("store picture %q: %w", upload.Filename, err)
	}
	return path, nil
}

// removePicture is best-effort cleanup.
func (s *Service) removePicture(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.pictures.Delete(ctx, path); err != nil {
		s.logger.Warn("failed to remove picture", zap.String("path", path), zap.Error(err))
	}
}
