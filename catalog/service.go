// Package catalog implements the tea shop catalog: the rules that keep teas
// and categories valid and consistent across create, update and delete.
//
// Every operation takes a context and talks to the record store through the
// CategoryStore and TeaStore interfaces. Failures are reported as
// *ValidationError, *ConflictError, ErrNotFound or ErrStoreUnavailable.
package catalog

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/lotustea/tea-catalog/models"
)

// CategoryStore is the persistence the service needs for categories.
// Lookups report a missing record with models.ErrCategoryNotFound.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	FindCategoryByName(ctx context.Context, name string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id string) error
	CountCategories(ctx context.Context) (int64, error)
}

// TeaStore is the persistence the service needs for teas.
// Lookups report a missing record with models.ErrTeaNotFound.
type TeaStore interface {
	ListTeas(ctx context.Context) ([]models.Tea, error)
	ListTeasByCategory(ctx context.Context, categoryID string) ([]models.Tea, error)
	GetTea(ctx context.Context, id string) (*models.Tea, error)
	CreateTea(ctx context.Context, tea *models.Tea) error
	UpdateTea(ctx context.Context, tea *models.Tea) error
	DeleteTea(ctx context.Context, id string) (*models.Tea, error)
	CountTeas(ctx context.Context) (int64, error)
}

// PictureStore keeps uploaded tea pictures. Delete must not fail for a
// path that no longer resolves.
type PictureStore interface {
	Save(ctx context.Context, filename string, content io.Reader) (string, error)
	Delete(ctx context.Context, path string) error
}

// Upload is a picture file that accompanies a tea form.
type Upload struct {
	Filename string
	Content  io.Reader
}

// Service is the catalog service.
type Service struct {
	categories CategoryStore
	teas       TeaStore
	pictures   PictureStore
	logger     *zap.Logger
}

func New(categories CategoryStore, teas TeaStore, pictures PictureStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		categories: categories,
		teas:       teas,
		pictures:   pictures,
		logger:     logger,
	}
}

// Summary holds the counts shown on the catalog home page.
type Summary struct {
	TeaCount      int64
	CategoryCount int64
}

// Summary counts teas and categories concurrently.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	var sum Summary
	err := both(ctx,
		func(ctx context.Context) (err error) {
			sum.TeaCount, err = s.teas.CountTeas(ctx)
			return wrapStore("count teas", err)
		},
		func(ctx context.Context) (err error) {
			sum.CategoryCount, err = s.categories.CountCategories(ctx)
			return wrapStore("count categories", err)
		},
	)
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

func wrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	return storeFailure(op, err)
}
