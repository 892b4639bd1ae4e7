package categories

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/lotustea/tea-catalog/app/views"
	"github.com/lotustea/tea-catalog/catalog"
	"github.com/lotustea/tea-catalog/models"
)

const listPath = "/catalog/categories"

type CategoryService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	GetCategoryWithTeas(ctx context.Context, id string) (*catalog.CategoryDetail, error)
	CreateCategory(ctx context.Context, form catalog.CategoryForm) (*models.Category, bool, error)
	UpdateCategory(ctx context.Context, id string, form catalog.CategoryForm) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type CategoryHandler struct {
	svc    CategoryService
	views  views.Renderer
	logger *zap.Logger
}

func NewCategoryHandler(svc CategoryService, renderer views.Renderer, logger *zap.Logger) *CategoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryHandler{svc: svc, views: renderer, logger: logger}
}

func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.views.Render(w, http.StatusOK, views.CategoryList, views.CategoryListPage{
		Title:      "Category List",
		Categories: categories,
	})
}

func (h *CategoryHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.GetCategoryWithTeas(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.views.Render(w, http.StatusOK, views.CategoryDetail, views.CategoryDetailPage{
		Title:    "Category: " + detail.Category.Name,
		Category: detail.Category,
		Teas:     detail.Teas,
	})
}

func (h *CategoryHandler) HandleCreateForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, views.CategoryForm, views.CategoryFormPage{Title: "Create New Category"})
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	form, ok := h.parseForm(w, r)
	if !ok {
		return
	}

	// an existing category with the same name is returned instead of a new one
	category, _, err := h.svc.CreateCategory(r.Context(), form)
	if err != nil {
		h.failForm(w, r, "Create New Category", form, err)
		return
	}
	http.Redirect(w, r, category.URL(), http.StatusSeeOther)
}

func (h *CategoryHandler) HandleUpdateForm(w http.ResponseWriter, r *http.Request) {
	category, err := h.svc.GetCategory(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.views.Render(w, http.StatusOK, views.CategoryForm, views.CategoryFormPage{
		Title: "Update Category: " + category.Name,
		Form:  catalog.CategoryForm{Name: category.Name, Description: category.Description},
	})
}

func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	form, ok := h.parseForm(w, r)
	if !ok {
		return
	}

	category, err := h.svc.UpdateCategory(r.Context(), r.PathValue("id"), form)
	if err != nil {
		h.failForm(w, r, "Update Category", form, err)
		return
	}
	http.Redirect(w, r, category.URL(), http.StatusSeeOther)
}

func (h *CategoryHandler) HandleDeleteForm(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.GetCategoryWithTeas(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.Redirect(w, r, listPath, http.StatusSeeOther)
			return
		}
		h.fail(w, r, err)
		return
	}
	h.views.Render(w, http.StatusOK, views.CategoryDelete, views.CategoryDeletePage{
		Title:    "Delete Category: " + detail.Category.Name,
		Category: detail.Category,
		Teas:     detail.Teas,
	})
}

func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.DeleteCategory(r.Context(), r.PathValue("id"))

	var conflict *catalog.ConflictError
	switch {
	case err == nil:
		http.Redirect(w, r, listPath, http.StatusSeeOther)
	case errors.As(err, &conflict):
		h.views.Render(w, http.StatusConflict, views.CategoryDelete, views.CategoryDeletePage{
			Title:    "Delete Category: " + conflict.Category.Name,
			Category: conflict.Category,
			Teas:     conflict.Teas,
		})
	default:
		h.fail(w, r, err)
	}
}

func (h *CategoryHandler) parseForm(w http.ResponseWriter, r *http.Request) (catalog.CategoryForm, bool) {
	if err := r.ParseForm(); err != nil {
		views.RenderError(h.views, w, http.StatusBadRequest, "Invalid form data")
		return catalog.CategoryForm{}, false
	}
	return catalog.CategoryForm{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
	}, true
}

// failForm shows the form again when the failure is a validation error.
func (h *CategoryHandler) failForm(w http.ResponseWriter, r *http.Request, title string, form catalog.CategoryForm, err error) {
	var verr *catalog.ValidationError
	if !errors.As(err, &verr) {
		h.fail(w, r, err)
		return
	}
	h.views.Render(w, http.StatusUnprocessableEntity, views.CategoryForm, views.CategoryFormPage{
		Title:  title,
		Form:   form.Sanitize(),
		Errors: verr.Fields,
	})
}

func (h *CategoryHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		views.RenderError(h.views, w, http.StatusNotFound, "Category not found")
		return
	}
	h.logger.Error("category request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	views.RenderError(h.views, w, http.StatusInternalServerError, "Something went wrong")
}
