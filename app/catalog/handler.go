package catalog

import (
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/lotustea/tea-catalog/app/views"
	"github.com/lotustea/tea-catalog/catalog"
	"github.com/lotustea/tea-catalog/models"
)

const (
	listPath = "/catalog/teas"

	// MaxUploadBytes bounds a whole multipart tea form, picture included.
	MaxUploadBytes = 8 << 20
)

type TeaService interface {
	Summary(ctx context.Context) (*catalog.Summary, error)
	ListTeas(ctx context.Context) ([]models.Tea, error)
	GetTeaDetail(ctx context.Context, id string) (*models.Tea, error)
	GetTeaForm(ctx context.Context, id string) (*catalog.TeaFormData, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateTea(ctx context.Context, form catalog.TeaForm, upload *catalog.Upload) (*models.Tea, error)
	UpdateTea(ctx context.Context, id string, form catalog.TeaForm, upload *catalog.Upload) (*models.Tea, error)
	DeleteTea(ctx context.Context, id string) error
}

type CatalogHandler struct {
	svc    TeaService
	views  views.Renderer
	logger *zap.Logger
}

func NewCatalogHandler(svc TeaService, renderer views.Renderer, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{svc: svc, views: renderer, logger: logger}
}

func (h *CatalogHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.views.Render(w, http.StatusOK, views.Index, views.IndexPage{
		Title:         "Vietnamese Tea Home",
		TeaCount:      summary.TeaCount,
		CategoryCount: summary.CategoryCount,
	})
}

func (h *CatalogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	teas, err := h.svc.ListTeas(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.views.Render(w, http.StatusOK, views.TeaList, views.TeaListPage{Title: "Tea List", Teas: teas})
}

func (h *CatalogHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	tea, err := h.svc.GetTeaDetail(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.views.Render(w, http.StatusOK, views.TeaDetail, views.TeaDetailPage{Title: "Tea: " + tea.Name, Tea: *tea})
}

func (h *CatalogHandler) HandleCreateForm(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.views.Render(w, http.StatusOK, views.TeaForm, views.TeaFormPage{
		Title:      "Create New Tea",
		Categories: categories,
	})
}

func (h *CatalogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	form, upload, ok := h.parseForm(w, r)
	if !ok {
		return
	}
	defer closeUpload(upload)

	tea, err := h.svc.CreateTea(r.Context(), form, upload)
	if err != nil {
		h.failForm(w, r, "Create New Tea", form, err)
		return
	}
	http.Redirect(w, r, tea.URL(), http.StatusSeeOther)
}

func (h *CatalogHandler) HandleUpdateForm(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.GetTeaForm(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.views.Render(w, http.StatusOK, views.TeaForm, views.TeaFormPage{
		Title:      "Update Tea",
		Form:       catalog.TeaFormFrom(data.Tea),
		Categories: data.Categories,
	})
}

func (h *CatalogHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	form, upload, ok := h.parseForm(w, r)
	if !ok {
		return
	}
	defer closeUpload(upload)

	tea, err := h.svc.UpdateTea(r.Context(), r.PathValue("id"), form, upload)
	if err != nil {
		h.failForm(w, r, "Update Tea", form, err)
		return
	}
	http.Redirect(w, r, tea.URL(), http.StatusSeeOther)
}

func (h *CatalogHandler) HandleDeleteForm(w http.ResponseWriter, r *http.Request) {
	tea, err := h.svc.GetTeaDetail(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.Redirect(w, r, listPath, http.StatusSeeOther)
			return
		}
		h.fail(w, r, err)
		return
	}
	h.views.Render(w, http.StatusOK, views.TeaDelete, views.TeaDeletePage{Title: "Delete Tea: " + tea.Name, Tea: *tea})
}

// HandleDelete treats an already deleted tea as success.
func (h *CatalogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.DeleteTea(r.Context(), r.PathValue("id"))
	if err != nil && !errors.Is(err, catalog.ErrNotFound) {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, listPath, http.StatusSeeOther)
}

// parseForm reads a tea form sent either multipart or url-encoded. The
// returned upload is nil when no picture was chosen and must be released
// with closeUpload.
func (h *CatalogHandler) parseForm(w http.ResponseWriter, r *http.Request) (catalog.TeaForm, *catalog.Upload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)

	err := r.ParseMultipartForm(MaxUploadBytes)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			views.RenderError(h.views, w, http.StatusRequestEntityTooLarge, "Picture is too large")
			return catalog.TeaForm{}, nil, false
		}
		views.RenderError(h.views, w, http.StatusBadRequest, "Invalid form data")
		return catalog.TeaForm{}, nil, false
	}

	form := catalog.TeaForm{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		CategoryID:  r.PostFormValue("category"),
		Price:       r.PostFormValue("price"),
		Quantity:    r.PostFormValue("quantity"),
	}

	if r.MultipartForm == nil {
		return form, nil, true
	}
	file, header, err := r.FormFile("picture")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return form, nil, true
	case err != nil:
		views.RenderError(h.views, w, http.StatusBadRequest, "Invalid picture upload")
		return catalog.TeaForm{}, nil, false
	}
	if header.Size == 0 {
		file.Close()
		return form, nil, true
	}
	return form, &catalog.Upload{Filename: header.Filename, Content: file}, true
}

func closeUpload(upload *catalog.Upload) {
	if upload == nil {
		return
	}
	if c, ok := upload.Content.(io.Closer); ok {
		c.Close()
	}
}

// failForm shows the form again when the failure is a validation error.
func (h *CatalogHandler) failForm(w http.ResponseWriter, r *http.Request, title string, form catalog.TeaForm, err error) {
	var verr *catalog.ValidationError
	if !errors.As(err, &verr) {
		h.fail(w, r, err)
		return
	}
	h.views.Render(w, http.StatusUnprocessableEntity, views.TeaForm, views.TeaFormPage{
		Title:      title,
		Form:       form.Sanitize(),
		Categories: verr.Categories,
		Errors:     verr.Fields,
	})
}

func (h *CatalogHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		views.RenderError(h.views, w, http.StatusNotFound, "Tea not found")
		return
	}
	h.logger.Error("tea request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	views.RenderError(h.views, w, http.StatusInternalServerError, "Something went wrong")
}
