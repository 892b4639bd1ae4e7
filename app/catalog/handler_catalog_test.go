package catalog

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/lotustea/tea-catalog/app/views"
	"github.com/lotustea/tea-catalog/catalog"
	"github.com/lotustea/tea-catalog/models"
)

// --- Mock Service ---

type MockTeaService struct {
	Counts     catalog.Summary
	Teas       []models.Tea
	Categories []models.Category
	Err        error

	LastID      string
	LastForm    *catalog.TeaForm
	LastPicture string
	LastUpload  bool
}

func (m *MockTeaService) Summary(ctx context.Context) (*catalog.Summary, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &m.Counts, nil
}

func (m *MockTeaService) ListTeas(ctx context.Context) ([]models.Tea, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Teas, nil
}

func (m *MockTeaService) GetTeaDetail(ctx context.Context, id string) (*models.Tea, error) {
	m.LastID = id
	if m.Err != nil {
		return nil, m.Err
	}
	for _, tea := range m.Teas {
		if tea.ID == id {
			return &tea, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (m *MockTeaService) GetTeaForm(ctx context.Context, id string) (*catalog.TeaFormData, error) {
	tea, err := m.GetTeaDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	return &catalog.TeaFormData{Tea: *tea, Categories: m.Categories}, nil
}

func (m *MockTeaService) ListCategories(ctx context.Context) ([]models.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Categories, nil
}

func (m *MockTeaService) CreateTea(ctx context.Context, form catalog.TeaForm, upload *catalog.Upload) (*models.Tea, error) {
	return m.saveTea(ctx, "t-new", form, upload)
}

func (m *MockTeaService) UpdateTea(ctx context.Context, id string, form catalog.TeaForm, upload *catalog.Upload) (*models.Tea, error) {
	return m.saveTea(ctx, id, form, upload)
}

func (m *MockTeaService) saveTea(ctx context.Context, id string, form catalog.TeaForm, upload *catalog.Upload) (*models.Tea, error) {
	m.LastID = id
	m.LastForm = &form
	if upload != nil {
		m.LastUpload = true
		b, err := io.ReadAll(upload.Content)
		if err != nil {
			return nil, err
		}
		m.LastPicture = upload.Filename + ":" + string(b)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.Tea{ID: id, Name: form.Name}, nil
}

func (m *MockTeaService) DeleteTea(ctx context.Context, id string) error {
	m.LastID = id
	return m.Err
}

// --- Mock Renderer ---

type MockRenderer struct {
	View   string
	Status int
	Data   any
}

func (m *MockRenderer) Render(w http.ResponseWriter, status int, view string, data any) {
	m.View = view
	m.Status = status
	m.Data = data
	w.WriteHeader(status)
}

// --- Helpers ---

var (
	green = models.Category{ID: "c1", Name: "Green Tea", Description: "Fresh"}
	lotus = models.Tea{
		ID:          "t1",
		Name:        "Lotus",
		Description: "Scented",
		CategoryID:  "c1",
		Category:    green,
		Price:       decimal.NewFromInt(15),
		Quantity:    4,
		Picture:     "/images/uploads/lotus.png",
	}
)

func newRouter(h *CatalogHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /catalog/{$}", h.HandleIndex)
	mux.HandleFunc("GET /catalog/teas", h.HandleList)
	mux.HandleFunc("GET /catalog/tea/create", h.HandleCreateForm)
	mux.HandleFunc("POST /catalog/tea/create", h.HandleCreate)
	mux.HandleFunc("GET /catalog/tea/{id}", h.HandleDetail)
	mux.HandleFunc("GET /catalog/tea/{id}/update", h.HandleUpdateForm)
	mux.HandleFunc("POST /catalog/tea/{id}/update", h.HandleUpdate)
	mux.HandleFunc("GET /catalog/tea/{id}/delete", h.HandleDeleteForm)
	mux.HandleFunc("POST /catalog/tea/{id}/delete", h.HandleDelete)
	return mux
}

// --- Tests ---

func TestHandleIndex(t *testing.T) {
	testCases := []struct {
		name               string
		mockSvcSetup       func() *MockTeaService
		expectedStatusCode int
		checkRender        func(t *testing.T, r *MockRenderer)
	}{
		{
			name: "Shows counts",
			mockSvcSetup: func() *MockTeaService {
				return &MockTeaService{Counts: catalog.Summary{TeaCount: 3, CategoryCount: 2}}
			},
			expectedStatusCode: http.StatusOK,
			checkRender: func(t *testing.T, r *MockRenderer) {
				assert.Equal(t, views.Index, r.View)
				assert.Equal(t, views.IndexPage{Title: "Vietnamese Tea Home", TeaCount: 3, CategoryCount: 2}, r.Data)
			},
		},
		{
			name: "Store failure",
			mockSvcSetup: func() *MockTeaService {
				return &MockTeaService{Err: errors.New("db down")}
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkRender: func(t *testing.T, r *MockRenderer) {
				assert.Equal(t, views.Error, r.View)
				assert.Equal(t, "Something went wrong", r.Data.(views.ErrorPage).Message)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			renderer := &MockRenderer{}
			router := newRouter(NewCatalogHandler(tc.mockSvcSetup(), renderer, nil))
			req := httptest.NewRequest(http.MethodGet, "/catalog/", nil)
			rec := httptest.NewRecorder()

			// Act
			router.ServeHTTP(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			tc.checkRender(t, renderer)
		})
	}
}

func TestHandleList(t *testing.T) {
	renderer := &MockRenderer{}
	router := newRouter(NewCatalogHandler(&MockTeaService{Teas: []models.Tea{lotus}}, renderer, nil))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog/teas", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, views.TeaList, renderer.View)
	assert.Equal(t, views.TeaListPage{Title: "Tea List", Teas: []models.Tea{lotus}}, renderer.Data)
}
