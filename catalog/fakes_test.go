package catalog

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/lotustea/tea-catalog/models"
)

// --- Mock Store ---

// memStore is an in-memory record store that enforces the same constraints
// as the database schema: unique category names and the tea -> category
// foreign key.
type memStore struct {
	mu         sync.Mutex
	categories map[string]models.Category
	teas       map[string]models.Tea
	teaOrder   []string

	Err    error // returned by every call when set
	Writes int   // successful mutations
}

func newMemStore() *memStore {
	return &memStore{
		categories: map[string]models.Category{},
		teas:       map[string]models.Tea{},
	}
}

func (m *memStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	c, ok := m.categories[id]
	if !ok {
		return nil, models.ErrCategoryNotFound
	}
	return &c, nil
}

func (m *memStore) FindCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, c := range m.categories {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, models.ErrCategoryNotFound
}

func (m *memStore) CreateCategory(ctx context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, c := range m.categories {
		if c.Name == category.Name {
			return models.ErrDuplicateKey
		}
	}
	category.ID = uuid.NewString()
	m.categories[category.ID] = *category
	m.Writes++
	return nil
}

func (m *memStore) UpdateCategory(ctx context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.categories[category.ID]; !ok {
		return models.ErrCategoryNotFound
	}
	for _, c := range m.categories {
		if c.Name == category.Name && c.ID != category.ID {
			return models.ErrDuplicateKey
		}
	}
	m.categories[category.ID] = *category
	m.Writes++
	return nil
}

func (m *memStore) DeleteCategory(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.categories[id]; !ok {
		return models.ErrCategoryNotFound
	}
	for _, t := range m.teas {
		if t.CategoryID == id {
			return models.ErrReferenceViolation
		}
	}
	delete(m.categories, id)
	m.Writes++
	return nil
}

func (m *memStore) CountCategories(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return int64(len(m.categories)), nil
}

func (m *memStore) ListTeas(ctx context.Context) ([]models.Tea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.Tea, 0, len(m.teaOrder))
	for _, id := range m.teaOrder {
		if t, ok := m.teas[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) ListTeasByCategory(ctx context.Context, categoryID string) ([]models.Tea, error) {
	all, err := m.ListTeas(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Tea
	for _, t := range all {
		if t.CategoryID == categoryID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) GetTea(ctx context.Context, id string) (*models.Tea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	t, ok := m.teas[id]
	if !ok {
		return nil, models.ErrTeaNotFound
	}
	t.Category = m.categories[t.CategoryID]
	return &t, nil
}

func (m *memStore) CreateTea(ctx context.Context, tea *models.Tea) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.categories[tea.CategoryID]; !ok {
		return models.ErrReferenceViolation
	}
	tea.ID = uuid.NewString()
	m.teas[tea.ID] = *tea
	m.teaOrder = append(m.teaOrder, tea.ID)
	m.Writes++
	return nil
}

func (m *memStore) UpdateTea(ctx context.Context, tea *models.Tea) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.teas[tea.ID]; !ok {
		return models.ErrTeaNotFound
	}
	if _, ok := m.categories[tea.CategoryID]; !ok {
		return models.ErrReferenceViolation
	}
	m.teas[tea.ID] = *tea
	m.Writes++
	return nil
}

func (m *memStore) DeleteTea(ctx context.Context, id string) (*models.Tea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	t, ok := m.teas[id]
	if !ok {
		return nil, models.ErrTeaNotFound
	}
	delete(m.teas, id)
	m.Writes++
	return &t, nil
}

func (m *memStore) CountTeas(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return int64(len(m.teas)), nil
}

// --- Mock Picture Store ---

type fakePictures struct {
	mu        sync.Mutex
	Saved     map[string]string
	Deleted   []string
	SaveErr   error
	DeleteErr error
}

func newFakePictures() *fakePictures {
	return &fakePictures{Saved: map[string]string{}}
}

func (f *fakePictures) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SaveErr != nil {
		return "", f.SaveErr
	}
	b, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	path := "/images/uploads/" + filename
	f.Saved[path] = string(b)
	return path, nil
}

func (f *fakePictures) Delete(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, path)
	return f.DeleteErr
}
