package views

import (
	"github.com/lotustea/tea-catalog/catalog"
	"github.com/lotustea/tea-catalog/models"
)

type IndexPage struct {
	Title         string
	TeaCount      int64
	CategoryCount int64
}

type CategoryListPage struct {
	Title      string
	Categories []models.Category
}

type CategoryDetailPage struct {
	Title    string
	Category models.Category
	Teas     []models.Tea
}

// CategoryFormPage serves both create and update. Form keeps what the user
// typed when the page is shown again with Errors.
type CategoryFormPage struct {
	Title  string
	Form   catalog.CategoryForm
	Errors []catalog.FieldError
}

type CategoryDeletePage struct {
	Title    string
	Category models.Category
	Teas     []models.Tea
}

type TeaListPage struct {
	Title string
	Teas  []models.Tea
}

type TeaDetailPage struct {
	Title string
	Tea   models.Tea
}

type TeaFormPage struct {
	Title      string
	Form       catalog.TeaForm
	Categories []models.Category
	Errors     []catalog.FieldError
}

type TeaDeletePage struct {
	Title string
	Tea   models.Tea
}

type ErrorPage struct {
	Title   string
	Status  int
	Message string
}
