package catalog

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/lotustea/tea-catalog/models"
)

// CategoryForm holds the raw category fields submitted by a client.
type CategoryForm struct {
	Name        string `form:"name" validate:"required,max=100"`
	Description string `form:"description" validate:"required,max=1000"`
}

// TeaForm holds the raw tea fields submitted by a client. Price and
// Quantity stay strings until they pass validation.
type TeaForm struct {
	Name        string `form:"name" validate:"required"`
	Description string `form:"description" validate:"required"`
	CategoryID  string `form:"category" validate:"required"`
	Price       string `form:"price" validate:"int_gte=1,int_lte=99999999"`
	Quantity    string `form:"quantity" validate:"int_gte=0"`
}

var messages = map[string]string{
	"CategoryForm.name.required":        "Category name required",
	"CategoryForm.name.max":             "Category name must not exceed 100 characters",
	"CategoryForm.description.required": "Category description required",
	"CategoryForm.description.max":      "Category description must not exceed 1000 characters",
	"TeaForm.name.required":             "Tea name required",
	"TeaForm.description.required":      "Tea description required",
	"TeaForm.category.required":         "Tea category required",
	"TeaForm.price.int_gte":             "Tea price must be a positive number",
	"TeaForm.price.int_lte":             "Tea price must not exceed 99999999",
	"TeaForm.quantity.int_gte":          "Tea quantity must not be a negative number",
}

var formValidate = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})
	if err := v.RegisterValidation("int_gte", validateIntGTE); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("int_lte", validateIntLTE); err != nil {
		panic(err)
	}
	return v
}

// validateIntGTE accepts base-10 integers no smaller than the tag parameter.
func validateIntGTE(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	n, err := strconv.Atoi(fl.Field().String())
	return err == nil && n >= limit
}

// validateIntLTE accepts base-10 integers no larger than the tag parameter.
// Prices are stored as numeric(10,2), which caps the whole part at 8 digits.
func validateIntLTE(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	n, err := strconv.Atoi(fl.Field().String())
	return err == nil && n <= limit
}

// sanitize trims surrounding whitespace. Values are kept as the plain text
// the user typed; templates escape them on output.
func sanitize(s string) string {
	return strings.TrimSpace(s)
}

// Sanitize returns a normalized copy of the form.
func (f CategoryForm) Sanitize() CategoryForm {
	return CategoryForm{
		Name:        sanitize(f.Name),
		Description: sanitize(f.Description),
	}
}

// Sanitize returns a normalized copy of the form.
func (f TeaForm) Sanitize() TeaForm {
	return TeaForm{
		Name:        sanitize(f.Name),
		Description: sanitize(f.Description),
		CategoryID:  sanitize(f.CategoryID),
		Price:       strings.TrimSpace(f.Price),
		Quantity:    strings.TrimSpace(f.Quantity),
	}
}

// TeaFormFrom fills a form with the stored values of tea.
func TeaFormFrom(tea models.Tea) TeaForm {
	return TeaForm{
		Name:        tea.Name,
		Description: tea.Description,
		CategoryID:  tea.CategoryID,
		Price:       tea.Price.String(),
		Quantity:    strconv.Itoa(tea.Quantity),
	}
}

// Validate checks a sanitized form and returns every violation, or nil.
func (f CategoryForm) Validate() []FieldError {
	return validateForm("CategoryForm", f)
}

// Validate checks a sanitized form and returns every violation, or nil.
func (f TeaForm) Validate() []FieldError {
	return validateForm("TeaForm", f)
}

// price and quantity are only meaningful once Validate has passed.
func (f TeaForm) price() decimal.Decimal {
	n, _ := strconv.ParseInt(f.Price, 10, 64)
	return decimal.NewFromInt(n)
}

func (f TeaForm) quantity() int {
	n, _ := strconv.Atoi(f.Quantity)
	return n
}

func validateForm(form string, v any) []FieldError {
	err := formValidate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: form, Message: err.Error()}}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[form+"."+fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		fields = append(fields, FieldError{Field: fe.Field(), Message: msg})
	}
	return fields
}
