package dto

import (
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mrops-br/product-inventory/internal/domain"
	"github.com/shopspring/decimal"
)

// ProductView represents one catalog row as shown on the page
type ProductView struct {
	ID          int64
	Name        string
	Description string
	Price       string
	Category    string
}

// FormField is one form input with its sticky value and error message
type FormField struct {
	Name  string
	Value string
	Error string
}

// CategoryOption is one entry of the category selector
type CategoryOption struct {
	Value    string
	Selected bool
}

// ProductForm is the add-product form state
type ProductForm struct {
	Name        FormField
	Description FormField
	Price       FormField
	Category    FormField
	Categories  []CategoryOption
}

// PageData is everything the inventory page renders
type PageData struct {
	Products []ProductView
	Form     ProductForm
	Errors   map[string]string
	Flash    string
}

// HasErrors reports whether any field failed validation
func (p *PageData) HasErrors() bool {
	return len(p.Errors) > 0
}

// NewPageData builds the page view model. sticky holds the values to
// redisplay in the form and errs the per-field messages, both may be empty.
func NewPageData(
	products []domain.Product,
	categories []string,
	sticky domain.SubmissionDraft,
	errs map[string]string,
	flash string,
) *PageData {
	if errs == nil {
		errs = map[string]string{}
	}

	options := make([]CategoryOption, len(categories))
	for i, c := range categories {
		options[i] = CategoryOption{Value: c, Selected: sticky.Category == c}
	}

	return &PageData{
		Products: ToProductViewList(products),
		Form: ProductForm{
			Name:        FormField{Name: domain.FieldName, Value: sticky.Name, Error: errs[domain.FieldName]},
			Description: FormField{Name: domain.FieldDescription, Value: sticky.Description, Error: errs[domain.FieldDescription]},
			Price:       FormField{Name: domain.FieldPrice, Value: sticky.Price, Error: errs[domain.FieldPrice]},
			Category:    FormField{Name: domain.FieldCategory, Value: sticky.Category, Error: errs[domain.FieldCategory]},
			Categories:  options,
		},
		Errors: errs,
		Flash:  flash,
	}
}

// ToProductView converts a domain Product to ProductView
func ToProductView(p domain.Product) ProductView {
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       FormatPrice(p.Price),
		Category:    p.Category,
	}
}

// ToProductViewList converts a list of domain Products to ProductView list
func ToProductViewList(products []domain.Product) []ProductView {
	views := make([]ProductView, len(products))
	for i, p := range products {
		views[i] = ToProductView(p)
	}
	return views
}

// FormatPrice renders a price as dollars with two fractional digits and
// thousands grouping, e.g. $1,200.50.
func FormatPrice(price decimal.Decimal) string {
	whole, frac, _ := strings.Cut(price.StringFixed(2), ".")
	n, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return "$" + price.StringFixed(2)
	}
	return "$" + humanize.BigComma(n) + "." + frac
}
