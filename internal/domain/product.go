package domain

import (
	"github.com/shopspring/decimal"
)

// Product represents one catalog item. Products are never mutated once stored.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
}

// ProductFields holds the validated values used to create a product
type ProductFields struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
}

// NewProduct builds a product with the given id from validated fields
func NewProduct(id int64, fields ProductFields) Product {
	return Product{
		ID:          id,
		Name:        fields.Name,
		Description: fields.Description,
		Price:       fields.Price,
		Category:    fields.Category,
	}
}

// SeedProducts returns the products the catalog starts with
func SeedProducts() []ProductFields {
	return []ProductFields{
		{
			Name:        "Laptop",
			Description: "High performance laptop for professionals.",
			Price:       decimal.RequireFromString("1200.50"),
			Category:    "Electronics",
		},
		{
			Name:        "Office Chair",
			Description: "Ergonomic chair with lumbar support.",
			Price:       decimal.RequireFromString("250.00"),
			Category:    "Furniture",
		},
	}
}
