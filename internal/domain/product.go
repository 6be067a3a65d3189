package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is the fixed set of catalog categories.
type Category string

const (
	CategoryTechnology Category = "technology"
	CategoryOffice     Category = "office"
	CategoryServices   Category = "services"
	CategoryConsulting Category = "consulting"
)

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryTechnology, CategoryOffice, CategoryServices, CategoryConsulting:
		return true
	}
	return false
}

// Product represents a catalog entry. Slug is derived from the title and is
// unique across the catalog; stock is never negative.
type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Slug        string          `json:"slug" db:"slug"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Image       string          `json:"image" db:"image"`
	Stock       int             `json:"stock" db:"stock"`
	Category    Category        `json:"category" db:"category"`
	Tags        []string        `json:"tags" db:"tags"`
	Featured    bool            `json:"featured" db:"featured"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// ProductPatch is a partial update: only non-nil fields are applied. A new
// title re-derives the slug.
type ProductPatch struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	Image       *string
	Stock       *int
	Category    *Category
	Tags        *[]string
	Featured    *bool
}

// Apply merges the patch over the product and refreshes the update
// timestamp.
func (p *ProductPatch) Apply(product *Product, now time.Time) {
	if p.Title != nil {
		product.Title = *p.Title
		product.Slug = Slugify(*p.Title)
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Image != nil {
		product.Image = *p.Image
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Tags != nil {
		product.Tags = *p.Tags
	}
	if p.Featured != nil {
		product.Featured = *p.Featured
	}
	product.UpdatedAt = now
}
