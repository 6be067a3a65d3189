package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lwg-storefront/internal/domain"
	"lwg-storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCategory = errors.New("unknown product category")
	ErrNegativeStock   = errors.New("stock cannot be negative")
	ErrInvalidPrice    = errors.New("price must be positive")
	ErrEmptySlug       = errors.New("title does not yield a usable slug")
)

// CreateProductInput carries the fields of a new catalog entry. Stock,
// tags and featured default to 0, empty and false.
type CreateProductInput struct {
	Title       string
	Description string
	Price       decimal.Decimal
	Image       string
	Stock       int
	Category    domain.Category
	Tags        []string
	Featured    bool
}

// CatalogService owns product reads and admin writes.
type CatalogService interface {
	List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, int, error)
	Get(ctx context.Context, idOrSlug string) (*domain.Product, error)
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, patch *domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	products repository.ProductRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(products repository.ProductRepository) CatalogService {
	return &catalogService{products: products}
}

func (s *catalogService) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, int, error) {
	return s.products.List(ctx, filter)
}

func (s *catalogService) Get(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	return s.products.FindByIDOrSlug(ctx, idOrSlug)
}

// Create validates the input, derives the slug from the title and stores
// the product with fresh identifier and timestamps.
func (s *catalogService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if !input.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if input.Stock < 0 {
		return nil, ErrNegativeStock
	}
	if !input.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}

	slug := domain.Slugify(input.Title)
	if slug == "" {
		return nil, ErrEmptySlug
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now()
	product := &domain.Product{
		ID:          uuid.New(),
		Slug:        slug,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Image:       input.Image,
		Stock:       input.Stock,
		Category:    input.Category,
		Tags:        tags,
		Featured:    input.Featured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.products.Create(ctx, product); err != nil {
		if err == repository.ErrSlugAlreadyExists {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// Update validates the patched fields before handing the merge to the
// store.
func (s *catalogService) Update(ctx context.Context, id uuid.UUID, patch *domain.ProductPatch) (*domain.Product, error) {
	if patch.Category != nil && !patch.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return nil, ErrNegativeStock
	}
	if patch.Price != nil && !patch.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if patch.Title != nil && domain.Slugify(*patch.Title) == "" {
		return nil, ErrEmptySlug
	}

	return s.products.Update(ctx, id, patch)
}

func (s *catalogService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.products.Delete(ctx, id)
}
