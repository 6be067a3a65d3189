package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"lwg-storefront/internal/domain"

	"github.com/google/uuid"
)

// memoryProductRepository keeps the catalog in a process-lifetime map.
type memoryProductRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]*domain.Product
}

// NewMemoryProductRepository creates an in-memory ProductRepository.
func NewMemoryProductRepository() ProductRepository {
	return &memoryProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

// Create stores a new product, enforcing slug uniqueness.
func (r *memoryProductRepository) Create(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slugTaken(product.Slug, uuid.Nil) {
		return ErrSlugAlreadyExists
	}

	stored := cloneProduct(product)
	r.products[product.ID] = stored
	return nil
}

// FindByIDOrSlug resolves by ID first, slug second.
func (r *memoryProductRepository) FindByIDOrSlug(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	if id, err := uuid.Parse(idOrSlug); err == nil {
		if product, err := r.FindByID(ctx, id); err == nil {
			return product, nil
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, product := range r.products {
		if product.Slug == idOrSlug {
			return cloneProduct(product), nil
		}
	}
	return nil, ErrProductNotFound
}

func (r *memoryProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return cloneProduct(product), nil
}

// Update merges the patch over the existing record. A patched title that
// derives a slug already owned by another product is a conflict.
func (r *memoryProductRepository) Update(ctx context.Context, id uuid.UUID, patch *domain.ProductPatch) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}

	if patch.Title != nil {
		if slug := domain.Slugify(*patch.Title); r.slugTaken(slug, id) {
			return nil, ErrSlugAlreadyExists
		}
	}

	updated := cloneProduct(existing)
	patch.Apply(updated, time.Now())
	r.products[id] = updated

	return cloneProduct(updated), nil
}

func (r *memoryProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

// List applies category, search and price filters, sorts newest first and
// returns the requested page plus the pre-pagination total.
func (r *memoryProductRepository) List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int, error) {
	filter.normalize()

	r.mu.RLock()
	matched := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		if productMatches(product, &filter) {
			matched = append(matched, cloneProduct(product))
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	return paginate(matched, filter.Page, filter.PageSize), total, nil
}

func productMatches(p *domain.Product, f *ProductFilter) bool {
	if f.Category != "" && f.Category != "all" && string(p.Category) != f.Category {
		return false
	}

	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		hit := strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle)
		if !hit {
			for _, tag := range p.Tags {
				if strings.Contains(strings.ToLower(tag), needle) {
					hit = true
					break
				}
			}
		}
		if !hit {
			return false
		}
	}

	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}

	return true
}

// paginate takes the 1-indexed page slice [start, start+pageSize).
func paginate[T any](items []T, page, pageSize int) []T {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func (r *memoryProductRepository) slugTaken(slug string, exclude uuid.UUID) bool {
	for id, product := range r.products {
		if id != exclude && product.Slug == slug {
			return true
		}
	}
	return false
}

func cloneProduct(p *domain.Product) *domain.Product {
	clone := *p
	clone.Tags = append([]string(nil), p.Tags...)
	return &clone
}
