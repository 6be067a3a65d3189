package repository

import (
	"context"
	"database/sql"
	"errors"

	"lwg-storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user with this username already exists")
	ErrProductNotFound   = errors.New("product not found")
	ErrSlugAlreadyExists = errors.New("product with this slug already exists")
	ErrOrderNotFound     = errors.New("order not found")
)

// ProductFilter narrows a catalog listing. Zero values mean "no filter";
// Category "all" is treated the same as empty. Page defaults to 1 and
// PageSize to DefaultPageSize.
type ProductFilter struct {
	Search   string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Page     int
	PageSize int
}

// DefaultPageSize is the page size used when a listing does not specify one.
const DefaultPageSize = 20

func (f *ProductFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	// FindByIDOrSlug resolves by ID first, slug second.
	FindByIDOrSlug(ctx context.Context, idOrSlug string) (*domain.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	// Update applies the patch and returns the updated product.
	Update(ctx context.Context, id uuid.UUID, patch *domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns the filtered page, newest first, and the pre-pagination
	// total.
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int, error)
}

// OrderRepository defines the interface for order data access. Create
// assigns the day-scoped order reference atomically with the insert.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	FindByRef(ctx context.Context, ref string) (*domain.Order, error)
	// FindByCustomer returns orders matching email or phone, newest first.
	// Both blank yields an empty result.
	FindByCustomer(ctx context.Context, email, phone string) ([]*domain.Order, error)
	List(ctx context.Context, page, pageSize int) ([]*domain.Order, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
}

// Store bundles the three repositories behind one composition-root handle.
type Store struct {
	Users    UserRepository
	Products ProductRepository
	Orders   OrderRepository
}

// NewMemoryStore builds the in-process backend.
func NewMemoryStore(refPrefix string) *Store {
	return &Store{
		Users:    NewMemoryUserRepository(),
		Products: NewMemoryProductRepository(),
		Orders:   NewMemoryOrderRepository(refPrefix),
	}
}

// NewPostgresStore builds the durable backend over an open connection.
func NewPostgresStore(db *sql.DB, refPrefix string) *Store {
	return &Store{
		Users:    NewUserRepository(db),
		Products: NewProductRepository(db),
		Orders:   NewOrderRepository(db, refPrefix),
	}
}
