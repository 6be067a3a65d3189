package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"lwg-storefront/internal/domain"

	"github.com/google/uuid"
)

// memoryOrderRepository keeps orders in a process-lifetime map. The
// day-scoped reference counter lives alongside the records, keyed by date
// string, so reference assignment never scans existing orders.
type memoryOrderRepository struct {
	mu        sync.RWMutex
	orders    map[uuid.UUID]*domain.Order
	sequences map[string]int
	refPrefix string
}

// NewMemoryOrderRepository creates an in-memory OrderRepository. refPrefix
// is the fixed organization code in order references.
func NewMemoryOrderRepository(refPrefix string) OrderRepository {
	return &memoryOrderRepository{
		orders:    make(map[uuid.UUID]*domain.Order),
		sequences: make(map[string]int),
		refPrefix: refPrefix,
	}
}

// Create assigns the order reference and stores the order. The counter
// increment and the insert happen under one lock, so two same-day orders
// can never share a sequence number.
func (r *memoryOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	day := refDayKey(order.CreatedAt)
	seq := r.sequences[day] + 1
	r.sequences[day] = seq
	order.Ref = formatOrderRef(r.refPrefix, day, seq)

	stored := cloneOrder(order)
	r.orders[order.ID] = stored
	return nil
}

func (r *memoryOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func (r *memoryOrderRepository) FindByRef(ctx context.Context, ref string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.Ref == ref {
			return cloneOrder(order), nil
		}
	}
	return nil, ErrOrderNotFound
}

// FindByCustomer returns orders matching email or phone, newest first.
func (r *memoryOrderRepository) FindByCustomer(ctx context.Context, email, phone string) ([]*domain.Order, error) {
	matched := []*domain.Order{}
	if email == "" && phone == "" {
		return matched, nil
	}

	r.mu.RLock()
	for _, order := range r.orders {
		if (email != "" && order.CustomerEmail == email) ||
			(phone != "" && order.CustomerPhone == phone) {
			matched = append(matched, cloneOrder(order))
		}
	}
	r.mu.RUnlock()

	sortOrdersNewestFirst(matched)
	return matched, nil
}

// List returns the requested page of all orders, newest first, plus the
// total count.
func (r *memoryOrderRepository) List(ctx context.Context, page, pageSize int) ([]*domain.Order, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	r.mu.RLock()
	all := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		all = append(all, cloneOrder(order))
	}
	r.mu.RUnlock()

	sortOrdersNewestFirst(all)

	total := len(all)
	return paginate(all, page, pageSize), total, nil
}

func (r *memoryOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}

	order.Status = status
	order.UpdatedAt = time.Now()
	return cloneOrder(order), nil
}

func sortOrdersNewestFirst(orders []*domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

func cloneOrder(o *domain.Order) *domain.Order {
	clone := *o
	clone.Items = append([]domain.OrderItem(nil), o.Items...)
	return &clone
}
