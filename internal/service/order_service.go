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
	ErrNoItems           = errors.New("order has no line items")
	ErrUnknownProduct    = errors.New("order references an unknown product")
	ErrInvalidQty        = errors.New("line item quantity must be at least 1")
	ErrInvalidZone       = errors.New("unknown delivery zone")
	ErrInvalidPayment    = errors.New("unknown payment method")
	ErrTotalMismatch     = errors.New("client totals do not match server-computed totals")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("illegal order status transition")
)

// OrderItemInput is a checkout line item. Only the product reference and
// quantity are trusted; title and price are snapshotted from the catalog.
type OrderItemInput struct {
	ProductID uuid.UUID
	Qty       int
}

// CreateOrderInput carries a checkout payload. The client-computed totals
// are checked against the server-side recomputation and are never stored
// as-is.
type CreateOrderInput struct {
	Items           []OrderItemInput
	Subtotal        decimal.Decimal
	DeliveryFee     decimal.Decimal
	GrandTotal      decimal.Decimal
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	DeliveryZone    domain.DeliveryZone
	PaymentMethod   domain.PaymentMethod
	Notes           string
}

// OrderService owns the order lifecycle: creation from checkout payloads,
// lookups and status transitions.
type OrderService interface {
	Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	GetByRef(ctx context.Context, ref string) (*domain.Order, error)
	// LookupByCustomer returns orders for the contact, newest first.
	LookupByCustomer(ctx context.Context, email, phone string) ([]*domain.Order, error)
	List(ctx context.Context, page, pageSize int) ([]*domain.Order, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
}

type orderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository) OrderService {
	return &orderService{orders: orders, products: products}
}

// Create builds an order from a checkout payload. Line items are resolved
// against the catalog and their title and unit price snapshotted from the
// stored product; the delivery fee comes from the zone and the grand total
// from the items. Client arithmetic is verified, never trusted.
func (s *orderService) Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrNoItems
	}
	if !input.DeliveryZone.Valid() {
		return nil, ErrInvalidZone
	}
	if !input.PaymentMethod.Valid() {
		return nil, ErrInvalidPayment
	}

	items := make([]domain.OrderItem, 0, len(input.Items))
	subtotal := decimal.Zero
	for _, line := range input.Items {
		if line.Qty < 1 {
			return nil, ErrInvalidQty
		}

		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			if err == repository.ErrProductNotFound {
				return nil, ErrUnknownProduct
			}
			return nil, fmt.Errorf("failed to resolve product: %w", err)
		}

		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Title:     product.Title,
			UnitPrice: product.Price,
			Qty:       line.Qty,
		})
		subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Qty))))
	}

	deliveryFee := input.DeliveryZone.Fee()
	grandTotal := subtotal.Add(deliveryFee)

	if !input.Subtotal.Equal(subtotal) ||
		!input.DeliveryFee.Equal(deliveryFee) ||
		!input.GrandTotal.Equal(grandTotal) {
		return nil, ErrTotalMismatch
	}

	now := time.Now()
	order := &domain.Order{
		ID:              uuid.New(),
		Items:           items,
		Subtotal:        subtotal,
		DeliveryFee:     deliveryFee,
		GrandTotal:      grandTotal,
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		CustomerAddress: input.CustomerAddress,
		DeliveryZone:    input.DeliveryZone,
		PaymentMethod:   input.PaymentMethod,
		Notes:           input.Notes,
		Status:          domain.StatusProcessing,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return order, nil
}

func (s *orderService) GetByRef(ctx context.Context, ref string) (*domain.Order, error) {
	return s.orders.FindByRef(ctx, ref)
}

func (s *orderService) LookupByCustomer(ctx context.Context, email, phone string) ([]*domain.Order, error) {
	return s.orders.FindByCustomer(ctx, email, phone)
}

func (s *orderService) List(ctx context.Context, page, pageSize int) ([]*domain.Order, int, error) {
	return s.orders.List(ctx, page, pageSize)
}

// UpdateStatus enforces the state machine before persisting the change.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, ErrInvalidTransition
	}

	return s.orders.UpdateStatus(ctx, id, status)
}
