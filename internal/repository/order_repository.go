package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"lwg-storefront/internal/domain"

	"github.com/google/uuid"
)

// orderRepository is the postgres-backed OrderRepository. Line items are
// stored as jsonb; the day-scoped reference counter lives in the
// order_refs table and is incremented atomically inside the insert
// transaction.
type orderRepository struct {
	db        *sql.DB
	refPrefix string
}

// NewOrderRepository creates a postgres-backed OrderRepository.
func NewOrderRepository(db *sql.DB, refPrefix string) OrderRepository {
	return &orderRepository{db: db, refPrefix: refPrefix}
}

const orderColumns = `id, ref, items, subtotal, delivery_fee, grand_total,
	customer_name, customer_email, customer_phone, customer_address,
	delivery_zone, payment_method, notes, status, created_at, updated_at`

// Create assigns the order reference and inserts the order in one
// transaction, so two simultaneous same-day creations never share a
// sequence number.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	day := refDayKey(order.CreatedAt)

	var seq int
	err = tx.QueryRowContext(ctx, `
		INSERT INTO order_refs (day, counter)
		VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET counter = order_refs.counter + 1
		RETURNING counter
	`, day).Scan(&seq)
	if err != nil {
		return fmt.Errorf("failed to advance order sequence: %w", err)
	}

	order.Ref = formatOrderRef(r.refPrefix, day, seq)

	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err = tx.ExecContext(
		ctx,
		query,
		order.ID,
		order.Ref,
		items,
		order.Subtotal,
		order.DeliveryFee,
		order.GrandTotal,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		order.CustomerAddress,
		order.DeliveryZone,
		order.PaymentMethod,
		order.Notes,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *orderRepository) FindByRef(ctx context.Context, ref string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ref = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, ref))
}

// FindByCustomer returns orders matching email or phone, newest first.
func (r *orderRepository) FindByCustomer(ctx context.Context, email, phone string) ([]*domain.Order, error) {
	if email == "" && phone == "" {
		return []*domain.Order{}, nil
	}

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE ($1 != '' AND customer_email = $1) OR ($2 != '' AND customer_phone = $2)
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, email, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to find orders by customer: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// List retrieves a page of all orders, newest first, plus the total.
func (r *orderRepository) List(ctx context.Context, page, pageSize int) ([]*domain.Order, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * pageSize

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders, err := r.collect(rows)
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	query := `
		UPDATE orders
		SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + orderColumns + `
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id, status, time.Now()))
}

func (r *orderRepository) collect(rows *sql.Rows) ([]*domain.Order, error) {
	orders := []*domain.Order{}
	for rows.Next() {
		order, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) scanOne(row rowScanner) (*domain.Order, error) {
	order := &domain.Order{}
	var items []byte

	err := row.Scan(
		&order.ID,
		&order.Ref,
		&items,
		&order.Subtotal,
		&order.DeliveryFee,
		&order.GrandTotal,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.CustomerPhone,
		&order.CustomerAddress,
		&order.DeliveryZone,
		&order.PaymentMethod,
		&order.Notes,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}

	return order, nil
}
