package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lwg-storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// productRepository is the postgres-backed ProductRepository. Tags are
// stored as jsonb.
type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a postgres-backed ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, slug, title, description, price, image, stock, category, tags, featured, created_at, updated_at`

// Create inserts a new product using parameterized queries.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	tags, err := json.Marshal(product.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Slug,
		product.Title,
		product.Description,
		product.Price,
		product.Image,
		product.Stock,
		product.Category,
		tags,
		product.Featured,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrSlugAlreadyExists
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// FindByIDOrSlug resolves by ID first, slug second, in one combined lookup.
func (r *productRepository) FindByIDOrSlug(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id::text = $1 OR slug = $1
		ORDER BY (id::text = $1) DESC
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, idOrSlug))
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// Update merges the patch over the stored row inside a transaction.
func (r *productRepository) Update(ctx context.Context, id uuid.UUID, patch *domain.ProductPatch) (*domain.Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
		FOR UPDATE
	`

	product, err := r.scanOne(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	patch.Apply(product, time.Now())

	tags, err := json.Marshal(product.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}

	update := `
		UPDATE products
		SET slug = $2, title = $3, description = $4, price = $5, image = $6,
		    stock = $7, category = $8, tags = $9, featured = $10, updated_at = $11
		WHERE id = $1
	`

	_, err = tx.ExecContext(
		ctx,
		update,
		product.ID,
		product.Slug,
		product.Title,
		product.Description,
		product.Price,
		product.Image,
		product.Stock,
		product.Category,
		tags,
		product.Featured,
		product.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrSlugAlreadyExists
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product update: %w", err)
	}

	return product, nil
}

// Delete removes a product.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// List retrieves products with filtering and pagination, newest first, and
// the pre-pagination total.
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int, error) {
	filter.normalize()

	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.Category != "" && filter.Category != "all" {
		whereClause += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, filter.Category)
		argIndex++
	}

	if filter.Search != "" {
		// tags::text searches the serialized jsonb array
		whereClause += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d OR tags::text ILIKE $%d)", argIndex, argIndex, argIndex)
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	if filter.MinPrice != nil {
		whereClause += fmt.Sprintf(" AND price >= $%d", argIndex)
		args = append(args, *filter.MinPrice)
		argIndex++
	}

	if filter.MaxPrice != nil {
		whereClause += fmt.Sprintf(" AND price <= $%d", argIndex)
		args = append(args, *filter.MaxPrice)
		argIndex++
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, argIndex, argIndex+1)

	args = append(args, filter.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := r.scanOne(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *productRepository) scanOne(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var tags []byte

	err := row.Scan(
		&product.ID,
		&product.Slug,
		&product.Title,
		&product.Description,
		&product.Price,
		&product.Image,
		&product.Stock,
		&product.Category,
		&tags,
		&product.Featured,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	if err := json.Unmarshal(tags, &product.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}

	return product, nil
}
