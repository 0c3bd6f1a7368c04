// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velora-shop/velora/internal/platform/dberr"
)

// # Postgres Product Repository

const productColumns = `
	id, name, slug, category, description, price_cents, stock_quantity, image_url, created_at, updated_at`

// PostgresProductRepository implements [ProductRepository] using pgx.
type PostgresProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new PostgreSQL implementation of the [ProductRepository].
func NewProductRepository(pool *pgxpool.Pool) *PostgresProductRepository {
	return &PostgresProductRepository{pool: pool}
}

func scanProduct(row pgx.Row) (*Product, error) {
	var product Product
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.Category,
		&product.Description,
		&product.PriceCents,
		&product.StockQuantity,
		&product.ImageURL,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

/*
List retrieves the full catalog ordered by category, then name.

Parameters:
  - context: context.Context

Returns:
  - []*Product: The full catalog
  - error: Database errors
*/
func (repository *PostgresProductRepository) List(context context.Context) ([]*Product, error) {
	query := `SELECT` + productColumns + ` FROM products ORDER BY category, name, id`

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_product_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_product_repo_list_scan_failed: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_product_repo_list_rows_failed: %w", err)
	}

	return products, nil
}

/*
FindByID retrieves a product by its primary key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Product: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresProductRepository) FindByID(context context.Context, id string) (*Product, error) {
	query := `SELECT` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Product", "")
	}

	return product, nil
}

/*
Create persists a new product into the products table.

Parameters:
  - context: context.Context
  - product: *Product

Returns:
  - error: apperr.Conflict on duplicate slug, or database errors
*/
func (repository *PostgresProductRepository) Create(context context.Context, product *Product) error {
	const query = `
		INSERT INTO products (id, name, slug, category, description, price_cents, stock_quantity, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		product.ID,
		product.Name,
		product.Slug,
		product.Category,
		product.Description,
		product.PriceCents,
		product.StockQuantity,
		product.ImageURL,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Product", "A product with this name already exists")
	}

	return nil
}

/*
UpdateStock replaces the product's stock quantity.

Parameters:
  - context: context.Context
  - id: string
  - quantity: int

Returns:
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresProductRepository) UpdateStock(context context.Context, id string, quantity int) error {
	const query = `UPDATE products SET stock_quantity = $2, updated_at = NOW() WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, quantity)
	if err != nil {
		return fmt.Errorf("postgres_product_repo_update_stock_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Product", "")
	}

	return nil
}
