package product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dpereira/go-product-api/internal/types"
)

// DB is the subset of pgxpool.Pool the repository needs. Tests substitute a
// pgxmock pool.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ ProductRepo = (*PostgresProductRepo)(nil)

// ProductRepo defines the contract for product record persistence.
type ProductRepo interface {
	InsertProduct(ctx context.Context, product *types.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*types.Product, error)
	GetAllProducts(ctx context.Context) ([]types.Product, error)
	// UpdateProduct replaces all mutable fields of the product row.
	UpdateProduct(ctx context.Context, product *types.Product) error
	// PatchProduct merges the non-nil patch fields into the row and returns
	// the row as stored after the merge.
	PatchProduct(ctx context.Context, id uuid.UUID, patch types.ProductPatch, updatedAt time.Time) (*types.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	SearchProductsByName(ctx context.Context, name string) ([]types.Product, error)
	// GetProductOwner returns only the owner id, for route-layer ownership
	// checks that do not need the full record.
	GetProductOwner(ctx context.Context, id uuid.UUID) (string, error)
}

const productColumns = "id, name, description, price, stock, owner_id, is_active, created_at, updated_at"

type PostgresProductRepo struct {
	logger *slog.Logger
	pgpool DB
}

func NewPostgresProductRepo(pgpool DB, logger *slog.Logger) *PostgresProductRepo {
	return &PostgresProductRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func scanProduct(row pgx.Row) (*types.Product, error) {
	var p types.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Stock,
		&p.OwnerID,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]types.Product, error) {
	defer rows.Close()
	var products []types.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (r *PostgresProductRepo) InsertProduct(ctx context.Context, product *types.Product) error {
	_, err := r.pgpool.Exec(ctx,
		`INSERT INTO products (id, name, description, price, stock, owner_id, is_active, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		product.ID, product.Name, product.Description, product.Price, product.Stock,
		product.OwnerID, product.IsActive, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: db insert failed: %w", err)
	}
	return nil
}

func (r *PostgresProductRepo) GetProductByID(ctx context.Context, id uuid.UUID) (*types.Product, error) {
	row := r.pgpool.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id)
	return scanProduct(row)
}

func (r *PostgresProductRepo) GetAllProducts(ctx context.Context) ([]types.Product, error) {
	rows, err := r.pgpool.Query(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list products: query failed: %w", err)
	}
	return collectProducts(rows)
}

func (r *PostgresProductRepo) UpdateProduct(ctx context.Context, product *types.Product) error {
	tag, err := r.pgpool.Exec(ctx,
		`UPDATE products
         SET name = $1, description = $2, price = $3, stock = $4, is_active = $5, updated_at = $6
         WHERE id = $7`,
		product.Name, product.Description, product.Price, product.Stock,
		product.IsActive, product.UpdatedAt, product.ID)
	if err != nil {
		return fmt.Errorf("update product: db update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *PostgresProductRepo) PatchProduct(ctx context.Context, id uuid.UUID, patch types.ProductPatch, updatedAt time.Time) (*types.Product, error) {
	setClauses := []string{}
	args := []interface{}{}
	arg := 1

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, arg))
		args = append(args, value)
		arg++
	}

	if patch.Name != nil {
		addSet("name", *patch.Name)
	}
	if patch.Description != nil {
		addSet("description", *patch.Description)
	}
	if patch.Price != nil {
		addSet("price", *patch.Price)
	}
	if patch.Stock != nil {
		addSet("stock", *patch.Stock)
	}
	if patch.IsActive != nil {
		addSet("is_active", *patch.IsActive)
	}
	addSet("updated_at", updatedAt)

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE products SET %s WHERE id = $%d RETURNING %s",
		strings.Join(setClauses, ", "), arg, productColumns)

	row := r.pgpool.QueryRow(ctx, query, args...)
	return scanProduct(row)
}

func (r *PostgresProductRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete product: db delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *PostgresProductRepo) SearchProductsByName(ctx context.Context, name string) ([]types.Product, error) {
	rows, err := r.pgpool.Query(ctx,
		"SELECT "+productColumns+" FROM products WHERE name ILIKE '%' || $1 || '%' ORDER BY created_at DESC",
		name)
	if err != nil {
		return nil, fmt.Errorf("search products: query failed: %w", err)
	}
	return collectProducts(rows)
}

func (r *PostgresProductRepo) GetProductOwner(ctx context.Context, id uuid.UUID) (string, error) {
	var ownerID string
	err := r.pgpool.QueryRow(ctx,
		"SELECT owner_id FROM products WHERE id = $1", id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", types.ErrNotFound
		}
		return "", fmt.Errorf("get product owner: query failed: %w", err)
	}
	return ownerID, nil
}
