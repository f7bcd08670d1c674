package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderdeals/deals-api/internal/model"
	"github.com/wanderdeals/deals-api/internal/service"
)

// CategoryRepository provides data access for categories using pgx.
// The three static categories (Hotel, Flight, Rental) are seeded by the
// schema; only dynamic categories are ever created or deleted here.
type CategoryRepository struct {
	pool PoolInterface
}

// NewCategoryRepository creates a new CategoryRepository with the given pool.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// NewCategoryRepositoryWithPool creates a new CategoryRepository with a custom pool interface.
// This is primarily used for testing.
func NewCategoryRepositoryWithPool(pool PoolInterface) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// List retrieves all categories, static first, then by name.
// On success, returns an empty slice (not nil) when no categories exist.
func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	query := `SELECT id, name, type FROM categories ORDER BY type = 'dynamic', name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Type); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}
	return categories, nil
}

// GetByID retrieves a category by its ID.
// Returns nil, nil if the category is not found (service layer handles this).
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	query := `SELECT id, name, type FROM categories WHERE id = $1`

	var cat model.Category
	err := r.pool.QueryRow(ctx, query, id).Scan(&cat.ID, &cat.Name, &cat.Type)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	return &cat, nil
}

// Insert inserts a new dynamic category and fills in its assigned ID.
// Returns service.ErrCategoryExists if the name is already taken.
func (r *CategoryRepository) Insert(ctx context.Context, category *model.Category) error {
	query := `INSERT INTO categories (name, type) VALUES ($1, 'dynamic') RETURNING id`

	err := r.pool.QueryRow(ctx, query, category.Name).Scan(&category.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrCategoryExists
		}
		return fmt.Errorf("insert category: %w", err)
	}
	category.Type = model.CategoryDynamic
	return nil
}

// CountProducts counts products carrying the given category name. Used to
// guard dynamic category deletion.
func (r *CategoryRepository) CountProducts(ctx context.Context, categoryName string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE category = $1`, categoryName,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count products in category %s: %w", categoryName, err)
	}
	return count, nil
}

// Delete removes a dynamic category row. The type guard is repeated in SQL
// so a static row can never be deleted even if the service check is bypassed.
// Returns service.ErrCategoryNotFound if no dynamic category matches.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM categories WHERE id = $1 AND type = 'dynamic'`, id)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCategoryNotFound
	}
	return nil
}
