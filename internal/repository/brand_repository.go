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

// BrandRepository provides data access for brands using pgx.
type BrandRepository struct {
	pool PoolInterface
}

// NewBrandRepository creates a new BrandRepository with the given pool.
func NewBrandRepository(pool *pgxpool.Pool) *BrandRepository {
	return &BrandRepository{pool: pool}
}

// NewBrandRepositoryWithPool creates a new BrandRepository with a custom pool interface.
// This is primarily used for testing.
func NewBrandRepositoryWithPool(pool PoolInterface) *BrandRepository {
	return &BrandRepository{pool: pool}
}

// Insert inserts a new brand and fills in its assigned ID.
func (r *BrandRepository) Insert(ctx context.Context, brand *model.Brand) error {
	query := `INSERT INTO brands (name, website_link, images, description)
		VALUES ($1, $2, $3, $4) RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		brand.Name, brand.WebsiteLink, brand.Images, brand.Description,
	).Scan(&brand.ID)
	if err != nil {
		return fmt.Errorf("insert brand: %w", err)
	}
	return nil
}

// GetByID retrieves a brand by its ID.
// Returns nil, nil if the brand is not found (service layer handles this).
func (r *BrandRepository) GetByID(ctx context.Context, id int64) (*model.Brand, error) {
	query := `SELECT id, name, website_link, images, description FROM brands WHERE id = $1`

	var brand model.Brand
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&brand.ID,
		&brand.Name,
		&brand.WebsiteLink,
		&brand.Images,
		&brand.Description,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get brand %d: %w", id, err)
	}
	return &brand, nil
}

// List retrieves all brands ordered by name.
// On success, returns an empty slice (not nil) when no brands exist.
func (r *BrandRepository) List(ctx context.Context) ([]model.Brand, error) {
	query := `SELECT id, name, website_link, images, description FROM brands ORDER BY name, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	brands := []model.Brand{}
	for rows.Next() {
		var brand model.Brand
		if err := rows.Scan(&brand.ID, &brand.Name, &brand.WebsiteLink, &brand.Images, &brand.Description); err != nil {
			return nil, fmt.Errorf("scan brand row: %w", err)
		}
		brands = append(brands, brand)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brand rows: %w", err)
	}
	return brands, nil
}

// Update rewrites a brand's fields.
// Returns service.ErrBrandNotFound if the brand doesn't exist.
func (r *BrandRepository) Update(ctx context.Context, brand *model.Brand) error {
	query := `UPDATE brands SET name = $2, website_link = $3, images = $4, description = $5
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		brand.ID, brand.Name, brand.WebsiteLink, brand.Images, brand.Description,
	)
	if err != nil {
		return fmt.Errorf("update brand %d: %w", brand.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrBrandNotFound
	}
	return nil
}

// Delete removes a brand. The coupons.brand_id foreign key is ON DELETE
// RESTRICT, so deleting a brand that coupons still reference fails at the
// database and maps to service.ErrBrandInUse.
// Returns service.ErrBrandNotFound if the brand doesn't exist.
func (r *BrandRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return service.ErrBrandInUse
		}
		return fmt.Errorf("delete brand %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrBrandNotFound
	}
	return nil
}
