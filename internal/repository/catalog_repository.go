package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderdeals/deals-api/internal/model"
)

// CatalogRepository provides read-only lookups into the catalog tables
// (hotels, flights, rentals, products). The coupon subsystem never writes
// these; they are external collaborators referenced by ID.
type CatalogRepository struct {
	pool PoolInterface
}

// NewCatalogRepository creates a new CatalogRepository with the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// NewCatalogRepositoryWithPool creates a new CatalogRepository with a custom pool interface.
// This is primarily used for testing.
func NewCatalogRepositoryWithPool(pool PoolInterface) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// collectSummaries drains rows of (id, label) pairs.
// On success, returns an empty slice (not nil) when nothing matches.
func collectSummaries(rows pgx.Rows) ([]model.EntitySummary, error) {
	defer rows.Close()

	summaries := []model.EntitySummary{}
	for rows.Next() {
		var s model.EntitySummary
		if err := rows.Scan(&s.ID, &s.Label); err != nil {
			return nil, fmt.Errorf("scan entity summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entity rows: %w", err)
	}
	return summaries, nil
}

// HotelsByIDs retrieves hotel summaries. A nil or empty ids slice returns
// the whole catalog (used by the admin picker). Labels prefer the localized
// title and fall back to the generic one; hotel data is inconsistent across
// sources and the fallback chain matters. City and country ride along for
// the destinations aggregation.
func (r *CatalogRepository) HotelsByIDs(ctx context.Context, ids []int64) ([]model.EntitySummary, error) {
	query := `SELECT id, COALESCE(NULLIF(localized_title, ''), title), city, country
		FROM hotels`
	var args []any
	if len(ids) > 0 {
		query += ` WHERE id = ANY($1)`
		args = append(args, ids)
	}
	query += ` ORDER BY id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query hotels: %w", err)
	}
	defer rows.Close()

	summaries := []model.EntitySummary{}
	for rows.Next() {
		var s model.EntitySummary
		if err := rows.Scan(&s.ID, &s.Label, &s.City, &s.Country); err != nil {
			return nil, fmt.Errorf("scan hotel summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hotel rows: %w", err)
	}
	return summaries, nil
}

// FlightsByIDs retrieves flight summaries. A nil or empty ids slice returns
// the whole catalog.
func (r *CatalogRepository) FlightsByIDs(ctx context.Context, ids []int64) ([]model.EntitySummary, error) {
	query := `SELECT id, title FROM flights`
	var args []any
	if len(ids) > 0 {
		query += ` WHERE id = ANY($1)`
		args = append(args, ids)
	}
	query += ` ORDER BY id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query flights: %w", err)
	}
	return collectSummaries(rows)
}

// RentalsByIDs retrieves rental summaries, preferring the main heading over
// the title. A nil or empty ids slice returns the whole catalog.
func (r *CatalogRepository) RentalsByIDs(ctx context.Context, ids []int64) ([]model.EntitySummary, error) {
	query := `SELECT id, COALESCE(NULLIF(main_heading, ''), title) FROM rentals`
	var args []any
	if len(ids) > 0 {
		query += ` WHERE id = ANY($1)`
		args = append(args, ids)
	}
	query += ` ORDER BY id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rentals: %w", err)
	}
	return collectSummaries(rows)
}

// ProductsByCategory retrieves product summaries for one dynamic category.
// Dynamic categories share the generic product catalog, so membership is the
// product's own category field, not a dedicated table. A nil or empty ids
// slice returns every product in the category.
func (r *CatalogRepository) ProductsByCategory(ctx context.Context, category string, ids []int64) ([]model.EntitySummary, error) {
	query := `SELECT id, name FROM products WHERE category = $1`
	args := []any{category}
	if len(ids) > 0 {
		query += ` AND id = ANY($2)`
		args = append(args, ids)
	}
	query += ` ORDER BY id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products in category %s: %w", category, err)
	}
	return collectSummaries(rows)
}

// ProductsByIDs retrieves product summaries by ID regardless of category.
// Used when hydrating a coupon's dynamic list, which is undifferentiated by
// category.
func (r *CatalogRepository) ProductsByIDs(ctx context.Context, ids []int64) ([]model.EntitySummary, error) {
	query := `SELECT id, name FROM products WHERE id = ANY($1) ORDER BY id`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return collectSummaries(rows)
}
