package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderdeals/deals-api/internal/model"
	"github.com/wanderdeals/deals-api/internal/service"
)

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// CouponRepository provides data access for coupons using pgx.
type CouponRepository struct {
	pool PoolInterface
}

// NewCouponRepository creates a new CouponRepository with the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// NewCouponRepositoryWithPool creates a new CouponRepository with a custom pool interface.
// This is primarily used for testing.
func NewCouponRepositoryWithPool(pool PoolInterface) *CouponRepository {
	return &CouponRepository{pool: pool}
}

const couponColumns = `id, code, name, description, discount_value, max_uses, current_uses,
	valid_from, valid_until, is_active, is_showcased, brand_id,
	hotel_ids, flight_ids, rental_ids, dynamic_product_ids, created_at, updated_at`

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.Name,
		&c.Description,
		&c.DiscountValue,
		&c.MaxUses,
		&c.CurrentUses,
		&c.ValidFrom,
		&c.ValidUntil,
		&c.IsActive,
		&c.IsShowcased,
		&c.BrandID,
		&c.HotelIDs,
		&c.FlightIDs,
		&c.RentalIDs,
		&c.DynamicProductIDs,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Insert inserts a new coupon and fills in its assigned ID.
// Returns service.ErrCodeExists if the code is already taken.
func (r *CouponRepository) Insert(ctx context.Context, coupon *model.Coupon) error {
	query := `INSERT INTO coupons
		(code, name, description, discount_value, max_uses, current_uses,
		 valid_from, valid_until, is_active, is_showcased, brand_id,
		 hotel_ids, flight_ids, rental_ids, dynamic_product_ids)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8, $9, $10, '{}', '{}', '{}', '{}')
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		coupon.Code, coupon.Name, coupon.Description, coupon.DiscountValue,
		coupon.MaxUses, coupon.ValidFrom, coupon.ValidUntil,
		coupon.IsActive, coupon.IsShowcased, coupon.BrandID,
	).Scan(&coupon.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrCodeExists
		}
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

// GetByID retrieves a coupon by its ID.
// Returns nil, nil if the coupon is not found (service layer handles this).
func (r *CouponRepository) GetByID(ctx context.Context, id int64) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`

	coupon, err := scanCoupon(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get coupon %d: %w", id, err)
	}
	return coupon, nil
}

// Update rewrites every mutable field of a coupon. The code and the
// association lists are deliberately not touched here: the code is immutable
// and the lists belong to ReplaceAssociations.
// Returns service.ErrCouponNotFound if the coupon doesn't exist.
func (r *CouponRepository) Update(ctx context.Context, coupon *model.Coupon) error {
	query := `UPDATE coupons SET
		name = $2, description = $3, discount_value = $4, max_uses = $5,
		valid_from = $6, valid_until = $7, is_active = $8, is_showcased = $9,
		brand_id = $10, updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		coupon.ID, coupon.Name, coupon.Description, coupon.DiscountValue,
		coupon.MaxUses, coupon.ValidFrom, coupon.ValidUntil,
		coupon.IsActive, coupon.IsShowcased, coupon.BrandID,
	)
	if err != nil {
		return fmt.Errorf("update coupon %d: %w", coupon.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCouponNotFound
	}
	return nil
}

// Delete removes a coupon row. Referenced catalog entities and the brand are
// untouched.
// Returns service.ErrCouponNotFound if the coupon doesn't exist.
func (r *CouponRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete coupon %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCouponNotFound
	}
	return nil
}

// associationColumn maps an entity type to its array column. Keeping this a
// closed switch (never string interpolation of caller input) is what makes
// ReplaceAssociations safe to build dynamically.
func associationColumn(entityType model.EntityType) (string, bool) {
	switch entityType {
	case model.EntityHotels:
		return "hotel_ids", true
	case model.EntityFlights:
		return "flight_ids", true
	case model.EntityRentals:
		return "rental_ids", true
	case model.EntityDynamic:
		return "dynamic_product_ids", true
	default:
		return "", false
	}
}

// ReplaceAssociations overwrites one association list wholesale. A single
// UPDATE of a single column, so the replace is all-or-nothing without an
// explicit transaction.
// Returns service.ErrCouponNotFound if the coupon doesn't exist and
// service.ErrUnknownEntityType for an unrecognized entity type.
func (r *CouponRepository) ReplaceAssociations(ctx context.Context, id int64, entityType model.EntityType, ids []int64) error {
	column, ok := associationColumn(entityType)
	if !ok {
		return service.ErrUnknownEntityType
	}

	query := fmt.Sprintf(`UPDATE coupons SET %s = $2, updated_at = now() WHERE id = $1`, column)

	tag, err := r.pool.Exec(ctx, query, id, ids)
	if err != nil {
		return fmt.Errorf("replace %s for coupon %d: %w", column, id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCouponNotFound
	}
	return nil
}

// SetShowcased flips the showcase flag and returns the updated coupon.
// No cross-check against validity status: showcasing an expired coupon is
// allowed.
// Returns service.ErrCouponNotFound if the coupon doesn't exist.
func (r *CouponRepository) SetShowcased(ctx context.Context, id int64, showcased bool) (*model.Coupon, error) {
	query := `UPDATE coupons SET is_showcased = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + couponColumns

	coupon, err := scanCoupon(r.pool.QueryRow(ctx, query, id, showcased))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrCouponNotFound
		}
		return nil, fmt.Errorf("set showcased for coupon %d: %w", id, err)
	}
	return coupon, nil
}

// List retrieves coupons matching the given filters, newest first.
// A category filter matches coupons with at least one association of that
// type; for dynamic categories membership is resolved against the product
// catalog at read time.
// On success, returns an empty slice (not nil) when nothing matches.
func (r *CouponRepository) List(ctx context.Context, q model.ListCouponsQuery) ([]model.Coupon, error) {
	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.BrandID != nil {
		conditions = append(conditions, "brand_id = "+arg(*q.BrandID))
	}
	if q.Showcased != nil {
		conditions = append(conditions, "is_showcased = "+arg(*q.Showcased))
	}
	if sel, ok := model.ParseEntitySelector(q.Category); ok {
		switch sel.Type {
		case model.EntityHotels:
			conditions = append(conditions, "cardinality(hotel_ids) > 0")
		case model.EntityFlights:
			conditions = append(conditions, "cardinality(flight_ids) > 0")
		case model.EntityRentals:
			conditions = append(conditions, "cardinality(rental_ids) > 0")
		case model.EntityDynamic:
			conditions = append(conditions,
				"EXISTS (SELECT 1 FROM products p WHERE p.id = ANY(coupons.dynamic_product_ids) AND p.category = "+arg(sel.Category)+")")
		}
	}

	query := `SELECT ` + couponColumns + ` FROM coupons`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if q.Limit > 0 {
		query += " LIMIT " + arg(q.Limit)
		if q.Page > 1 {
			query += " OFFSET " + arg((q.Page-1)*q.Limit)
		}
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	coupons := []model.Coupon{}
	for rows.Next() {
		coupon, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coupon row: %w", err)
		}
		coupons = append(coupons, *coupon)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coupon rows: %w", err)
	}
	return coupons, nil
}
