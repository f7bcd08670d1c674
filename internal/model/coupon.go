package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coupon represents a discount instrument in the system.
// Entity association lists are weak references into the catalog tables:
// lookup only, no ownership, no cascade.
type Coupon struct {
	ID                int64           `json:"id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	DiscountValue     decimal.Decimal `json:"discount_value"`
	MaxUses           *int            `json:"max_uses"`
	CurrentUses       int             `json:"current_uses"`
	ValidFrom         time.Time       `json:"valid_from"`
	ValidUntil        time.Time       `json:"valid_until"`
	IsActive          bool            `json:"is_active"`
	IsShowcased       bool            `json:"is_showcased"`
	BrandID           *int64          `json:"brand_id"`
	HotelIDs          []int64         `json:"hotel_ids"`
	FlightIDs         []int64         `json:"flight_ids"`
	RentalIDs         []int64         `json:"rental_ids"`
	DynamicProductIDs []int64         `json:"dynamic_product_ids"`
	CreatedAt         time.Time       `json:"-"` // Not exposed in API
	UpdatedAt         time.Time       `json:"-"` // Not exposed in API
}

// CouponStatus classifies a coupon's usability at a point in time.
type CouponStatus string

const (
	StatusInactive     CouponStatus = "inactive"
	StatusUpcoming     CouponStatus = "upcoming"
	StatusExpired      CouponStatus = "expired"
	StatusLimitReached CouponStatus = "limit_reached"
	StatusActive       CouponStatus = "active"
)

// StatusAt classifies the coupon at the given instant. First match wins:
// an administratively disabled coupon reads inactive regardless of dates,
// and a future-dated coupon reads upcoming rather than active.
// Total over malformed data (inverted or equal date bounds still classify).
func (c *Coupon) StatusAt(now time.Time) CouponStatus {
	switch {
	case !c.IsActive:
		return StatusInactive
	case now.Before(c.ValidFrom):
		return StatusUpcoming
	case now.After(c.ValidUntil):
		return StatusExpired
	case c.MaxUses != nil && c.CurrentUses >= *c.MaxUses:
		return StatusLimitReached
	default:
		return StatusActive
	}
}

// CouponResponse is the API response DTO for a single coupon, with the
// computed status and hydrated entity summaries attached.
type CouponResponse struct {
	Coupon
	Status   CouponStatus    `json:"status"`
	Hotels   []EntitySummary `json:"hotels,omitempty"`
	Flights  []EntitySummary `json:"flights,omitempty"`
	Rentals  []EntitySummary `json:"rentals,omitempty"`
	Products []EntitySummary `json:"products,omitempty"`
}

// CreateCouponRequest is the DTO for creating a coupon.
// Discount bounds and date ordering are validated in the service layer,
// after the required-field checks here have passed.
type CreateCouponRequest struct {
	Code          string          `json:"code" validate:"required,notblank,max=64"`
	Name          string          `json:"name" validate:"required,notblank,max=255"`
	Description   string          `json:"description" validate:"max=2000"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	MaxUses       *int            `json:"max_uses" validate:"omitempty,gte=1"`
	ValidFrom     time.Time       `json:"valid_from" validate:"required"`
	ValidUntil    time.Time       `json:"valid_until" validate:"required"`
	IsActive      *bool           `json:"is_active"`
	IsShowcased   bool            `json:"is_showcased"`
	BrandID       *int64          `json:"brand_id" validate:"omitempty,gte=1"`
}

// UpdateCouponRequest is the DTO for updating a coupon.
// The code is immutable after creation and is deliberately absent here.
type UpdateCouponRequest struct {
	Name          string          `json:"name" validate:"required,notblank,max=255"`
	Description   string          `json:"description" validate:"max=2000"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	MaxUses       *int            `json:"max_uses" validate:"omitempty,gte=1"`
	ValidFrom     time.Time       `json:"valid_from" validate:"required"`
	ValidUntil    time.Time       `json:"valid_until" validate:"required"`
	IsActive      *bool           `json:"is_active"`
	IsShowcased   *bool           `json:"is_showcased"`
	BrandID       *int64          `json:"brand_id" validate:"omitempty,gte=1"`
}

// AssignEntitiesRequest is the DTO for replacing one of a coupon's
// association lists. The submitted set is the desired final set, not a
// delta; an empty set is rejected (assignment is additive, never clear-all).
type AssignEntitiesRequest struct {
	EntityType string  `json:"entity_type" validate:"required,notblank,max=255"`
	IDs        []int64 `json:"ids" validate:"required,min=1,dive,gte=1"`
}

// ToggleShowcaseRequest is the DTO for flipping the showcase flag.
type ToggleShowcaseRequest struct {
	IsShowcased *bool `json:"is_showcased" validate:"required"`
}

// ListCouponsQuery holds the optional filters for listing coupons.
type ListCouponsQuery struct {
	BrandID   *int64
	Showcased *bool
	Category  string
	Page      int
	Limit     int
}

// Destination is one group in the destinations aggregation: coupons grouped
// by the city/country of their associated hotels.
type Destination struct {
	City        string   `json:"city"`
	Country     string   `json:"country"`
	CouponCount int      `json:"coupon_count"`
	CouponCodes []string `json:"coupon_codes"`
}
