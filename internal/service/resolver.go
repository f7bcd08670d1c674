package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/wanderdeals/deals-api/internal/model"
)

// CatalogRepositoryInterface defines the read-only catalog lookups the
// resolver needs. An empty ids slice means "no restriction".
type CatalogRepositoryInterface interface {
	HotelsByIDs(ctx context.Context, ids []int64) ([]model.EntitySummary, error)
	FlightsByIDs(ctx context.Context, ids []int64) ([]model.EntitySummary, error)
	RentalsByIDs(ctx context.Context, ids []int64) ([]model.EntitySummary, error)
	ProductsByCategory(ctx context.Context, category string, ids []int64) ([]model.EntitySummary, error)
	ProductsByIDs(ctx context.Context, ids []int64) ([]model.EntitySummary, error)
}

// EntityResolver translates entity-type selectors and stored ID lists into
// display-ready catalog summaries. References are weak: an ID whose record
// was deleted simply resolves to nothing, so callers may receive fewer
// summaries than IDs.
type EntityResolver struct {
	catalog CatalogRepositoryInterface
}

// NewEntityResolver creates a new EntityResolver over the given catalog.
func NewEntityResolver(catalog CatalogRepositoryInterface) *EntityResolver {
	return &EntityResolver{catalog: catalog}
}

// Resolve looks up summaries for one selector, optionally restricted to a
// set of IDs. Static selectors route to their dedicated tables; dynamic
// selectors route to the product catalog filtered by category name.
func (r *EntityResolver) Resolve(ctx context.Context, sel model.EntitySelector, ids []int64) ([]model.EntitySummary, error) {
	switch sel.Type {
	case model.EntityHotels:
		return r.catalog.HotelsByIDs(ctx, ids)
	case model.EntityFlights:
		return r.catalog.FlightsByIDs(ctx, ids)
	case model.EntityRentals:
		return r.catalog.RentalsByIDs(ctx, ids)
	case model.EntityDynamic:
		return r.catalog.ProductsByCategory(ctx, sel.Category, ids)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntityType, sel.Type)
	}
}

// Hydrate resolves all four of a coupon's association lists. Lookups are
// independent: a failed lookup degrades that type to an empty slice and is
// logged, never propagated. Partial hydration is the correct degraded
// behavior, not an error.
func (r *EntityResolver) Hydrate(ctx context.Context, coupon *model.Coupon) model.HydratedEntities {
	hydrated := model.HydratedEntities{
		Hotels:   []model.EntitySummary{},
		Flights:  []model.EntitySummary{},
		Rentals:  []model.EntitySummary{},
		Products: []model.EntitySummary{},
	}

	if len(coupon.HotelIDs) > 0 {
		if hotels, err := r.catalog.HotelsByIDs(ctx, coupon.HotelIDs); err != nil {
			log.Warn().Err(err).Int64("coupon_id", coupon.ID).Msg("hotel hydration failed, returning empty list")
		} else {
			hydrated.Hotels = hotels
		}
	}
	if len(coupon.FlightIDs) > 0 {
		if flights, err := r.catalog.FlightsByIDs(ctx, coupon.FlightIDs); err != nil {
			log.Warn().Err(err).Int64("coupon_id", coupon.ID).Msg("flight hydration failed, returning empty list")
		} else {
			hydrated.Flights = flights
		}
	}
	if len(coupon.RentalIDs) > 0 {
		if rentals, err := r.catalog.RentalsByIDs(ctx, coupon.RentalIDs); err != nil {
			log.Warn().Err(err).Int64("coupon_id", coupon.ID).Msg("rental hydration failed, returning empty list")
		} else {
			hydrated.Rentals = rentals
		}
	}
	if len(coupon.DynamicProductIDs) > 0 {
		if products, err := r.catalog.ProductsByIDs(ctx, coupon.DynamicProductIDs); err != nil {
			log.Warn().Err(err).Int64("coupon_id", coupon.ID).Msg("product hydration failed, returning empty list")
		} else {
			hydrated.Products = products
		}
	}

	return hydrated
}
