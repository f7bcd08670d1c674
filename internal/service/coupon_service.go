package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/wanderdeals/deals-api/internal/model"
)

// Listing defaults. Admin tables page at 20; 100 is a hard backstop.
const (
	defaultListLimit = 20
	maxListLimit     = 100
)

var maxDiscount = decimal.NewFromInt(100)

// CouponRepositoryInterface defines the interface for coupon data access.
type CouponRepositoryInterface interface {
	Insert(ctx context.Context, coupon *model.Coupon) error
	GetByID(ctx context.Context, id int64) (*model.Coupon, error)
	Update(ctx context.Context, coupon *model.Coupon) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, q model.ListCouponsQuery) ([]model.Coupon, error)
	ReplaceAssociations(ctx context.Context, id int64, entityType model.EntityType, ids []int64) error
	SetShowcased(ctx context.Context, id int64, showcased bool) (*model.Coupon, error)
}

// EntityResolverInterface defines the interface for entity hydration.
type EntityResolverInterface interface {
	Resolve(ctx context.Context, sel model.EntitySelector, ids []int64) ([]model.EntitySummary, error)
	Hydrate(ctx context.Context, coupon *model.Coupon) model.HydratedEntities
}

// CouponService provides business logic for coupon operations.
type CouponService struct {
	repo     CouponRepositoryInterface
	resolver EntityResolverInterface
	now      func() time.Time
}

// NewCouponService creates a new CouponService with the given repository and
// resolver.
func NewCouponService(repo CouponRepositoryInterface, resolver EntityResolverInterface) *CouponService {
	return &CouponService{repo: repo, resolver: resolver, now: time.Now}
}

// NewCouponServiceWithClock creates a CouponService with a custom clock.
// Primarily used for testing.
func NewCouponServiceWithClock(repo CouponRepositoryInterface, resolver EntityResolverInterface, now func() time.Time) *CouponService {
	return &CouponService{repo: repo, resolver: resolver, now: now}
}

// validateCouponFields checks discount bounds before date ordering. These
// run after the handler's required-field validation, keeping the
// first-violation-wins ordering stable: presence, then discount, then dates.
func validateCouponFields(discount decimal.Decimal, validFrom, validUntil time.Time) error {
	if discount.LessThanOrEqual(decimal.Zero) || discount.GreaterThan(maxDiscount) {
		return ErrInvalidDiscount
	}
	// Equal timestamps are rejected too: a zero-length window is never valid.
	if !validUntil.After(validFrom) {
		return ErrInvalidDateRange
	}
	return nil
}

// toResponse attaches the computed status and, when requested, the hydrated
// entity summaries.
func (s *CouponService) toResponse(ctx context.Context, coupon *model.Coupon, hydrate bool) *model.CouponResponse {
	resp := &model.CouponResponse{
		Coupon: *coupon,
		Status: coupon.StatusAt(s.now().UTC()),
	}
	if hydrate {
		entities := s.resolver.Hydrate(ctx, coupon)
		resp.Hotels = entities.Hotels
		resp.Flights = entities.Flights
		resp.Rentals = entities.Rentals
		resp.Products = entities.Products
	}
	return resp
}

// Create creates a new coupon from the request. Usage starts at zero and all
// association lists start empty; assignment is a separate operation.
// Returns ErrCodeExists on a coupon code collision and ErrInvalidDiscount /
// ErrInvalidDateRange on field violations.
func (s *CouponService) Create(ctx context.Context, req *model.CreateCouponRequest) (*model.CouponResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	if err := validateCouponFields(req.DiscountValue, req.ValidFrom, req.ValidUntil); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	coupon := &model.Coupon{
		Code:              req.Code,
		Name:              req.Name,
		Description:       req.Description,
		DiscountValue:     req.DiscountValue,
		MaxUses:           req.MaxUses,
		CurrentUses:       0,
		ValidFrom:         req.ValidFrom,
		ValidUntil:        req.ValidUntil,
		IsActive:          isActive,
		IsShowcased:       req.IsShowcased,
		BrandID:           req.BrandID,
		HotelIDs:          []int64{},
		FlightIDs:         []int64{},
		RentalIDs:         []int64{},
		DynamicProductIDs: []int64{},
	}
	if err := s.repo.Insert(ctx, coupon); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, coupon, false), nil
}

// GetByID retrieves a coupon with hydrated entity summaries.
// Returns ErrCouponNotFound if the coupon doesn't exist.
func (s *CouponService) GetByID(ctx context.Context, id int64) (*model.CouponResponse, error) {
	coupon, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return s.toResponse(ctx, coupon, true), nil
}

// Update rewrites a coupon's mutable fields. The code is immutable and
// current_uses is externally owned (redemption lives outside this system);
// neither is touched. Nil is_active/is_showcased leave the flags unchanged.
func (s *CouponService) Update(ctx context.Context, id int64, req *model.UpdateCouponRequest) (*model.CouponResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	if err := validateCouponFields(req.DiscountValue, req.ValidFrom, req.ValidUntil); err != nil {
		return nil, err
	}

	coupon, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	coupon.Name = req.Name
	coupon.Description = req.Description
	coupon.DiscountValue = req.DiscountValue
	coupon.MaxUses = req.MaxUses
	coupon.ValidFrom = req.ValidFrom
	coupon.ValidUntil = req.ValidUntil
	coupon.BrandID = req.BrandID
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}
	if req.IsShowcased != nil {
		coupon.IsShowcased = *req.IsShowcased
	}

	if err := s.repo.Update(ctx, coupon); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, coupon, false), nil
}

// Delete removes a coupon. Referenced catalog entities and the brand are
// weak references and are never touched.
func (s *CouponService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// List retrieves coupons matching the filters, each with its computed
// status. Category-scoped listings are hydrated so callers can render the
// matching entities directly.
func (s *CouponService) List(ctx context.Context, q model.ListCouponsQuery) ([]model.CouponResponse, error) {
	if q.Limit <= 0 {
		q.Limit = defaultListLimit
	}
	if q.Limit > maxListLimit {
		q.Limit = maxListLimit
	}
	if q.Page < 1 {
		q.Page = 1
	}

	coupons, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}

	hydrate := q.Category != ""
	responses := make([]model.CouponResponse, 0, len(coupons))
	for i := range coupons {
		responses = append(responses, *s.toResponse(ctx, &coupons[i], hydrate))
	}
	return responses, nil
}

// ToggleShowcase flips the curation flag. Deliberately independent of
// validity: an expired coupon can be showcased and will appear in showcased
// listings.
func (s *CouponService) ToggleShowcase(ctx context.Context, id int64, showcased bool) (*model.CouponResponse, error) {
	coupon, err := s.repo.SetShowcased(ctx, id, showcased)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, coupon, false), nil
}

// AssignEntities replaces one of a coupon's association lists with the given
// set, deduplicated. The set is the desired final state; an empty set is
// rejected because assignment is never a clear-all action.
// Returns:
//   - ErrUnknownEntityType for a blank selector
//   - ErrEmptySelection when no IDs are submitted
//   - ErrCouponNotFound if the coupon doesn't exist
func (s *CouponService) AssignEntities(ctx context.Context, couponID int64, entityType string, ids []int64) error {
	sel, ok := model.ParseEntitySelector(entityType)
	if !ok {
		return ErrUnknownEntityType
	}
	if len(ids) == 0 {
		return ErrEmptySelection
	}
	return s.repo.ReplaceAssociations(ctx, couponID, sel.Type, lo.Uniq(ids))
}

// Destinations groups hotel-associated coupons by the city/country of their
// hotels. A coupon counts once per destination even when several of its
// hotels share a city. A failed hotel lookup degrades that coupon to no
// destinations rather than failing the aggregation.
func (s *CouponService) Destinations(ctx context.Context) ([]model.Destination, error) {
	coupons, err := s.repo.List(ctx, model.ListCouponsQuery{Category: string(model.EntityHotels)})
	if err != nil {
		return nil, fmt.Errorf("list hotel coupons: %w", err)
	}

	type entry struct {
		city    string
		country string
		code    string
	}
	var entries []entry

	for i := range coupons {
		coupon := &coupons[i]
		hotels, err := s.resolver.Resolve(ctx, model.EntitySelector{Type: model.EntityHotels}, coupon.HotelIDs)
		if err != nil {
			log.Warn().Err(err).Int64("coupon_id", coupon.ID).Msg("skipping coupon in destinations, hotel lookup failed")
			continue
		}
		seen := map[string]bool{}
		for _, h := range hotels {
			key := h.City + "|" + h.Country
			if h.City == "" || seen[key] {
				continue
			}
			seen[key] = true
			entries = append(entries, entry{city: h.City, country: h.Country, code: coupon.Code})
		}
	}

	groups := lo.GroupBy(entries, func(e entry) string { return e.city + "|" + e.country })
	destinations := lo.MapToSlice(groups, func(_ string, group []entry) model.Destination {
		return model.Destination{
			City:        group[0].city,
			Country:     group[0].country,
			CouponCount: len(group),
			CouponCodes: lo.Map(group, func(e entry, _ int) string { return e.code }),
		}
	})
	sort.Slice(destinations, func(i, j int) bool {
		if destinations[i].CouponCount != destinations[j].CouponCount {
			return destinations[i].CouponCount > destinations[j].CouponCount
		}
		return destinations[i].City < destinations[j].City
	})
	return destinations, nil
}
