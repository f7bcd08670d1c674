package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderdeals/deals-api/internal/model"
)

// mockCouponRepository is a mock implementation of CouponRepositoryInterface.
type mockCouponRepository struct {
	insertFn              func(ctx context.Context, coupon *model.Coupon) error
	getByIDFn             func(ctx context.Context, id int64) (*model.Coupon, error)
	updateFn              func(ctx context.Context, coupon *model.Coupon) error
	deleteFn              func(ctx context.Context, id int64) error
	listFn                func(ctx context.Context, q model.ListCouponsQuery) ([]model.Coupon, error)
	replaceAssociationsFn func(ctx context.Context, id int64, entityType model.EntityType, ids []int64) error
	setShowcasedFn        func(ctx context.Context, id int64, showcased bool) (*model.Coupon, error)
}

func (m *mockCouponRepository) Insert(ctx context.Context, coupon *model.Coupon) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, coupon)
	}
	return nil
}

func (m *mockCouponRepository) GetByID(ctx context.Context, id int64) (*model.Coupon, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockCouponRepository) Update(ctx context.Context, coupon *model.Coupon) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, coupon)
	}
	return nil
}

func (m *mockCouponRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockCouponRepository) List(ctx context.Context, q model.ListCouponsQuery) ([]model.Coupon, error) {
	if m.listFn != nil {
		return m.listFn(ctx, q)
	}
	return []model.Coupon{}, nil
}

func (m *mockCouponRepository) ReplaceAssociations(ctx context.Context, id int64, entityType model.EntityType, ids []int64) error {
	if m.replaceAssociationsFn != nil {
		return m.replaceAssociationsFn(ctx, id, entityType, ids)
	}
	return nil
}

func (m *mockCouponRepository) SetShowcased(ctx context.Context, id int64, showcased bool) (*model.Coupon, error) {
	if m.setShowcasedFn != nil {
		return m.setShowcasedFn(ctx, id, showcased)
	}
	return nil, nil
}

// mockEntityResolver is a mock implementation of EntityResolverInterface.
type mockEntityResolver struct {
	resolveFn func(ctx context.Context, sel model.EntitySelector, ids []int64) ([]model.EntitySummary, error)
	hydrateFn func(ctx context.Context, coupon *model.Coupon) model.HydratedEntities
}

func (m *mockEntityResolver) Resolve(ctx context.Context, sel model.EntitySelector, ids []int64) ([]model.EntitySummary, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, sel, ids)
	}
	return []model.EntitySummary{}, nil
}

func (m *mockEntityResolver) Hydrate(ctx context.Context, coupon *model.Coupon) model.HydratedEntities {
	if m.hydrateFn != nil {
		return m.hydrateFn(ctx, coupon)
	}
	return model.HydratedEntities{}
}

func intPtr(i int) *int {
	return &i
}

func boolPtr(b bool) *bool {
	return &b
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return ts
}

func fixedClock(t *testing.T, value string) func() time.Time {
	now := mustTime(t, value)
	return func() time.Time { return now }
}

func validCreateRequest(t *testing.T) *model.CreateCouponRequest {
	t.Helper()
	return &model.CreateCouponRequest{
		Code:          "SUMMER20",
		Name:          "Summer Sale",
		DiscountValue: decimal.NewFromInt(20),
		MaxUses:       intPtr(100),
		ValidFrom:     mustTime(t, "2025-06-01T00:00:00Z"),
		ValidUntil:    mustTime(t, "2025-06-30T00:00:00Z"),
	}
}

func TestCouponService_Create_Success(t *testing.T) {
	var captured *model.Coupon
	repo := &mockCouponRepository{
		insertFn: func(ctx context.Context, coupon *model.Coupon) error {
			coupon.ID = 42
			captured = coupon
			return nil
		},
	}
	svc := NewCouponServiceWithClock(repo, &mockEntityResolver{}, fixedClock(t, "2025-06-15T00:00:00Z"))

	resp, err := svc.Create(context.Background(), validCreateRequest(t))

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, "SUMMER20", captured.Code)
	assert.Equal(t, 0, captured.CurrentUses, "usage counter starts at zero")
	assert.True(t, captured.IsActive, "coupons default to active")
	assert.Empty(t, captured.HotelIDs, "association lists start empty")
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, model.StatusActive, resp.Status)
}

func TestCouponService_Create_DuplicateCode(t *testing.T) {
	repo := &mockCouponRepository{
		insertFn: func(ctx context.Context, coupon *model.Coupon) error {
			return ErrCodeExists
		},
	}
	svc := NewCouponService(repo, &mockEntityResolver{})

	_, err := svc.Create(context.Background(), validCreateRequest(t))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCodeExists), "duplicate code must surface as a conflict, not generic validation")
}

func TestCouponService_Create_InvalidDiscount(t *testing.T) {
	svc := NewCouponService(&mockCouponRepository{}, &mockEntityResolver{})

	for _, discount := range []decimal.Decimal{
		decimal.Zero,
		decimal.NewFromInt(-5),
		decimal.NewFromInt(101),
	} {
		req := validCreateRequest(t)
		req.DiscountValue = discount

		_, err := svc.Create(context.Background(), req)
		assert.True(t, errors.Is(err, ErrInvalidDiscount), "discount=%s", discount)
	}
}

func TestCouponService_Create_InvalidDateRange(t *testing.T) {
	svc := NewCouponService(&mockCouponRepository{}, &mockEntityResolver{})

	// inverted
	req := validCreateRequest(t)
	req.ValidFrom, req.ValidUntil = req.ValidUntil, req.ValidFrom
	_, err := svc.Create(context.Background(), req)
	assert.True(t, errors.Is(err, ErrInvalidDateRange))

	// equal timestamps are rejected too
	req = validCreateRequest(t)
	req.ValidUntil = req.ValidFrom
	_, err = svc.Create(context.Background(), req)
	assert.True(t, errors.Is(err, ErrInvalidDateRange))
}

func TestCouponService_Create_DiscountCheckedBeforeDates(t *testing.T) {
	// Field validation order is fixed: discount bounds fire before date
	// ordering when both are violated.
	svc := NewCouponService(&mockCouponRepository{}, &mockEntityResolver{})

	req := validCreateRequest(t)
	req.DiscountValue = decimal.Zero
	req.ValidUntil = req.ValidFrom

	_, err := svc.Create(context.Background(), req)
	assert.True(t, errors.Is(err, ErrInvalidDiscount))
}

func TestCouponService_Create_NilRequest(t *testing.T) {
	svc := NewCouponService(&mockCouponRepository{}, &mockEntityResolver{})

	_, err := svc.Create(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}

func TestCouponService_GetByID_NotFound(t *testing.T) {
	svc := NewCouponService(&mockCouponRepository{}, &mockEntityResolver{})

	_, err := svc.GetByID(context.Background(), 77)
	assert.True(t, errors.Is(err, ErrCouponNotFound))
}

func TestCouponService_GetByID_Hydrates(t *testing.T) {
	repo := &mockCouponRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Coupon, error) {
			c := validStoredCoupon(t)
			c.HotelIDs = []int64{101, 102}
			return c, nil
		},
	}
	resolver := &mockEntityResolver{
		hydrateFn: func(ctx context.Context, coupon *model.Coupon) model.HydratedEntities {
			return model.HydratedEntities{
				Hotels: []model.EntitySummary{{ID: 101, Label: "Grand Hotel"}},
			}
		},
	}
	svc := NewCouponServiceWithClock(repo, resolver, fixedClock(t, "2025-06-15T00:00:00Z"))

	resp, err := svc.GetByID(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, resp.Hotels, 1)
	assert.Equal(t, "Grand Hotel", resp.Hotels[0].Label)
	assert.Equal(t, model.StatusActive, resp.Status)
}

func validStoredCoupon(t *testing.T) *model.Coupon {
	t.Helper()
	return &model.Coupon{
		ID:            1,
		Code:          "SUMMER20",
		Name:          "Summer Sale",
		DiscountValue: decimal.NewFromInt(20),
		MaxUses:       intPtr(100),
		ValidFrom:     mustTime(t, "2025-06-01T00:00:00Z"),
		ValidUntil:    mustTime(t, "2025-06-30T00:00:00Z"),
		IsActive:      true,
	}
}

func TestCouponService_Update_NotFound(t *testing.T) {
	svc := NewCouponService(&mockCouponRepository{}, &mockEntityResolver{})

	req := &model.UpdateCouponRequest{
		Name:          "Renamed",
		DiscountValue: decimal.NewFromInt(15),
		ValidFrom:     mustTime(t, "2025-06-01T00:00:00Z"),
		ValidUntil:    mustTime(t, "2025-06-30T00:00:00Z"),
	}
	_, err := svc.Update(context.Background(), 77, req)
	assert.True(t, errors.Is(err, ErrCouponNotFound))
}

func TestCouponService_Update_PreservesCodeAndUsage(t *testing.T) {
	var captured *model.Coupon
	repo := &mockCouponRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Coupon, error) {
			c := validStoredCoupon(t)
			c.CurrentUses = 7
			return c, nil
		},
		updateFn: func(ctx context.Context, coupon *model.Coupon) error {
			captured = coupon
			return nil
		},
	}
	svc := NewCouponService(repo, &mockEntityResolver{})

	req := &model.UpdateCouponRequest{
		Name:          "Renamed",
		DiscountValue: decimal.NewFromInt(15),
		ValidFrom:     mustTime(t, "2025-06-01T00:00:00Z"),
		ValidUntil:    mustTime(t, "2025-06-30T00:00:00Z"),
		IsActive:      boolPtr(false),
	}
	resp, err := svc.Update(context.Background(), 1, req)

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, "SUMMER20", captured.Code, "code is immutable after creation")
	assert.Equal(t, 7, captured.CurrentUses, "usage counter is externally owned")
	assert.Equal(t, "Renamed", captured.Name)
	assert.False(t, captured.IsActive)
	assert.Equal(t, model.StatusInactive, resp.Status)
}

func TestCouponService_AssignEntities_ReplacesWholesale(t *testing.T) {
	// Sequential assignments overwrite, never merge.
	lists := map[model.EntityType][]int64{}
	repo := &mockCouponRepository{
		replaceAssociationsFn: func(ctx context.Context, id int64, entityType model.EntityType, ids []int64) error {
			lists[entityType] = ids
			return nil
		},
	}
	svc := NewCouponService(repo, &mockEntityResolver{})

	require.NoError(t, svc.AssignEntities(context.Background(), 1, "hotels", []int64{1, 2, 3}))
	require.NoError(t, svc.AssignEntities(context.Background(), 1, "hotels", []int64{4}))

	assert.Equal(t, []int64{4}, lists[model.EntityHotels])
}

func TestCouponService_AssignEntities_DeduplicatesIDs(t *testing.T) {
	var captured []int64
	repo := &mockCouponRepository{
		replaceAssociationsFn: func(ctx context.Context, id int64, entityType model.EntityType, ids []int64) error {
			captured = ids
			return nil
		},
	}
	svc := NewCouponService(repo, &mockEntityResolver{})

	require.NoError(t, svc.AssignEntities(context.Background(), 1, "flights", []int64{5, 5, 6, 5}))

	assert.Equal(t, []int64{5, 6}, captured)
}

func TestCouponService_AssignEntities_EmptySelectionRejected(t *testing.T) {
	called := false
	repo := &mockCouponRepository{
		replaceAssociationsFn: func(ctx context.Context, id int64, entityType model.EntityType, ids []int64) error {
			called = true
			return nil
		},
	}
	svc := NewCouponService(repo, &mockEntityResolver{})

	err := svc.AssignEntities(context.Background(), 1, "hotels", []int64{})

	assert.True(t, errors.Is(err, ErrEmptySelection))
	assert.False(t, called, "prior associations must be left untouched")
}

func TestCouponService_AssignEntities_BlankTypeRejected(t *testing.T) {
	svc := NewCouponService(&mockCouponRepository{}, &mockEntityResolver{})

	err := svc.AssignEntities(context.Background(), 1, "  ", []int64{1})
	assert.True(t, errors.Is(err, ErrUnknownEntityType))
}

func TestCouponService_AssignEntities_DynamicCategoryRoutesToProductList(t *testing.T) {
	var captured model.EntityType
	repo := &mockCouponRepository{
		replaceAssociationsFn: func(ctx context.Context, id int64, entityType model.EntityType, ids []int64) error {
			captured = entityType
			return nil
		},
	}
	svc := NewCouponService(repo, &mockEntityResolver{})

	require.NoError(t, svc.AssignEntities(context.Background(), 1, "Cruises", []int64{9}))

	assert.Equal(t, model.EntityDynamic, captured,
		"non-static categories share the undifferentiated dynamic products list")
}

func TestCouponService_AssignEntities_CouponNotFound(t *testing.T) {
	repo := &mockCouponRepository{
		replaceAssociationsFn: func(ctx context.Context, id int64, entityType model.EntityType, ids []int64) error {
			return ErrCouponNotFound
		},
	}
	svc := NewCouponService(repo, &mockEntityResolver{})

	err := svc.AssignEntities(context.Background(), 77, "hotels", []int64{1})
	assert.True(t, errors.Is(err, ErrCouponNotFound))
}

func TestCouponService_ToggleShowcase_IndependentOfValidity(t *testing.T) {
	// Showcasing an expired coupon succeeds; curation and validity are
	// deliberately uncoupled.
	repo := &mockCouponRepository{
		setShowcasedFn: func(ctx context.Context, id int64, showcased bool) (*model.Coupon, error) {
			c := validStoredCoupon(t)
			c.IsShowcased = showcased
			return c, nil
		},
	}
	svc := NewCouponServiceWithClock(repo, &mockEntityResolver{}, fixedClock(t, "2025-07-15T00:00:00Z"))

	resp, err := svc.ToggleShowcase(context.Background(), 1, true)

	require.NoError(t, err)
	assert.True(t, resp.IsShowcased)
	assert.Equal(t, model.StatusExpired, resp.Status)
}

func TestCouponService_List_NormalizesPagination(t *testing.T) {
	var captured model.ListCouponsQuery
	repo := &mockCouponRepository{
		listFn: func(ctx context.Context, q model.ListCouponsQuery) ([]model.Coupon, error) {
			captured = q
			return []model.Coupon{}, nil
		},
	}
	svc := NewCouponService(repo, &mockEntityResolver{})

	_, err := svc.List(context.Background(), model.ListCouponsQuery{Page: -3, Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, captured.Page)
	assert.Equal(t, defaultListLimit, captured.Limit)

	_, err = svc.List(context.Background(), model.ListCouponsQuery{Page: 2, Limit: 9999})
	require.NoError(t, err)
	assert.Equal(t, maxListLimit, captured.Limit)
}

func TestCouponService_List_HydratesOnlyWhenCategoryScoped(t *testing.T) {
	hydrations := 0
	repo := &mockCouponRepository{
		listFn: func(ctx context.Context, q model.ListCouponsQuery) ([]model.Coupon, error) {
			return []model.Coupon{*validStoredCoupon(t)}, nil
		},
	}
	resolver := &mockEntityResolver{
		hydrateFn: func(ctx context.Context, coupon *model.Coupon) model.HydratedEntities {
			hydrations++
			return model.HydratedEntities{}
		},
	}
	svc := NewCouponService(repo, resolver)

	_, err := svc.List(context.Background(), model.ListCouponsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, hydrations)

	_, err = svc.List(context.Background(), model.ListCouponsQuery{Category: "hotels"})
	require.NoError(t, err)
	assert.Equal(t, 1, hydrations)
}

func TestCouponService_Destinations_GroupsByCityCountry(t *testing.T) {
	first := validStoredCoupon(t)
	first.HotelIDs = []int64{101, 102}
	second := validStoredCoupon(t)
	second.ID, second.Code = 2, "CITYBREAK"
	second.HotelIDs = []int64{103}

	repo := &mockCouponRepository{
		listFn: func(ctx context.Context, q model.ListCouponsQuery) ([]model.Coupon, error) {
			assert.Equal(t, "hotels", q.Category)
			return []model.Coupon{*first, *second}, nil
		},
	}
	resolver := &mockEntityResolver{
		resolveFn: func(ctx context.Context, sel model.EntitySelector, ids []int64) ([]model.EntitySummary, error) {
			if len(ids) == 2 {
				// Both of the first coupon's hotels are in Lisbon; the
				// coupon must count once there.
				return []model.EntitySummary{
					{ID: 101, Label: "Grand Hotel", City: "Lisbon", Country: "Portugal"},
					{ID: 102, Label: "Harbor Inn", City: "Lisbon", Country: "Portugal"},
				}, nil
			}
			return []model.EntitySummary{
				{ID: 103, Label: "Alfama Suites", City: "Lisbon", Country: "Portugal"},
			}, nil
		},
	}
	svc := NewCouponService(repo, resolver)

	destinations, err := svc.Destinations(context.Background())

	require.NoError(t, err)
	require.Len(t, destinations, 1)
	assert.Equal(t, "Lisbon", destinations[0].City)
	assert.Equal(t, 2, destinations[0].CouponCount)
	assert.ElementsMatch(t, []string{"SUMMER20", "CITYBREAK"}, destinations[0].CouponCodes)
}

func TestCouponService_Destinations_DegradesOnLookupFailure(t *testing.T) {
	first := validStoredCoupon(t)
	first.HotelIDs = []int64{101}
	second := validStoredCoupon(t)
	second.ID, second.Code = 2, "CITYBREAK"
	second.HotelIDs = []int64{666}

	repo := &mockCouponRepository{
		listFn: func(ctx context.Context, q model.ListCouponsQuery) ([]model.Coupon, error) {
			return []model.Coupon{*first, *second}, nil
		},
	}
	resolver := &mockEntityResolver{
		resolveFn: func(ctx context.Context, sel model.EntitySelector, ids []int64) ([]model.EntitySummary, error) {
			if ids[0] == 666 {
				return nil, errors.New("catalog unreachable")
			}
			return []model.EntitySummary{{ID: 101, Label: "Grand Hotel", City: "Paris", Country: "France"}}, nil
		},
	}
	svc := NewCouponService(repo, resolver)

	destinations, err := svc.Destinations(context.Background())

	require.NoError(t, err, "one failed lookup must not abort the aggregation")
	require.Len(t, destinations, 1)
	assert.Equal(t, 1, destinations[0].CouponCount)
}

func TestCouponService_Delete_PassesThrough(t *testing.T) {
	repo := &mockCouponRepository{
		deleteFn: func(ctx context.Context, id int64) error {
			return ErrCouponNotFound
		},
	}
	svc := NewCouponService(repo, &mockEntityResolver{})

	err := svc.Delete(context.Background(), 77)
	assert.True(t, errors.Is(err, ErrCouponNotFound))
}
