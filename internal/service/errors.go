package service

import "errors"

var (
	// ErrCouponNotFound is returned when a coupon cannot be found
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrCodeExists is returned on a coupon code collision; surfaced as a
	// conflict, distinct from generic validation, so callers can offer
	// "choose a different code"
	ErrCodeExists = errors.New("coupon code already exists")

	// ErrInvalidDiscount is returned when the discount value is outside
	// (0, 100]
	ErrInvalidDiscount = errors.New("discount value must be between 0 and 100")

	// ErrInvalidDateRange is returned when valid_until is not after
	// valid_from, including equal timestamps
	ErrInvalidDateRange = errors.New("valid_until must be after valid_from")

	// ErrEmptySelection is returned when an assignment submits no entity
	// IDs; assignment is never a clear-all action
	ErrEmptySelection = errors.New("at least one entity must be selected")

	// ErrUnknownEntityType is returned when the entity-type selector is
	// blank or unparseable
	ErrUnknownEntityType = errors.New("unknown entity type")

	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")

	// ErrBrandNotFound is returned when a brand cannot be found
	ErrBrandNotFound = errors.New("brand not found")

	// ErrBrandInUse is returned when deleting a brand that coupons still
	// reference
	ErrBrandInUse = errors.New("brand is referenced by existing coupons")

	// ErrCategoryNotFound is returned when a category cannot be found
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryExists is returned when creating a category whose name is
	// already taken
	ErrCategoryExists = errors.New("category already exists")

	// ErrCategoryInUse is returned when deleting a dynamic category that
	// still has products in it
	ErrCategoryInUse = errors.New("category still has products")

	// ErrStaticCategory is returned when attempting to delete a static
	// category
	ErrStaticCategory = errors.New("static categories cannot be deleted")
)
