package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/wanderdeals/deals-api/internal/model"
	"github.com/wanderdeals/deals-api/internal/service"
)

// CouponServiceInterface defines the interface for coupon business logic.
type CouponServiceInterface interface {
	Create(ctx context.Context, req *model.CreateCouponRequest) (*model.CouponResponse, error)
	GetByID(ctx context.Context, id int64) (*model.CouponResponse, error)
	Update(ctx context.Context, id int64, req *model.UpdateCouponRequest) (*model.CouponResponse, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, q model.ListCouponsQuery) ([]model.CouponResponse, error)
	ToggleShowcase(ctx context.Context, id int64, showcased bool) (*model.CouponResponse, error)
	AssignEntities(ctx context.Context, couponID int64, entityType string, ids []int64) error
	Destinations(ctx context.Context) ([]model.Destination, error)
}

// CouponHandler handles HTTP requests for coupon operations.
type CouponHandler struct {
	service   CouponServiceInterface
	validator *validator.Validate
}

// NewCouponHandler creates a new CouponHandler with the given service and validator.
func NewCouponHandler(svc CouponServiceInterface, v *validator.Validate) *CouponHandler {
	return &CouponHandler{service: svc, validator: v}
}

// couponID parses the :id path parameter.
func couponID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// badCouponID is the shared response for an unparseable :id.
func badCouponID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "invalid request: id must be a positive integer",
	})
}

// CreateCoupon handles POST /api/coupons requests.
func (h *CouponHandler) CreateCoupon(c *fiber.Ctx) error {
	var req model.CreateCouponRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	coupon, err := h.service.Create(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCodeExists):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "coupon code already exists"})
		case errors.Is(err, service.ErrInvalidDiscount),
			errors.Is(err, service.ErrInvalidDateRange),
			errors.Is(err, service.ErrInvalidRequest):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: " + err.Error()})
		}
		log.Error().Err(err).Str("coupon_code", req.Code).Msg("failed to create coupon")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(coupon)
}

// GetCoupon handles GET /api/coupons/:id requests.
func (h *CouponHandler) GetCoupon(c *fiber.Ctx) error {
	id, ok := couponID(c)
	if !ok {
		return badCouponID(c)
	}

	coupon, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "coupon not found"})
		}
		log.Error().Err(err).Int64("coupon_id", id).Msg("failed to get coupon")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(coupon)
}

// ListCoupons handles GET /api/coupons requests with optional filters:
// brand_id, showcased, category, page, limit.
func (h *CouponHandler) ListCoupons(c *fiber.Ctx) error {
	q := model.ListCouponsQuery{
		Category: c.Query("category"),
		Page:     c.QueryInt("page"),
		Limit:    c.QueryInt("limit"),
	}

	if raw := c.Query("brand_id"); raw != "" {
		brandID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || brandID < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request: brand_id must be a positive integer",
			})
		}
		q.BrandID = &brandID
	}
	if raw := c.Query("showcased"); raw != "" {
		showcased, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request: showcased must be a boolean",
			})
		}
		q.Showcased = &showcased
	}

	coupons, err := h.service.List(c.Context(), q)
	if err != nil {
		log.Error().Err(err).Msg("failed to list coupons")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(fiber.Map{"coupons": coupons})
}

// UpdateCoupon handles PUT /api/coupons/:id requests. The coupon code is
// immutable and absent from the update payload.
func (h *CouponHandler) UpdateCoupon(c *fiber.Ctx) error {
	id, ok := couponID(c)
	if !ok {
		return badCouponID(c)
	}

	var req model.UpdateCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	coupon, err := h.service.Update(c.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "coupon not found"})
		case errors.Is(err, service.ErrInvalidDiscount),
			errors.Is(err, service.ErrInvalidDateRange),
			errors.Is(err, service.ErrInvalidRequest):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: " + err.Error()})
		}
		log.Error().Err(err).Int64("coupon_id", id).Msg("failed to update coupon")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(coupon)
}

// DeleteCoupon handles DELETE /api/coupons/:id requests.
func (h *CouponHandler) DeleteCoupon(c *fiber.Ctx) error {
	id, ok := couponID(c)
	if !ok {
		return badCouponID(c)
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "coupon not found"})
		}
		log.Error().Err(err).Int64("coupon_id", id).Msg("failed to delete coupon")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleShowcase handles PATCH /api/coupons/:id/showcase requests.
func (h *CouponHandler) ToggleShowcase(c *fiber.Ctx) error {
	id, ok := couponID(c)
	if !ok {
		return badCouponID(c)
	}

	var req model.ToggleShowcaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	coupon, err := h.service.ToggleShowcase(c.Context(), id, *req.IsShowcased)
	if err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "coupon not found"})
		}
		log.Error().Err(err).Int64("coupon_id", id).Msg("failed to toggle showcase")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(coupon)
}

// AssignEntities handles PUT /api/coupons/:id/entities requests, replacing
// one association list wholesale. The client sends the desired final set.
func (h *CouponHandler) AssignEntities(c *fiber.Ctx) error {
	id, ok := couponID(c)
	if !ok {
		return badCouponID(c)
	}

	var req model.AssignEntitiesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	if err := h.service.AssignEntities(c.Context(), id, req.EntityType, req.IDs); err != nil {
		switch {
		case errors.Is(err, service.ErrCouponNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "coupon not found"})
		case errors.Is(err, service.ErrEmptySelection),
			errors.Is(err, service.ErrUnknownEntityType):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: " + err.Error()})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Int64("coupon_id", id).
			Str("entity_type", req.EntityType).
			Msg("failed to assign entities")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Int64("coupon_id", id).
		Str("entity_type", req.EntityType).
		Int("count", len(req.IDs)).
		Msg("entities assigned")

	return c.Status(fiber.StatusOK).Send(nil)
}

// ListDestinations handles GET /api/coupons/destinations requests: coupons
// grouped by the city/country of their associated hotels.
func (h *CouponHandler) ListDestinations(c *fiber.Ctx) error {
	destinations, err := h.service.Destinations(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to aggregate destinations")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(fiber.Map{"destinations": destinations})
}
