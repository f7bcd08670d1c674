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

// BrandServiceInterface defines the interface for brand business logic.
type BrandServiceInterface interface {
	Create(ctx context.Context, req *model.BrandRequest) (*model.Brand, error)
	GetByID(ctx context.Context, id int64) (*model.Brand, error)
	List(ctx context.Context) ([]model.Brand, error)
	Update(ctx context.Context, id int64, req *model.BrandRequest) (*model.Brand, error)
	Delete(ctx context.Context, id int64) error
}

// BrandHandler handles HTTP requests for brand operations.
type BrandHandler struct {
	service   BrandServiceInterface
	validator *validator.Validate
}

// NewBrandHandler creates a new BrandHandler with the given service and validator.
func NewBrandHandler(svc BrandServiceInterface, v *validator.Validate) *BrandHandler {
	return &BrandHandler{service: svc, validator: v}
}

func brandID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// CreateBrand handles POST /api/brands requests.
func (h *BrandHandler) CreateBrand(c *fiber.Ctx) error {
	var req model.BrandRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	brand, err := h.service.Create(c.Context(), &req)
	if err != nil {
		log.Error().Err(err).Str("brand_name", req.Name).Msg("failed to create brand")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(fiber.StatusCreated).JSON(brand)
}

// GetBrand handles GET /api/brands/:id requests.
func (h *BrandHandler) GetBrand(c *fiber.Ctx) error {
	id, ok := brandID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request: id must be a positive integer",
		})
	}

	brand, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrBrandNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "brand not found"})
		}
		log.Error().Err(err).Int64("brand_id", id).Msg("failed to get brand")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(brand)
}

// ListBrands handles GET /api/brands requests.
func (h *BrandHandler) ListBrands(c *fiber.Ctx) error {
	brands, err := h.service.List(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list brands")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(fiber.Map{"brands": brands})
}

// UpdateBrand handles PUT /api/brands/:id requests.
func (h *BrandHandler) UpdateBrand(c *fiber.Ctx) error {
	id, ok := brandID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request: id must be a positive integer",
		})
	}

	var req model.BrandRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	brand, err := h.service.Update(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrBrandNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "brand not found"})
		}
		log.Error().Err(err).Int64("brand_id", id).Msg("failed to update brand")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(brand)
}

// DeleteBrand handles DELETE /api/brands/:id requests. Brands referenced by
// coupons cannot be deleted.
func (h *BrandHandler) DeleteBrand(c *fiber.Ctx) error {
	id, ok := brandID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request: id must be a positive integer",
		})
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrBrandNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "brand not found"})
		case errors.Is(err, service.ErrBrandInUse):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "brand is referenced by existing coupons"})
		}
		log.Error().Err(err).Int64("brand_id", id).Msg("failed to delete brand")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
