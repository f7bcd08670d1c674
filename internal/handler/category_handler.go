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

// CategoryServiceInterface defines the interface for category business logic.
type CategoryServiceInterface interface {
	List(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error)
	Delete(ctx context.Context, id int64) error
}

// CategoryHandler handles HTTP requests for category operations.
type CategoryHandler struct {
	service   CategoryServiceInterface
	validator *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler with the given service and validator.
func NewCategoryHandler(svc CategoryServiceInterface, v *validator.Validate) *CategoryHandler {
	return &CategoryHandler{service: svc, validator: v}
}

// ListCategories handles GET /api/categories requests.
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.service.List(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list categories")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// CreateCategory handles POST /api/categories requests. Only dynamic
// categories can be created; the static three are seeded.
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req model.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	category, err := h.service.Create(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrCategoryExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "category already exists"})
		}
		log.Error().Err(err).Str("category_name", req.Name).Msg("failed to create category")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// DeleteCategory handles DELETE /api/categories/:id requests. Static
// categories and non-empty dynamic categories are refused.
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request: id must be a positive integer",
		})
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "category not found"})
		case errors.Is(err, service.ErrStaticCategory):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "static categories cannot be deleted"})
		case errors.Is(err, service.ErrCategoryInUse):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "category still has products"})
		}
		log.Error().Err(err).Int64("category_id", id).Msg("failed to delete category")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
