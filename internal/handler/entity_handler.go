package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/wanderdeals/deals-api/internal/model"
)

// ResolverInterface defines the interface for entity lookups.
type ResolverInterface interface {
	Resolve(ctx context.Context, sel model.EntitySelector, ids []int64) ([]model.EntitySummary, error)
}

// EntityHandler serves catalog entity summaries for the admin assignment
// picker. Read-only: this surface never mutates catalog data.
type EntityHandler struct {
	resolver ResolverInterface
}

// NewEntityHandler creates a new EntityHandler with the given resolver.
func NewEntityHandler(resolver ResolverInterface) *EntityHandler {
	return &EntityHandler{resolver: resolver}
}

// ListEntities handles GET /api/entities/:type requests. The :type segment
// is an entity-type selector; any name other than the three static types is
// treated as a dynamic category. An optional ids query parameter
// (comma-separated) restricts the result.
func (h *EntityHandler) ListEntities(c *fiber.Ctx) error {
	sel, ok := model.ParseEntitySelector(c.Params("type"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request: entity type is required",
		})
	}

	var ids []int64
	if raw := c.Query("ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil || id < 1 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "invalid request: ids must be positive integers",
				})
			}
			ids = append(ids, id)
		}
	}

	entities, err := h.resolver.Resolve(c.Context(), sel, ids)
	if err != nil {
		// Catalog lookups are recoverable: the picker can retry, nothing
		// else in the assignment workflow is affected.
		log.Warn().Err(err).Str("entity_type", c.Params("type")).Msg("catalog lookup failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "catalog temporarily unavailable",
		})
	}
	return c.JSON(fiber.Map{"entities": entities})
}
