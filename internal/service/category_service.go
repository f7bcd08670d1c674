package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/wanderdeals/deals-api/internal/model"
)

// CategoryRepositoryInterface defines the interface for category data access.
type CategoryRepositoryInterface interface {
	List(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	Insert(ctx context.Context, category *model.Category) error
	CountProducts(ctx context.Context, categoryName string) (int, error)
	Delete(ctx context.Context, id int64) error
}

// CategoryService provides business logic for category operations. Static
// categories (Hotel, Flight, Rental) are fixed; only dynamic ones are
// created or deleted.
type CategoryService struct {
	repo CategoryRepositoryInterface
}

// NewCategoryService creates a new CategoryService with the given repository.
func NewCategoryService(repo CategoryRepositoryInterface) *CategoryService {
	return &CategoryService{repo: repo}
}

// List retrieves all categories.
func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.repo.List(ctx)
}

// Create creates a new dynamic category.
// Category names share a namespace with the static entity-type selectors, so
// names that would route as static ("hotels", "flights", "rentals") are
// rejected as taken.
// Returns ErrCategoryExists on a name collision.
func (s *CategoryService) Create(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	name := strings.TrimSpace(req.Name)
	if sel, ok := model.ParseEntitySelector(strings.ToLower(name)); !ok || sel.Type != model.EntityDynamic {
		return nil, ErrCategoryExists
	}

	category := model.Category{Name: name, Type: model.CategoryDynamic}
	if err := s.repo.Insert(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete removes a dynamic category, guarding the two invariants the
// original system never enforced: static categories are non-deletable and a
// dynamic category must be empty of products first. The check-then-delete is
// not transactional; category administration is a single-operator action and
// the repository re-checks the type on delete.
// Returns ErrCategoryNotFound, ErrStaticCategory, or ErrCategoryInUse.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	if category.Type == model.CategoryStatic {
		return ErrStaticCategory
	}

	count, err := s.repo.CountProducts(ctx, category.Name)
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	return s.repo.Delete(ctx, id)
}
