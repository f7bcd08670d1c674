package service

import (
	"context"
	"fmt"

	"github.com/wanderdeals/deals-api/internal/model"
)

// BrandRepositoryInterface defines the interface for brand data access.
type BrandRepositoryInterface interface {
	Insert(ctx context.Context, brand *model.Brand) error
	GetByID(ctx context.Context, id int64) (*model.Brand, error)
	List(ctx context.Context) ([]model.Brand, error)
	Update(ctx context.Context, brand *model.Brand) error
	Delete(ctx context.Context, id int64) error
}

// BrandService provides business logic for brand operations.
type BrandService struct {
	repo BrandRepositoryInterface
}

// NewBrandService creates a new BrandService with the given repository.
func NewBrandService(repo BrandRepositoryInterface) *BrandService {
	return &BrandService{repo: repo}
}

func brandFromRequest(req *model.BrandRequest) model.Brand {
	images := req.Images
	if images == nil {
		images = []string{}
	}
	return model.Brand{
		Name:        req.Name,
		WebsiteLink: req.WebsiteLink,
		Images:      images,
		Description: req.Description,
	}
}

// Create creates a new brand from the request.
func (s *BrandService) Create(ctx context.Context, req *model.BrandRequest) (*model.Brand, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	brand := brandFromRequest(req)
	if err := s.repo.Insert(ctx, &brand); err != nil {
		return nil, err
	}
	return &brand, nil
}

// GetByID retrieves a brand.
// Returns ErrBrandNotFound if the brand doesn't exist.
func (s *BrandService) GetByID(ctx context.Context, id int64) (*model.Brand, error) {
	brand, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get brand: %w", err)
	}
	if brand == nil {
		return nil, ErrBrandNotFound
	}
	return brand, nil
}

// List retrieves all brands.
func (s *BrandService) List(ctx context.Context) ([]model.Brand, error) {
	return s.repo.List(ctx)
}

// Update rewrites a brand's fields.
// Returns ErrBrandNotFound if the brand doesn't exist.
func (s *BrandService) Update(ctx context.Context, id int64, req *model.BrandRequest) (*model.Brand, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	brand := brandFromRequest(req)
	brand.ID = id
	if err := s.repo.Update(ctx, &brand); err != nil {
		return nil, err
	}
	return &brand, nil
}

// Delete removes a brand. Deleting a brand that coupons still reference is
// disallowed rather than silently nulling out their brand_id.
// Returns ErrBrandNotFound or ErrBrandInUse.
func (s *BrandService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
