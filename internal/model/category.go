package model

// CategoryType distinguishes the fixed catalog groupings from user-created
// ones.
type CategoryType string

const (
	// CategoryStatic marks the fixed, non-deletable groupings
	// (Hotel, Flight, Rental).
	CategoryStatic CategoryType = "static"
	// CategoryDynamic marks user-created groupings routed through the
	// generic product catalog.
	CategoryDynamic CategoryType = "dynamic"
)

// Category is a catalog grouping tag.
type Category struct {
	ID   int64        `json:"id"`
	Name string       `json:"name"`
	Type CategoryType `json:"type"`
}

// CreateCategoryRequest is the DTO for creating a dynamic category.
// Static categories are seeded at schema creation and never created via API.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
}
