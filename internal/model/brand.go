package model

// Brand represents a partner merchant. A brand has many coupons but owns
// none of their lifecycle; coupons hold a nullable weak reference back.
type Brand struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	WebsiteLink *string  `json:"website_link"`
	Images      []string `json:"images"`
	Description string   `json:"description"`
}

// BrandRequest is the DTO for creating or updating a brand.
type BrandRequest struct {
	Name        string   `json:"name" validate:"required,notblank,max=255"`
	WebsiteLink *string  `json:"website_link" validate:"omitempty,url,max=512"`
	Images      []string `json:"images" validate:"omitempty,dive,url,max=1024"`
	Description string   `json:"description" validate:"max=2000"`
}
