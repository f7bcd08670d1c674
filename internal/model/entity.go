package model

import "strings"

// EntityType identifies which of the four association lists a selector
// routes to. The three static types map to dedicated catalog tables; every
// other selector name is a dynamic category routed through the generic
// product catalog.
type EntityType string

const (
	EntityHotels  EntityType = "hotels"
	EntityFlights EntityType = "flights"
	EntityRentals EntityType = "rentals"
	EntityDynamic EntityType = "dynamic"
)

// EntitySelector is a parsed entity-type selector. Category is set only for
// dynamic selectors and carries the category name used to filter the product
// catalog at read time.
type EntitySelector struct {
	Type     EntityType
	Category string
}

// ParseEntitySelector maps a raw selector string to an EntitySelector.
// Unrecognized non-blank names are dynamic categories, not errors: dynamic
// categories are user-created and the coupon side stores them in one
// undifferentiated products list. Returns false only for blank input.
func ParseEntitySelector(raw string) (EntitySelector, bool) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return EntitySelector{}, false
	}
	switch EntityType(name) {
	case EntityHotels:
		return EntitySelector{Type: EntityHotels}, true
	case EntityFlights:
		return EntitySelector{Type: EntityFlights}, true
	case EntityRentals:
		return EntitySelector{Type: EntityRentals}, true
	default:
		return EntitySelector{Type: EntityDynamic, Category: name}, true
	}
}

// EntitySummary is a display-ready reference to a catalog record. City and
// country are populated for hotels only; they feed the destinations
// aggregation.
type EntitySummary struct {
	ID      int64  `json:"id"`
	Label   string `json:"label"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// HydratedEntities holds the per-type summaries resolved for a coupon.
// A type whose lookup failed or resolved nothing is an empty slice.
type HydratedEntities struct {
	Hotels   []EntitySummary
	Flights  []EntitySummary
	Rentals  []EntitySummary
	Products []EntitySummary
}
