package types

import (
	"fmt"
	"strings"
	"time"
)

// TravelFilters is the structured selection criteria attached to a pricing
// context. Which fields are meaningful depends on the product type: flights
// carry a route, hotels a city and hotel code, transfers and sightseeing a
// city, packages any combination. Traveler counts apply across verticals.
type TravelFilters struct {
	Origin      string     `json:"origin,omitempty"`
	Destination string     `json:"destination,omitempty"`
	City        string     `json:"city,omitempty"`
	HotelCode   string     `json:"hotel_code,omitempty"`
	TravelDate  *time.Time `json:"travel_date,omitempty"`
	ReturnDate  *time.Time `json:"return_date,omitempty"`
	Adults      int        `json:"adults,omitempty"`
	Children    int        `json:"children,omitempty"`
	Infants     int        `json:"infants,omitempty"`
}

// Validate checks the filter shape against the product type
func (f TravelFilters) Validate(productType ProductType) error {
	switch productType {
	case ProductTypeFlight:
		if f.Origin == "" || f.Destination == "" {
			return fmt.Errorf("flight filters require origin and destination")
		}
	case ProductTypeHotel:
		if f.City == "" {
			return fmt.Errorf("hotel filters require a city")
		}
	case ProductTypeTransfer, ProductTypeSightseeing:
		if f.City == "" {
			return fmt.Errorf("%s filters require a city", productType)
		}
	}
	if f.Adults < 0 || f.Children < 0 || f.Infants < 0 {
		return fmt.Errorf("traveler counts cannot be negative")
	}
	if f.TravelDate != nil && f.ReturnDate != nil && f.ReturnDate.Before(*f.TravelDate) {
		return fmt.Errorf("return date cannot precede travel date")
	}
	return nil
}

// SatisfiedBy reports whether every constraint set on f is matched by the
// candidate filters. Zero-valued fields on f are unconstrained. Used for
// promo applicability: the promo's filters are a subset-match predicate
// against the pricing context's filters.
func (f TravelFilters) SatisfiedBy(candidate TravelFilters) bool {
	if f.Origin != "" && !strings.EqualFold(f.Origin, candidate.Origin) {
		return false
	}
	if f.Destination != "" && !strings.EqualFold(f.Destination, candidate.Destination) {
		return false
	}
	if f.City != "" && !strings.EqualFold(f.City, candidate.City) {
		return false
	}
	if f.HotelCode != "" && !strings.EqualFold(f.HotelCode, candidate.HotelCode) {
		return false
	}
	if f.Adults > 0 && candidate.Adults < f.Adults {
		return false
	}
	if f.TravelDate != nil {
		if candidate.TravelDate == nil || candidate.TravelDate.Before(*f.TravelDate) {
			return false
		}
	}
	if f.ReturnDate != nil {
		if candidate.ReturnDate == nil || candidate.ReturnDate.After(*f.ReturnDate) {
			return false
		}
	}
	return true
}

// Key returns a normalized string form of the filters. It is stable for
// identical filter values and feeds the deterministic promo draw.
func (f TravelFilters) Key() string {
	parts := []string{
		strings.ToUpper(f.Origin),
		strings.ToUpper(f.Destination),
		strings.ToUpper(f.City),
		strings.ToUpper(f.HotelCode),
		fmt.Sprintf("%d-%d-%d", f.Adults, f.Children, f.Infants),
	}
	if f.TravelDate != nil {
		parts = append(parts, f.TravelDate.UTC().Format("2006-01-02"))
	}
	if f.ReturnDate != nil {
		parts = append(parts, f.ReturnDate.UTC().Format("2006-01-02"))
	}
	return strings.Join(parts, "|")
}
