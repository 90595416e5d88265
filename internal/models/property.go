package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// StringList decodes the backend's loosely-typed list fields (images,
// amenities, security features), which arrive either as a JSON array or
// as a string containing a JSON-encoded array.
type StringList []string

// UnmarshalJSON accepts ["a","b"], "[\"a\",\"b\"]", or null.
func (l *StringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*l = items
		return nil
	}

	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return fmt.Errorf("list field is neither array nor string: %w", err)
	}
	if encoded == "" {
		*l = nil
		return nil
	}
	if err := json.Unmarshal([]byte(encoded), &items); err != nil {
		return fmt.Errorf("string-encoded list field: %w", err)
	}
	*l = items
	return nil
}

// Property represents a marketplace listing.
type Property struct {
	ID                  int64      `json:"id"`
	Seller              int64      `json:"seller"`
	SellerName          string     `json:"seller_name"`
	Name                string     `json:"name"`
	Location            string     `json:"location"`
	Description         string     `json:"description"`
	Price               string     `json:"price"` // Decimal string, backend-formatted
	PropertyType        string     `json:"property_type"`
	Images              StringList `json:"images"`
	FurnishedStatus     string     `json:"furnished_status,omitempty"`
	FloorNumber         *int       `json:"floor_number,omitempty"`
	TotalFloors         *int       `json:"total_floors,omitempty"`
	PropertyAge         string     `json:"property_age,omitempty"`
	NearbyLandmarks     string     `json:"nearby_landmarks,omitempty"`
	ParkingAvailability string     `json:"parking_availability,omitempty"`
	SecurityFeatures    StringList `json:"security_features,omitempty"`
	Amenities           StringList `json:"amenities,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// WishlistItem is one saved listing on the current user's wishlist.
type WishlistItem struct {
	ID       int64    `json:"id"`
	Property Property `json:"property"`
}
