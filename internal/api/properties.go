package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Bharath552-bit/Real-Estate-Platform/internal/models"
	"github.com/Bharath552-bit/Real-Estate-Platform/internal/validate"
)

// PropertyInput is the payload for creating or updating a listing.
// Image URLs come from the external upload widget; the client only
// forwards them.
type PropertyInput struct {
	Name                string   `json:"name" validate:"required"`
	Location            string   `json:"location" validate:"required"`
	Description         string   `json:"description" validate:"required"`
	Price               string   `json:"price" validate:"required"`
	PropertyType        string   `json:"property_type" validate:"required,oneof=sell rent"`
	Images              []string `json:"images,omitempty"`
	FurnishedStatus     string   `json:"furnished_status,omitempty"`
	FloorNumber         *int     `json:"floor_number,omitempty"`
	TotalFloors         *int     `json:"total_floors,omitempty"`
	PropertyAge         string   `json:"property_age,omitempty"`
	NearbyLandmarks     string   `json:"nearby_landmarks,omitempty"`
	ParkingAvailability string   `json:"parking_availability,omitempty"`
	SecurityFeatures    []string `json:"security_features,omitempty"`
	Amenities           []string `json:"amenities,omitempty"`
}

// ListPropertiesOptions filters the public listing feed.
type ListPropertiesOptions struct {
	// ExcludeUser hides listings by the given seller (used to hide the
	// current user's own listings from the browse feed).
	ExcludeUser int64
}

// ListProperties returns the public listing feed, newest first.
func (c *Client) ListProperties(ctx context.Context, opts ListPropertiesOptions) ([]models.Property, error) {
	path := "/properties/"
	if opts.ExcludeUser != 0 {
		q := url.Values{}
		q.Set("exclude_user", strconv.FormatInt(opts.ExcludeUser, 10))
		path += "?" + q.Encode()
	}

	var properties []models.Property
	if err := c.do(ctx, http.MethodGet, path, nil, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

// GetProperty retrieves one listing.
func (c *Client) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	var property models.Property
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/properties/%d/", id), nil, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

// CreateProperty posts a new listing owned by the current user.
func (c *Client) CreateProperty(ctx context.Context, in PropertyInput) (*models.Property, error) {
	if err := validate.Struct(in); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	var property models.Property
	if err := c.do(ctx, http.MethodPost, "/properties/", in, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

// UpdateProperty replaces a listing. The backend rejects edits to other
// sellers' listings.
func (c *Client) UpdateProperty(ctx context.Context, id int64, in PropertyInput) (*models.Property, error) {
	if err := validate.Struct(in); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	var property models.Property
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/properties/%d/", id), in, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

// DeleteProperty removes one of the current user's listings.
func (c *Client) DeleteProperty(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/properties/%d/", id), nil, nil)
}

// MyProperties returns the current user's own listings.
func (c *Client) MyProperties(ctx context.Context) ([]models.Property, error) {
	var properties []models.Property
	if err := c.do(ctx, http.MethodGet, "/properties/user/", nil, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}
