package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Bharath552-bit/Real-Estate-Platform/internal/models"
)

// Wishlist returns the current user's saved listings.
func (c *Client) Wishlist(ctx context.Context) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	if err := c.do(ctx, http.MethodGet, "/properties/wishlist/", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddToWishlist saves a listing. The backend rejects duplicates.
func (c *Client) AddToWishlist(ctx context.Context, propertyID int64) (*models.WishlistItem, error) {
	req := struct {
		Property int64 `json:"property"`
	}{Property: propertyID}

	var item models.WishlistItem
	if err := c.do(ctx, http.MethodPost, "/properties/wishlist/add/", req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveFromWishlist unsaves a listing by property ID.
func (c *Client) RemoveFromWishlist(ctx context.Context, propertyID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/properties/wishlist/remove/%d/", propertyID), nil, nil)
}
