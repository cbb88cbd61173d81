package domain

import (
	"context"
	"errors"
	"time"

	pricingdomain "github.com/pedalroom/pedalroom/internal/pricing/domain"
)

// Service manages anonymous shopping carts addressed by an opaque token the
// storefront keeps client-side. An unknown token lazily creates a cart, so
// the storefront never needs a separate "create cart" call.
type Service interface {
	Get(ctx context.Context, token string) (*Response, error)
	SetItem(ctx context.Context, req SetItemRequest) (*Response, error)
	SetDeliveryMethod(ctx context.Context, token, deliveryMethod string) (*Response, error)
	Clear(ctx context.Context, token string) (*Response, error)

	// Order snapshots the cart into the listing-id keyed shape the pricing
	// engine consumes, together with the listing ids to load.
	Order(ctx context.Context, token string) (*pricingdomain.CartOrder, []string, error)
}

type SetItemRequest struct {
	Token     string `json:"-"`
	ListingID string `json:"listing_id"`
	Count     int64  `json:"count"`
}

type ItemResponse struct {
	ListingID string `json:"listing_id"`
	Count     int64  `json:"count"`
}

type Response struct {
	Token          string         `json:"token"`
	DeliveryMethod string         `json:"delivery_method,omitempty"`
	Items          []ItemResponse `json:"items"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

var (
	ErrInvalidToken          = errors.New("invalid_token")
	ErrInvalidListing        = errors.New("invalid_listing")
	ErrInvalidCount          = errors.New("invalid_count")
	ErrInvalidDeliveryMethod = errors.New("invalid_delivery_method")
	ErrEmptyCart             = errors.New("empty_cart")
)
