package domain

import (
	"context"
	"errors"
	"time"

	pricingdomain "github.com/pedalroom/pedalroom/internal/pricing/domain"
)

// Service owns order initiation: pricing the order through the engine,
// persisting the breakdown, and handing the result to the upstream
// marketplace when one is configured. Speculative orders run the identical
// pricing path but are never forwarded upstream.
type Service interface {
	InitiateOrder(ctx context.Context, req InitiateOrderRequest) (*Response, error)
	InitiateCartOrder(ctx context.Context, req InitiateCartOrderRequest) (*Response, error)
	Get(ctx context.Context, ref string) (*Response, error)
}

type OrderParams struct {
	DeliveryMethod           string     `json:"deliveryMethod"`
	StockReservationQuantity *int64     `json:"stockReservationQuantity"`
	BookingStart             *time.Time `json:"bookingStart"`
	BookingEnd               *time.Time `json:"bookingEnd"`
	Seats                    *int64     `json:"seats"`
	HasFixedFee              bool       `json:"hasFixedFee"`
}

type InitiateOrderRequest struct {
	ListingID    string         `json:"listingId"`
	ProcessAlias string         `json:"processAlias"`
	Transition   string         `json:"transition"`
	OrderParams  OrderParams    `json:"orderData"`
	Speculative  bool           `json:"-"`
	IsOwnListing bool           `json:"isOwnListing"`
	Metadata     map[string]any `json:"metadata"`
}

type InitiateCartOrderRequest struct {
	CartToken    string         `json:"-"`
	ProcessAlias string         `json:"processAlias"`
	Transition   string         `json:"transition"`
	Speculative  bool           `json:"-"`
	Metadata     map[string]any `json:"metadata"`
}

type Response struct {
	Ref            string                   `json:"ref"`
	State          TransactionState         `json:"state"`
	ListingID      string                   `json:"listing_id,omitempty"`
	CartToken      string                   `json:"cart_token,omitempty"`
	ProcessAlias   string                   `json:"process_alias"`
	Transition     string                   `json:"transition"`
	DeliveryMethod string                   `json:"delivery_method,omitempty"`
	Currency       string                   `json:"currency"`
	PayinTotal     int64                    `json:"payin_total"`
	PayoutTotal    int64                    `json:"payout_total"`
	LineItems      []pricingdomain.LineItem `json:"lineItems"`

	RemoteTransactionID string `json:"remote_transaction_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

var (
	ErrInvalidListing   = errors.New("invalid_listing")
	ErrInvalidRef       = errors.New("invalid_ref")
	ErrInvalidProcess   = errors.New("invalid_process")
	ErrNotFound         = errors.New("not_found")
	ErrMarketplaceError = errors.New("marketplace_error")
)
