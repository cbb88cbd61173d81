package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	pricingdomain "github.com/pedalroom/pedalroom/internal/pricing/domain"
	"github.com/pedalroom/pedalroom/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	GetBySlug(ctx context.Context, slug string) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResult, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Close(ctx context.Context, id string) (*Response, error)

	// PricingViews loads published listings by id and projects them for the
	// pricing engine. Every requested id must resolve.
	PricingViews(ctx context.Context, ids []string) ([]pricingdomain.Listing, error)
}

type ListRequest struct {
	AuthorID string
	State    string
	UnitType string
	SortBy   string
	OrderBy  string

	PageToken string
	PageSize  int

	// CursorID and Limit are resolved by the service from PageToken and
	// PageSize before the request reaches the repository.
	CursorID int64 `json:"-"`
	Limit    int   `json:"-"`
}

type ListResult struct {
	Listings []Response           `json:"listings"`
	PageInfo *pagination.PageInfo `json:"page_info,omitempty"`
}

type CreateRequest struct {
	AuthorID    string         `json:"author_id"`
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	UnitType    string         `json:"unit_type"`
	Currency    string         `json:"currency"`
	PriceAmount int64          `json:"price_amount"`

	ShippingEnabled         bool  `json:"shipping_enabled"`
	PickupEnabled           bool  `json:"pickup_enabled"`
	ShippingPriceOneItem    int64 `json:"shipping_price_one_item"`
	ShippingPriceAdditional int64 `json:"shipping_price_additional"`

	FixedFeeCode   *string `json:"fixed_fee_code"`
	FixedFeeAmount int64   `json:"fixed_fee_amount"`

	Metadata map[string]any `json:"metadata"`
}

type UpdateRequest struct {
	ID          string          `json:"id"`
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	PriceAmount *int64          `json:"price_amount"`

	ShippingEnabled         *bool  `json:"shipping_enabled"`
	PickupEnabled           *bool  `json:"pickup_enabled"`
	ShippingPriceOneItem    *int64 `json:"shipping_price_one_item"`
	ShippingPriceAdditional *int64 `json:"shipping_price_additional"`

	Metadata map[string]any `json:"metadata"`
}

type Response struct {
	ID          string       `json:"id"`
	AuthorID    string       `json:"author_id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Description *string      `json:"description,omitempty"`
	State       ListingState `json:"state"`
	UnitType    string       `json:"unit_type"`
	Currency    string       `json:"currency"`
	PriceAmount int64        `json:"price_amount"`

	ShippingEnabled         bool  `json:"shipping_enabled"`
	PickupEnabled           bool  `json:"pickup_enabled"`
	ShippingPriceOneItem    int64 `json:"shipping_price_one_item"`
	ShippingPriceAdditional int64 `json:"shipping_price_additional"`

	FixedFeeCode   *string `json:"fixed_fee_code,omitempty"`
	FixedFeeAmount int64   `json:"fixed_fee_amount,omitempty"`

	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

var (
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidAuthor    = errors.New("invalid_author")
	ErrInvalidTitle     = errors.New("invalid_title")
	ErrInvalidPrice     = errors.New("invalid_price")
	ErrInvalidCurrency  = errors.New("invalid_currency")
	ErrInvalidUnitType  = errors.New("invalid_unit_type")
	ErrInvalidPageToken = errors.New("invalid_page_token")
	ErrNotFound         = errors.New("not_found")
	ErrListingClosed    = errors.New("listing_closed")
)

func listingIDString(id int64) string {
	return snowflake.ID(id).String()
}
