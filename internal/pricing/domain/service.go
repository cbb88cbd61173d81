package domain

import (
	"context"
	"errors"
)

// Service computes backend-compatible line item arrays. All operations are
// pure: they read their inputs, allocate a fresh result, and touch no shared
// state, so a single instance is safe for concurrent callers.
type Service interface {
	// TransactionLineItems builds the line items for a direct purchase or
	// booking of one listing.
	TransactionLineItems(ctx context.Context, listing Listing, orderData OrderData, providerCommission, customerCommission Commission) ([]LineItem, error)

	// CartTransactionLineItems builds the line items for a multi-listing cart
	// checkout. Every listing must use the item unit type.
	CartTransactionLineItems(ctx context.Context, listings []Listing, orderData OrderData, providerCommission, customerCommission Commission) ([]LineItem, error)

	// Normalize fills in lineTotal and reversal so the array matches what the
	// commerce backend itself would return for the same transaction.
	Normalize(lineItems []LineItem) ([]LineItem, error)
}

var (
	// ErrMissingQuantity covers every way an order can fail to express how
	// much is being bought: no stockReservationQuantity for item listings, no
	// booking window for date or hour listings, no units+seats for seated
	// bookings, or an unrecognized unit type.
	ErrMissingQuantity = errors.New("missing_quantity")

	ErrEmptyCart        = errors.New("empty_cart")
	ErrCartUnitType     = errors.New("cart_unit_type")
	ErrInvalidLineItem  = errors.New("invalid_line_item")
	ErrTooManyLineItems = errors.New("too_many_line_items")
)
