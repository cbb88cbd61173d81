package domain

import (
	"time"

	"github.com/pedalroom/pedalroom/internal/money"
	"github.com/shopspring/decimal"
)

// UnitType drives how a billable quantity is derived from order data.
type UnitType string

var (
	UnitTypeDay   UnitType = "day"
	UnitTypeNight UnitType = "night"
	UnitTypeHour  UnitType = "hour"
	UnitTypeItem  UnitType = "item"
)

type DeliveryMethod string

var (
	DeliveryMethodShipping DeliveryMethod = "shipping"
	DeliveryMethodPickup   DeliveryMethod = "pickup"
	DeliveryMethodNone     DeliveryMethod = ""
)

// Party identifies who a line item counts towards. The sum of line totals
// included for the customer is the payin total, the sum included for the
// provider is the payout total, and the marketplace keeps the difference.
type Party string

var (
	PartyCustomer Party = "customer"
	PartyProvider Party = "provider"
)

const (
	CodePrefix             = "line-item/"
	CodeShippingFee        = "line-item/shipping-fee"
	CodePickupFee          = "line-item/pickup-fee"
	CodeProviderCommission = "line-item/provider-commission"
	CodeCustomerCommission = "line-item/customer-commission"
	CodeFixedFee           = "line-item/fixed-fee"

	// MaxLineItems and MaxCodeLength mirror the commerce backend's limits on
	// the lineItems transaction parameter.
	MaxLineItems  = 50
	MaxCodeLength = 64
)

// UnitCode returns the base line-item code for a unit type, e.g. "line-item/day".
func UnitCode(unitType UnitType) string {
	return CodePrefix + string(unitType)
}

// LineItem is one priced row of an order breakdown. Exactly one of quantity,
// percentage, or units+seats must be set.
type LineItem struct {
	Code       string           `json:"code"`
	UnitPrice  money.Money      `json:"unitPrice"`
	Quantity   *decimal.Decimal `json:"quantity,omitempty"`
	Units      *decimal.Decimal `json:"units,omitempty"`
	Seats      *decimal.Decimal `json:"seats,omitempty"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
	LineTotal  *money.Money     `json:"lineTotal,omitempty"`
	IncludeFor []Party          `json:"includeFor"`
	Reversal   bool             `json:"reversal"`
}

// IncludesParty reports whether the line item counts towards the given party.
func (li LineItem) IncludesParty(party Party) bool {
	for _, p := range li.IncludeFor {
		if p == party {
			return true
		}
	}
	return false
}

// FixedFee is a flat, listing-configured surcharge (the price of a bundled
// helmet, a cleaning fee, ...) added to the order and to the commission base.
type FixedFee struct {
	Code     string `json:"code,omitempty"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// PublicData carries the listing fields the pricing engine reads. It mirrors
// the public data document of the commerce backend's listing entity.
type PublicData struct {
	UnitType                UnitType  `json:"unitType"`
	ShippingEnabled         bool      `json:"shippingEnabled,omitempty"`
	PickupEnabled           bool      `json:"pickupEnabled,omitempty"`
	ShippingPriceOneItem    int64     `json:"shippingPriceInSubunitsOneItem,omitempty"`
	ShippingPriceAdditional int64     `json:"shippingPriceInSubunitsAdditionalItems,omitempty"`
	FixedFee                *FixedFee `json:"fixedFee,omitempty"`
}

// Listing is the read-only view of a listing the engine prices against.
type Listing struct {
	ID         string      `json:"id"`
	UnitPrice  money.Money `json:"price"`
	PublicData PublicData  `json:"publicData"`
}

// CartEntry is one listing's presence in a cart.
type CartEntry struct {
	Count int64 `json:"count"`
}

// CartOrder is the snapshot of a persisted cart used for cart checkout:
// listing id -> count, plus the delivery method chosen for the whole cart.
type CartOrder struct {
	Items          map[string]CartEntry `json:"items"`
	DeliveryMethod DeliveryMethod       `json:"deliveryMethod"`
}

// OrderData carries the caller-supplied order parameters. Which fields are
// required depends on the listing's unit type.
type OrderData struct {
	DeliveryMethod           DeliveryMethod `json:"deliveryMethod,omitempty"`
	BookingStart             *time.Time     `json:"bookingStart,omitempty"`
	BookingEnd               *time.Time     `json:"bookingEnd,omitempty"`
	StockReservationQuantity *int64         `json:"stockReservationQuantity,omitempty"`
	Seats                    *int64         `json:"seats,omitempty"`
	HasFixedFee              bool           `json:"hasFixedFee,omitempty"`
	Cart                     *CartOrder     `json:"cart,omitempty"`
}

// Commission is one role's commission configuration. A nil or non-numeric
// percentage means "no commission line item for this role", which is distinct
// from an explicit zero percent.
type Commission struct {
	Percentage *float64 `json:"percentage"`
}

// HasPercentage reports whether the commission is configured.
func (c Commission) HasPercentage() bool {
	return c.Percentage != nil
}
