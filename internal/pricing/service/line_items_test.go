package service

import (
	"testing"
	"time"

	"github.com/pedalroom/pedalroom/internal/money"
	pricingdomain "github.com/pedalroom/pedalroom/internal/pricing/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func float64Ptr(v float64) *float64 {
	return &v
}

func dayListing(amount int64) pricingdomain.Listing {
	return pricingdomain.Listing{
		ID:        "listing-day",
		UnitPrice: money.New(amount, "USD"),
		PublicData: pricingdomain.PublicData{
			UnitType: pricingdomain.UnitTypeDay,
		},
	}
}

func itemListing(amount int64) pricingdomain.Listing {
	return pricingdomain.Listing{
		ID:        "listing-item",
		UnitPrice: money.New(amount, "USD"),
		PublicData: pricingdomain.PublicData{
			UnitType:        pricingdomain.UnitTypeItem,
			ShippingEnabled: true,
			PickupEnabled:   true,
		},
	}
}

func threeDayOrder() pricingdomain.OrderData {
	return pricingdomain.OrderData{
		BookingStart: date(2026, time.May, 4),
		BookingEnd:   date(2026, time.May, 7),
	}
}

// Sum of line totals included for one party, after normalization.
func partyTotal(t *testing.T, lineItems []pricingdomain.LineItem, party pricingdomain.Party) int64 {
	t.Helper()
	normalized, err := normalizeLineItems(lineItems)
	assert.NoError(t, err)

	var total int64
	for _, li := range normalized {
		if li.IncludesParty(party) {
			total += li.LineTotal.Amount
		}
	}
	return total
}

func TestBuildLineItems_DayBookingNoCommission(t *testing.T) {
	lineItems, err := buildLineItems(dayListing(1000), threeDayOrder(), pricingdomain.Commission{}, pricingdomain.Commission{})
	assert.NoError(t, err)
	assert.Len(t, lineItems, 1)

	li := lineItems[0]
	assert.Equal(t, "line-item/day", li.Code)
	assert.Equal(t, int64(1000), li.UnitPrice.Amount)
	assert.True(t, li.Quantity.Equal(decimal.NewFromInt(3)))

	normalized, err := normalizeLineItems(lineItems)
	assert.NoError(t, err)
	assert.Equal(t, int64(3000), normalized[0].LineTotal.Amount)
	assert.False(t, normalized[0].Reversal)
}

func TestBuildLineItems_ProviderCommission(t *testing.T) {
	lineItems, err := buildLineItems(dayListing(1000), threeDayOrder(),
		pricingdomain.Commission{Percentage: float64Ptr(10)}, pricingdomain.Commission{})
	assert.NoError(t, err)
	assert.Len(t, lineItems, 2)

	commission := lineItems[1]
	assert.Equal(t, pricingdomain.CodeProviderCommission, commission.Code)
	assert.Equal(t, int64(3000), commission.UnitPrice.Amount)
	assert.True(t, commission.Percentage.Equal(decimal.NewFromInt(-10)))
	assert.Equal(t, []pricingdomain.Party{pricingdomain.PartyProvider}, commission.IncludeFor)

	normalized, err := normalizeLineItems(lineItems)
	assert.NoError(t, err)
	assert.Equal(t, int64(-300), normalized[1].LineTotal.Amount)
}

func TestBuildLineItems_CustomerCommissionPositive(t *testing.T) {
	lineItems, err := buildLineItems(dayListing(1000), threeDayOrder(),
		pricingdomain.Commission{}, pricingdomain.Commission{Percentage: float64Ptr(12)})
	assert.NoError(t, err)
	assert.Len(t, lineItems, 2)

	commission := lineItems[1]
	assert.Equal(t, pricingdomain.CodeCustomerCommission, commission.Code)
	assert.True(t, commission.Percentage.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, []pricingdomain.Party{pricingdomain.PartyCustomer}, commission.IncludeFor)
}

func TestBuildLineItems_ZeroPercentStillEmitsLine(t *testing.T) {
	// An explicit zero percent is configured commission, not absent commission.
	lineItems, err := buildLineItems(dayListing(1000), threeDayOrder(),
		pricingdomain.Commission{Percentage: float64Ptr(0)}, pricingdomain.Commission{})
	assert.NoError(t, err)
	assert.Len(t, lineItems, 2)

	normalized, err := normalizeLineItems(lineItems)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), normalized[1].LineTotal.Amount)
}

func TestBuildLineItems_PayinPayoutBalance(t *testing.T) {
	// Without commissions the customer pays exactly what the provider receives.
	lineItems, err := buildLineItems(dayListing(1500), threeDayOrder(), pricingdomain.Commission{}, pricingdomain.Commission{})
	assert.NoError(t, err)
	assert.Equal(t,
		partyTotal(t, lineItems, pricingdomain.PartyCustomer),
		partyTotal(t, lineItems, pricingdomain.PartyProvider),
	)
}

func TestBuildLineItems_CommissionsSplitPayinPayout(t *testing.T) {
	lineItems, err := buildLineItems(dayListing(1000), threeDayOrder(),
		pricingdomain.Commission{Percentage: float64Ptr(10)},
		pricingdomain.Commission{Percentage: float64Ptr(5)})
	assert.NoError(t, err)

	payin := partyTotal(t, lineItems, pricingdomain.PartyCustomer)
	payout := partyTotal(t, lineItems, pricingdomain.PartyProvider)
	assert.Equal(t, int64(3150), payin)
	assert.Equal(t, int64(2700), payout)
	// The marketplace keeps both commissions.
	assert.Equal(t, int64(450), payin-payout)
}

func TestBuildLineItems_ItemWithShipping(t *testing.T) {
	listing := itemListing(500)
	listing.PublicData.ShippingPriceOneItem = 200
	listing.PublicData.ShippingPriceAdditional = 50

	lineItems, err := buildLineItems(listing, pricingdomain.OrderData{
		StockReservationQuantity: int64Ptr(3),
		DeliveryMethod:           pricingdomain.DeliveryMethodShipping,
	}, pricingdomain.Commission{}, pricingdomain.Commission{})
	assert.NoError(t, err)
	assert.Len(t, lineItems, 2)

	shipping := lineItems[1]
	assert.Equal(t, pricingdomain.CodeShippingFee, shipping.Code)
	// 200 for the first item, 50 for each of the two remaining.
	assert.Equal(t, int64(300), shipping.UnitPrice.Amount)
	assert.True(t, shipping.Quantity.Equal(decimal.NewFromInt(1)))
}

func TestBuildLineItems_ShippingExcludedFromCommissionBase(t *testing.T) {
	listing := itemListing(500)
	listing.PublicData.ShippingPriceOneItem = 200

	lineItems, err := buildLineItems(listing, pricingdomain.OrderData{
		StockReservationQuantity: int64Ptr(2),
		DeliveryMethod:           pricingdomain.DeliveryMethodShipping,
	}, pricingdomain.Commission{Percentage: float64Ptr(10)}, pricingdomain.Commission{})
	assert.NoError(t, err)
	assert.Len(t, lineItems, 3)

	commission := lineItems[2]
	// Base is 2 x 500, not 2 x 500 + 200 shipping.
	assert.Equal(t, int64(1000), commission.UnitPrice.Amount)
}

func TestBuildLineItems_PickupIsFree(t *testing.T) {
	lineItems, err := buildLineItems(itemListing(500), pricingdomain.OrderData{
		StockReservationQuantity: int64Ptr(1),
		DeliveryMethod:           pricingdomain.DeliveryMethodPickup,
	}, pricingdomain.Commission{}, pricingdomain.Commission{})
	assert.NoError(t, err)
	assert.Len(t, lineItems, 2)

	pickup := lineItems[1]
	assert.Equal(t, pricingdomain.CodePickupFee, pickup.Code)
	assert.Equal(t, int64(0), pickup.UnitPrice.Amount)
	assert.Equal(t, "USD", pickup.UnitPrice.Currency)
}

func TestBuildLineItems_NoDeliveryForBookings(t *testing.T) {
	orderData := threeDayOrder()
	orderData.DeliveryMethod = pricingdomain.DeliveryMethodShipping

	lineItems, err := buildLineItems(dayListing(1000), orderData, pricingdomain.Commission{}, pricingdomain.Commission{})
	assert.NoError(t, err)
	assert.Len(t, lineItems, 1)
}

func TestBuildLineItems_FixedFee(t *testing.T) {
	listing := dayListing(2000)
	listing.PublicData.FixedFee = &pricingdomain.FixedFee{
		Code:     "line-item/helmet-fee",
		Amount:   600,
		Currency: "USD",
	}

	orderData := threeDayOrder()
	orderData.HasFixedFee = true

	lineItems, err := buildLineItems(listing, orderData,
		pricingdomain.Commission{Percentage: float64Ptr(10)}, pricingdomain.Commission{})
	assert.NoError(t, err)
	assert.Len(t, lineItems, 3)

	fee := lineItems[1]
	assert.Equal(t, "line-item/helmet-fee", fee.Code)
	assert.Equal(t, int64(600), fee.UnitPrice.Amount)

	// Fixed fees are part of the commission base: 3 x 2000 + 600.
	commission := lineItems[2]
	assert.Equal(t, int64(6600), commission.UnitPrice.Amount)
}

func TestBuildLineItems_FixedFeeNotRequested(t *testing.T) {
	listing := dayListing(2000)
	listing.PublicData.FixedFee = &pricingdomain.FixedFee{Amount: 600, Currency: "USD"}

	lineItems, err := buildLineItems(listing, threeDayOrder(), pricingdomain.Commission{}, pricingdomain.Commission{})
	assert.NoError(t, err)
	assert.Len(t, lineItems, 1)
}

func TestBuildLineItems_SeatedBooking(t *testing.T) {
	orderData := threeDayOrder()
	orderData.Seats = int64Ptr(2)

	lineItems, err := buildLineItems(dayListing(1000), orderData, pricingdomain.Commission{}, pricingdomain.Commission{})
	assert.NoError(t, err)
	assert.Len(t, lineItems, 1)

	li := lineItems[0]
	assert.Nil(t, li.Quantity)
	assert.True(t, li.Units.Equal(decimal.NewFromInt(3)))
	assert.True(t, li.Seats.Equal(decimal.NewFromInt(2)))

	normalized, err := normalizeLineItems(lineItems)
	assert.NoError(t, err)
	assert.Equal(t, int64(6000), normalized[0].LineTotal.Amount)
}

func TestBuildLineItems_MissingQuantity(t *testing.T) {
	cases := []struct {
		name      string
		listing   pricingdomain.Listing
		orderData pricingdomain.OrderData
	}{
		{"item without stock reservation", itemListing(500), pricingdomain.OrderData{}},
		{"day without booking window", dayListing(1000), pricingdomain.OrderData{}},
		{"day with only start", dayListing(1000), pricingdomain.OrderData{BookingStart: date(2026, time.May, 4)}},
		{"inverted booking window", dayListing(1000), pricingdomain.OrderData{
			BookingStart: date(2026, time.May, 7),
			BookingEnd:   date(2026, time.May, 4),
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := buildLineItems(tc.listing, tc.orderData, pricingdomain.Commission{}, pricingdomain.Commission{})
			assert.ErrorIs(t, err, pricingdomain.ErrMissingQuantity)
		})
	}
}

func TestBuildLineItems_Deterministic(t *testing.T) {
	listing := dayListing(1000)
	orderData := threeDayOrder()
	provider := pricingdomain.Commission{Percentage: float64Ptr(10)}

	first, err := buildLineItems(listing, orderData, provider, pricingdomain.Commission{})
	assert.NoError(t, err)
	second, err := buildLineItems(listing, orderData, provider, pricingdomain.Commission{})
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}
