package service

import (
	"testing"

	"github.com/pedalroom/pedalroom/internal/money"
	pricingdomain "github.com/pedalroom/pedalroom/internal/pricing/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func cartListing(id string, amount, shippingOne, shippingAdditional int64) pricingdomain.Listing {
	return pricingdomain.Listing{
		ID:        id,
		UnitPrice: money.New(amount, "USD"),
		PublicData: pricingdomain.PublicData{
			UnitType:                pricingdomain.UnitTypeItem,
			ShippingEnabled:         shippingOne > 0,
			PickupEnabled:           true,
			ShippingPriceOneItem:    shippingOne,
			ShippingPriceAdditional: shippingAdditional,
		},
	}
}

func cartOrder(method pricingdomain.DeliveryMethod, counts map[string]int64) pricingdomain.OrderData {
	items := make(map[string]pricingdomain.CartEntry, len(counts))
	for id, count := range counts {
		items[id] = pricingdomain.CartEntry{Count: count}
	}
	return pricingdomain.OrderData{
		Cart: &pricingdomain.CartOrder{Items: items, DeliveryMethod: method},
	}
}

func TestBuildCartLineItems_SharedShippingUsesHighestTier(t *testing.T) {
	listings := []pricingdomain.Listing{
		cartListing("a", 500, 200, 50),
		cartListing("b", 700, 300, 100),
	}
	orderData := cartOrder(pricingdomain.DeliveryMethodShipping, map[string]int64{"a": 2, "b": 1})

	lineItems, err := buildCartLineItems(listings, orderData, pricingdomain.Commission{}, pricingdomain.Commission{})
	assert.NoError(t, err)
	assert.Len(t, lineItems, 3)

	// Listing B carries the highest one-item price, so its tiers apply to the
	// cart's full three items: 300 + 100 x 2.
	shipping := lineItems[2]
	assert.Equal(t, pricingdomain.CodeShippingFee, shipping.Code)
	assert.Equal(t, int64(500), shipping.UnitPrice.Amount)
}

func TestBuildCartLineItems_PickupEmitsZeroLine(t *testing.T) {
	listings := []pricingdomain.Listing{
		cartListing("a", 500, 0, 0),
		cartListing("b", 700, 0, 0),
	}
	orderData := cartOrder(pricingdomain.DeliveryMethodPickup, map[string]int64{"a": 1, "b": 1})

	lineItems, err := buildCartLineItems(listings, orderData, pricingdomain.Commission{}, pricingdomain.Commission{})
	assert.NoError(t, err)
	assert.Len(t, lineItems, 3)

	pickup := lineItems[2]
	assert.Equal(t, pricingdomain.CodePickupFee, pickup.Code)
	assert.Equal(t, int64(0), pickup.UnitPrice.Amount)
	assert.True(t, pickup.Quantity.Equal(decimal.NewFromInt(1)))
}

func TestBuildCartLineItems_CommissionBaseExcludesShipping(t *testing.T) {
	listings := []pricingdomain.Listing{
		cartListing("a", 500, 200, 50),
		cartListing("b", 700, 300, 100),
	}
	orderData := cartOrder(pricingdomain.DeliveryMethodShipping, map[string]int64{"a": 2, "b": 1})

	lineItems, err := buildCartLineItems(listings, orderData,
		pricingdomain.Commission{Percentage: float64Ptr(10)},
		pricingdomain.Commission{Percentage: float64Ptr(5)})
	assert.NoError(t, err)
	assert.Len(t, lineItems, 5)

	// 2 x 500 + 1 x 700, no shipping.
	provider := lineItems[3]
	customer := lineItems[4]
	assert.Equal(t, pricingdomain.CodeProviderCommission, provider.Code)
	assert.Equal(t, int64(1700), provider.UnitPrice.Amount)
	assert.True(t, provider.Percentage.Equal(decimal.NewFromInt(-10)))
	assert.Equal(t, pricingdomain.CodeCustomerCommission, customer.Code)
	assert.Equal(t, int64(1700), customer.UnitPrice.Amount)
}

func TestBuildCartLineItems_PerListingLineItems(t *testing.T) {
	listings := []pricingdomain.Listing{
		cartListing("a", 500, 0, 0),
		cartListing("b", 700, 0, 0),
	}
	orderData := cartOrder(pricingdomain.DeliveryMethodNone, map[string]int64{"a": 2, "b": 1})

	lineItems, err := buildCartLineItems(listings, orderData, pricingdomain.Commission{}, pricingdomain.Commission{})
	assert.NoError(t, err)
	assert.Len(t, lineItems, 2)
	assert.True(t, lineItems[0].Quantity.Equal(decimal.NewFromInt(2)))
	assert.True(t, lineItems[1].Quantity.Equal(decimal.NewFromInt(1)))

	normalized, err := normalizeLineItems(lineItems)
	assert.NoError(t, err)
	assert.Equal(t, int64(1000), normalized[0].LineTotal.Amount)
	assert.Equal(t, int64(700), normalized[1].LineTotal.Amount)
}

func TestBuildCartLineItems_EmptyCart(t *testing.T) {
	_, err := buildCartLineItems(nil, pricingdomain.OrderData{}, pricingdomain.Commission{}, pricingdomain.Commission{})
	assert.ErrorIs(t, err, pricingdomain.ErrEmptyCart)

	_, err = buildCartLineItems([]pricingdomain.Listing{cartListing("a", 500, 0, 0)},
		pricingdomain.OrderData{}, pricingdomain.Commission{}, pricingdomain.Commission{})
	assert.ErrorIs(t, err, pricingdomain.ErrEmptyCart)
}

func TestBuildCartLineItems_RejectsBookableListings(t *testing.T) {
	listings := []pricingdomain.Listing{
		cartListing("a", 500, 0, 0),
		dayListing(1000),
	}
	orderData := cartOrder(pricingdomain.DeliveryMethodNone, map[string]int64{"a": 1, "listing-day": 1})

	_, err := buildCartLineItems(listings, orderData, pricingdomain.Commission{}, pricingdomain.Commission{})
	assert.ErrorIs(t, err, pricingdomain.ErrCartUnitType)
}

func TestBuildCartLineItems_MissingEntryCount(t *testing.T) {
	listings := []pricingdomain.Listing{
		cartListing("a", 500, 0, 0),
		cartListing("b", 700, 0, 0),
	}
	orderData := cartOrder(pricingdomain.DeliveryMethodNone, map[string]int64{"a": 1})

	_, err := buildCartLineItems(listings, orderData, pricingdomain.Commission{}, pricingdomain.Commission{})
	assert.ErrorIs(t, err, pricingdomain.ErrMissingQuantity)
}
