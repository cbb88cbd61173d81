package service

import (
	"github.com/pedalroom/pedalroom/internal/money"
	pricingdomain "github.com/pedalroom/pedalroom/internal/pricing/domain"
	"github.com/shopspring/decimal"
)

// buildCartLineItems assembles the line items for a multi-listing cart
// checkout. Only item-type listings can share a cart: date and hour bookings
// would need a single shared booking window, which carts do not have.
//
// Shipping is priced once for the whole cart: the tiers of the listing with
// the highest one-item shipping price are applied to the cart's total item
// count, rather than summing shipping per listing.
func buildCartLineItems(
	listings []pricingdomain.Listing,
	orderData pricingdomain.OrderData,
	providerCommission, customerCommission pricingdomain.Commission,
) ([]pricingdomain.LineItem, error) {
	if len(listings) == 0 || orderData.Cart == nil || len(orderData.Cart.Items) == 0 {
		return nil, pricingdomain.ErrEmptyCart
	}

	cart := orderData.Cart
	currency := listings[0].UnitPrice.Currency
	isShipping := cart.DeliveryMethod == pricingdomain.DeliveryMethodShipping

	orderQuantity := decimal.Zero
	var mainShippingOneItem, mainShippingAdditional int64

	listingLineItems := make([]pricingdomain.LineItem, 0, len(listings))
	for _, listing := range listings {
		if listing.PublicData.UnitType != pricingdomain.UnitTypeItem {
			return nil, pricingdomain.ErrCartUnitType
		}

		entry, ok := cart.Items[listing.ID]
		if !ok || entry.Count <= 0 {
			return nil, pricingdomain.ErrMissingQuantity
		}

		quantity := decimal.NewFromInt(entry.Count)
		orderQuantity = orderQuantity.Add(quantity)

		if isShipping && listing.PublicData.ShippingPriceOneItem > mainShippingOneItem {
			mainShippingOneItem = listing.PublicData.ShippingPriceOneItem
			mainShippingAdditional = listing.PublicData.ShippingPriceAdditional
		}

		listingLineItems = append(listingLineItems, pricingdomain.LineItem{
			Code:       pricingdomain.UnitCode(listing.PublicData.UnitType),
			UnitPrice:  listing.UnitPrice,
			Quantity:   &quantity,
			IncludeFor: []pricingdomain.Party{pricingdomain.PartyCustomer, pricingdomain.PartyProvider},
		})
	}

	var shippingFee *money.Money
	if isShipping {
		shippingFee = resolveShippingFee(mainShippingOneItem, mainShippingAdditional, currency, orderQuantity)
	}
	delivery := deliveryLineItems(cart.DeliveryMethod, shippingFee, currency)

	// Commission base covers the listing line items only; the shared delivery
	// line item is excluded just like on the single-listing path.
	baseTotal, err := totalFromLineItems(listingLineItems)
	if err != nil {
		return nil, err
	}

	lineItems := make([]pricingdomain.LineItem, 0, len(listingLineItems)+len(delivery)+2)
	lineItems = append(lineItems, listingLineItems...)
	lineItems = append(lineItems, delivery...)
	lineItems = append(lineItems, commissionLineItems(baseTotal, providerCommission, customerCommission)...)

	if len(lineItems) > pricingdomain.MaxLineItems {
		return nil, pricingdomain.ErrTooManyLineItems
	}
	return lineItems, nil
}
