package service

import (
	"github.com/pedalroom/pedalroom/internal/money"
	pricingdomain "github.com/pedalroom/pedalroom/internal/pricing/domain"
	"github.com/shopspring/decimal"
)

// buildLineItems assembles the full ordered line item array for a direct
// purchase or booking of a single listing: base unit item first, then
// delivery, then fixed listing fees, then commissions last.
func buildLineItems(
	listing pricingdomain.Listing,
	orderData pricingdomain.OrderData,
	providerCommission, customerCommission pricingdomain.Commission,
) ([]pricingdomain.LineItem, error) {
	publicData := listing.PublicData
	unitPrice := listing.UnitPrice
	currency := unitPrice.Currency

	resolution := resolveQuantity(publicData.UnitType, orderData)
	if !resolution.valid() {
		return nil, pricingdomain.ErrMissingQuantity
	}

	order := pricingdomain.LineItem{
		Code:       pricingdomain.UnitCode(publicData.UnitType),
		UnitPrice:  unitPrice,
		IncludeFor: []pricingdomain.Party{pricingdomain.PartyCustomer, pricingdomain.PartyProvider},
	}
	if resolution.usesSeats() {
		order.Units = resolution.units
		order.Seats = resolution.seats
	} else {
		order.Quantity = resolution.quantity
	}

	// Shipping only applies to product purchases; time-based bookings hand
	// the bike over in person.
	var delivery []pricingdomain.LineItem
	if publicData.UnitType == pricingdomain.UnitTypeItem {
		var shippingFee *money.Money
		if orderData.DeliveryMethod == pricingdomain.DeliveryMethodShipping {
			shippingFee = resolveShippingFee(
				publicData.ShippingPriceOneItem,
				publicData.ShippingPriceAdditional,
				currency,
				*resolution.quantity,
			)
		}
		delivery = deliveryLineItems(orderData.DeliveryMethod, shippingFee, currency)
	}

	fixedFees := fixedFeeLineItems(listing, orderData)

	// Commission base: the order itself plus fixed fees. Delivery is passed
	// through at cost and excluded from the base.
	commissionable := append([]pricingdomain.LineItem{order}, fixedFees...)
	baseTotal, err := totalFromLineItems(commissionable)
	if err != nil {
		return nil, err
	}

	lineItems := make([]pricingdomain.LineItem, 0, 2+len(delivery)+len(fixedFees)+2)
	lineItems = append(lineItems, order)
	lineItems = append(lineItems, delivery...)
	lineItems = append(lineItems, fixedFees...)
	lineItems = append(lineItems, commissionLineItems(baseTotal, providerCommission, customerCommission)...)

	if len(lineItems) > pricingdomain.MaxLineItems {
		return nil, pricingdomain.ErrTooManyLineItems
	}
	return lineItems, nil
}

func fixedFeeLineItems(listing pricingdomain.Listing, orderData pricingdomain.OrderData) []pricingdomain.LineItem {
	fee := listing.PublicData.FixedFee
	if !orderData.HasFixedFee || fee == nil || fee.Amount == 0 || fee.Currency == "" {
		return nil
	}

	code := fee.Code
	if code == "" {
		code = pricingdomain.CodeFixedFee
	}

	one := decimal.NewFromInt(1)
	return []pricingdomain.LineItem{{
		Code:       code,
		UnitPrice:  money.New(fee.Amount, fee.Currency),
		Quantity:   &one,
		IncludeFor: []pricingdomain.Party{pricingdomain.PartyCustomer, pricingdomain.PartyProvider},
	}}
}

// commissionLineItems converts the commission configuration into signed
// percentage line items. The provider commission is negated because it
// reduces the payout; the customer commission stays positive because it is
// added on top of the payin.
func commissionLineItems(baseTotal money.Money, providerCommission, customerCommission pricingdomain.Commission) []pricingdomain.LineItem {
	items := make([]pricingdomain.LineItem, 0, 2)

	if providerCommission.HasPercentage() {
		percentage := decimal.NewFromFloat(*providerCommission.Percentage).Neg()
		items = append(items, pricingdomain.LineItem{
			Code:       pricingdomain.CodeProviderCommission,
			UnitPrice:  baseTotal,
			Percentage: &percentage,
			IncludeFor: []pricingdomain.Party{pricingdomain.PartyProvider},
		})
	}

	if customerCommission.HasPercentage() {
		percentage := decimal.NewFromFloat(*customerCommission.Percentage)
		items = append(items, pricingdomain.LineItem{
			Code:       pricingdomain.CodeCustomerCommission,
			UnitPrice:  baseTotal,
			Percentage: &percentage,
			IncludeFor: []pricingdomain.Party{pricingdomain.PartyCustomer},
		})
	}

	return items
}

// lineTotal computes one line item's total from whichever quantity
// representation it carries.
func lineTotal(li pricingdomain.LineItem) (money.Money, error) {
	switch {
	case li.Quantity != nil:
		return li.UnitPrice.Mul(*li.Quantity), nil
	case li.Percentage != nil:
		return li.UnitPrice.Percentage(*li.Percentage), nil
	case li.Units != nil && li.Seats != nil:
		return li.UnitPrice.Mul(li.Units.Mul(*li.Seats)), nil
	default:
		return money.Money{}, pricingdomain.ErrInvalidLineItem
	}
}

// totalFromLineItems sums the line totals of the provided items. All items
// must share one currency.
func totalFromLineItems(lineItems []pricingdomain.LineItem) (money.Money, error) {
	if len(lineItems) == 0 {
		return money.Money{}, pricingdomain.ErrInvalidLineItem
	}

	total := money.Zero(lineItems[0].UnitPrice.Currency)
	for _, li := range lineItems {
		amount, err := lineTotal(li)
		if err != nil {
			return money.Money{}, err
		}
		total, err = total.Add(amount)
		if err != nil {
			return money.Money{}, err
		}
	}
	return total, nil
}
