package service

import (
	"github.com/pedalroom/pedalroom/internal/money"
	pricingdomain "github.com/pedalroom/pedalroom/internal/pricing/domain"
	"github.com/shopspring/decimal"
)

// resolveShippingFee prices delivery for totalQuantity items: the first item
// at the one-item tier, every further item at the additional-items tier. A
// zero one-item tier means the listing has no shipping configured and no
// shipping line item is emitted.
func resolveShippingFee(oneItem, additionalItems int64, currency string, totalQuantity decimal.Decimal) *money.Money {
	if oneItem <= 0 {
		return nil
	}

	additionalCount := totalQuantity.Sub(decimal.NewFromInt(1))
	if additionalCount.IsNegative() {
		additionalCount = decimal.Zero
	}

	fee := decimal.NewFromInt(oneItem).
		Add(decimal.NewFromInt(additionalItems).Mul(additionalCount)).
		Round(0)

	total := money.New(fee.IntPart(), currency)
	return &total
}

// deliveryLineItems emits the line item for the chosen delivery method. A
// computed shipping fee wins over pickup; pickup itself is always free, so it
// still shows up in the breakdown as an explicit zero row.
func deliveryLineItems(deliveryMethod pricingdomain.DeliveryMethod, shippingFee *money.Money, currency string) []pricingdomain.LineItem {
	one := decimal.NewFromInt(1)

	if shippingFee != nil {
		return []pricingdomain.LineItem{{
			Code:       pricingdomain.CodeShippingFee,
			UnitPrice:  *shippingFee,
			Quantity:   &one,
			IncludeFor: []pricingdomain.Party{pricingdomain.PartyCustomer, pricingdomain.PartyProvider},
		}}
	}

	if deliveryMethod == pricingdomain.DeliveryMethodPickup {
		return []pricingdomain.LineItem{{
			Code:       pricingdomain.CodePickupFee,
			UnitPrice:  money.Zero(currency),
			Quantity:   &one,
			IncludeFor: []pricingdomain.Party{pricingdomain.PartyCustomer, pricingdomain.PartyProvider},
		}}
	}

	return nil
}
