package service

import (
	"strings"

	pricingdomain "github.com/pedalroom/pedalroom/internal/pricing/domain"
)

// normalizeLineItems post-processes a raw line item array into the exact
// shape the commerce backend produces for a real transaction: every item
// carries a computed lineTotal and an explicit reversal flag. Speculative
// client previews and authoritative server breakdowns stay structurally
// identical this way.
func normalizeLineItems(lineItems []pricingdomain.LineItem) ([]pricingdomain.LineItem, error) {
	if len(lineItems) > pricingdomain.MaxLineItems {
		return nil, pricingdomain.ErrTooManyLineItems
	}

	out := make([]pricingdomain.LineItem, 0, len(lineItems))
	for _, li := range lineItems {
		if err := validateLineItem(li); err != nil {
			return nil, err
		}

		if li.LineTotal == nil {
			total, err := lineTotal(li)
			if err != nil {
				return nil, err
			}
			li.LineTotal = &total
		}
		li.Reversal = false

		out = append(out, li)
	}
	return out, nil
}

func validateLineItem(li pricingdomain.LineItem) error {
	if !strings.HasPrefix(li.Code, pricingdomain.CodePrefix) || len(li.Code) > pricingdomain.MaxCodeLength {
		return pricingdomain.ErrInvalidLineItem
	}

	// Exactly one quantity representation: quantity, percentage, or units+seats.
	hasQuantity := li.Quantity != nil
	hasPercentage := li.Percentage != nil
	hasUnitsSeats := li.Units != nil && li.Seats != nil
	count := 0
	for _, set := range []bool{hasQuantity, hasPercentage, hasUnitsSeats} {
		if set {
			count++
		}
	}
	if count != 1 {
		return pricingdomain.ErrInvalidLineItem
	}

	if (li.Units == nil) != (li.Seats == nil) {
		return pricingdomain.ErrInvalidLineItem
	}

	if len(li.IncludeFor) == 0 {
		return pricingdomain.ErrInvalidLineItem
	}
	return nil
}
