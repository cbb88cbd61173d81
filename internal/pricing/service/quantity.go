package service

import (
	"time"

	pricingdomain "github.com/pedalroom/pedalroom/internal/pricing/domain"
	"github.com/shopspring/decimal"
)

// quantityResolution is the outcome of deriving a billable quantity from
// order data. Either quantity is set, or both units and seats are, or the
// resolution is empty and the order is rejected with ErrMissingQuantity.
type quantityResolution struct {
	quantity *decimal.Decimal
	units    *decimal.Decimal
	seats    *decimal.Decimal
}

func (r quantityResolution) valid() bool {
	if r.quantity != nil && r.quantity.IsPositive() {
		return true
	}
	return r.units != nil && r.units.IsPositive() && r.seats != nil && r.seats.IsPositive()
}

func (r quantityResolution) usesSeats() bool {
	return r.units != nil && r.seats != nil
}

// resolveQuantity dispatches on the listing's unit type. Both the single
// listing and the cart paths go through here so the unit-type branching lives
// in exactly one place.
func resolveQuantity(unitType pricingdomain.UnitType, orderData pricingdomain.OrderData) quantityResolution {
	switch unitType {
	case pricingdomain.UnitTypeItem:
		return resolveItemQuantity(orderData)
	case pricingdomain.UnitTypeHour:
		return resolveHourQuantity(orderData)
	case pricingdomain.UnitTypeDay, pricingdomain.UnitTypeNight:
		return resolveDateRangeQuantity(orderData)
	default:
		return quantityResolution{}
	}
}

func resolveItemQuantity(orderData pricingdomain.OrderData) quantityResolution {
	if orderData.StockReservationQuantity == nil || *orderData.StockReservationQuantity <= 0 {
		return quantityResolution{}
	}
	quantity := decimal.NewFromInt(*orderData.StockReservationQuantity)
	return quantityResolution{quantity: &quantity}
}

func resolveHourQuantity(orderData pricingdomain.OrderData) quantityResolution {
	if orderData.BookingStart == nil || orderData.BookingEnd == nil {
		return quantityResolution{}
	}
	quantity := hoursBetween(*orderData.BookingStart, *orderData.BookingEnd)
	if !quantity.IsPositive() {
		return quantityResolution{}
	}
	return quantityResolution{quantity: &quantity}
}

func resolveDateRangeQuantity(orderData pricingdomain.OrderData) quantityResolution {
	if orderData.BookingStart == nil || orderData.BookingEnd == nil {
		return quantityResolution{}
	}
	count := daysBetween(*orderData.BookingStart, *orderData.BookingEnd)
	if count <= 0 {
		return quantityResolution{}
	}

	// Seat-based bookings split the base line item into units x seats.
	if orderData.Seats != nil && *orderData.Seats > 0 {
		units := decimal.NewFromInt(count)
		seats := decimal.NewFromInt(*orderData.Seats)
		return quantityResolution{units: &units, seats: &seats}
	}

	quantity := decimal.NewFromInt(count)
	return quantityResolution{quantity: &quantity}
}

// hoursBetween returns the elapsed wall-clock hours between two instants.
// Fractional hours are kept exact (minutes / 60) rather than rounded here;
// listings that want whole-hour billing align their booking slots upstream.
func hoursBetween(start, end time.Time) decimal.Decimal {
	minutes := end.Sub(start) / time.Minute
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60))
}

// daysBetween counts the calendar days spanned by [start, end) in UTC. The end
// date is exclusive, so a Friday-to-Sunday booking is two days and also two
// nights: day and night unit types share this count.
func daysBetween(start, end time.Time) int64 {
	startDay := truncateToDay(start)
	endDay := truncateToDay(end)
	return int64(endDay.Sub(startDay) / (24 * time.Hour))
}

func truncateToDay(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}
