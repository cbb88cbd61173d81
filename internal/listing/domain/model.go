package domain

import (
	"time"

	"github.com/pedalroom/pedalroom/internal/money"
	pricingdomain "github.com/pedalroom/pedalroom/internal/pricing/domain"
	"gorm.io/datatypes"
)

type ListingState string

var (
	ListingStatePublished ListingState = "published"
	ListingStateClosed    ListingState = "closed"
)

type Listing struct {
	ID          int64             `json:"id" gorm:"primaryKey"`
	AuthorID    int64             `json:"author_id" gorm:"column:author_id;not null;index:ix_listings_author"`
	Title       string            `json:"title" gorm:"type:text;not null"`
	Slug        string            `json:"slug" gorm:"type:text;not null;uniqueIndex:ux_listings_slug"`
	Description *string           `json:"description,omitempty" gorm:"type:text"`
	State       ListingState      `json:"state" gorm:"type:text;not null;default:published"`
	UnitType    string            `json:"unit_type" gorm:"column:unit_type;type:text;not null"`
	Currency    string            `json:"currency" gorm:"type:text;not null"`
	PriceAmount int64             `json:"price_amount" gorm:"column:price_amount;not null"`

	ShippingEnabled         bool  `json:"shipping_enabled" gorm:"not null;default:false"`
	PickupEnabled           bool  `json:"pickup_enabled" gorm:"not null;default:false"`
	ShippingPriceOneItem    int64 `json:"shipping_price_one_item" gorm:"column:shipping_price_one_item;not null;default:0"`
	ShippingPriceAdditional int64 `json:"shipping_price_additional" gorm:"column:shipping_price_additional;not null;default:0"`

	FixedFeeCode   *string `json:"fixed_fee_code,omitempty" gorm:"column:fixed_fee_code;type:text"`
	FixedFeeAmount int64   `json:"fixed_fee_amount" gorm:"column:fixed_fee_amount;not null;default:0"`

	Metadata  datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Listing) TableName() string { return "listings" }

// PricingView projects the stored listing into the read-only shape the
// pricing engine consumes.
func (l *Listing) PricingView() pricingdomain.Listing {
	publicData := pricingdomain.PublicData{
		UnitType:                pricingdomain.UnitType(l.UnitType),
		ShippingEnabled:         l.ShippingEnabled,
		PickupEnabled:           l.PickupEnabled,
		ShippingPriceOneItem:    l.ShippingPriceOneItem,
		ShippingPriceAdditional: l.ShippingPriceAdditional,
	}

	if l.FixedFeeAmount > 0 {
		code := ""
		if l.FixedFeeCode != nil {
			code = *l.FixedFeeCode
		}
		publicData.FixedFee = &pricingdomain.FixedFee{
			Code:     code,
			Amount:   l.FixedFeeAmount,
			Currency: l.Currency,
		}
	}

	return pricingdomain.Listing{
		ID:         listingIDString(l.ID),
		UnitPrice:  money.New(l.PriceAmount, l.Currency),
		PublicData: publicData,
	}
}
