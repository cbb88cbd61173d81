package domain

import (
	"time"
)

type Cart struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	Token          string    `json:"token" gorm:"type:text;not null;uniqueIndex:ux_carts_token"`
	DeliveryMethod string    `json:"delivery_method" gorm:"column:delivery_method;type:text;not null;default:''"`
	CreatedAt      time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Cart) TableName() string { return "carts" }

type CartItem struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	CartID    int64     `json:"cart_id" gorm:"column:cart_id;not null;index:ux_cart_items_cart_listing,priority:1"`
	ListingID int64     `json:"listing_id" gorm:"column:listing_id;not null;index:ux_cart_items_cart_listing,priority:2"`
	Count     int64     `json:"count" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CartItem) TableName() string { return "cart_items" }
