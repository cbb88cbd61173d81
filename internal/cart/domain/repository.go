package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreateCart(ctx context.Context, db *gorm.DB, cart *Cart) error
	FindByToken(ctx context.Context, db *gorm.DB, token string) (*Cart, error)
	UpdateCart(ctx context.Context, db *gorm.DB, cart *Cart) error

	FindItems(ctx context.Context, db *gorm.DB, cartID int64) ([]CartItem, error)
	FindItem(ctx context.Context, db *gorm.DB, cartID, listingID int64) (*CartItem, error)
	UpsertItem(ctx context.Context, db *gorm.DB, item *CartItem) error
	DeleteItem(ctx context.Context, db *gorm.DB, cartID, listingID int64) error
	DeleteItems(ctx context.Context, db *gorm.DB, cartID int64) error
}
