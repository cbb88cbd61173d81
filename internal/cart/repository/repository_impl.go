package repository

import (
	"context"

	"github.com/pedalroom/pedalroom/internal/cart/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) CreateCart(ctx context.Context, db *gorm.DB, cart *domain.Cart) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO carts (id, token, delivery_method, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		cart.ID,
		cart.Token,
		cart.DeliveryMethod,
		cart.CreatedAt,
		cart.UpdatedAt,
	).Error
}

func (r *repo) FindByToken(ctx context.Context, db *gorm.DB, token string) (*domain.Cart, error) {
	var c domain.Cart
	err := db.WithContext(ctx).Raw(
		`SELECT id, token, delivery_method, created_at, updated_at
		 FROM carts WHERE token = ?`,
		token,
	).Scan(&c).Error
	if err != nil {
		return nil, err
	}
	if c.ID == 0 {
		return nil, nil
	}
	return &c, nil
}

func (r *repo) UpdateCart(ctx context.Context, db *gorm.DB, cart *domain.Cart) error {
	if cart == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE carts SET delivery_method = ?, updated_at = ? WHERE id = ?`,
		cart.DeliveryMethod,
		cart.UpdatedAt,
		cart.ID,
	).Error
}

func (r *repo) FindItems(ctx context.Context, db *gorm.DB, cartID int64) ([]domain.CartItem, error) {
	var items []domain.CartItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, cart_id, listing_id, count, created_at, updated_at
		 FROM cart_items WHERE cart_id = ? ORDER BY created_at ASC`,
		cartID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindItem(ctx context.Context, db *gorm.DB, cartID, listingID int64) (*domain.CartItem, error) {
	var item domain.CartItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, cart_id, listing_id, count, created_at, updated_at
		 FROM cart_items WHERE cart_id = ? AND listing_id = ?`,
		cartID,
		listingID,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) UpsertItem(ctx context.Context, db *gorm.DB, item *domain.CartItem) error {
	existing, err := r.FindItem(ctx, db, item.CartID, item.ListingID)
	if err != nil {
		return err
	}
	if existing == nil {
		return db.WithContext(ctx).Exec(
			`INSERT INTO cart_items (id, cart_id, listing_id, count, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			item.ID,
			item.CartID,
			item.ListingID,
			item.Count,
			item.CreatedAt,
			item.UpdatedAt,
		).Error
	}
	return db.WithContext(ctx).Exec(
		`UPDATE cart_items SET count = ?, updated_at = ? WHERE cart_id = ? AND listing_id = ?`,
		item.Count,
		item.UpdatedAt,
		item.CartID,
		item.ListingID,
	).Error
}

func (r *repo) DeleteItem(ctx context.Context, db *gorm.DB, cartID, listingID int64) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM cart_items WHERE cart_id = ? AND listing_id = ?`,
		cartID,
		listingID,
	).Error
}

func (r *repo) DeleteItems(ctx context.Context, db *gorm.DB, cartID int64) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM cart_items WHERE cart_id = ?`,
		cartID,
	).Error
}
