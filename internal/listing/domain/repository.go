package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, listing *Listing) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Listing, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]Listing, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Listing, error)
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]Listing, error)
	Update(ctx context.Context, db *gorm.DB, listing *Listing) error
}
