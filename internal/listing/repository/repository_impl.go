package repository

import (
	"context"

	"github.com/pedalroom/pedalroom/internal/listing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const listingColumns = `id, author_id, title, slug, description, state, unit_type, currency, price_amount,
	 shipping_enabled, pickup_enabled, shipping_price_one_item, shipping_price_additional,
	 fixed_fee_code, fixed_fee_amount, metadata, created_at, updated_at`

func (r *repo) Create(ctx context.Context, db *gorm.DB, listing *domain.Listing) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO listings (`+listingColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		listing.ID,
		listing.AuthorID,
		listing.Title,
		listing.Slug,
		listing.Description,
		listing.State,
		listing.UnitType,
		listing.Currency,
		listing.PriceAmount,
		listing.ShippingEnabled,
		listing.PickupEnabled,
		listing.ShippingPriceOneItem,
		listing.ShippingPriceAdditional,
		listing.FixedFeeCode,
		listing.FixedFeeAmount,
		listing.Metadata,
		listing.CreatedAt,
		listing.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Listing, error) {
	var l domain.Listing
	err := db.WithContext(ctx).Raw(
		`SELECT `+listingColumns+` FROM listings WHERE id = ?`,
		id,
	).Scan(&l).Error
	if err != nil {
		return nil, err
	}
	if l.ID == 0 {
		return nil, nil
	}
	return &l, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]domain.Listing, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []domain.Listing
	err := db.WithContext(ctx).Raw(
		`SELECT `+listingColumns+` FROM listings WHERE id IN ?`,
		ids,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Listing, error) {
	var l domain.Listing
	err := db.WithContext(ctx).Raw(
		`SELECT `+listingColumns+` FROM listings WHERE slug = ?`,
		slug,
	).Scan(&l).Error
	if err != nil {
		return nil, err
	}
	if l.ID == 0 {
		return nil, nil
	}
	return &l, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.Listing, error) {
	var items []domain.Listing
	stmt := db.WithContext(ctx).Model(&domain.Listing{})

	if filter.AuthorID != "" {
		stmt = stmt.Where("author_id = ?", filter.AuthorID)
	}
	if filter.State != "" {
		stmt = stmt.Where("state = ?", filter.State)
	}
	if filter.UnitType != "" {
		stmt = stmt.Where("unit_type = ?", filter.UnitType)
	}

	// Cursor pagination walks snowflake ids, which follow creation order.
	if filter.CursorID != 0 {
		stmt = stmt.Where("id > ?", filter.CursorID).Order("id ASC")
	} else {
		sortBy := filter.SortBy
		switch sortBy {
		case "created_at", "updated_at", "price_amount", "title":
		default:
			sortBy = "id"
		}
		orderBy := "ASC"
		if filter.OrderBy == "desc" || filter.OrderBy == "DESC" {
			orderBy = "DESC"
		}
		stmt = stmt.Order(sortBy + " " + orderBy)
	}

	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}

	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, listing *domain.Listing) error {
	if listing == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE listings
		 SET title = ?, description = ?, state = ?, price_amount = ?,
		     shipping_enabled = ?, pickup_enabled = ?,
		     shipping_price_one_item = ?, shipping_price_additional = ?,
		     metadata = ?, updated_at = ?
		 WHERE id = ?`,
		listing.Title,
		listing.Description,
		listing.State,
		listing.PriceAmount,
		listing.ShippingEnabled,
		listing.PickupEnabled,
		listing.ShippingPriceOneItem,
		listing.ShippingPriceAdditional,
		listing.Metadata,
		listing.UpdatedAt,
		listing.ID,
	).Error
}
