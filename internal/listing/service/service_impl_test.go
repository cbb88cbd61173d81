package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/pedalroom/pedalroom/internal/listing/domain"
	"github.com/pedalroom/pedalroom/internal/listing/repository"
	pricingdomain "github.com/pedalroom/pedalroom/internal/pricing/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(&domain.Listing{})
	assert.NoError(t, err)

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, node
}

func createListingReq(node *snowflake.Node) domain.CreateRequest {
	return domain.CreateRequest{
		AuthorID:    node.Generate().String(),
		Title:       "Cargo Bike Mk II",
		UnitType:    "day",
		Currency:    "usd",
		PriceAmount: 4500,
	}
}

func TestListing_CreateAndGet(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createListingReq(node))
	assert.NoError(t, err)
	assert.Equal(t, "USD", created.Currency)
	assert.Equal(t, domain.ListingStatePublished, created.State)
	assert.Contains(t, created.Slug, "cargo-bike-mk-ii-")

	got, err := svc.Get(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, int64(4500), got.PriceAmount)

	bySlug, err := svc.GetBySlug(ctx, created.Slug)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, bySlug.ID)
}

func TestListing_CreateValidation(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()

	req := createListingReq(node)
	req.Title = "  "
	_, err := svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidTitle)

	req = createListingReq(node)
	req.UnitType = "week"
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidUnitType)

	req = createListingReq(node)
	req.PriceAmount = 0
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	req = createListingReq(node)
	req.Currency = "dollars"
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidCurrency)

	req = createListingReq(node)
	req.AuthorID = "not-a-snowflake"
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidAuthor)
}

func TestListing_UpdateAndClose(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createListingReq(node))
	assert.NoError(t, err)

	newPrice := int64(5000)
	updated, err := svc.Update(ctx, domain.UpdateRequest{ID: created.ID, PriceAmount: &newPrice})
	assert.NoError(t, err)
	assert.Equal(t, int64(5000), updated.PriceAmount)

	closed, err := svc.Close(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.ListingStateClosed, closed.State)

	_, err = svc.PricingViews(ctx, []string{created.ID})
	assert.ErrorIs(t, err, domain.ErrListingClosed)
}

func TestListing_PricingViews(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()

	req := createListingReq(node)
	req.Title = "City Bike"
	req.UnitType = "item"
	req.ShippingEnabled = true
	req.ShippingPriceOneItem = 300
	req.ShippingPriceAdditional = 100
	created, err := svc.Create(ctx, req)
	assert.NoError(t, err)

	views, err := svc.PricingViews(ctx, []string{created.ID})
	assert.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Equal(t, created.ID, views[0].ID)
	assert.Equal(t, pricingdomain.UnitTypeItem, views[0].PublicData.UnitType)
	assert.Equal(t, int64(4500), views[0].UnitPrice.Amount)
	assert.Equal(t, int64(300), views[0].PublicData.ShippingPriceOneItem)

	_, err = svc.PricingViews(ctx, []string{node.Generate().String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListing_PricingViewFixedFee(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()

	feeCode := "line-item/helmet-fee"
	req := createListingReq(node)
	req.FixedFeeCode = &feeCode
	req.FixedFeeAmount = 600
	created, err := svc.Create(ctx, req)
	assert.NoError(t, err)

	views, err := svc.PricingViews(ctx, []string{created.ID})
	assert.NoError(t, err)
	assert.NotNil(t, views[0].PublicData.FixedFee)
	assert.Equal(t, "line-item/helmet-fee", views[0].PublicData.FixedFee.Code)
	assert.Equal(t, int64(600), views[0].PublicData.FixedFee.Amount)
	assert.Equal(t, "USD", views[0].PublicData.FixedFee.Currency)
}
