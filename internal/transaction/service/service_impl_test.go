package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	cartdomain "github.com/pedalroom/pedalroom/internal/cart/domain"
	cartrepo "github.com/pedalroom/pedalroom/internal/cart/repository"
	cartservice "github.com/pedalroom/pedalroom/internal/cart/service"
	"github.com/pedalroom/pedalroom/internal/commission"
	listingdomain "github.com/pedalroom/pedalroom/internal/listing/domain"
	listingrepo "github.com/pedalroom/pedalroom/internal/listing/repository"
	listingservice "github.com/pedalroom/pedalroom/internal/listing/service"
	pricingdomain "github.com/pedalroom/pedalroom/internal/pricing/domain"
	pricingservice "github.com/pedalroom/pedalroom/internal/pricing/service"
	"github.com/pedalroom/pedalroom/internal/providers/marketplace"
	"github.com/pedalroom/pedalroom/internal/transaction/domain"
	"github.com/pedalroom/pedalroom/internal/transaction/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc      domain.Service
	listings listingdomain.Service
	carts    cartdomain.Service
	node     *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&listingdomain.Listing{},
		&cartdomain.Cart{},
		&cartdomain.CartItem{},
		&domain.Transaction{},
		&domain.TransactionLineItem{},
	)
	assert.NoError(t, err)

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)
	logger := zap.NewNop()

	listings := listingservice.New(listingservice.Params{
		DB:    db,
		Log:   logger,
		GenID: node,
		Repo:  listingrepo.Provide(),
	})
	carts := cartservice.New(cartservice.Params{
		DB:    db,
		Log:   logger,
		GenID: node,
		Repo:  cartrepo.Provide(),
	})
	pricing := pricingservice.NewService(pricingservice.ServiceParam{Log: logger})

	holder, err := commission.NewHolder()
	assert.NoError(t, err)

	svc := New(Params{
		DB:          db,
		Log:         logger,
		GenID:       node,
		Repo:        repository.Provide(),
		Listings:    listings,
		Carts:       carts,
		Pricing:     pricing,
		Commissions: holder,
		Marketplace: &marketplace.NoOpClient{},
	})

	return &fixture{svc: svc, listings: listings, carts: carts, node: node}
}

func (f *fixture) createItemListing(t *testing.T, price int64) *listingdomain.Response {
	t.Helper()
	created, err := f.listings.Create(context.Background(), listingdomain.CreateRequest{
		AuthorID:                f.node.Generate().String(),
		Title:                   "Gravel Bike",
		UnitType:                "item",
		Currency:                "USD",
		PriceAmount:             price,
		ShippingEnabled:         true,
		PickupEnabled:           true,
		ShippingPriceOneItem:    300,
		ShippingPriceAdditional: 100,
	})
	assert.NoError(t, err)
	return created
}

func TestInitiateOrder_ItemWithShipping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	listing := f.createItemListing(t, 500)

	qty := int64(3)
	resp, err := f.svc.InitiateOrder(ctx, domain.InitiateOrderRequest{
		ListingID:    listing.ID,
		ProcessAlias: "default-purchase/release-1",
		Transition:   "transition/request-payment",
		OrderParams: domain.OrderParams{
			DeliveryMethod:           "shipping",
			StockReservationQuantity: &qty,
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.TransactionStateInitiated, resp.State)
	assert.Equal(t, "USD", resp.Currency)

	// item 3x500, shipping 300+100x2, provider commission -10% of 1500.
	assert.Len(t, resp.LineItems, 3)
	assert.Equal(t, int64(2000), resp.PayinTotal)
	assert.Equal(t, int64(1850), resp.PayoutTotal)
}

func TestInitiateOrder_Speculative(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	listing := f.createItemListing(t, 500)

	qty := int64(1)
	req := domain.InitiateOrderRequest{
		ListingID:    listing.ID,
		ProcessAlias: "default-purchase/release-1",
		Transition:   "transition/request-payment",
		OrderParams: domain.OrderParams{
			DeliveryMethod:           "pickup",
			StockReservationQuantity: &qty,
		},
	}

	speculative := req
	speculative.Speculative = true
	preview, err := f.svc.InitiateOrder(ctx, speculative)
	assert.NoError(t, err)
	assert.Equal(t, domain.TransactionStateSpeculative, preview.State)

	real, err := f.svc.InitiateOrder(ctx, req)
	assert.NoError(t, err)
	assert.Equal(t, domain.TransactionStateInitiated, real.State)

	// The speculative breakdown matches what the real order produces.
	assert.Equal(t, preview.PayinTotal, real.PayinTotal)
	assert.Equal(t, preview.PayoutTotal, real.PayoutTotal)
	assert.Equal(t, len(preview.LineItems), len(real.LineItems))
}

func TestInitiateOrder_OwnListingSkipsCommissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	listing := f.createItemListing(t, 500)

	qty := int64(1)
	resp, err := f.svc.InitiateOrder(ctx, domain.InitiateOrderRequest{
		ListingID:    listing.ID,
		ProcessAlias: "default-purchase/release-1",
		Transition:   "transition/request-payment",
		IsOwnListing: true,
		Speculative:  true,
		OrderParams: domain.OrderParams{
			StockReservationQuantity: &qty,
		},
	})
	assert.NoError(t, err)
	for _, li := range resp.LineItems {
		assert.NotEqual(t, pricingdomain.CodeProviderCommission, li.Code)
		assert.NotEqual(t, pricingdomain.CodeCustomerCommission, li.Code)
	}
}

func TestInitiateOrder_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	listing := f.createItemListing(t, 500)

	_, err := f.svc.InitiateOrder(ctx, domain.InitiateOrderRequest{
		ListingID:  listing.ID,
		Transition: "transition/request-payment",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidProcess)

	// Missing order quantity surfaces the pricing engine's rejection.
	_, err = f.svc.InitiateOrder(ctx, domain.InitiateOrderRequest{
		ListingID:    listing.ID,
		ProcessAlias: "default-purchase/release-1",
		Transition:   "transition/request-payment",
	})
	assert.ErrorIs(t, err, pricingdomain.ErrMissingQuantity)

	_, err = f.svc.InitiateOrder(ctx, domain.InitiateOrderRequest{
		ListingID:    f.node.Generate().String(),
		ProcessAlias: "default-purchase/release-1",
		Transition:   "transition/request-payment",
	})
	assert.ErrorIs(t, err, listingdomain.ErrNotFound)
}

func TestInitiateCartOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	listingA := f.createItemListing(t, 500)
	listingB := f.createItemListing(t, 700)

	cart, err := f.carts.SetItem(ctx, cartdomain.SetItemRequest{ListingID: listingA.ID, Count: 2})
	assert.NoError(t, err)
	_, err = f.carts.SetItem(ctx, cartdomain.SetItemRequest{Token: cart.Token, ListingID: listingB.ID, Count: 1})
	assert.NoError(t, err)
	_, err = f.carts.SetDeliveryMethod(ctx, cart.Token, "shipping")
	assert.NoError(t, err)

	resp, err := f.svc.InitiateCartOrder(ctx, domain.InitiateCartOrderRequest{
		CartToken:    cart.Token,
		ProcessAlias: "default-purchase/release-1",
		Transition:   "transition/request-payment",
	})
	assert.NoError(t, err)

	// 2 listing rows, shared shipping, provider commission.
	assert.Len(t, resp.LineItems, 4)
	// items 1700 + shipping 300+100x2.
	assert.Equal(t, int64(2200), resp.PayinTotal)
	// items 1700 + shipping 500 - 10% of 1700.
	assert.Equal(t, int64(2030), resp.PayoutTotal)
	assert.Equal(t, cart.Token, resp.CartToken)
}

func TestGet_RoundTripsLineItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	listing := f.createItemListing(t, 500)

	qty := int64(2)
	created, err := f.svc.InitiateOrder(ctx, domain.InitiateOrderRequest{
		ListingID:    listing.ID,
		ProcessAlias: "default-purchase/release-1",
		Transition:   "transition/request-payment",
		OrderParams: domain.OrderParams{
			DeliveryMethod:           "shipping",
			StockReservationQuantity: &qty,
		},
	})
	assert.NoError(t, err)

	got, err := f.svc.Get(ctx, created.Ref)
	assert.NoError(t, err)
	assert.Equal(t, created.PayinTotal, got.PayinTotal)
	assert.Equal(t, created.PayoutTotal, got.PayoutTotal)
	assert.Len(t, got.LineItems, len(created.LineItems))

	for i, li := range got.LineItems {
		assert.Equal(t, created.LineItems[i].Code, li.Code)
		assert.Equal(t, created.LineItems[i].UnitPrice.Amount, li.UnitPrice.Amount)
		assert.Equal(t, created.LineItems[i].LineTotal.Amount, li.LineTotal.Amount)
		assert.Equal(t, created.LineItems[i].IncludeFor, li.IncludeFor)
	}

	_, err = f.svc.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrInvalidRef)
}
