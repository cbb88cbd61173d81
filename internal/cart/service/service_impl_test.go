package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/oklog/ulid/v2"
	"github.com/pedalroom/pedalroom/internal/cart/domain"
	"github.com/pedalroom/pedalroom/internal/cart/repository"
	pricingdomain "github.com/pedalroom/pedalroom/internal/pricing/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(&domain.Cart{}, &domain.CartItem{})
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

func TestCart_GetMintsToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Get(ctx, "")
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Empty(t, resp.Items)

	_, err = ulid.ParseStrict(resp.Token)
	assert.NoError(t, err)

	// The same token resolves to the same cart.
	again, err := svc.Get(ctx, resp.Token)
	assert.NoError(t, err)
	assert.Equal(t, resp.Token, again.Token)
}

func TestCart_RejectsMalformedToken(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), "not-a-ulid")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestCart_SetItemAndRemove(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()
	listingID := node.Generate().String()

	resp, err := svc.SetItem(ctx, domain.SetItemRequest{ListingID: listingID, Count: 2})
	assert.NoError(t, err)
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, int64(2), resp.Items[0].Count)

	// Setting again overwrites the count rather than accumulating.
	resp, err = svc.SetItem(ctx, domain.SetItemRequest{Token: resp.Token, ListingID: listingID, Count: 5})
	assert.NoError(t, err)
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, int64(5), resp.Items[0].Count)

	// Count zero removes the row.
	resp, err = svc.SetItem(ctx, domain.SetItemRequest{Token: resp.Token, ListingID: listingID, Count: 0})
	assert.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestCart_SetItemValidation(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetItem(ctx, domain.SetItemRequest{ListingID: "bogus", Count: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidListing)

	_, err = svc.SetItem(ctx, domain.SetItemRequest{ListingID: node.Generate().String(), Count: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidCount)
}

func TestCart_SetDeliveryMethod(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.SetDeliveryMethod(ctx, "", "shipping")
	assert.NoError(t, err)
	assert.Equal(t, "shipping", resp.DeliveryMethod)

	_, err = svc.SetDeliveryMethod(ctx, resp.Token, "carrier-pigeon")
	assert.ErrorIs(t, err, domain.ErrInvalidDeliveryMethod)
}

func TestCart_Order(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()

	listingA := node.Generate().String()
	listingB := node.Generate().String()

	resp, err := svc.SetItem(ctx, domain.SetItemRequest{ListingID: listingA, Count: 2})
	assert.NoError(t, err)
	_, err = svc.SetItem(ctx, domain.SetItemRequest{Token: resp.Token, ListingID: listingB, Count: 1})
	assert.NoError(t, err)
	_, err = svc.SetDeliveryMethod(ctx, resp.Token, "shipping")
	assert.NoError(t, err)

	order, ids, err := svc.Order(ctx, resp.Token)
	assert.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Equal(t, pricingdomain.DeliveryMethodShipping, order.DeliveryMethod)
	assert.Equal(t, int64(2), order.Items[listingA].Count)
	assert.Equal(t, int64(1), order.Items[listingB].Count)
}

func TestCart_OrderEmpty(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Get(ctx, "")
	assert.NoError(t, err)

	_, _, err = svc.Order(ctx, resp.Token)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)

	_, _, err = svc.Order(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestCart_Clear(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()

	resp, err := svc.SetItem(ctx, domain.SetItemRequest{ListingID: node.Generate().String(), Count: 3})
	assert.NoError(t, err)
	_, err = svc.SetDeliveryMethod(ctx, resp.Token, "pickup")
	assert.NoError(t, err)

	cleared, err := svc.Clear(ctx, resp.Token)
	assert.NoError(t, err)
	assert.Empty(t, cleared.Items)
	assert.Empty(t, cleared.DeliveryMethod)
}
