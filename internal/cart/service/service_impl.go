package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/pedalroom/pedalroom/internal/cart/domain"
	pricingdomain "github.com/pedalroom/pedalroom/internal/pricing/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("cart.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

// getOrCreate resolves a token to its cart, creating an empty cart when the
// token is unknown. An empty token mints a fresh one.
func (s *Service) getOrCreate(ctx context.Context, token string) (*domain.Cart, error) {
	token = strings.TrimSpace(token)

	if token != "" {
		if _, err := ulid.ParseStrict(token); err != nil {
			return nil, domain.ErrInvalidToken
		}
		cart, err := s.repo.FindByToken(ctx, s.db, token)
		if err != nil {
			return nil, err
		}
		if cart != nil {
			return cart, nil
		}
	} else {
		token = ulid.Make().String()
	}

	now := time.Now().UTC()
	cart := &domain.Cart{
		ID:        s.genID.Generate().Int64(),
		Token:     token,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateCart(ctx, s.db, cart); err != nil {
		return nil, err
	}

	s.log.Info("cart created", zap.String("cart_token", token))
	return cart, nil
}

func (s *Service) Get(ctx context.Context, token string) (*domain.Response, error) {
	cart, err := s.getOrCreate(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, cart)
}

func (s *Service) SetItem(ctx context.Context, req domain.SetItemRequest) (*domain.Response, error) {
	listingID, err := snowflake.ParseString(strings.TrimSpace(req.ListingID))
	if err != nil {
		return nil, domain.ErrInvalidListing
	}
	if req.Count < 0 {
		return nil, domain.ErrInvalidCount
	}

	cart, err := s.getOrCreate(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if req.Count == 0 {
		if err := s.repo.DeleteItem(ctx, s.db, cart.ID, listingID.Int64()); err != nil {
			return nil, err
		}
	} else {
		item := &domain.CartItem{
			ID:        s.genID.Generate().Int64(),
			CartID:    cart.ID,
			ListingID: listingID.Int64(),
			Count:     req.Count,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.UpsertItem(ctx, s.db, item); err != nil {
			return nil, err
		}
	}

	cart.UpdatedAt = now
	if err := s.repo.UpdateCart(ctx, s.db, cart); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, cart)
}

func (s *Service) SetDeliveryMethod(ctx context.Context, token, deliveryMethod string) (*domain.Response, error) {
	switch pricingdomain.DeliveryMethod(deliveryMethod) {
	case pricingdomain.DeliveryMethodShipping, pricingdomain.DeliveryMethodPickup, pricingdomain.DeliveryMethodNone:
	default:
		return nil, domain.ErrInvalidDeliveryMethod
	}

	cart, err := s.getOrCreate(ctx, token)
	if err != nil {
		return nil, err
	}

	cart.DeliveryMethod = deliveryMethod
	cart.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateCart(ctx, s.db, cart); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, cart)
}

func (s *Service) Clear(ctx context.Context, token string) (*domain.Response, error) {
	cart, err := s.getOrCreate(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteItems(ctx, s.db, cart.ID); err != nil {
		return nil, err
	}

	cart.DeliveryMethod = ""
	cart.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateCart(ctx, s.db, cart); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, cart)
}

func (s *Service) Order(ctx context.Context, token string) (*pricingdomain.CartOrder, []string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil, domain.ErrInvalidToken
	}
	if _, err := ulid.ParseStrict(token); err != nil {
		return nil, nil, domain.ErrInvalidToken
	}

	cart, err := s.repo.FindByToken(ctx, s.db, token)
	if err != nil {
		return nil, nil, err
	}
	if cart == nil {
		return nil, nil, domain.ErrEmptyCart
	}

	items, err := s.repo.FindItems(ctx, s.db, cart.ID)
	if err != nil {
		return nil, nil, err
	}
	if len(items) == 0 {
		return nil, nil, domain.ErrEmptyCart
	}

	order := &pricingdomain.CartOrder{
		Items:          make(map[string]pricingdomain.CartEntry, len(items)),
		DeliveryMethod: pricingdomain.DeliveryMethod(cart.DeliveryMethod),
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		id := snowflake.ID(item.ListingID).String()
		order.Items[id] = pricingdomain.CartEntry{Count: item.Count}
		ids = append(ids, id)
	}
	return order, ids, nil
}

func (s *Service) toResponse(ctx context.Context, cart *domain.Cart) (*domain.Response, error) {
	items, err := s.repo.FindItems(ctx, s.db, cart.ID)
	if err != nil {
		return nil, err
	}

	resp := &domain.Response{
		Token:          cart.Token,
		DeliveryMethod: cart.DeliveryMethod,
		Items:          make([]domain.ItemResponse, 0, len(items)),
		CreatedAt:      cart.CreatedAt,
		UpdatedAt:      cart.UpdatedAt,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, domain.ItemResponse{
			ListingID: snowflake.ID(item.ListingID).String(),
			Count:     item.Count,
		})
	}
	return resp, nil
}
