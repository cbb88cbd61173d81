package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/pedalroom/pedalroom/internal/listing/domain"
	pricingdomain "github.com/pedalroom/pedalroom/internal/pricing/domain"
	"github.com/pedalroom/pedalroom/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
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
		log:   p.Log.Named("listing.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

const (
	defaultPageSize = 20
	maxPageSize     = 250
)

var validUnitTypes = map[string]bool{
	string(pricingdomain.UnitTypeDay):   true,
	string(pricingdomain.UnitTypeNight): true,
	string(pricingdomain.UnitTypeHour):  true,
	string(pricingdomain.UnitTypeItem):  true,
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	authorID, err := snowflake.ParseString(strings.TrimSpace(req.AuthorID))
	if err != nil {
		return nil, domain.ErrInvalidAuthor
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}

	if !validUnitTypes[req.UnitType] {
		return nil, domain.ErrInvalidUnitType
	}

	if req.PriceAmount <= 0 {
		return nil, domain.ErrInvalidPrice
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if len(currency) != 3 {
		return nil, domain.ErrInvalidCurrency
	}

	description := strings.TrimSpace(ptrToString(req.Description))
	var descriptionPtr *string
	if description != "" {
		descriptionPtr = &description
	}

	id := s.genID.Generate()
	now := time.Now().UTC()
	l := &domain.Listing{
		ID:          id.Int64(),
		AuthorID:    authorID.Int64(),
		Title:       title,
		Slug:        slug.Make(title) + "-" + id.String(),
		Description: descriptionPtr,
		State:       domain.ListingStatePublished,
		UnitType:    req.UnitType,
		Currency:    currency,
		PriceAmount: req.PriceAmount,

		ShippingEnabled:         req.ShippingEnabled,
		PickupEnabled:           req.PickupEnabled,
		ShippingPriceOneItem:    req.ShippingPriceOneItem,
		ShippingPriceAdditional: req.ShippingPriceAdditional,

		FixedFeeCode:   req.FixedFeeCode,
		FixedFeeAmount: req.FixedFeeAmount,

		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Metadata != nil {
		l.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.Create(ctx, s.db, l); err != nil {
		return nil, err
	}

	s.log.Info("listing created",
		zap.String("listing_id", id.String()),
		zap.String("unit_type", l.UnitType),
	)

	resp := s.toResponse(l)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	listingID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, listingID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) GetBySlug(ctx context.Context, slugValue string) (*domain.Response, error) {
	slugValue = strings.TrimSpace(slugValue)
	if slugValue == "" {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindBySlug(ctx, s.db, slugValue)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResult, error) {
	filter := domain.ListRequest{
		State:    strings.TrimSpace(req.State),
		UnitType: strings.TrimSpace(req.UnitType),
		SortBy:   strings.TrimSpace(req.SortBy),
		OrderBy:  strings.TrimSpace(req.OrderBy),
	}

	if author := strings.TrimSpace(req.AuthorID); author != "" {
		authorID, err := snowflake.ParseString(author)
		if err != nil {
			return nil, domain.ErrInvalidAuthor
		}
		filter.AuthorID = authorID.String()
	}

	size := req.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	filter.Limit = size + 1

	if token := strings.TrimSpace(req.PageToken); token != "" {
		cursor, err := pagination.DecodeCursor(token)
		if err != nil {
			return nil, domain.ErrInvalidPageToken
		}
		cursorID, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, domain.ErrInvalidPageToken
		}
		filter.CursorID = cursorID.Int64()
		// Cursor pages always walk id order, overriding any sort request.
		filter.SortBy = ""
		filter.OrderBy = ""
	}

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	pageInfo := &pagination.PageInfo{}
	if len(items) > size {
		items = items[:size]
		pageInfo.HasMore = true
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID: snowflake.ID(items[len(items)-1].ID).String(),
		})
		if err != nil {
			return nil, err
		}
		pageInfo.NextPageToken = token
	}

	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, s.toResponse(&item))
	}
	return &domain.ListResult{Listings: resp, PageInfo: pageInfo}, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	listingID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, listingID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidTitle
		}
		item.Title = title
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			item.Description = nil
		} else {
			item.Description = &description
		}
	}
	if req.PriceAmount != nil {
		if *req.PriceAmount <= 0 {
			return nil, domain.ErrInvalidPrice
		}
		item.PriceAmount = *req.PriceAmount
	}
	if req.ShippingEnabled != nil {
		item.ShippingEnabled = *req.ShippingEnabled
	}
	if req.PickupEnabled != nil {
		item.PickupEnabled = *req.PickupEnabled
	}
	if req.ShippingPriceOneItem != nil {
		item.ShippingPriceOneItem = *req.ShippingPriceOneItem
	}
	if req.ShippingPriceAdditional != nil {
		item.ShippingPriceAdditional = *req.ShippingPriceAdditional
	}
	if req.Metadata != nil {
		item.Metadata = datatypes.JSONMap(req.Metadata)
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, err
	}

	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) Close(ctx context.Context, id string) (*domain.Response, error) {
	listingID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, listingID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	item.State = domain.ListingStateClosed
	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, err
	}

	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) PricingViews(ctx context.Context, ids []string) ([]pricingdomain.Listing, error) {
	parsed := make([]int64, 0, len(ids))
	for _, id := range ids {
		listingID, err := snowflake.ParseString(strings.TrimSpace(id))
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		parsed = append(parsed, listingID.Int64())
	}

	items, err := s.repo.FindByIDs(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*domain.Listing, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	views := make([]pricingdomain.Listing, 0, len(parsed))
	for _, id := range parsed {
		item, ok := byID[id]
		if !ok {
			return nil, domain.ErrNotFound
		}
		if item.State != domain.ListingStatePublished {
			return nil, domain.ErrListingClosed
		}
		views = append(views, item.PricingView())
	}
	return views, nil
}

func (s *Service) toResponse(l *domain.Listing) domain.Response {
	resp := domain.Response{
		ID:          snowflake.ID(l.ID).String(),
		AuthorID:    snowflake.ID(l.AuthorID).String(),
		Title:       l.Title,
		Slug:        l.Slug,
		Description: l.Description,
		State:       l.State,
		UnitType:    l.UnitType,
		Currency:    l.Currency,
		PriceAmount: l.PriceAmount,

		ShippingEnabled:         l.ShippingEnabled,
		PickupEnabled:           l.PickupEnabled,
		ShippingPriceOneItem:    l.ShippingPriceOneItem,
		ShippingPriceAdditional: l.ShippingPriceAdditional,

		FixedFeeCode:   l.FixedFeeCode,
		FixedFeeAmount: l.FixedFeeAmount,

		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}

	if len(l.Metadata) > 0 {
		resp.Metadata = map[string]any(l.Metadata)
	}

	return resp
}

func ptrToString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
