package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	cartdomain "github.com/pedalroom/pedalroom/internal/cart/domain"
	"github.com/pedalroom/pedalroom/internal/commission"
	listingdomain "github.com/pedalroom/pedalroom/internal/listing/domain"
	"github.com/pedalroom/pedalroom/internal/money"
	obsmetrics "github.com/pedalroom/pedalroom/internal/observability/metrics"
	pricingdomain "github.com/pedalroom/pedalroom/internal/pricing/domain"
	"github.com/pedalroom/pedalroom/internal/providers/marketplace"
	"github.com/pedalroom/pedalroom/internal/transaction/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	Listings    listingdomain.Service
	Carts       cartdomain.Service
	Pricing     pricingdomain.Service
	Commissions *commission.Holder
	Marketplace marketplace.Client
	Metrics     *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	repo        domain.Repository
	genID       *snowflake.Node
	listings    listingdomain.Service
	carts       cartdomain.Service
	pricing     pricingdomain.Service
	commissions *commission.Holder
	marketplace marketplace.Client
	metrics     *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("transaction.service"),
		repo:        p.Repo,
		genID:       p.GenID,
		listings:    p.Listings,
		carts:       p.Carts,
		pricing:     p.Pricing,
		commissions: p.Commissions,
		marketplace: p.Marketplace,
		metrics:     p.Metrics,
	}
}

func (s *Service) InitiateOrder(ctx context.Context, req domain.InitiateOrderRequest) (*domain.Response, error) {
	processAlias := strings.TrimSpace(req.ProcessAlias)
	transition := strings.TrimSpace(req.Transition)
	if processAlias == "" || transition == "" {
		return nil, domain.ErrInvalidProcess
	}

	listingID := strings.TrimSpace(req.ListingID)
	if listingID == "" {
		return nil, domain.ErrInvalidListing
	}

	views, err := s.listings.PricingViews(ctx, []string{listingID})
	if err != nil {
		return nil, err
	}
	view := views[0]

	orderData := pricingdomain.OrderData{
		DeliveryMethod:           pricingdomain.DeliveryMethod(req.OrderParams.DeliveryMethod),
		BookingStart:             req.OrderParams.BookingStart,
		BookingEnd:               req.OrderParams.BookingEnd,
		StockReservationQuantity: req.OrderParams.StockReservationQuantity,
		Seats:                    req.OrderParams.Seats,
		HasFixedFee:              req.OrderParams.HasFixedFee,
	}

	providerCommission, customerCommission := s.resolveCommissions(ctx, listingID, req.IsOwnListing)

	lineItems, err := s.pricing.TransactionLineItems(ctx, view, orderData, providerCommission, customerCommission)
	if err != nil {
		return nil, err
	}
	normalized, err := s.pricing.Normalize(lineItems)
	if err != nil {
		return nil, err
	}

	listingRef, err := snowflake.ParseString(listingID)
	if err != nil {
		return nil, domain.ErrInvalidListing
	}
	listingRefValue := listingRef.Int64()

	tx := &domain.Transaction{
		ListingID:      &listingRefValue,
		ProcessAlias:   processAlias,
		Transition:     transition,
		DeliveryMethod: req.OrderParams.DeliveryMethod,
	}
	return s.finalize(ctx, tx, normalized, listingID, req.Speculative, req.Metadata)
}

func (s *Service) InitiateCartOrder(ctx context.Context, req domain.InitiateCartOrderRequest) (*domain.Response, error) {
	processAlias := strings.TrimSpace(req.ProcessAlias)
	transition := strings.TrimSpace(req.Transition)
	if processAlias == "" || transition == "" {
		return nil, domain.ErrInvalidProcess
	}

	order, listingIDs, err := s.carts.Order(ctx, req.CartToken)
	if err != nil {
		return nil, err
	}

	views, err := s.listings.PricingViews(ctx, listingIDs)
	if err != nil {
		return nil, err
	}

	orderData := pricingdomain.OrderData{Cart: order}
	cfg := s.commissions.Get()
	providerCommission, customerCommission := cfg.Resolve("")

	lineItems, err := s.pricing.CartTransactionLineItems(ctx, views, orderData, providerCommission, customerCommission)
	if err != nil {
		return nil, err
	}
	normalized, err := s.pricing.Normalize(lineItems)
	if err != nil {
		return nil, err
	}

	token := strings.TrimSpace(req.CartToken)
	tx := &domain.Transaction{
		CartToken:      &token,
		ProcessAlias:   processAlias,
		Transition:     transition,
		DeliveryMethod: string(order.DeliveryMethod),
	}
	return s.finalize(ctx, tx, normalized, "", req.Speculative, req.Metadata)
}

func (s *Service) Get(ctx context.Context, ref string) (*domain.Response, error) {
	ref = strings.TrimSpace(ref)
	if _, err := uuid.Parse(ref); err != nil {
		return nil, domain.ErrInvalidRef
	}

	tx, err := s.repo.FindByRef(ctx, s.db, ref)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}

	rows, err := s.repo.FindLineItems(ctx, s.db, tx.ID)
	if err != nil {
		return nil, err
	}

	resp := s.toResponse(tx, fromRows(rows))
	return resp, nil
}

// finalize persists the priced transaction and forwards it upstream. The
// upstream call happens before the insert so a rejected order is never
// recorded as initiated.
func (s *Service) finalize(
	ctx context.Context,
	tx *domain.Transaction,
	normalized []pricingdomain.LineItem,
	listingID string,
	speculative bool,
	metadata map[string]any,
) (*domain.Response, error) {
	currency := ""
	if len(normalized) > 0 {
		currency = normalized[0].UnitPrice.Currency
	}

	payin, payout := partyTotals(normalized)

	tx.ID = s.genID.Generate().Int64()
	tx.Ref = uuid.NewString()
	tx.Currency = currency
	tx.PayinTotal = payin
	tx.PayoutTotal = payout
	tx.State = domain.TransactionStateInitiated
	if speculative {
		tx.State = domain.TransactionStateSpeculative
	}
	if metadata != nil {
		tx.Metadata = datatypes.JSONMap(metadata)
	}

	now := time.Now().UTC()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	remote, err := s.forward(ctx, tx, normalized, listingID, speculative)
	if err != nil {
		return nil, err
	}
	if remote != nil {
		tx.RemoteTransactionID = &remote.TransactionID
	}

	if err := s.repo.Create(ctx, s.db, tx, toRows(s.genID, tx.ID, normalized, now)); err != nil {
		return nil, err
	}

	s.metrics.RecordOrderInitiated(ctx, speculative)
	s.log.Info("order initiated",
		zap.String("transaction_ref", tx.Ref),
		zap.String("state", string(tx.State)),
		zap.Int64("payin_total", payin),
		zap.Int64("payout_total", payout),
	)

	return s.toResponse(tx, normalized), nil
}

func (s *Service) forward(
	ctx context.Context,
	tx *domain.Transaction,
	normalized []pricingdomain.LineItem,
	listingID string,
	speculative bool,
) (*marketplace.InitiateResponse, error) {
	req := marketplace.InitiateRequest{
		ProcessAlias: tx.ProcessAlias,
		Transition:   tx.Transition,
		ListingID:    listingID,
		LineItems:    normalized,
	}

	var (
		resp *marketplace.InitiateResponse
		err  error
	)
	if speculative {
		resp, err = s.marketplace.Speculate(ctx, req)
	} else {
		resp, err = s.marketplace.Initiate(ctx, req)
	}
	if err != nil {
		s.log.Error("marketplace initiate failed",
			zap.String("process_alias", tx.ProcessAlias),
			zap.Bool("speculative", speculative),
			zap.Error(err),
		)
		return nil, domain.ErrMarketplaceError
	}
	return resp, nil
}

// resolveCommissions maps the listing author's role to the configured
// commission pair. Own-listing previews carry no commissions at all: the
// author is both sides of the trade.
func (s *Service) resolveCommissions(ctx context.Context, listingID string, isOwnListing bool) (pricingdomain.Commission, pricingdomain.Commission) {
	if isOwnListing {
		return pricingdomain.Commission{}, pricingdomain.Commission{}
	}

	role := ""
	if listing, err := s.listings.Get(ctx, listingID); err == nil && listing.Metadata != nil {
		if v, ok := listing.Metadata["provider_role"].(string); ok {
			role = v
		}
	}

	cfg := s.commissions.Get()
	return cfg.Resolve(role)
}

// partyTotals sums the normalized line totals per side.
func partyTotals(lineItems []pricingdomain.LineItem) (payin, payout int64) {
	for _, li := range lineItems {
		if li.LineTotal == nil {
			continue
		}
		if li.IncludesParty(pricingdomain.PartyCustomer) {
			payin += li.LineTotal.Amount
		}
		if li.IncludesParty(pricingdomain.PartyProvider) {
			payout += li.LineTotal.Amount
		}
	}
	return payin, payout
}

func toRows(genID *snowflake.Node, transactionID int64, lineItems []pricingdomain.LineItem, now time.Time) []domain.TransactionLineItem {
	rows := make([]domain.TransactionLineItem, 0, len(lineItems))
	for _, li := range lineItems {
		row := domain.TransactionLineItem{
			ID:              genID.Generate().Int64(),
			TransactionID:   transactionID,
			Code:            li.Code,
			UnitPriceAmount: li.UnitPrice.Amount,
			Currency:        li.UnitPrice.Currency,
			Quantity:        li.Quantity,
			Units:           li.Units,
			Seats:           li.Seats,
			Percentage:      li.Percentage,
			IncludeFor:      joinParties(li.IncludeFor),
			Reversal:        li.Reversal,
			CreatedAt:       now,
		}
		if li.LineTotal != nil {
			row.LineTotalAmount = li.LineTotal.Amount
		}
		rows = append(rows, row)
	}
	return rows
}

func fromRows(rows []domain.TransactionLineItem) []pricingdomain.LineItem {
	lineItems := make([]pricingdomain.LineItem, 0, len(rows))
	for _, row := range rows {
		total := money.New(row.LineTotalAmount, row.Currency)
		lineItems = append(lineItems, pricingdomain.LineItem{
			Code:       row.Code,
			UnitPrice:  money.New(row.UnitPriceAmount, row.Currency),
			Quantity:   row.Quantity,
			Units:      row.Units,
			Seats:      row.Seats,
			Percentage: row.Percentage,
			LineTotal:  &total,
			IncludeFor: splitParties(row.IncludeFor),
			Reversal:   row.Reversal,
		})
	}
	return lineItems
}

func joinParties(parties []pricingdomain.Party) string {
	values := make([]string, 0, len(parties))
	for _, p := range parties {
		values = append(values, string(p))
	}
	return strings.Join(values, ",")
}

func splitParties(value string) []pricingdomain.Party {
	parts := strings.Split(value, ",")
	parties := make([]pricingdomain.Party, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parties = append(parties, pricingdomain.Party(p))
	}
	return parties
}

func (s *Service) toResponse(tx *domain.Transaction, lineItems []pricingdomain.LineItem) *domain.Response {
	resp := &domain.Response{
		Ref:            tx.Ref,
		State:          tx.State,
		ProcessAlias:   tx.ProcessAlias,
		Transition:     tx.Transition,
		DeliveryMethod: tx.DeliveryMethod,
		Currency:       tx.Currency,
		PayinTotal:     tx.PayinTotal,
		PayoutTotal:    tx.PayoutTotal,
		LineItems:      lineItems,
		CreatedAt:      tx.CreatedAt,
	}
	if tx.ListingID != nil {
		resp.ListingID = snowflake.ID(*tx.ListingID).String()
	}
	if tx.CartToken != nil {
		resp.CartToken = *tx.CartToken
	}
	if tx.RemoteTransactionID != nil {
		resp.RemoteTransactionID = *tx.RemoteTransactionID
	}
	return resp
}
