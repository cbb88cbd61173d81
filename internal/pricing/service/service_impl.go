package service

import (
	"context"

	obsmetrics "github.com/pedalroom/pedalroom/internal/observability/metrics"
	pricingdomain "github.com/pedalroom/pedalroom/internal/pricing/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log     *zap.Logger
	metrics *obsmetrics.Metrics
}

type ServiceParam struct {
	fx.In

	Log     *zap.Logger
	Metrics *obsmetrics.Metrics `optional:"true"`
}

func NewService(p ServiceParam) pricingdomain.Service {
	return &Service{
		log:     p.Log.Named("pricing.service"),
		metrics: p.Metrics,
	}
}

func (s *Service) TransactionLineItems(
	ctx context.Context,
	listing pricingdomain.Listing,
	orderData pricingdomain.OrderData,
	providerCommission, customerCommission pricingdomain.Commission,
) ([]pricingdomain.LineItem, error) {
	lineItems, err := buildLineItems(listing, orderData, providerCommission, customerCommission)
	if err != nil {
		s.metrics.RecordPricingError(ctx, "transaction")
		s.log.Debug("line item build rejected",
			zap.String("listing_id", listing.ID),
			zap.String("unit_type", string(listing.PublicData.UnitType)),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.RecordLineItems(ctx, "transaction", len(lineItems))
	return lineItems, nil
}

func (s *Service) CartTransactionLineItems(
	ctx context.Context,
	listings []pricingdomain.Listing,
	orderData pricingdomain.OrderData,
	providerCommission, customerCommission pricingdomain.Commission,
) ([]pricingdomain.LineItem, error) {
	lineItems, err := buildCartLineItems(listings, orderData, providerCommission, customerCommission)
	if err != nil {
		s.metrics.RecordPricingError(ctx, "cart")
		s.log.Debug("cart line item build rejected",
			zap.Int("listings", len(listings)),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.RecordLineItems(ctx, "cart", len(lineItems))
	return lineItems, nil
}

func (s *Service) Normalize(lineItems []pricingdomain.LineItem) ([]pricingdomain.LineItem, error) {
	return normalizeLineItems(lineItems)
}
