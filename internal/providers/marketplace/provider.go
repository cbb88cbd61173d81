package marketplace

import (
	"context"

	pricingdomain "github.com/pedalroom/pedalroom/internal/pricing/domain"
)

// InitiateRequest mirrors the upstream transaction initiation payload: the
// priced line items plus the process routing the order transitions through.
type InitiateRequest struct {
	ProcessAlias string                   `json:"processAlias"`
	Transition   string                   `json:"transition"`
	ListingID    string                   `json:"listingId"`
	LineItems    []pricingdomain.LineItem `json:"lineItems"`
	Params       map[string]any           `json:"params,omitempty"`
}

type InitiateResponse struct {
	TransactionID string `json:"transactionId"`
	State         string `json:"state"`
}

// Client talks to the upstream marketplace transaction API. Speculative
// initiations price the order without committing it.
type Client interface {
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error)
	Speculate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error)
}

// NoOpClient keeps orders local when no upstream marketplace is configured.
type NoOpClient struct{}

func (c *NoOpClient) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error) {
	return nil, nil
}

func (c *NoOpClient) Speculate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error) {
	return nil, nil
}
