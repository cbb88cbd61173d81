package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	pricingdomain "github.com/pedalroom/pedalroom/internal/pricing/domain"
)

type previewOrderData struct {
	DeliveryMethod           string     `json:"deliveryMethod"`
	StockReservationQuantity *int64     `json:"stockReservationQuantity"`
	BookingStart             *time.Time `json:"bookingStart"`
	BookingEnd               *time.Time `json:"bookingEnd"`
	Seats                    *int64     `json:"seats"`
	HasFixedFee              bool       `json:"hasFixedFee"`
}

type previewLineItemsRequest struct {
	ListingID    string           `json:"listingId"`
	OrderData    previewOrderData `json:"orderData"`
	IsOwnListing bool             `json:"isOwnListing"`
}

type previewCartLineItemsRequest struct {
	OrderData previewOrderData `json:"orderData"`
}

type lineItemsResponse struct {
	LineItems []pricingdomain.LineItem `json:"lineItems"`
}

// PreviewTransactionLineItems prices a single-listing order without creating
// a transaction. The storefront calls this on every order panel change.
func (s *Server) PreviewTransactionLineItems(c *gin.Context) {
	var req previewLineItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.ListingID) == "" {
		AbortWithError(c, newValidationError("listingId", "invalid_listing", "listingId is required"))
		return
	}

	ctx := c.Request.Context()

	views, err := s.listingSvc.PricingViews(ctx, []string{strings.TrimSpace(req.ListingID)})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	orderData := pricingdomain.OrderData{
		DeliveryMethod:           pricingdomain.DeliveryMethod(req.OrderData.DeliveryMethod),
		BookingStart:             req.OrderData.BookingStart,
		BookingEnd:               req.OrderData.BookingEnd,
		StockReservationQuantity: req.OrderData.StockReservationQuantity,
		Seats:                    req.OrderData.Seats,
		HasFixedFee:              req.OrderData.HasFixedFee,
	}

	providerCommission, customerCommission := s.previewCommissions(c, req.ListingID, req.IsOwnListing)

	lineItems, err := s.pricingSvc.TransactionLineItems(ctx, views[0], orderData, providerCommission, customerCommission)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	normalized, err := s.pricingSvc.Normalize(lineItems)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, lineItemsResponse{LineItems: normalized})
}

// PreviewCartTransactionLineItems prices the caller's cart without creating
// a transaction. The cart is addressed by the X-Cart-Token header.
func (s *Server) PreviewCartTransactionLineItems(c *gin.Context) {
	var req previewCartLineItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()

	order, listingIDs, err := s.cartSvc.Order(ctx, cartToken(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	views, err := s.listingSvc.PricingViews(ctx, listingIDs)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// A delivery method set on the preview request overrides the saved one,
	// so the storefront can flip shipping and pickup without persisting.
	if method := strings.TrimSpace(req.OrderData.DeliveryMethod); method != "" {
		order.DeliveryMethod = pricingdomain.DeliveryMethod(method)
	}

	cfg := s.commissions.Get()
	providerCommission, customerCommission := cfg.Resolve("")

	lineItems, err := s.pricingSvc.CartTransactionLineItems(ctx, views, pricingdomain.OrderData{Cart: order}, providerCommission, customerCommission)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	normalized, err := s.pricingSvc.Normalize(lineItems)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, lineItemsResponse{LineItems: normalized})
}

// previewCommissions mirrors what order initiation will apply, so previews
// and final breakdowns never disagree. Own-listing previews skip commissions.
func (s *Server) previewCommissions(c *gin.Context, listingID string, isOwnListing bool) (pricingdomain.Commission, pricingdomain.Commission) {
	if isOwnListing {
		return pricingdomain.Commission{}, pricingdomain.Commission{}
	}

	role := ""
	if listing, err := s.listingSvc.Get(c.Request.Context(), listingID); err == nil && listing.Metadata != nil {
		if v, ok := listing.Metadata["provider_role"].(string); ok {
			role = v
		}
	}

	cfg := s.commissions.Get()
	return cfg.Resolve(role)
}
