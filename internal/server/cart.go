package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cartdomain "github.com/pedalroom/pedalroom/internal/cart/domain"
)

type setCartItemRequest struct {
	ListingID string `json:"listing_id"`
	Count     int64  `json:"count"`
}

type setDeliveryMethodRequest struct {
	DeliveryMethod string `json:"delivery_method"`
}

// GetCart returns the cart for the X-Cart-Token header. An absent header
// mints a fresh cart, and the response token is what the storefront stores.
func (s *Server) GetCart(c *gin.Context) {
	resp, err := s.cartSvc.Get(c.Request.Context(), cartToken(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SetCartItem sets the count for one listing. Count zero removes the row.
func (s *Server) SetCartItem(c *gin.Context) {
	var req setCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.cartSvc.SetItem(c.Request.Context(), cartdomain.SetItemRequest{
		Token:     cartToken(c),
		ListingID: req.ListingID,
		Count:     req.Count,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) SetCartDeliveryMethod(c *gin.Context) {
	var req setDeliveryMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.cartSvc.SetDeliveryMethod(c.Request.Context(), cartToken(c), req.DeliveryMethod)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) ClearCart(c *gin.Context) {
	resp, err := s.cartSvc.Clear(c.Request.Context(), cartToken(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
