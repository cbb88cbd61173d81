package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	transactiondomain "github.com/pedalroom/pedalroom/internal/transaction/domain"
)

type initiateOrderRequest struct {
	transactiondomain.InitiateOrderRequest
	Speculative bool `json:"speculative"`
}

type initiateCartOrderRequest struct {
	transactiondomain.InitiateCartOrderRequest
	Speculative bool `json:"speculative"`
}

// InitiatePrivileged prices and initiates an order for one listing. With
// speculative set the identical pricing path runs but nothing is forwarded
// upstream, which is how checkout renders its final breakdown.
func (s *Server) InitiatePrivileged(c *gin.Context) {
	var req initiateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	domainReq := req.InitiateOrderRequest
	domainReq.Speculative = req.Speculative

	resp, err := s.transactionSvc.InitiateOrder(c.Request.Context(), domainReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// InitiateCartPrivileged prices and initiates an order for the caller's
// whole cart, addressed by the X-Cart-Token header.
func (s *Server) InitiateCartPrivileged(c *gin.Context) {
	var req initiateCartOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	domainReq := req.InitiateCartOrderRequest
	domainReq.CartToken = cartToken(c)
	domainReq.Speculative = req.Speculative

	resp, err := s.transactionSvc.InitiateCartOrder(c.Request.Context(), domainReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) GetTransaction(c *gin.Context) {
	resp, err := s.transactionSvc.Get(c.Request.Context(), c.Param("ref"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
