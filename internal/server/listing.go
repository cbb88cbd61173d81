package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	listingdomain "github.com/pedalroom/pedalroom/internal/listing/domain"
)

func (s *Server) ListListings(c *gin.Context) {
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	req := listingdomain.ListRequest{
		AuthorID:  c.Query("author_id"),
		State:     c.Query("state"),
		UnitType:  c.Query("unit_type"),
		SortBy:    c.Query("sort_by"),
		OrderBy:   c.Query("order_by"),
		PageToken: c.Query("page_token"),
		PageSize:  pageSize,
	}

	result, err := s.listingSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) CreateListing(c *gin.Context) {
	var req listingdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.listingSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) GetListing(c *gin.Context) {
	resp, err := s.listingSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetListingBySlug(c *gin.Context) {
	resp, err := s.listingSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) UpdateListing(c *gin.Context) {
	var req listingdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	resp, err := s.listingSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CloseListing(c *gin.Context) {
	resp, err := s.listingSvc.Close(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
