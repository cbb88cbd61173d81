package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartdomain "github.com/pedalroom/pedalroom/internal/cart/domain"
	listingdomain "github.com/pedalroom/pedalroom/internal/listing/domain"
	"github.com/pedalroom/pedalroom/internal/money"
	pricingdomain "github.com/pedalroom/pedalroom/internal/pricing/domain"
	transactiondomain "github.com/pedalroom/pedalroom/internal/transaction/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrNotFound       = errors.New("not_found")
	ErrInternal       = errors.New("internal_error")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, listingdomain.ErrListingClosed):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "listing is closed",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, transactiondomain.ErrMarketplaceError):
		return http.StatusBadGateway, errorPayload{
			Type:    "marketplace_error",
			Message: "upstream marketplace rejected the request",
		}
	case errors.Is(err, money.ErrCurrencyMismatch):
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, pricingdomain.ErrMissingQuantity),
		errors.Is(err, pricingdomain.ErrEmptyCart),
		errors.Is(err, pricingdomain.ErrCartUnitType),
		errors.Is(err, pricingdomain.ErrInvalidLineItem),
		errors.Is(err, pricingdomain.ErrTooManyLineItems),
		errors.Is(err, listingdomain.ErrInvalidID),
		errors.Is(err, listingdomain.ErrInvalidAuthor),
		errors.Is(err, listingdomain.ErrInvalidTitle),
		errors.Is(err, listingdomain.ErrInvalidPrice),
		errors.Is(err, listingdomain.ErrInvalidCurrency),
		errors.Is(err, listingdomain.ErrInvalidUnitType),
		errors.Is(err, listingdomain.ErrInvalidPageToken),
		errors.Is(err, cartdomain.ErrInvalidToken),
		errors.Is(err, cartdomain.ErrInvalidListing),
		errors.Is(err, cartdomain.ErrInvalidCount),
		errors.Is(err, cartdomain.ErrInvalidDeliveryMethod),
		errors.Is(err, cartdomain.ErrEmptyCart),
		errors.Is(err, transactiondomain.ErrInvalidListing),
		errors.Is(err, transactiondomain.ErrInvalidRef),
		errors.Is(err, transactiondomain.ErrInvalidProcess):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, listingdomain.ErrNotFound),
		errors.Is(err, transactiondomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	switch code {
	case "missing_quantity":
		return "orderData"
	case "invalid_request":
		return "request"
	case "empty_cart", "cart_unit_type":
		return "cart"
	case "invalid_token":
		return "cartToken"
	default:
		return ""
	}
}

func validationErrorMessage(code string) string {
	switch code {
	case "missing_quantity":
		return "order must carry a stockReservationQuantity, a booking window, or units and seats"
	case "empty_cart":
		return "cart has no items"
	case "cart_unit_type":
		return "cart checkout only supports item listings"
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog tells the request logger whether the failure is the
// caller's fault, so expected rejections log at warn instead of error.
func classifyErrorForLog(err error) bool {
	if err == nil {
		return false
	}
	if asValidationErrors(err) != nil || isValidationError(err) {
		return true
	}
	return isNotFoundError(err) || errors.Is(err, listingdomain.ErrListingClosed)
}
