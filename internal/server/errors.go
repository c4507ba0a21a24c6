package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	masterdomain "github.com/jewelleryos/aurum/internal/masterdata/domain"
	pricingdomain "github.com/jewelleryos/aurum/internal/pricing/domain"
	ruledomain "github.com/jewelleryos/aurum/internal/pricingrule/domain"
	"github.com/jewelleryos/aurum/internal/variant"
	"gorm.io/gorm"
)

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrNotFound       = errors.New("not_found")
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

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

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case isPricingError(err):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "pricing_error",
			Message: err.Error(),
		}
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, variant.ErrCountMismatch),
		errors.Is(err, variant.ErrMissingVariants),
		errors.Is(err, variant.ErrExtraVariants),
		errors.Is(err, variant.ErrDuplicateKey),
		errors.Is(err, variant.ErrDefaultVariant),
		errors.Is(err, ruledomain.ErrUnknownConditionKind),
		errors.Is(err, ruledomain.ErrInvalidCondition):
		return true
	default:
		return false
	}
}

func isPricingError(err error) bool {
	switch {
	case errors.Is(err, masterdomain.ErrPurityNotFound),
		errors.Is(err, masterdomain.ErrNoMakingChargeBand),
		errors.Is(err, masterdomain.ErrStonePricingNotFound),
		errors.Is(err, pricingdomain.ErrMissingPricingLink),
		errors.Is(err, pricingdomain.ErrStonePricingMismatch),
		errors.Is(err, pricingdomain.ErrMissingGemstoneQuality):
		return true
	default:
		return false
	}
}
