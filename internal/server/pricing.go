package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	pricingdomain "github.com/jewelleryos/aurum/internal/pricing/domain"
)

type previewPricingRequest struct {
	Variant     pricingdomain.VariantContext   `json:"variant"`
	Composition pricingdomain.StoneComposition `json:"stone_composition"`
	Product     pricingdomain.ProductInfo      `json:"product"`
}

// PreviewPricing prices a variant context without persisting anything.
func (s *Server) PreviewPricing(c *gin.Context) {
	var req previewPricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	breakdown, err := s.productSvc.Preview(c.Request.Context(), req.Variant, req.Composition, req.Product)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": breakdown})
}
