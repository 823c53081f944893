package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tripverse/bargain-engine/internal/api/dto"
	ierr "github.com/tripverse/bargain-engine/internal/errors"
	"github.com/tripverse/bargain-engine/internal/logger"
	"github.com/tripverse/bargain-engine/internal/service"
)

type PricingHandler struct {
	service service.PricingService
	log     *logger.Logger
}

func NewPricingHandler(service service.PricingService, log *logger.Logger) *PricingHandler {
	return &PricingHandler{service: service, log: log}
}

// @Summary Get a price quote
// @Description Compute the post-promo price and a non-binding suggested bargain range
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.QuoteRequest true "Quote request"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /pricing/quote [post]
func (h *PricingHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Quote(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
