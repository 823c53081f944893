package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tripverse/bargain-engine/internal/api/dto"
	ierr "github.com/tripverse/bargain-engine/internal/errors"
	"github.com/tripverse/bargain-engine/internal/logger"
	"github.com/tripverse/bargain-engine/internal/service"
)

type PromoHandler struct {
	service service.PromoService
	log     *logger.Logger
}

func NewPromoHandler(service service.PromoService, log *logger.Logger) *PromoHandler {
	return &PromoHandler{service: service, log: log}
}

// @Summary Create a promo
// @Description Register a new promo code
// @Tags Promos
// @Accept json
// @Produce json
// @Param promo body dto.CreatePromoRequest true "Promo"
// @Success 201 {object} dto.PromoResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /promos [post]
func (h *PromoHandler) CreatePromo(c *gin.Context) {
	var req dto.CreatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreatePromo(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a promo
// @Description Fetch a promo by ID
// @Tags Promos
// @Produce json
// @Param id path string true "Promo ID"
// @Success 200 {object} dto.PromoResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /promos/{id} [get]
func (h *PromoHandler) GetPromo(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("promo ID is required").
			WithHint("Promo ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetPromo(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List promos
// @Description List all promos
// @Tags Promos
// @Produce json
// @Success 200 {object} dto.ListPromosResponse
// @Router /promos [get]
func (h *PromoHandler) ListPromos(c *gin.Context) {
	resp, err := h.service.ListPromos(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Disable a promo
// @Description Disable a promo so it no longer validates
// @Tags Promos
// @Produce json
// @Param id path string true "Promo ID"
// @Success 200 {object} dto.PromoResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /promos/{id}/disable [post]
func (h *PromoHandler) DisablePromo(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("promo ID is required").
			WithHint("Promo ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.DisablePromo(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
