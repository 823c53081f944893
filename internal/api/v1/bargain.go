package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tripverse/bargain-engine/internal/api/dto"
	ierr "github.com/tripverse/bargain-engine/internal/errors"
	"github.com/tripverse/bargain-engine/internal/logger"
	"github.com/tripverse/bargain-engine/internal/service"
)

type BargainHandler struct {
	service service.BargainService
	log     *logger.Logger
}

func NewBargainHandler(service service.BargainService, log *logger.Logger) *BargainHandler {
	return &BargainHandler{service: service, log: log}
}

// @Summary Open a bargain session
// @Description Start a bounded negotiation for a product at its post-promo price
// @Tags Bargain
// @Accept json
// @Produce json
// @Param request body dto.OpenSessionRequest true "Open session request"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /bargain/sessions [post]
func (h *BargainHandler) OpenSession(c *gin.Context) {
	var req dto.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.OpenSession(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Submit an offer
// @Description Propose a price for one negotiation round
// @Tags Bargain
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.SubmitOfferRequest true "Offer request"
// @Success 200 {object} dto.OfferResultResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 410 {object} ierr.ErrorResponse
// @Router /bargain/sessions/{id}/offers [post]
func (h *BargainHandler) SubmitOffer(c *gin.Context) {
	sessionID := c.Param("id")
	if sessionID == "" {
		c.Error(ierr.NewError("session ID is required").
			WithHint("Session ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.SubmitOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.SubmitOffer(c.Request.Context(), sessionID, req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Accept the standing counter
// @Description Conclude the session at the engine's last counter price
// @Tags Bargain
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.AcceptCounterResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 410 {object} ierr.ErrorResponse
// @Router /bargain/sessions/{id}/accept [post]
func (h *BargainHandler) AcceptCounter(c *gin.Context) {
	sessionID := c.Param("id")
	if sessionID == "" {
		c.Error(ierr.NewError("session ID is required").
			WithHint("Session ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.AcceptCounter(c.Request.Context(), sessionID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get a bargain session
// @Description Fetch the current status and offer history of a session
// @Tags Bargain
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /bargain/sessions/{id} [get]
func (h *BargainHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("id")
	if sessionID == "" {
		c.Error(ierr.NewError("session ID is required").
			WithHint("Session ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
