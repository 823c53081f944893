package dto

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/tripverse/bargain-engine/internal/domain/session"
	ierr "github.com/tripverse/bargain-engine/internal/errors"
	"github.com/tripverse/bargain-engine/internal/types"
	"github.com/tripverse/bargain-engine/internal/validator"
)

// OpenSessionRequest starts a bargain flow for a product
type OpenSessionRequest struct {
	ProductRef string                `json:"product_ref" binding:"required"`
	Context    PricingContextRequest `json:"context" binding:"required"`
}

func (r *OpenSessionRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.Context.Validate()
}

// SubmitOfferRequest carries one proposed price
type SubmitOfferRequest struct {
	ProposedPrice decimal.Decimal `json:"proposed_price" binding:"required"`
}

func (r *SubmitOfferRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if !r.ProposedPrice.IsPositive() {
		return ierr.NewError("proposed price must be positive").
			WithHint("Proposed price must be greater than zero").
			WithReportableDetails(map[string]any{"proposed_price": r.ProposedPrice}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// OfferResponse is one history entry of a session
type OfferResponse struct {
	Round         int                `json:"round"`
	ProposedPrice decimal.Decimal    `json:"proposed_price"`
	CounterPrice  *decimal.Decimal   `json:"counter_price,omitempty"`
	Decision      types.DecisionKind `json:"decision"`
	Timestamp     time.Time          `json:"timestamp"`
}

// SessionResponse is the read model of a negotiation session
type SessionResponse struct {
	SessionID           string                  `json:"session_id"`
	ProductRef          string                  `json:"product_ref"`
	ProductType         types.ProductType       `json:"product_type"`
	BasePriceAfterPromo decimal.Decimal         `json:"base_price_after_promo"`
	CurrentFloor        decimal.Decimal         `json:"current_floor"`
	Round               int                     `json:"round"`
	MaxRounds           int                     `json:"max_rounds"`
	Status              types.NegotiationStatus `json:"status"`
	History             []OfferResponse         `json:"history"`
	CreatedAt           time.Time               `json:"created_at"`
	ExpiresAt           time.Time               `json:"expires_at"`
}

// OfferResultResponse is the engine's decision on one submitted offer
type OfferResultResponse struct {
	SessionID    string                  `json:"session_id"`
	Decision     types.DecisionKind      `json:"decision"`
	CounterPrice *decimal.Decimal        `json:"counter_price,omitempty"`
	AgreedPrice  *decimal.Decimal        `json:"agreed_price,omitempty"`
	Round        int                     `json:"round"`
	Status       types.NegotiationStatus `json:"status"`
}

// AcceptCounterResponse finalizes the engine's standing counter. ProductRef
// is what the external checkout collaborator consumes to lock the price.
type AcceptCounterResponse struct {
	SessionID  string                  `json:"session_id"`
	ProductRef string                  `json:"product_ref"`
	FinalPrice decimal.Decimal         `json:"final_price"`
	Status     types.NegotiationStatus `json:"status"`
}

func NewOfferResponse(o session.Offer) OfferResponse {
	return OfferResponse{
		Round:         o.Round,
		ProposedPrice: o.ProposedPrice,
		CounterPrice:  o.CounterPrice,
		Decision:      o.Decision,
		Timestamp:     o.Timestamp,
	}
}

func NewSessionResponse(s *session.NegotiationSession) *SessionResponse {
	return &SessionResponse{
		SessionID:           s.ID,
		ProductRef:          s.ProductRef,
		ProductType:         s.ProductType,
		BasePriceAfterPromo: s.BasePriceAfterPromo,
		CurrentFloor:        s.CurrentFloor,
		Round:               s.Round,
		MaxRounds:           s.MaxRounds,
		Status:              s.Status,
		History:             lo.Map(s.History, func(o session.Offer, _ int) OfferResponse { return NewOfferResponse(o) }),
		CreatedAt:           s.CreatedAt,
		ExpiresAt:           s.ExpiresAt,
	}
}
