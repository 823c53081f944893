package service

import (
	"context"
	"time"

	"github.com/tripverse/bargain-engine/internal/api/dto"
	"github.com/tripverse/bargain-engine/internal/domain/concession"
	"github.com/tripverse/bargain-engine/internal/domain/session"
	ierr "github.com/tripverse/bargain-engine/internal/errors"
	"github.com/tripverse/bargain-engine/internal/types"
)

// BargainService owns the negotiation session lifecycle and is the only
// component that mutates session records
type BargainService interface {
	// OpenSession builds a pricing context and starts a bounded negotiation
	OpenSession(ctx context.Context, req dto.OpenSessionRequest) (*dto.SessionResponse, error)

	// SubmitOffer runs one negotiation round for a proposed price
	SubmitOffer(ctx context.Context, sessionID string, req dto.SubmitOfferRequest) (*dto.OfferResultResponse, error)

	// AcceptCounter finalizes the engine's standing counter as the agreed price
	AcceptCounter(ctx context.Context, sessionID string) (*dto.AcceptCounterResponse, error)

	// GetSession returns the session status and history for display
	GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
}

type bargainService struct {
	ServiceParams
	pricingService PricingService
}

// NewBargainService creates a new bargain service
func NewBargainService(params ServiceParams, pricingService PricingService) BargainService {
	return &bargainService{
		ServiceParams:  params,
		pricingService: pricingService,
	}
}

func (s *bargainService) OpenSession(ctx context.Context, req dto.OpenSessionRequest) (*dto.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	pctx, promoErr, err := s.pricingService.BuildContext(ctx, req.Context)
	if err != nil {
		return nil, err
	}
	if promoErr != nil {
		s.Logger.Infow("opening session without promo",
			"product_ref", req.ProductRef,
			"promo_code", req.Context.PromoCode,
			"reason", promoErr.Code)
	}

	sess := session.New(
		req.ProductRef,
		pctx.ProductType,
		pctx.BasePriceAfterPromo,
		s.Config.Bargain.MaxRounds,
		s.Config.Bargain.SessionTTL,
	)

	if err := s.SessionRepo.Create(ctx, sess); err != nil {
		return nil, err
	}

	s.Logger.Infow("opened bargain session",
		"session_id", sess.ID,
		"product_ref", sess.ProductRef,
		"product_type", sess.ProductType,
		"floor", sess.CurrentFloor,
		"max_rounds", sess.MaxRounds,
		"expires_at", sess.ExpiresAt)

	return dto.NewSessionResponse(sess), nil
}

func (s *bargainService) SubmitOffer(ctx context.Context, sessionID string, req dto.SubmitOfferRequest) (*dto.OfferResultResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	proposed := req.ProposedPrice

	var outcome *dto.OfferResultResponse
	var failure error

	_, err := s.SessionRepo.Mutate(ctx, sessionID, func(sess *session.NegotiationSession) error {
		now := time.Now().UTC()

		if sess.Status == types.NegotiationStatusExpired || sess.IsExpired(now) {
			// Persist the expiry transition, then surface Expired
			sess.Status = types.NegotiationStatusExpired
			failure = s.expiredError(sessionID)
			return nil
		}
		if sess.Status.IsTerminal() {
			return s.terminalError(sess)
		}

		// Proposing at or above the current floor is a validation bounce:
		// it consumes no round and leaves the tried-price set untouched.
		if proposed.GreaterThanOrEqual(sess.CurrentFloor) {
			outcome = &dto.OfferResultResponse{
				SessionID: sess.ID,
				Decision:  types.DecisionReject,
				Round:     sess.Round,
				Status:    sess.Status,
			}
			return nil
		}

		if sess.Round >= sess.MaxRounds {
			// Round exhaustion concludes the negotiation
			sess.Status = types.NegotiationStatusRejected
			failure = ierr.NewError("bargain round limit exceeded").
				WithHint("No more offers can be made in this session").
				WithReportableDetails(map[string]any{
					"session_id": sess.ID,
					"max_rounds": sess.MaxRounds,
				}).
				Mark(ierr.ErrRoundLimitExceeded)
			return nil
		}

		if sess.HasTried(proposed) {
			return ierr.NewError("price already proposed").
				WithHint("You already tried this price in this session").
				WithReportableDetails(map[string]any{
					"session_id":     sess.ID,
					"proposed_price": proposed,
				}).
				Mark(ierr.ErrDuplicatePrice)
		}

		sess.RecordTried(proposed)
		sess.Round++

		result, err := s.Calculator.Decide(ctx, concession.Params{
			ProposedPrice:       proposed,
			CurrentFloor:        sess.CurrentFloor,
			BasePriceAfterPromo: sess.BasePriceAfterPromo,
			Draw:                s.DrawFn(),
		})
		if err != nil {
			return err
		}

		offer := session.Offer{
			Round:         sess.Round,
			ProposedPrice: proposed,
			Decision:      result.Decision,
			Timestamp:     now,
		}

		switch result.Decision {
		case types.DecisionAccept:
			sess.Status = types.NegotiationStatusAccepted
			sess.CurrentFloor = proposed
		case types.DecisionCounter:
			sess.Status = types.NegotiationStatusCountered
			counter := result.CounterPrice
			offer.CounterPrice = &counter
			// The floor only ever moves toward the buyer
			if counter.LessThan(sess.CurrentFloor) {
				sess.CurrentFloor = counter
			}
		case types.DecisionReject:
			sess.Status = types.NegotiationStatusRejected
		}

		sess.AppendOffer(offer)

		outcome = &dto.OfferResultResponse{
			SessionID:    sess.ID,
			Decision:     result.Decision,
			CounterPrice: offer.CounterPrice,
			Round:        sess.Round,
			Status:       sess.Status,
		}
		if result.Decision == types.DecisionAccept {
			agreed := sess.CurrentFloor
			outcome.AgreedPrice = &agreed
		}

		s.Logger.Infow("processed bargain offer",
			"session_id", sess.ID,
			"round", sess.Round,
			"proposed_price", proposed,
			"decision", result.Decision,
			"floor", sess.CurrentFloor,
			"status", sess.Status)

		return nil
	})
	if err != nil {
		return nil, err
	}
	if failure != nil {
		return nil, failure
	}

	return outcome, nil
}

func (s *bargainService) AcceptCounter(ctx context.Context, sessionID string) (*dto.AcceptCounterResponse, error) {
	var outcome *dto.AcceptCounterResponse
	var failure error

	_, err := s.SessionRepo.Mutate(ctx, sessionID, func(sess *session.NegotiationSession) error {
		now := time.Now().UTC()

		if sess.Status == types.NegotiationStatusExpired || sess.IsExpired(now) {
			sess.Status = types.NegotiationStatusExpired
			failure = s.expiredError(sessionID)
			return nil
		}
		if sess.Status.IsTerminal() {
			return s.terminalError(sess)
		}
		if sess.Status != types.NegotiationStatusCountered {
			return ierr.NewError("no standing counter to accept").
				WithHint("The session has no counter offer to accept").
				WithReportableDetails(map[string]any{
					"session_id": sess.ID,
					"status":     sess.Status,
				}).
				Mark(ierr.ErrInvalidOperation)
		}

		sess.Status = types.NegotiationStatusAccepted
		sess.AppendOffer(session.Offer{
			Round:         sess.Round,
			ProposedPrice: sess.CurrentFloor,
			Decision:      types.DecisionAccept,
			Timestamp:     now,
		})

		outcome = &dto.AcceptCounterResponse{
			SessionID:  sess.ID,
			ProductRef: sess.ProductRef,
			FinalPrice: sess.CurrentFloor,
			Status:     sess.Status,
		}

		s.Logger.Infow("accepted counter offer",
			"session_id", sess.ID,
			"product_ref", sess.ProductRef,
			"final_price", sess.CurrentFloor)

		return nil
	})
	if err != nil {
		return nil, err
	}
	if failure != nil {
		return nil, failure
	}

	return outcome, nil
}

func (s *bargainService) GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	sess, err := s.SessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Present the passive expiry transition without persisting it
	if sess.IsExpired(time.Now().UTC()) && !sess.Status.IsTerminal() {
		sess.Status = types.NegotiationStatusExpired
	}

	return dto.NewSessionResponse(sess), nil
}

func (s *bargainService) expiredError(sessionID string) error {
	return ierr.NewError("bargain session expired").
		WithHint("The bargain session has expired; start a new one").
		WithReportableDetails(map[string]any{"session_id": sessionID}).
		Mark(ierr.ErrSessionExpired)
}

func (s *bargainService) terminalError(sess *session.NegotiationSession) error {
	return ierr.NewError("bargain session already concluded").
		WithHint("The bargain session has already concluded").
		WithReportableDetails(map[string]any{
			"session_id": sess.ID,
			"status":     sess.Status,
		}).
		Mark(ierr.ErrTerminalState)
}
