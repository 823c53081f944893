package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/tripverse/bargain-engine/internal/api/dto"
	"github.com/tripverse/bargain-engine/internal/domain/concession"
	ierr "github.com/tripverse/bargain-engine/internal/errors"
	"github.com/tripverse/bargain-engine/internal/testutil"
	"github.com/tripverse/bargain-engine/internal/types"
)

type BargainServiceSuite struct {
	testutil.BaseServiceTestSuite
	service BargainService
	pricing PricingService

	// draw feeds the injected DrawFn; tests flip it to force accept or
	// counter outcomes in the shallow band
	draw float64
}

func TestBargainService(t *testing.T) {
	suite.Run(t, new(BargainServiceSuite))
}

func (s *BargainServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.draw = 0.99

	stores := s.GetStores()
	params := ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		PromoRepo:   stores.PromoRepo,
		SessionRepo: stores.SessionRepo,
		Calculator:  concession.NewCalculator(NewConcessionConfig(s.GetConfig())),
		DrawFn:      func() float64 { return s.draw },
	}
	s.pricing = NewPricingService(params)
	s.service = NewBargainService(params, s.pricing)
}

func (s *BargainServiceSuite) openSession() *dto.SessionResponse {
	resp, err := s.service.OpenSession(s.GetContext(), dto.OpenSessionRequest{
		ProductRef: "flight_DEL_BOM_20260910",
		Context: dto.PricingContextRequest{
			ProductType: types.ProductTypeFlight,
			BasePrice:   decimal.NewFromInt(1000),
			Filters:     types.TravelFilters{Origin: "DEL", Destination: "BOM", Adults: 1},
		},
	})
	s.Require().NoError(err)
	return resp
}

func (s *BargainServiceSuite) submit(sessionID string, price int64) (*dto.OfferResultResponse, error) {
	return s.service.SubmitOffer(s.GetContext(), sessionID, dto.SubmitOfferRequest{
		ProposedPrice: decimal.NewFromInt(price),
	})
}

func (s *BargainServiceSuite) TestOpenSession() {
	resp := s.openSession()

	s.Equal(types.NegotiationStatusOpen, resp.Status)
	s.Equal("flight_DEL_BOM_20260910", resp.ProductRef)
	s.True(resp.CurrentFloor.Equal(decimal.NewFromInt(1000)))
	s.True(resp.BasePriceAfterPromo.Equal(decimal.NewFromInt(1000)))
	s.Equal(0, resp.Round)
	s.Equal(3, resp.MaxRounds)
	s.Empty(resp.History)
	s.True(resp.ExpiresAt.After(resp.CreatedAt))
}

func (s *BargainServiceSuite) TestOpenSession_InvalidContext() {
	_, err := s.service.OpenSession(s.GetContext(), dto.OpenSessionRequest{
		ProductRef: "flight_DEL_BOM_20260910",
		Context: dto.PricingContextRequest{
			ProductType: types.ProductTypeFlight,
			BasePrice:   decimal.Zero,
		},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *BargainServiceSuite) TestSubmitOffer_ShallowAskAccepted() {
	s.draw = 0.10
	sess := s.openSession()

	resp, err := s.submit(sess.SessionID, 750)
	s.Require().NoError(err)

	s.Equal(types.DecisionAccept, resp.Decision)
	s.Equal(types.NegotiationStatusAccepted, resp.Status)
	s.Equal(1, resp.Round)
	s.Require().NotNil(resp.AgreedPrice)
	s.True(resp.AgreedPrice.Equal(decimal.NewFromInt(750)))
	s.Nil(resp.CounterPrice)
}

func (s *BargainServiceSuite) TestSubmitOffer_ShallowAskCountered() {
	s.draw = 0.99
	sess := s.openSession()

	resp, err := s.submit(sess.SessionID, 750)
	s.Require().NoError(err)

	s.Equal(types.DecisionCounter, resp.Decision)
	s.Equal(types.NegotiationStatusCountered, resp.Status)
	s.Require().NotNil(resp.CounterPrice)
	// 750 * 1.05 rounded
	s.True(resp.CounterPrice.Equal(decimal.NewFromInt(788)))
}

func (s *BargainServiceSuite) TestSubmitOffer_ModerateAskCountered() {
	sess := s.openSession()

	resp, err := s.submit(sess.SessionID, 550)
	s.Require().NoError(err)

	s.Equal(types.DecisionCounter, resp.Decision)
	s.Require().NotNil(resp.CounterPrice)
	// max(550, 1000 * 0.75)
	s.True(resp.CounterPrice.Equal(decimal.NewFromInt(750)))
}

func (s *BargainServiceSuite) TestSubmitOffer_AggressiveAskCounteredAtPolicyFloor() {
	sess := s.openSession()

	resp, err := s.submit(sess.SessionID, 300)
	s.Require().NoError(err)

	s.Equal(types.DecisionCounter, resp.Decision)
	s.Require().NotNil(resp.CounterPrice)
	// 1000 * 0.65
	s.True(resp.CounterPrice.Equal(decimal.NewFromInt(650)))
}

func (s *BargainServiceSuite) TestSubmitOffer_FloorOnlyMovesDown() {
	sess := s.openSession()

	first, err := s.submit(sess.SessionID, 300)
	s.Require().NoError(err)
	s.Require().NotNil(first.CounterPrice)

	second, err := s.submit(sess.SessionID, 400)
	s.Require().NoError(err)
	s.Require().NotNil(second.CounterPrice)

	s.True(second.CounterPrice.LessThanOrEqual(*first.CounterPrice),
		"counter rose from %s to %s", first.CounterPrice, second.CounterPrice)
}

func (s *BargainServiceSuite) TestSubmitOffer_AtFloorIsBouncedWithoutConsumingARound() {
	sess := s.openSession()

	resp, err := s.submit(sess.SessionID, 1000)
	s.Require().NoError(err)

	s.Equal(types.DecisionReject, resp.Decision)
	s.Equal(0, resp.Round)
	s.Equal(types.NegotiationStatusOpen, resp.Status)

	// The bounced price was never recorded, so proposing below the floor
	// still works and the same price could even be re-proposed
	stored, err := s.service.GetSession(s.GetContext(), sess.SessionID)
	s.Require().NoError(err)
	s.Equal(0, stored.Round)
	s.Empty(stored.History)

	again, err := s.submit(sess.SessionID, 1000)
	s.Require().NoError(err)
	s.Equal(types.DecisionReject, again.Decision)
}

func (s *BargainServiceSuite) TestSubmitOffer_DuplicatePrice() {
	sess := s.openSession()

	_, err := s.submit(sess.SessionID, 550)
	s.Require().NoError(err)

	_, err = s.submit(sess.SessionID, 550)
	s.Error(err)
	s.True(ierr.IsDuplicatePrice(err))

	// The failed attempt consumed nothing
	stored, err := s.service.GetSession(s.GetContext(), sess.SessionID)
	s.Require().NoError(err)
	s.Equal(1, stored.Round)
	s.Len(stored.History, 1)
}

func (s *BargainServiceSuite) TestSubmitOffer_RoundLimitConcludesSession() {
	s.GetConfig().Bargain.MaxRounds = 2
	defer func() { s.GetConfig().Bargain.MaxRounds = 3 }()

	sess := s.openSession()
	s.Equal(2, sess.MaxRounds)

	_, err := s.submit(sess.SessionID, 500)
	s.Require().NoError(err)
	_, err = s.submit(sess.SessionID, 520)
	s.Require().NoError(err)

	_, err = s.submit(sess.SessionID, 540)
	s.Error(err)
	s.True(ierr.IsRoundLimitExceeded(err))

	stored, err := s.service.GetSession(s.GetContext(), sess.SessionID)
	s.Require().NoError(err)
	s.Equal(types.NegotiationStatusRejected, stored.Status)
	s.Equal(2, stored.Round)
}

func (s *BargainServiceSuite) TestSubmitOffer_TerminalSessionRejectsFurtherOffers() {
	s.draw = 0.10
	sess := s.openSession()

	resp, err := s.submit(sess.SessionID, 750)
	s.Require().NoError(err)
	s.Equal(types.DecisionAccept, resp.Decision)

	_, err = s.submit(sess.SessionID, 700)
	s.Error(err)
	s.True(ierr.IsTerminalState(err))
}

func (s *BargainServiceSuite) TestSubmitOffer_SessionNotFound() {
	_, err := s.submit("bses_missing", 750)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *BargainServiceSuite) TestSubmitOffer_ExpiredSession() {
	s.GetConfig().Bargain.SessionTTL = -time.Minute
	defer func() { s.GetConfig().Bargain.SessionTTL = 15 * time.Minute }()

	sess := s.openSession()

	_, err := s.submit(sess.SessionID, 750)
	s.Error(err)
	s.True(ierr.IsSessionExpired(err))
}

func (s *BargainServiceSuite) TestSubmitOffer_InvalidPrice() {
	sess := s.openSession()

	_, err := s.service.SubmitOffer(s.GetContext(), sess.SessionID, dto.SubmitOfferRequest{
		ProposedPrice: decimal.NewFromInt(-10),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *BargainServiceSuite) TestAcceptCounter() {
	sess := s.openSession()

	offer, err := s.submit(sess.SessionID, 550)
	s.Require().NoError(err)
	s.Require().NotNil(offer.CounterPrice)

	resp, err := s.service.AcceptCounter(s.GetContext(), sess.SessionID)
	s.Require().NoError(err)

	s.Equal(types.NegotiationStatusAccepted, resp.Status)
	s.Equal("flight_DEL_BOM_20260910", resp.ProductRef)
	s.True(resp.FinalPrice.Equal(*offer.CounterPrice))

	stored, err := s.service.GetSession(s.GetContext(), sess.SessionID)
	s.Require().NoError(err)
	s.Equal(types.NegotiationStatusAccepted, stored.Status)
	s.Len(stored.History, 2)
}

func (s *BargainServiceSuite) TestAcceptCounter_WithoutStandingCounter() {
	sess := s.openSession()

	_, err := s.service.AcceptCounter(s.GetContext(), sess.SessionID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *BargainServiceSuite) TestAcceptCounter_AfterAcceptance() {
	s.draw = 0.10
	sess := s.openSession()

	_, err := s.submit(sess.SessionID, 750)
	s.Require().NoError(err)

	_, err = s.service.AcceptCounter(s.GetContext(), sess.SessionID)
	s.Error(err)
	s.True(ierr.IsTerminalState(err))
}

func (s *BargainServiceSuite) TestGetSession_NotFound() {
	_, err := s.service.GetSession(s.GetContext(), "bses_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *BargainServiceSuite) TestGetSession_ReportsExpiry() {
	s.GetConfig().Bargain.SessionTTL = -time.Minute
	defer func() { s.GetConfig().Bargain.SessionTTL = 15 * time.Minute }()

	sess := s.openSession()

	stored, err := s.service.GetSession(s.GetContext(), sess.SessionID)
	s.Require().NoError(err)
	s.Equal(types.NegotiationStatusExpired, stored.Status)
}

func (s *BargainServiceSuite) TestSubmitOffer_ConcurrentOffersSerialize() {
	sess := s.openSession()

	var wg sync.WaitGroup
	results := make(chan error, 10)

	for i := 0; i < 10; i++ {
		price := int64(400 + i*10)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.submit(sess.SessionID, price)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		}
	}

	stored, err := s.service.GetSession(s.GetContext(), sess.SessionID)
	s.Require().NoError(err)

	// Rounds never exceed the limit and every consumed round left exactly
	// one history entry
	s.LessOrEqual(stored.Round, s.GetConfig().Bargain.MaxRounds)
	s.Equal(stored.Round, len(stored.History))
	s.Equal(successes, stored.Round,
		fmt.Sprintf("%d offers succeeded but %d rounds were consumed", successes, stored.Round))
}
