package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/tripverse/bargain-engine/internal/api/dto"
	"github.com/tripverse/bargain-engine/internal/domain/concession"
	"github.com/tripverse/bargain-engine/internal/domain/promo"
	ierr "github.com/tripverse/bargain-engine/internal/errors"
	"github.com/tripverse/bargain-engine/internal/testutil"
	"github.com/tripverse/bargain-engine/internal/types"
)

type PricingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PricingService
	params  ServiceParams
}

func TestPricingService(t *testing.T) {
	suite.Run(t, new(PricingServiceSuite))
}

func (s *PricingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	s.params = ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		PromoRepo:   stores.PromoRepo,
		SessionRepo: stores.SessionRepo,
		Calculator:  concession.NewCalculator(NewConcessionConfig(s.GetConfig())),
		DrawFn:      func() float64 { return 0.5 },
	}
	s.service = NewPricingService(s.params)
}

func (s *PricingServiceSuite) flightRequest(promoCode string) dto.QuoteRequest {
	return dto.QuoteRequest{
		PricingContextRequest: dto.PricingContextRequest{
			ProductType: types.ProductTypeFlight,
			BasePrice:   decimal.NewFromInt(1000),
			Filters:     types.TravelFilters{Origin: "DEL", Destination: "BOM", Adults: 1},
			PromoCode:   promoCode,
		},
	}
}

func (s *PricingServiceSuite) createPromo(p *promo.PromoDiscount) {
	p.BaseModel = types.GetDefaultBaseModel(s.GetContext())
	if p.ID == "" {
		p.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PROMO)
	}
	s.Require().NoError(s.GetStores().PromoRepo.Create(s.GetContext(), p))
}

func (s *PricingServiceSuite) TestQuote_WithoutPromo() {
	resp, err := s.service.Quote(s.GetContext(), s.flightRequest(""))
	s.Require().NoError(err)

	s.True(resp.BasePrice.Equal(decimal.NewFromInt(1000)))
	s.True(resp.BasePriceAfterPromo.Equal(decimal.NewFromInt(1000)))
	s.True(resp.SuggestedRange.Low.Equal(decimal.NewFromInt(700)))
	s.True(resp.SuggestedRange.High.Equal(decimal.NewFromInt(950)))
	s.Nil(resp.PromoApplied)
	s.Nil(resp.PromoError)
}

func (s *PricingServiceSuite) TestQuote_WithFlatPromo() {
	s.createPromo(&promo.PromoDiscount{
		Code:       "FLAT100",
		Name:       "Flat hundred off",
		Kind:       types.PromoKindFlat,
		RangeLower: decimal.NewFromInt(100),
		RangeUpper: decimal.NewFromInt(100),
	})

	resp, err := s.service.Quote(s.GetContext(), s.flightRequest("FLAT100"))
	s.Require().NoError(err)

	s.Require().NotNil(resp.PromoApplied)
	s.Nil(resp.PromoError)
	s.True(resp.PromoApplied.Amount.Equal(decimal.NewFromInt(100)))
	s.True(resp.BasePriceAfterPromo.Equal(decimal.NewFromInt(900)))
	s.True(resp.SuggestedRange.Low.Equal(decimal.NewFromInt(630)))
	s.True(resp.SuggestedRange.High.Equal(decimal.NewFromInt(855)))
}

func (s *PricingServiceSuite) TestQuote_IsIdempotent() {
	s.createPromo(&promo.PromoDiscount{
		Code:       "RANGE",
		Name:       "Five to fifteen percent",
		Kind:       types.PromoKindPercentage,
		RangeLower: decimal.NewFromInt(5),
		RangeUpper: decimal.NewFromInt(15),
	})

	first, err := s.service.Quote(s.GetContext(), s.flightRequest("RANGE"))
	s.Require().NoError(err)
	s.Require().NotNil(first.PromoApplied)

	for i := 0; i < 5; i++ {
		next, err := s.service.Quote(s.GetContext(), s.flightRequest("RANGE"))
		s.Require().NoError(err)
		s.Require().NotNil(next.PromoApplied)
		s.True(first.PromoApplied.Amount.Equal(next.PromoApplied.Amount))
		s.True(first.BasePriceAfterPromo.Equal(next.BasePriceAfterPromo))
	}
}

func (s *PricingServiceSuite) TestQuote_UnknownPromoIsRecoverable() {
	resp, err := s.service.Quote(s.GetContext(), s.flightRequest("NOSUCHCODE"))
	s.Require().NoError(err)

	s.Nil(resp.PromoApplied)
	s.Require().NotNil(resp.PromoError)
	s.Equal(ierr.ErrCodeNotFound, resp.PromoError.Code)
	s.True(resp.BasePriceAfterPromo.Equal(decimal.NewFromInt(1000)))
}

func (s *PricingServiceSuite) TestQuote_ExpiredPromoIsRecoverable() {
	past := time.Now().UTC().Add(-24 * time.Hour)
	s.createPromo(&promo.PromoDiscount{
		Code:       "GONE",
		Name:       "Expired promo",
		Kind:       types.PromoKindFlat,
		RangeLower: decimal.NewFromInt(100),
		RangeUpper: decimal.NewFromInt(100),
		ValidTo:    &past,
	})

	resp, err := s.service.Quote(s.GetContext(), s.flightRequest("GONE"))
	s.Require().NoError(err)

	s.Nil(resp.PromoApplied)
	s.Require().NotNil(resp.PromoError)
	s.Equal(ierr.ErrCodePromoExpired, resp.PromoError.Code)
}

func (s *PricingServiceSuite) TestQuote_NotApplicablePromoIsRecoverable() {
	s.createPromo(&promo.PromoDiscount{
		Code:          "GOAONLY",
		Name:          "Goa route promo",
		Kind:          types.PromoKindFlat,
		RangeLower:    decimal.NewFromInt(100),
		RangeUpper:    decimal.NewFromInt(100),
		Applicability: types.TravelFilters{Destination: "GOI"},
	})

	resp, err := s.service.Quote(s.GetContext(), s.flightRequest("GOAONLY"))
	s.Require().NoError(err)

	s.Nil(resp.PromoApplied)
	s.Require().NotNil(resp.PromoError)
	s.Equal(ierr.ErrCodePromoNotApplicable, resp.PromoError.Code)
}

func (s *PricingServiceSuite) TestQuote_DisabledPromoIsRecoverable() {
	p := &promo.PromoDiscount{
		Code:       "DISABLED",
		Name:       "Disabled promo",
		Kind:       types.PromoKindFlat,
		RangeLower: decimal.NewFromInt(100),
		RangeUpper: decimal.NewFromInt(100),
	}
	s.createPromo(p)

	p.Status = types.StatusArchived
	s.Require().NoError(s.GetStores().PromoRepo.Update(s.GetContext(), p))

	resp, err := s.service.Quote(s.GetContext(), s.flightRequest("DISABLED"))
	s.Require().NoError(err)

	s.Nil(resp.PromoApplied)
	s.Require().NotNil(resp.PromoError)
	s.Equal(ierr.ErrCodeNotFound, resp.PromoError.Code)
}

func (s *PricingServiceSuite) TestQuote_PromoCodeIsCaseInsensitive() {
	s.createPromo(&promo.PromoDiscount{
		Code:       "SUMMER10",
		Name:       "Summer promo",
		Kind:       types.PromoKindFlat,
		RangeLower: decimal.NewFromInt(50),
		RangeUpper: decimal.NewFromInt(50),
	})

	resp, err := s.service.Quote(s.GetContext(), s.flightRequest("summer10"))
	s.Require().NoError(err)
	s.Require().NotNil(resp.PromoApplied)
}

func (s *PricingServiceSuite) TestQuote_InvalidRequest() {
	testCases := []struct {
		name    string
		request dto.QuoteRequest
	}{
		{
			name: "zero_base_price",
			request: dto.QuoteRequest{
				PricingContextRequest: dto.PricingContextRequest{
					ProductType: types.ProductTypeFlight,
					BasePrice:   decimal.Zero,
					Filters:     types.TravelFilters{Origin: "DEL", Destination: "BOM"},
				},
			},
		},
		{
			name: "unknown_product_type",
			request: dto.QuoteRequest{
				PricingContextRequest: dto.PricingContextRequest{
					ProductType: types.ProductType("cruise"),
					BasePrice:   decimal.NewFromInt(1000),
				},
			},
		},
		{
			name: "hotel_without_city",
			request: dto.QuoteRequest{
				PricingContextRequest: dto.PricingContextRequest{
					ProductType: types.ProductTypeHotel,
					BasePrice:   decimal.NewFromInt(1000),
				},
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.service.Quote(s.GetContext(), tc.request)
			s.Error(err)
			s.True(ierr.IsValidation(err))
		})
	}
}

func (s *PricingServiceSuite) TestValidatePromo_EmptyCode() {
	_, err := s.service.ValidatePromo(s.GetContext(), "", types.TravelFilters{Origin: "DEL", Destination: "BOM"}, types.ProductTypeFlight)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}
