package session

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tripverse/bargain-engine/internal/types"
)

// NegotiationSession is the server-owned state of one bounded bargain flow
// for a product. It is mutated only through the session repository's atomic
// mutate, one offer at a time.
type NegotiationSession struct {
	ID                  string                  `json:"id"`
	ProductRef          string                  `json:"product_ref"`
	ProductType         types.ProductType       `json:"product_type"`
	BasePriceAfterPromo decimal.Decimal         `json:"base_price_after_promo"`
	CurrentFloor        decimal.Decimal         `json:"current_floor"`
	Round               int                     `json:"round"`
	MaxRounds           int                     `json:"max_rounds"`
	TriedPrices         map[string]bool         `json:"tried_prices"`
	Status              types.NegotiationStatus `json:"status"`
	History             []Offer                 `json:"history"`
	CreatedAt           time.Time               `json:"created_at"`
	ExpiresAt           time.Time               `json:"expires_at"`
}

// Offer is one proposed-price / decision exchange within a session
type Offer struct {
	Round         int                `json:"round"`
	ProposedPrice decimal.Decimal    `json:"proposed_price"`
	CounterPrice  *decimal.Decimal   `json:"counter_price,omitempty"`
	Decision      types.DecisionKind `json:"decision"`
	Timestamp     time.Time          `json:"timestamp"`
}

// New creates an open session with the floor at the post-promo base price
func New(productRef string, productType types.ProductType, basePriceAfterPromo decimal.Decimal, maxRounds int, ttl time.Duration) *NegotiationSession {
	now := time.Now().UTC()
	return &NegotiationSession{
		ID:                  types.GenerateUUIDWithPrefix(types.UUID_PREFIX_BARGAIN_SESSION),
		ProductRef:          productRef,
		ProductType:         productType,
		BasePriceAfterPromo: basePriceAfterPromo,
		CurrentFloor:        basePriceAfterPromo,
		Round:               0,
		MaxRounds:           maxRounds,
		TriedPrices:         make(map[string]bool),
		Status:              types.NegotiationStatusOpen,
		History:             make([]Offer, 0),
		CreatedAt:           now,
		ExpiresAt:           now.Add(ttl),
	}
}

// IsExpired reports whether the session's TTL has elapsed
func (s *NegotiationSession) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// PriceKey normalizes a price for tried-price deduplication
func PriceKey(price decimal.Decimal) string {
	return price.Round(2).String()
}

// HasTried reports whether the exact price was already proposed
func (s *NegotiationSession) HasTried(price decimal.Decimal) bool {
	return s.TriedPrices[PriceKey(price)]
}

// RecordTried adds a proposed price to the grow-only tried set
func (s *NegotiationSession) RecordTried(price decimal.Decimal) {
	if s.TriedPrices == nil {
		s.TriedPrices = make(map[string]bool)
	}
	s.TriedPrices[PriceKey(price)] = true
}

// AppendOffer records an exchange in the ordered history
func (s *NegotiationSession) AppendOffer(offer Offer) {
	s.History = append(s.History, offer)
}

// Copy returns a deep copy so callers cannot mutate stored state
func (s *NegotiationSession) Copy() *NegotiationSession {
	if s == nil {
		return nil
	}
	copied := *s
	copied.TriedPrices = make(map[string]bool, len(s.TriedPrices))
	for k, v := range s.TriedPrices {
		copied.TriedPrices[k] = v
	}
	copied.History = make([]Offer, len(s.History))
	copy(copied.History, s.History)
	return &copied
}
