package types

// ProductType identifies the travel vertical a price belongs to
type ProductType string

const (
	ProductTypeFlight      ProductType = "flight"
	ProductTypeHotel       ProductType = "hotel"
	ProductTypePackage     ProductType = "package"
	ProductTypeTransfer    ProductType = "transfer"
	ProductTypeSightseeing ProductType = "sightseeing"
)

func (p ProductType) Validate() bool {
	switch p {
	case ProductTypeFlight, ProductTypeHotel, ProductTypePackage,
		ProductTypeTransfer, ProductTypeSightseeing:
		return true
	}
	return false
}

func (p ProductType) String() string {
	return string(p)
}

// NegotiationStatus is the lifecycle state of a bargain session
type NegotiationStatus string

const (
	NegotiationStatusOpen      NegotiationStatus = "open"
	NegotiationStatusCountered NegotiationStatus = "countered"
	NegotiationStatusAccepted  NegotiationStatus = "accepted"
	NegotiationStatusRejected  NegotiationStatus = "rejected"
	NegotiationStatusExpired   NegotiationStatus = "expired"
)

func (s NegotiationStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further offers are accepted in this state
func (s NegotiationStatus) IsTerminal() bool {
	switch s {
	case NegotiationStatusAccepted, NegotiationStatusRejected, NegotiationStatusExpired:
		return true
	}
	return false
}

// DecisionKind is the outcome of a single concession policy evaluation
type DecisionKind string

const (
	DecisionAccept  DecisionKind = "accept"
	DecisionCounter DecisionKind = "counter"
	DecisionReject  DecisionKind = "reject"
)

func (d DecisionKind) String() string {
	return string(d)
}

// PromoKind is the discount strategy of a promo code
type PromoKind string

const (
	// PromoKindPercentage applies a percentage of the base price
	PromoKindPercentage PromoKind = "percentage"
	// PromoKindFlat applies a fixed amount capped at the base price
	PromoKindFlat PromoKind = "flat"
)

func (k PromoKind) Validate() bool {
	switch k {
	case PromoKindPercentage, PromoKindFlat:
		return true
	}
	return false
}
