package app

import "makerbazaar/internal/domain"

// EventKind identifies emitted engine events for port dispatch.
type EventKind string

const (
	EventMatchStarted  EventKind = "match_started"
	EventActionApplied EventKind = "action_applied"
	EventTurnAdvanced  EventKind = "turn_advanced"
	EventAutomataPhase EventKind = "automata_phase"
	EventMarketPhase   EventKind = "market_phase"
	EventRoundStarted  EventKind = "round_started"
	EventMatchEnded    EventKind = "match_ended"
)

// Event is an engine event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type MatchStartedPayload struct {
	Round       int      `json:"round"`
	TurnOrder   []string `json:"turn_order"`
	FirstTurnID string   `json:"first_turn_id"`
}

// ActionAppliedPayload reports one successful catalog action.
type ActionAppliedPayload struct {
	ActorID          string     `json:"actor_id"`
	Action           ActionKind `json:"action"`
	ActionPointsLeft int        `json:"action_points_left"`
	Detail           any        `json:"detail,omitempty"`
}

type TurnAdvancedPayload struct {
	NextID string `json:"next_id"`
}

// AutomataPhasePayload is the phase summary for the transport layer.
type AutomataPhasePayload struct {
	Manufacturer ManufacturerOutcome `json:"manufacturer"`
	Reseller     ResellerOutcome     `json:"reseller"`
}

// MarketPhasePayload reports the demand roll and cleared sales.
type MarketPhasePayload struct {
	DemandValue int           `json:"demand_value"`
	Cleared     []ClearedSale `json:"cleared"`
}

// ClearedSale is one product sold during market resolution.
type ClearedSale struct {
	SellerID   string `json:"seller_id"`
	ProductID  string `json:"product_id"`
	Price      int    `json:"price"`
	Popularity int    `json:"popularity"`
}

type RoundStartedPayload struct {
	Round int `json:"round"`
}

type MatchEndedPayload struct {
	WinnerID string             `json:"winner_id"`
	Victory  domain.VictoryType `json:"victory"`
	Round    int                `json:"round"`
}

// Per-action detail payloads carried inside ActionAppliedPayload.

type ManufactureDetail struct {
	Product *domain.Product `json:"product"`
	Funds   int             `json:"funds"`
}

type SellDetail struct {
	ProductID   string `json:"product_id"`
	AskedPrice  int    `json:"asked_price"`
	ListedPrice int    `json:"listed_price"`
	Popularity  int    `json:"popularity"`
	Penalty     int    `json:"penalty"`
}

type PurchaseDetail struct {
	SellerID  string `json:"seller_id"`
	ProductID string `json:"product_id"`
	Price     int    `json:"price"`
	Funds     int    `json:"funds"`
}

type ReviewDetail struct {
	SellerID      string `json:"seller_id"`
	ProductID     string `json:"product_id"`
	NewPopularity int    `json:"new_popularity"`
	Outsourced    bool   `json:"outsourced,omitempty"`
	FeePaid       int    `json:"fee_paid,omitempty"`
	Detected      bool   `json:"detected,omitempty"`
}

type DesignDetail struct {
	Slot   int           `json:"slot"`
	Design domain.Design `json:"design"`
}

type IncomeDetail struct {
	Earned int `json:"earned"`
	Funds  int `json:"funds"`
}

type BuybackDetail struct {
	ProductID string `json:"product_id"`
}

type EndSaleDetail struct {
	Slot int `json:"slot"`
}

type RegulationDetail struct {
	Roll     int  `json:"roll"`
	Promoted bool `json:"promoted"`
	Level    int  `json:"level"`
	// Confiscated counts resale items removed when level 3 was reached.
	Confiscated int `json:"confiscated,omitempty"`
}

type TrendDetail struct {
	Roll    int    `json:"roll"`
	Name    string `json:"name"`
	Fizzled bool   `json:"fizzled,omitempty"`
}

type ResaleDetail struct {
	ProductID   string `json:"product_id"`
	AskedPrice  int    `json:"asked_price"`
	ListedPrice int    `json:"listed_price"`
	Cap         int    `json:"cap"`
}

type EndTurnDetail struct{}
