package app

import "makerbazaar/internal/domain"

// ActionKind names every catalog action on the wire and in events.
type ActionKind string

const (
	KindManufacture       ActionKind = "manufacture"
	KindSell              ActionKind = "sell"
	KindPurchase          ActionKind = "purchase"
	KindReview            ActionKind = "review"
	KindDesign            ActionKind = "design"
	KindPartTimeJob       ActionKind = "part_time_job"
	KindDayLabor          ActionKind = "day_labor"
	KindBuyback           ActionKind = "buyback"
	KindEndSale           ActionKind = "end_sale"
	KindPromoteRegulation ActionKind = "promote_regulation"
	KindTrendResearch     ActionKind = "trend_research"
	KindResale            ActionKind = "resale"
	KindEndTurn           ActionKind = "end_turn"
)

// Action is the closed set of player moves. Adding a variant requires
// touching the cost table and the dispatch switch, keeping the catalog
// compile-time checked.
type Action interface {
	Kind() ActionKind
	isAction()
}

// Manufacture builds one product from the design in Slot (1-based).
type Manufacture struct {
	Slot int
}

// Sell lists an inventory product at the requested price.
type Sell struct {
	ProductID string
	Price     int
}

// Purchase buys the product listed at a cell of another seller's market.
// SellerID may be a player ID or one of the automata IDs.
type Purchase struct {
	SellerID   string
	Price      int
	Popularity int
}

// Review shifts the popularity of a listed product by one step.
// Outsource pays a rolled fee instead of using the reviewer's own voice,
// with a detection risk.
type Review struct {
	SellerID   string
	Price      int
	Popularity int
	Positive   bool
	Outsource  bool
}

// DesignRoll rolls a new design into a slot. Slot 0 means the first free
// slot; an empty Category is rolled on the category die.
type DesignRoll struct {
	Slot       int
	Category   domain.Category
	OpenSource bool
}

// PartTimeJob earns a small fixed income.
type PartTimeJob struct{}

// DayLabor earns a larger income, gated by a funds ceiling.
type DayLabor struct{}

// Buyback pulls one of the player's own listed products back to inventory.
type Buyback struct {
	Price      int
	Popularity int
}

// EndSale retires the design in Slot once no matching products remain.
type EndSale struct {
	Slot int
}

// PromoteRegulation lobbies for stricter market rules on a 2d6 roll.
type PromoteRegulation struct{}

// TrendResearch rolls 3d6 on the trend table.
type TrendResearch struct{}

// Resale relists a previously purchased product at a regulated price.
type Resale struct {
	ProductID string
	Price     int
}

// EndTurn forfeits the remaining action points.
type EndTurn struct{}

func (Manufacture) Kind() ActionKind       { return KindManufacture }
func (Sell) Kind() ActionKind              { return KindSell }
func (Purchase) Kind() ActionKind          { return KindPurchase }
func (Review) Kind() ActionKind            { return KindReview }
func (DesignRoll) Kind() ActionKind        { return KindDesign }
func (PartTimeJob) Kind() ActionKind       { return KindPartTimeJob }
func (DayLabor) Kind() ActionKind          { return KindDayLabor }
func (Buyback) Kind() ActionKind           { return KindBuyback }
func (EndSale) Kind() ActionKind           { return KindEndSale }
func (PromoteRegulation) Kind() ActionKind { return KindPromoteRegulation }
func (TrendResearch) Kind() ActionKind     { return KindTrendResearch }
func (Resale) Kind() ActionKind            { return KindResale }
func (EndTurn) Kind() ActionKind           { return KindEndTurn }

func (Manufacture) isAction()       {}
func (Sell) isAction()              {}
func (Purchase) isAction()          {}
func (Review) isAction()            {}
func (DesignRoll) isAction()        {}
func (PartTimeJob) isAction()       {}
func (DayLabor) isAction()          {}
func (Buyback) isAction()           {}
func (EndSale) isAction()           {}
func (PromoteRegulation) isAction() {}
func (TrendResearch) isAction()     {}
func (Resale) isAction()            {}
func (EndTurn) isAction()           {}

// actionCost is the action-point price of each catalog entry.
func actionCost(a Action) int {
	switch a.(type) {
	case Manufacture, Sell, Purchase, Review, Buyback, EndSale, Resale:
		return 1
	case DesignRoll, PartTimeJob, PromoteRegulation, TrendResearch:
		return 2
	case DayLabor:
		return 3
	case EndTurn:
		return 0
	default:
		return -1
	}
}
