package domain

// Lifecycle represents the lifecycle stage of a Maker Bazaar match.
type Lifecycle string

const (
	// LifecycleWaiting is the pre-game state where players can join.
	LifecycleWaiting Lifecycle = "waiting"
	// LifecyclePlaying is the active game state.
	LifecyclePlaying Lifecycle = "playing"
	// LifecycleFinished is the state after a player has won.
	LifecycleFinished Lifecycle = "finished"
)

// TurnPhase is the repeating phase cycle within a round.
type TurnPhase string

const (
	// PhaseAction is the phase where players spend action points.
	PhaseAction TurnPhase = "action"
	// PhaseAutomata is the phase where the two market automata act.
	PhaseAutomata TurnPhase = "automata"
	// PhaseMarket is the demand-resolution phase closing a round.
	PhaseMarket TurnPhase = "market"
)

// Reserved actor IDs for the two market automata.
const (
	ManufacturerID = "automata:manufacturer"
	ResellerID     = "automata:reseller"
)

// VictoryType identifies how a match was won.
type VictoryType string

const (
	VictoryNone     VictoryType = ""
	VictoryPrestige VictoryType = "prestige"
	VictoryFunds    VictoryType = "funds"
)

// ManufacturerState is the grid-only state of the manufacturer automaton.
// The manufacturer has unbounded funds, so none are tracked.
type ManufacturerState struct {
	Market Grid
}

// ResellerState holds the bounded-funds reseller automaton.
type ResellerState struct {
	Funds        int
	Inventory    []*Product
	Market       Grid
	PausedRounds int
}

// TrendRecord is one applied trend effect, kept for the snapshot log.
type TrendRecord struct {
	Round   int    `json:"round"`
	Roll    int    `json:"roll"`
	Name    string `json:"name"`
	ActorID string `json:"actor_id"`
	// Fizzled is set when the effect had a funds cost the actor could not pay.
	Fizzled bool `json:"fizzled,omitempty"`
}

// Game holds the authoritative state for a single match instance.
// It is mutated exclusively by the app service; the Nakama port only
// reads it for snapshots.
type Game struct {
	ID        string
	Lifecycle Lifecycle

	Round int
	Phase TurnPhase

	// TurnOrder lists player IDs in seating order; Turn indexes into it.
	TurnOrder []string
	Turn      int

	Players map[string]*Player

	Pollution       map[Category]int
	RegulationLevel int

	Manufacturer ManufacturerState
	Reseller     ResellerState

	Trends []TrendRecord

	WinnerID string
	Victory  VictoryType
}

// NewGame creates an empty match in the waiting lifecycle.
func NewGame(id string) *Game {
	return &Game{
		ID:        id,
		Lifecycle: LifecycleWaiting,
		Round:     1,
		Phase:     PhaseAction,
		Players:   make(map[string]*Player),
		Pollution: make(map[Category]int),
	}
}

// CurrentPlayer returns the ledger holding the turn, or nil outside the
// action phase or before the match starts.
func (g *Game) CurrentPlayer() *Player {
	if g.Lifecycle != LifecyclePlaying || g.Phase != PhaseAction {
		return nil
	}
	if g.Turn < 0 || g.Turn >= len(g.TurnOrder) {
		return nil
	}
	return g.Players[g.TurnOrder[g.Turn]]
}

// PlayersInOrder returns ledgers in turn order.
func (g *Game) PlayersInOrder() []*Player {
	out := make([]*Player, 0, len(g.TurnOrder))
	for _, id := range g.TurnOrder {
		if p, ok := g.Players[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// PollutionLevel returns the pollution counter for a category.
func (g *Game) PollutionLevel(c Category) int {
	return g.Pollution[c]
}
