package app

import (
	"fmt"

	"makerbazaar/internal/config"
	"makerbazaar/internal/dice"
	"makerbazaar/internal/domain"
)

// Limits on match membership.
const (
	MinPlayersToStart = 2
	MaxPlayers        = 4
)

// Service contains the Maker Bazaar use-cases operating on domain state.
// It processes exactly one request at a time per match; callers must not
// interleave calls for the same Game.
type Service struct {
	dice   *dice.Roller
	tuning config.Tuning
	nextID func() string
}

// NewService constructs a Service. A nil roller gets a time-seeded default.
func NewService(roller *dice.Roller, tuning config.Tuning, idGen func() string) *Service {
	if roller == nil {
		roller = dice.NewRoller(nil)
	}
	if idGen == nil {
		idGen = defaultIDGen()
	}
	return &Service{dice: roller, tuning: tuning, nextID: idGen}
}

func defaultIDGen() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("p%06d", n)
	}
}

// NewMatch creates an empty waiting match.
func (s *Service) NewMatch(id string) *domain.Game {
	return domain.NewGame(id)
}

// AddPlayer joins a ledger into a waiting match.
func (s *Service) AddPlayer(g *domain.Game, userID, name string, role domain.Role) (*domain.Player, error) {
	if g.Lifecycle != domain.LifecycleWaiting {
		return nil, ErrNotWaiting
	}
	if len(g.TurnOrder) >= MaxPlayers {
		return nil, ErrMatchFull
	}
	if _, ok := g.Players[userID]; ok {
		return g.Players[userID], nil
	}
	p := domain.NewPlayer(userID, name, role,
		s.tuning.StartingFunds, s.tuning.StartingPrestige, s.tuning.ActionPointsPerRound)
	g.Players[userID] = p
	g.TurnOrder = append(g.TurnOrder, userID)
	return p, nil
}

// RemovePlayer drops a ledger from the match on disconnect.
func (s *Service) RemovePlayer(g *domain.Game, userID string) {
	if _, ok := g.Players[userID]; !ok {
		return
	}
	delete(g.Players, userID)
	for i, id := range g.TurnOrder {
		if id == userID {
			g.TurnOrder = append(g.TurnOrder[:i], g.TurnOrder[i+1:]...)
			if g.Turn > i {
				g.Turn--
			}
			break
		}
	}
	if len(g.TurnOrder) > 0 && g.Turn >= len(g.TurnOrder) {
		g.Turn = 0
	}
}

// StartMatch moves a waiting match into play.
func (s *Service) StartMatch(g *domain.Game) ([]Event, error) {
	if g.Lifecycle != domain.LifecycleWaiting {
		return nil, ErrNotWaiting
	}
	if len(g.TurnOrder) < MinPlayersToStart {
		return nil, ErrTooFewPlayers
	}

	g.Lifecycle = domain.LifecyclePlaying
	g.Round = 1
	g.Phase = domain.PhaseAction
	g.Turn = 0
	g.Reseller.Funds = s.tuning.ResellerFundsCap
	for _, p := range g.Players {
		p.ActionPoints = s.tuning.ActionPointsPerRound
	}

	return []Event{{
		Kind: EventMatchStarted,
		Payload: MatchStartedPayload{
			Round:       g.Round,
			TurnOrder:   append([]string(nil), g.TurnOrder...),
			FirstTurnID: g.TurnOrder[0],
		},
	}}, nil
}

// NextActorIsAutomated reports whether the current turn belongs to an
// AI-controlled ledger. The caller schedules that ledger's actions as
// discrete requests; the engine never self-schedules.
func (s *Service) NextActorIsAutomated(g *domain.Game) (string, bool) {
	p := g.CurrentPlayer()
	if p == nil {
		return "", false
	}
	return p.UserID, p.Role == domain.RoleAI
}

// Apply validates and executes one catalog action for the given actor.
// On any error the game state is unchanged.
func (s *Service) Apply(g *domain.Game, actorID string, a Action) ([]Event, error) {
	if g.Lifecycle == domain.LifecycleFinished {
		return nil, ErrMatchFinished
	}
	if g.Lifecycle != domain.LifecyclePlaying || g.Phase != domain.PhaseAction {
		return nil, ErrWrongPhase
	}
	if g.Turn < 0 || g.Turn >= len(g.TurnOrder) {
		return nil, fmt.Errorf("%w: turn index %d outside order of %d", ErrCorruptState, g.Turn, len(g.TurnOrder))
	}
	if g.TurnOrder[g.Turn] != actorID {
		return nil, ErrNotYourTurn
	}
	p := g.Players[actorID]
	if p == nil {
		return nil, fmt.Errorf("%w: turn holder %s has no ledger", ErrCorruptState, actorID)
	}

	cost := actionCost(a)
	if cost < 0 {
		return nil, ErrUnknownAction
	}
	if p.ActionPoints < cost {
		return nil, ErrInsufficientActionPoints
	}

	detail, err := s.execute(g, p, a)
	if err != nil {
		return nil, err
	}
	p.ActionPoints -= cost

	events := []Event{{
		Kind: EventActionApplied,
		Payload: ActionAppliedPayload{
			ActorID:          actorID,
			Action:           a.Kind(),
			ActionPointsLeft: p.ActionPoints,
			Detail:           detail,
		},
	}}

	// Victory check runs after every successful player action.
	if vt, won := domain.CheckVictory(p); won {
		g.Lifecycle = domain.LifecycleFinished
		g.WinnerID = p.UserID
		g.Victory = vt
		events = append(events, Event{
			Kind:    EventMatchEnded,
			Payload: MatchEndedPayload{WinnerID: p.UserID, Victory: vt, Round: g.Round},
		})
		return events, nil
	}

	if p.ActionPoints == 0 {
		events = append(events, s.advance(g)...)
	}
	return events, nil
}

// execute dispatches to the per-variant handler. Handlers validate every
// precondition before mutating anything.
func (s *Service) execute(g *domain.Game, p *domain.Player, a Action) (any, error) {
	switch act := a.(type) {
	case Manufacture:
		return s.applyManufacture(g, p, act)
	case Sell:
		return s.applySell(g, p, act)
	case Purchase:
		return s.applyPurchase(g, p, act)
	case Review:
		return s.applyReview(g, p, act)
	case DesignRoll:
		return s.applyDesign(g, p, act)
	case PartTimeJob:
		p.Funds += 5
		return IncomeDetail{Earned: 5, Funds: p.Funds}, nil
	case DayLabor:
		if p.Funds > 100 {
			return nil, fmt.Errorf("%w: day labor requires funds at or below 100", ErrPreconditionFailed)
		}
		p.Funds += 18
		return IncomeDetail{Earned: 18, Funds: p.Funds}, nil
	case Buyback:
		return s.applyBuyback(g, p, act)
	case EndSale:
		return s.applyEndSale(g, p, act)
	case PromoteRegulation:
		return s.applyPromoteRegulation(g, p)
	case TrendResearch:
		return s.applyTrendResearch(g, p)
	case Resale:
		return s.applyResale(g, p, act)
	case EndTurn:
		p.ActionPoints = 0
		return EndTurnDetail{}, nil
	default:
		return nil, ErrUnknownAction
	}
}

// advance moves the turn forward; when the last player's turn closes it
// runs the automata and market phases synchronously and opens a new round.
func (s *Service) advance(g *domain.Game) []Event {
	g.Turn++
	if g.Turn < len(g.TurnOrder) {
		return []Event{{
			Kind:    EventTurnAdvanced,
			Payload: TurnAdvancedPayload{NextID: g.TurnOrder[g.Turn]},
		}}
	}

	var events []Event

	g.Phase = domain.PhaseAutomata
	manOut := s.runManufacturer(g)
	resOut := s.runReseller(g)
	events = append(events, Event{
		Kind:    EventAutomataPhase,
		Payload: AutomataPhasePayload{Manufacturer: manOut, Reseller: resOut},
	})

	g.Phase = domain.PhaseMarket
	demand, cleared := s.clearMarket(g)
	events = append(events, Event{
		Kind:    EventMarketPhase,
		Payload: MarketPhasePayload{DemandValue: demand, Cleared: cleared},
	})

	// Next round: action phase, fresh action points, reseller replenished.
	g.Round++
	g.Phase = domain.PhaseAction
	g.Turn = 0
	for _, p := range g.Players {
		p.ActionPoints = s.tuning.ActionPointsPerRound
	}
	if g.Reseller.Funds < s.tuning.ResellerFundsCap {
		g.Reseller.Funds = s.tuning.ResellerFundsCap
	}

	events = append(events,
		Event{Kind: EventRoundStarted, Payload: RoundStartedPayload{Round: g.Round}},
		Event{Kind: EventTurnAdvanced, Payload: TurnAdvancedPayload{NextID: g.TurnOrder[0]}},
	)
	return events
}

// sellerGrid resolves a seller ID to its market grid. The player pointer is
// nil for automata sellers.
func (s *Service) sellerGrid(g *domain.Game, sellerID string) (*domain.Grid, *domain.Player, error) {
	switch sellerID {
	case domain.ManufacturerID:
		return &g.Manufacturer.Market, nil, nil
	case domain.ResellerID:
		return &g.Reseller.Market, nil, nil
	default:
		p := g.Players[sellerID]
		if p == nil {
			return nil, nil, fmt.Errorf("%w: seller %s", ErrEntityNotFound, sellerID)
		}
		return &p.Market, p, nil
	}
}
