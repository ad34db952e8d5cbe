package nakama

import (
	"makerbazaar/internal/domain"
)

// Cell is one occupied market cell in a snapshot.
type Cell struct {
	Price      int             `json:"price"`
	Popularity int             `json:"popularity"`
	Product    *domain.Product `json:"product"`
}

// DesignSlot pairs a held design with its 1-based slot.
type DesignSlot struct {
	Slot   int           `json:"slot"`
	Design domain.Design `json:"design"`
}

// PlayerSnapshot is the full public state of one ledger.
type PlayerSnapshot struct {
	UserID        string            `json:"user_id"`
	Name          string            `json:"name"`
	Role          string            `json:"role"`
	Funds         int               `json:"funds"`
	Prestige      int               `json:"prestige"`
	ActionPoints  int               `json:"action_points"`
	ResaleHistory int               `json:"resale_history"`
	Designs       []DesignSlot      `json:"designs"`
	Inventory     []*domain.Product `json:"inventory"`
	Market        []Cell            `json:"market"`
}

// ManufacturerSnapshot mirrors the manufacturer automaton state.
type ManufacturerSnapshot struct {
	Market []Cell `json:"market"`
}

// ResellerSnapshot mirrors the reseller automaton state.
type ResellerSnapshot struct {
	Funds        int               `json:"funds"`
	PausedRounds int               `json:"paused_rounds"`
	Inventory    []*domain.Product `json:"inventory"`
	Market       []Cell            `json:"market"`
}

// MatchSnapshot is the serialized match state sent on OpSnapshot.
type MatchSnapshot struct {
	MatchID         string               `json:"match_id"`
	Lifecycle       string               `json:"lifecycle"`
	Round           int                  `json:"round"`
	Phase           string               `json:"phase"`
	CurrentTurnID   string               `json:"current_turn_id,omitempty"`
	Players         []PlayerSnapshot     `json:"players"`
	Pollution       map[string]int       `json:"pollution"`
	RegulationLevel int                  `json:"regulation_level"`
	Manufacturer    ManufacturerSnapshot `json:"manufacturer"`
	Reseller        ResellerSnapshot     `json:"reseller"`
	Trends          []domain.TrendRecord `json:"trends,omitempty"`
	WinnerID        string               `json:"winner_id,omitempty"`
	Victory         string               `json:"victory,omitempty"`
}

func gridCells(g *domain.Grid) []Cell {
	var out []Cell
	for _, l := range g.Listings() {
		out = append(out, Cell{Price: l.Price, Popularity: l.Popularity, Product: l.Product})
	}
	return out
}

// buildSnapshot serializes the whole match for clients.
func buildSnapshot(g *domain.Game) MatchSnapshot {
	snap := MatchSnapshot{
		MatchID:         g.ID,
		Lifecycle:       string(g.Lifecycle),
		Round:           g.Round,
		Phase:           string(g.Phase),
		RegulationLevel: g.RegulationLevel,
		Pollution:       make(map[string]int, len(g.Pollution)),
		Manufacturer:    ManufacturerSnapshot{Market: gridCells(&g.Manufacturer.Market)},
		Reseller: ResellerSnapshot{
			Funds:        g.Reseller.Funds,
			PausedRounds: g.Reseller.PausedRounds,
			Inventory:    g.Reseller.Inventory,
			Market:       gridCells(&g.Reseller.Market),
		},
		Trends:   g.Trends,
		WinnerID: g.WinnerID,
		Victory:  string(g.Victory),
	}

	for c, lvl := range g.Pollution {
		snap.Pollution[string(c)] = lvl
	}
	if p := g.CurrentPlayer(); p != nil {
		snap.CurrentTurnID = p.UserID
	}

	for _, p := range g.PlayersInOrder() {
		ps := PlayerSnapshot{
			UserID:        p.UserID,
			Name:          p.Name,
			Role:          string(p.Role),
			Funds:         p.Funds,
			Prestige:      p.Prestige,
			ActionPoints:  p.ActionPoints,
			ResaleHistory: p.ResaleHistory,
			Inventory:     p.Inventory,
			Market:        gridCells(&p.Market),
		}
		for i, d := range p.Designs {
			if d != nil {
				ps.Designs = append(ps.Designs, DesignSlot{Slot: i + 1, Design: *d})
			}
		}
		snap.Players = append(snap.Players, ps)
	}
	return snap
}
