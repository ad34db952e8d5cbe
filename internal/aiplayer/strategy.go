package aiplayer

import (
	"makerbazaar/internal/app"
	"makerbazaar/internal/domain"
)

// ShopkeeperStrategy runs a plain make-and-sell loop: keep a design on the
// board, manufacture what it can afford, list everything it holds and work
// odd jobs when the till runs dry.
type ShopkeeperStrategy struct{}

func (st *ShopkeeperStrategy) ChooseAction(g *domain.Game, p *domain.Player) app.Action {
	ap := p.ActionPoints
	if ap <= 0 {
		return app.EndTurn{}
	}

	// Price and list anything sitting in the inventory first.
	if len(p.Inventory) > 0 && ap >= 1 {
		product := p.Inventory[0]
		if product.IsResale() {
			// The service clamps to the regulated cap.
			return app.Resale{ProductID: product.ID, Price: product.PurchasePrice + 5}
		}
		if g.PollutionLevel(product.Category) < domain.PollutionSellCeiling {
			return app.Sell{ProductID: product.ID, Price: domain.PriceLimit(p.Prestige, product.Cost)}
		}
	}

	// Keep at least one design on the board.
	if bestSlot(p) == 0 {
		if p.FirstEmptySlot() != 0 && ap >= 2 {
			return app.DesignRoll{OpenSource: p.Prestige < 5}
		}
		return app.EndTurn{}
	}

	// Manufacture from the most valuable affordable design.
	if slot := affordableSlot(p); slot != 0 && ap >= 1 {
		return app.Manufacture{Slot: slot}
	}

	// Broke: work.
	if p.Funds <= 100 && ap >= 3 {
		return app.DayLabor{}
	}
	if ap >= 2 {
		return app.PartTimeJob{}
	}
	return app.EndTurn{}
}

// bestSlot returns the slot of any held design, preferring higher cost
// (higher sale ceiling), or 0 when the board is empty.
func bestSlot(p *domain.Player) int {
	best, bestCost := 0, -1
	for i, d := range p.Designs {
		if d != nil && d.Cost > bestCost {
			best, bestCost = i+1, d.Cost
		}
	}
	return best
}

// affordableSlot is bestSlot restricted to designs the player can pay for.
func affordableSlot(p *domain.Player) int {
	best, bestCost := 0, -1
	for i, d := range p.Designs {
		if d != nil && d.Cost <= p.Funds && d.Cost > bestCost {
			best, bestCost = i+1, d.Cost
		}
	}
	return best
}
