package aiplayer

import (
	"makerbazaar/internal/app"
	"makerbazaar/internal/domain"
)

// Agent represents an autonomous stand-in player.
type Agent struct {
	ID       string
	Name     string
	Strategy Strategy
}

// NewAgent creates an agent with the default strategy.
func NewAgent(id, name string) *Agent {
	return &Agent{ID: id, Name: name, Strategy: &ShopkeeperStrategy{}}
}

// Act asks the agent for its next action given the current game state.
// An agent with no ledger in the game ends its turn.
func (a *Agent) Act(g *domain.Game) app.Action {
	p, ok := g.Players[a.ID]
	if !ok {
		return app.EndTurn{}
	}
	return a.Strategy.ChooseAction(g, p)
}
