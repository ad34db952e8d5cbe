// Package aiplayer provides AI stand-in players that fill empty seats and
// take regular turns through the same action catalog as humans.
package aiplayer

import (
	"makerbazaar/internal/app"
	"makerbazaar/internal/domain"
)

// Strategy picks one catalog action for the AI's ledger. The match handler
// submits it as a normal request, so a strategy never mutates state itself.
type Strategy interface {
	ChooseAction(g *domain.Game, p *domain.Player) app.Action
}
