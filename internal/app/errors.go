package app

import "errors"

// Recoverable rule errors. The orchestrator guarantees state is untouched
// when any of these is returned.
var (
	ErrNotYourTurn              = errors.New("actor does not hold the turn")
	ErrWrongPhase               = errors.New("action not allowed in current phase")
	ErrUnknownAction            = errors.New("unknown action type")
	ErrInsufficientActionPoints = errors.New("not enough action points")
	ErrInsufficientFunds        = errors.New("not enough funds")
	ErrInsufficientPrestige     = errors.New("not enough prestige")
	ErrSlotOccupied             = errors.New("slot or cell already occupied")
	ErrEntityNotFound           = errors.New("design, product or player not found")
	ErrPreconditionFailed       = errors.New("action precondition failed")
)

// Lobby errors surfaced through the match port.
var (
	ErrNotOwner         = errors.New("actor is not match owner")
	ErrNotWaiting       = errors.New("match already started")
	ErrTooFewPlayers    = errors.New("not enough players to start")
	ErrMatchFull        = errors.New("match is full")
	ErrMatchFinished    = errors.New("match already finished")
	ErrMatchNotFinished = errors.New("match has no result yet")
)

// ErrCorruptState signals a detected invariant violation. It is fatal for
// the match and must not be swallowed at the request boundary.
var ErrCorruptState = errors.New("corrupt match state")

// ErrorKind maps a rule error to its stable wire identifier.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, ErrWrongPhase):
		return "wrong_phase"
	case errors.Is(err, ErrUnknownAction):
		return "unknown_action"
	case errors.Is(err, ErrInsufficientActionPoints):
		return "insufficient_action_points"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrInsufficientPrestige):
		return "insufficient_prestige"
	case errors.Is(err, ErrSlotOccupied):
		return "slot_occupied"
	case errors.Is(err, ErrEntityNotFound):
		return "entity_not_found"
	case errors.Is(err, ErrPreconditionFailed):
		return "precondition_failed"
	case errors.Is(err, ErrNotOwner):
		return "not_owner"
	case errors.Is(err, ErrNotWaiting):
		return "match_already_started"
	case errors.Is(err, ErrTooFewPlayers):
		return "too_few_players"
	case errors.Is(err, ErrMatchFull):
		return "match_full"
	case errors.Is(err, ErrMatchFinished):
		return "match_finished"
	case errors.Is(err, ErrMatchNotFinished):
		return "match_not_finished"
	case errors.Is(err, ErrCorruptState):
		return "corrupt_state"
	default:
		return "internal"
	}
}
