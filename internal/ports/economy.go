package ports

import "context"

// WalletUpdate represents a single currency change for a user.
type WalletUpdate struct {
	UserID   string
	Amount   int64
	Metadata map[string]interface{}
}

// EconomyPort settles out-of-game currency. It is used once per match to
// pay the winner's prize.
type EconomyPort interface {
	// UpdateBalances applies each wallet change in order.
	UpdateBalances(ctx context.Context, updates []WalletUpdate) error
}
