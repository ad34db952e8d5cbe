package nakama

import (
	"context"
	"fmt"

	"makerbazaar/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// prizeCurrency is the wallet key the match prize is paid in.
const prizeCurrency = "coins"

// NakamaEconomyAdapter pays match prizes through Nakama's wallet API.
type NakamaEconomyAdapter struct {
	nk runtime.NakamaModule
}

func NewNakamaEconomyAdapter(nk runtime.NakamaModule) *NakamaEconomyAdapter {
	return &NakamaEconomyAdapter{nk: nk}
}

// UpdateBalances grants each prize as its own wallet update, skipping
// zero amounts. Updates are persisted on the user's wallet ledger.
func (a *NakamaEconomyAdapter) UpdateBalances(ctx context.Context, updates []ports.WalletUpdate) error {
	for _, u := range updates {
		if u.Amount == 0 {
			continue
		}
		changeset := map[string]int64{prizeCurrency: u.Amount}
		if _, _, err := a.nk.WalletUpdate(ctx, u.UserID, changeset, u.Metadata, true); err != nil {
			return fmt.Errorf("wallet update for user %s: %w", u.UserID, err)
		}
	}
	return nil
}
