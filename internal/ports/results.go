package ports

import (
	"context"
	"time"

	"makerbazaar/internal/domain"
)

// MatchResult is the persisted outcome of a finished match.
type MatchResult struct {
	MatchID    string             `json:"match_id"`
	WinnerID   string             `json:"winner_id"`
	Victory    domain.VictoryType `json:"victory"`
	Round      int                `json:"round"`
	FinishedAt time.Time          `json:"finished_at"`
}

// ResultStorePort persists match outcomes so they can be read after the
// match handler has shut down.
type ResultStorePort interface {
	Save(ctx context.Context, result MatchResult) error
	Load(ctx context.Context, matchID string) (MatchResult, error)
}
