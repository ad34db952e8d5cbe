package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"makerbazaar/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const resultCollection = "match_results"

// NakamaResultStoreAdapter implements ports.ResultStorePort on top of
// Nakama's storage engine. Results are system-owned and publicly readable.
type NakamaResultStoreAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaResultStoreAdapter creates a new result store adapter.
func NewNakamaResultStoreAdapter(nk runtime.NakamaModule) *NakamaResultStoreAdapter {
	return &NakamaResultStoreAdapter{
		nk: nk,
	}
}

// Save writes the match outcome keyed by match id.
func (a *NakamaResultStoreAdapter) Save(ctx context.Context, result ports.MatchResult) error {
	value, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      resultCollection,
		Key:             result.MatchID,
		Value:           string(value),
		PermissionRead:  2,
		PermissionWrite: 0,
	}})
	if err != nil {
		return fmt.Errorf("failed to store result for match %s: %w", result.MatchID, err)
	}
	return nil
}

// Load reads a persisted match outcome.
func (a *NakamaResultStoreAdapter) Load(ctx context.Context, matchID string) (ports.MatchResult, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: resultCollection,
		Key:        matchID,
	}})
	if err != nil {
		return ports.MatchResult{}, fmt.Errorf("failed to read result for match %s: %w", matchID, err)
	}
	if len(objects) == 0 {
		return ports.MatchResult{}, fmt.Errorf("no result found for match %s", matchID)
	}

	var result ports.MatchResult
	if err := json.Unmarshal([]byte(objects[0].Value), &result); err != nil {
		return ports.MatchResult{}, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return result, nil
}
