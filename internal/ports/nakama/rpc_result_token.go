package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"makerbazaar/internal/app"
	"makerbazaar/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

const resultTokenIssuer = "makerbazaar"

// ResultTokenRequest identifies the finished match a token is requested for.
type ResultTokenRequest struct {
	MatchID string `json:"match_id"`
}

// ResultTokenResponse carries the signed outcome token.
type ResultTokenResponse struct {
	Token string `json:"token"`
}

// rpcResultToken signs the stored outcome of a finished match so external
// services can verify it.
func rpcResultToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	var req ResultTokenRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.MatchID == "" {
		return "", fmt.Errorf("invalid payload, expected {\"match_id\": ...}")
	}

	secret := ""
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		secret = env["makerbazaar_result_token_secret"]
	}
	if secret == "" {
		logger.Error("rpcResultToken [User:%s]: makerbazaar_result_token_secret is not set", userID)
		return "", fmt.Errorf("result tokens are not configured")
	}

	result, err := NewNakamaResultStoreAdapter(nk).Load(ctx, req.MatchID)
	if err != nil {
		logger.Warn("rpcResultToken [User:%s]: %v", userID, err)
		return "", err
	}

	game := &domain.Game{
		ID:        result.MatchID,
		Lifecycle: domain.LifecycleFinished,
		Round:     result.Round,
		WinnerID:  result.WinnerID,
		Victory:   result.Victory,
	}
	token, err := app.NewResultTokenService(secret, resultTokenIssuer).GenerateToken(game)
	if err != nil {
		logger.Error("rpcResultToken [User:%s]: %v", userID, err)
		return "", err
	}

	b, _ := json.Marshal(ResultTokenResponse{Token: token})
	return string(b), nil
}
