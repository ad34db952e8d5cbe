package app

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"

	"makerbazaar/internal/domain"
)

// ResultTokenService signs match outcomes so external services (leaderboards,
// tournament brackets) can verify results without trusting the client.
type ResultTokenService struct {
	secret string
	issuer string
}

func NewResultTokenService(secret, issuer string) *ResultTokenService {
	return &ResultTokenService{secret: secret, issuer: issuer}
}

// GenerateToken returns an HS256-signed token for a finished match.
func (s *ResultTokenService) GenerateToken(g *domain.Game) (string, error) {
	if s == nil {
		return "", fmt.Errorf("result token service is nil")
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("result token config is incomplete")
	}
	if g == nil || g.Lifecycle != domain.LifecycleFinished {
		return "", ErrMatchNotFinished
	}

	claims := jwt.MapClaims{
		"iss":     s.issuer,
		"sub":     g.WinnerID,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
		"match":   g.ID,
		"victory": string(g.Victory),
		"round":   g.Round,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}
