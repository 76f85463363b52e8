package synergy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Cxsmxnaut/Gradely/internal/config"
	"github.com/Cxsmxnaut/Gradely/internal/logger"
	"github.com/Cxsmxnaut/Gradely/internal/model"
)

type authToken struct {
	token     string
	expiresAt time.Time
}

type authTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// AuthManager exchanges per-user upstream credentials for bearer tokens
// and caches them until shortly before expiry. Tokens are keyed by user
// since every student authenticates against their own district account.
type AuthManager struct {
	cfg    *config.Config
	client *http.Client
	tokens map[string]authToken
	mu     sync.RWMutex
	log    zerolog.Logger
}

func NewAuthManager(cfg *config.Config) *AuthManager {
	return &AuthManager{
		cfg: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens: make(map[string]authToken),
		log:    logger.With("synergy"),
	}
}

func (a *AuthManager) GetToken(ctx context.Context, creds model.Credentials) (string, error) {
	a.mu.RLock()
	cached, ok := a.tokens[creds.UserID]
	a.mu.RUnlock()
	if ok && time.Now().Before(cached.expiresAt.Add(-30*time.Second)) {
		return cached.token, nil
	}

	return a.refreshToken(ctx, creds)
}

func (a *AuthManager) Invalidate(userID string) {
	a.mu.Lock()
	delete(a.tokens, userID)
	a.mu.Unlock()
}

func (a *AuthManager) refreshToken(ctx context.Context, creds model.Credentials) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Double check after acquiring write lock
	if cached, ok := a.tokens[creds.UserID]; ok && time.Now().Before(cached.expiresAt.Add(-30*time.Second)) {
		return cached.token, nil
	}

	a.log.Debug().Str("user_id", creds.UserID).Msg("Refreshing upstream auth token")

	authData := map[string]string{
		"username": creds.Username,
		"password": creds.Password,
	}

	jsonData, err := json.Marshal(authData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal auth data: %w", err)
	}

	url := baseURL(a.cfg, creds) + a.cfg.Synergy.AuthEndpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create auth request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("auth failed with status: %d", resp.StatusCode)
	}

	var tokenResp authTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode auth response: %w", err)
	}

	expiresAt := time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	a.tokens[creds.UserID] = authToken{token: tokenResp.Token, expiresAt: expiresAt}

	a.log.Debug().Str("user_id", creds.UserID).Time("expires_at", expiresAt).Msg("Token refreshed successfully")

	return tokenResp.Token, nil
}

func baseURL(cfg *config.Config, creds model.Credentials) string {
	if creds.DistrictURL != "" {
		return creds.DistrictURL
	}
	return cfg.Synergy.DistrictURL
}
