package ebay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sellsync/internal/logger"
	"sellsync/internal/models"
	"sellsync/internal/repository"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// RefreshBuffer is how close to expiry a token is treated as already expired.
const RefreshBuffer = 5 * time.Minute

// CredentialStore persists the versioned credential of an account.
type CredentialStore interface {
	GetCredential(ctx context.Context, accountID string) (models.Credential, error)
	SwapCredential(ctx context.Context, accountID string, expectedVersion int64, cred models.Credential) error
	ClearCredential(ctx context.Context, accountID string, expectedVersion int64) error
}

// Refresher exchanges a refresh token for a new access token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// TokenManager hands out access tokens, refreshing them when they are close
// to expiry. Refreshes for the same account are collapsed into one call.
type TokenManager struct {
	store     CredentialStore
	refresher Refresher
	logger    *logger.Logger
	group     singleflight.Group
	now       func() time.Time
}

func NewTokenManager(store CredentialStore, refresher Refresher, logger *logger.Logger) *TokenManager {
	return &TokenManager{
		store:     store,
		refresher: refresher,
		logger:    logger,
		now:       time.Now,
	}
}

// ValidAccessToken returns a token usable for at least RefreshBuffer.
func (m *TokenManager) ValidAccessToken(ctx context.Context, accountID string) (string, error) {
	cred, err := m.load(ctx, accountID)
	if err != nil {
		return "", err
	}
	if !m.expired(cred) {
		return cred.AccessToken, nil
	}

	token, err, _ := m.group.Do(accountID, func() (interface{}, error) {
		return m.refresh(ctx, accountID)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (m *TokenManager) load(ctx context.Context, accountID string) (models.Credential, error) {
	cred, err := m.store.GetCredential(ctx, accountID)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return models.Credential{}, ErrNotConnected
	}
	if err != nil {
		return models.Credential{}, fmt.Errorf("failed to load credential: %w", err)
	}
	if !cred.Connected() {
		return models.Credential{}, ErrNotConnected
	}
	return cred, nil
}

func (m *TokenManager) expired(cred models.Credential) bool {
	if cred.ExpiresAt == nil {
		return true
	}
	return cred.ExpiresAt.Sub(m.now()) < RefreshBuffer
}

func (m *TokenManager) refresh(ctx context.Context, accountID string) (string, error) {
	// A caller that lost the race may arrive after the winner persisted.
	cred, err := m.load(ctx, accountID)
	if err != nil {
		return "", err
	}
	if !m.expired(cred) {
		return cred.AccessToken, nil
	}

	token, err := m.refresher.Refresh(ctx, cred.RefreshToken)
	if err != nil {
		m.logger.Warn("Token refresh failed for account %s: %v", accountID, err)
		if clearErr := m.store.ClearCredential(ctx, accountID, cred.Version); clearErr != nil {
			if errors.Is(clearErr, repository.ErrCredentialConflict) {
				return m.winner(ctx, accountID)
			}
			m.logger.Error("Failed to clear credential for account %s: %v", accountID, clearErr)
		}
		return "", fmt.Errorf("%w: %w: %v", ErrRefreshFailed, ErrNotConnected, err)
	}

	next := models.Credential{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    &token.Expiry,
	}
	if next.RefreshToken == "" {
		next.RefreshToken = cred.RefreshToken
	}

	if err := m.store.SwapCredential(ctx, accountID, cred.Version, next); err != nil {
		if errors.Is(err, repository.ErrCredentialConflict) {
			return m.winner(ctx, accountID)
		}
		return "", fmt.Errorf("failed to persist refreshed token: %w", err)
	}

	m.logger.Debug("Refreshed access token for account %s", accountID)
	return next.AccessToken, nil
}

// winner returns the token written by whoever beat us to the credential.
func (m *TokenManager) winner(ctx context.Context, accountID string) (string, error) {
	cred, err := m.load(ctx, accountID)
	if err != nil {
		return "", err
	}
	if m.expired(cred) {
		return "", fmt.Errorf("%w: credential changed concurrently", ErrRefreshFailed)
	}
	return cred.AccessToken, nil
}
