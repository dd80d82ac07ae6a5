package ebay

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"sellsync/internal/logger"
	"sellsync/internal/models"
	"sellsync/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type memoryCredentials struct {
	mu     sync.Mutex
	creds  map[string]models.Credential
	onSwap func(accountID string)
}

func newMemoryCredentials() *memoryCredentials {
	return &memoryCredentials{creds: map[string]models.Credential{}}
}

func (m *memoryCredentials) put(accountID string, cred models.Credential) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds[accountID] = cred
}

func (m *memoryCredentials) get(accountID string) models.Credential {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds[accountID]
}

func (m *memoryCredentials) GetCredential(ctx context.Context, accountID string) (models.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cred, ok := m.creds[accountID]
	if !ok {
		return models.Credential{}, repository.ErrAccountNotFound
	}
	return cred, nil
}

func (m *memoryCredentials) SwapCredential(ctx context.Context, accountID string, expectedVersion int64, cred models.Credential) error {
	if m.onSwap != nil {
		m.onSwap(accountID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	current := m.creds[accountID]
	if current.Version != expectedVersion {
		return repository.ErrCredentialConflict
	}
	cred.Version = current.Version + 1
	m.creds[accountID] = cred
	return nil
}

func (m *memoryCredentials) ClearCredential(ctx context.Context, accountID string, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current := m.creds[accountID]
	if current.Version != expectedVersion {
		return repository.ErrCredentialConflict
	}
	m.creds[accountID] = models.Credential{Version: current.Version + 1}
	return nil
}

type fakeRefresher struct {
	calls atomic.Int32
	delay time.Duration
	token *oauth2.Token
	err   error
}

func (f *fakeRefresher) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.token, nil
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestManager(store CredentialStore, refresher Refresher) *TokenManager {
	m := NewTokenManager(store, refresher, logger.Nop())
	m.now = func() time.Time { return fixedNow }
	return m
}

func connected(access, refresh string, expiresIn time.Duration) models.Credential {
	expiry := fixedNow.Add(expiresIn)
	return models.Credential{AccessToken: access, RefreshToken: refresh, ExpiresAt: &expiry, Version: 3}
}

func TestValidAccessToken_FreshTokenSkipsRefresh(t *testing.T) {
	store := newMemoryCredentials()
	store.put("acct", connected("access-1", "refresh-1", 6*time.Minute))
	refresher := &fakeRefresher{}

	token, err := newTestManager(store, refresher).ValidAccessToken(context.Background(), "acct")

	require.NoError(t, err)
	assert.Equal(t, "access-1", token)
	assert.Equal(t, int32(0), refresher.calls.Load())
}

func TestValidAccessToken_RefreshesInsideBuffer(t *testing.T) {
	store := newMemoryCredentials()
	store.put("acct", connected("access-1", "refresh-1", 4*time.Minute))
	refresher := &fakeRefresher{token: &oauth2.Token{
		AccessToken:  "access-2",
		RefreshToken: "refresh-2",
		Expiry:       fixedNow.Add(2 * time.Hour),
	}}

	token, err := newTestManager(store, refresher).ValidAccessToken(context.Background(), "acct")

	require.NoError(t, err)
	assert.Equal(t, "access-2", token)
	assert.Equal(t, int32(1), refresher.calls.Load())

	stored := store.get("acct")
	assert.Equal(t, "access-2", stored.AccessToken)
	assert.Equal(t, "refresh-2", stored.RefreshToken)
	assert.Equal(t, fixedNow.Add(2*time.Hour), *stored.ExpiresAt)
	assert.Equal(t, int64(4), stored.Version)
}

func TestValidAccessToken_KeepsRefreshTokenWhenNotRotated(t *testing.T) {
	store := newMemoryCredentials()
	store.put("acct", connected("access-1", "refresh-1", -time.Minute))
	refresher := &fakeRefresher{token: &oauth2.Token{AccessToken: "access-2", Expiry: fixedNow.Add(time.Hour)}}

	_, err := newTestManager(store, refresher).ValidAccessToken(context.Background(), "acct")

	require.NoError(t, err)
	assert.Equal(t, "refresh-1", store.get("acct").RefreshToken)
}

func TestValidAccessToken_MissingExpiryIsExpired(t *testing.T) {
	store := newMemoryCredentials()
	store.put("acct", models.Credential{AccessToken: "a", RefreshToken: "r"})
	refresher := &fakeRefresher{token: &oauth2.Token{AccessToken: "access-2", Expiry: fixedNow.Add(time.Hour)}}

	token, err := newTestManager(store, refresher).ValidAccessToken(context.Background(), "acct")

	require.NoError(t, err)
	assert.Equal(t, "access-2", token)
}

func TestValidAccessToken_NotConnected(t *testing.T) {
	store := newMemoryCredentials()
	store.put("empty", models.Credential{})
	m := newTestManager(store, &fakeRefresher{})

	_, err := m.ValidAccessToken(context.Background(), "empty")
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = m.ValidAccessToken(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestValidAccessToken_RefreshFailureClearsCredential(t *testing.T) {
	store := newMemoryCredentials()
	store.put("acct", connected("access-1", "refresh-1", time.Minute))
	refresher := &fakeRefresher{err: &UpstreamError{StatusCode: 400, Body: `{"error":"invalid_grant"}`}}
	m := newTestManager(store, refresher)

	_, err := m.ValidAccessToken(context.Background(), "acct")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRefreshFailed)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.False(t, store.get("acct").Connected())

	// The next call fails fast without another refresh attempt.
	_, err = m.ValidAccessToken(context.Background(), "acct")
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Equal(t, int32(1), refresher.calls.Load())
}

func TestValidAccessToken_ConflictReturnsWinnerToken(t *testing.T) {
	store := newMemoryCredentials()
	store.put("acct", connected("access-1", "refresh-1", time.Minute))
	store.onSwap = func(accountID string) {
		// Another process persists its refresh first.
		store.put(accountID, models.Credential{
			AccessToken:  "winner",
			RefreshToken: "refresh-w",
			ExpiresAt:    ptrTime(fixedNow.Add(time.Hour)),
			Version:      9,
		})
	}
	refresher := &fakeRefresher{token: &oauth2.Token{AccessToken: "loser", Expiry: fixedNow.Add(time.Hour)}}

	token, err := newTestManager(store, refresher).ValidAccessToken(context.Background(), "acct")

	require.NoError(t, err)
	assert.Equal(t, "winner", token)
	assert.Equal(t, "winner", store.get("acct").AccessToken)
}

func TestValidAccessToken_ConcurrentCallersShareRefresh(t *testing.T) {
	store := newMemoryCredentials()
	store.put("acct", connected("access-1", "refresh-1", time.Minute))
	refresher := &fakeRefresher{
		delay: 50 * time.Millisecond,
		token: &oauth2.Token{AccessToken: "access-2", RefreshToken: "refresh-2", Expiry: fixedNow.Add(time.Hour)},
	}
	m := newTestManager(store, refresher)

	var wg sync.WaitGroup
	tokens := make([]string, 8)
	errs := make([]error, 8)
	for i := range tokens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = m.ValidAccessToken(context.Background(), "acct")
		}(i)
	}
	wg.Wait()

	for i := range tokens {
		require.NoError(t, errs[i])
		assert.Equal(t, "access-2", tokens[i])
	}
	assert.Equal(t, int32(1), refresher.calls.Load())
}

func TestValidAccessToken_StoreErrorIsNotNotConnected(t *testing.T) {
	m := newTestManager(failingStore{}, &fakeRefresher{})

	_, err := m.ValidAccessToken(context.Background(), "acct")

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotConnected))
}

type failingStore struct{}

func (failingStore) GetCredential(context.Context, string) (models.Credential, error) {
	return models.Credential{}, errors.New("connection refused")
}

func (failingStore) SwapCredential(context.Context, string, int64, models.Credential) error {
	return nil
}

func (failingStore) ClearCredential(context.Context, string, int64) error {
	return nil
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
