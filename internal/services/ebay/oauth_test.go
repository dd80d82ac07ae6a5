package ebay

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"sellsync/internal/config"
	"sellsync/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOAuth(t *testing.T, handler http.HandlerFunc) *OAuthService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc := NewOAuthService(config.EbayConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "https://app.example.com/callback",
		TokenURL:     server.URL + "/token",
		AuthURL:      "https://auth.example.com/authorize",
	}, logger.Nop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestOAuthService_AuthURL(t *testing.T) {
	svc := newTestOAuth(t, func(w http.ResponseWriter, r *http.Request) {})

	raw := svc.AuthURL("signed-state")

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "auth.example.com", parsed.Host)
	q := parsed.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "https://app.example.com/callback", q.Get("redirect_uri"))
	assert.Equal(t, "signed-state", q.Get("state"))
	assert.Equal(t, strings.Join(DefaultScopes, " "), q.Get("scope"))
}

func TestOAuthService_Refresh(t *testing.T) {
	svc := newTestOAuth(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)

		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "refresh-1", r.PostForm.Get("refresh_token"))
		assert.NotEmpty(t, r.PostForm.Get("scope"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"access-2","expires_in":7200,"token_type":"User Access Token"}`))
	})

	token, err := svc.Refresh(context.Background(), "refresh-1")

	require.NoError(t, err)
	assert.Equal(t, "access-2", token.AccessToken)
	assert.Empty(t, token.RefreshToken)
	assert.Equal(t, fixedNow.Add(2*time.Hour), token.Expiry)
}

func TestOAuthService_RefreshRejected(t *testing.T) {
	svc := newTestOAuth(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	})

	_, err := svc.Refresh(context.Background(), "refresh-1")

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusBadRequest, upstream.StatusCode)
}

func TestOAuthService_Exchange(t *testing.T) {
	svc := newTestOAuth(t, func(w http.ResponseWriter, r *http.Request) {
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client-id", user)

		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "code-1", r.PostForm.Get("code"))
		assert.Equal(t, "https://app.example.com/callback", r.PostForm.Get("redirect_uri"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"access-1","refresh_token":"refresh-1","expires_in":7200,"token_type":"User Access Token"}`))
	})

	token, err := svc.Exchange(context.Background(), "code-1")

	require.NoError(t, err)
	assert.Equal(t, "access-1", token.AccessToken)
	assert.Equal(t, "refresh-1", token.RefreshToken)
	assert.False(t, token.Expiry.IsZero())
}

func TestEndpointsFor_Sandbox(t *testing.T) {
	ep := EndpointsFor(config.EbayConfig{Sandbox: true})

	assert.Equal(t, sandboxAuthURL, ep.AuthURL)
	assert.Equal(t, sandboxTokenURL, ep.TokenURL)
	assert.Equal(t, sandboxAPIURL, ep.APIBaseURL)
	assert.Equal(t, "EBAY_US", ep.MarketplaceID)
	assert.Equal(t, DefaultScopes, ep.Scopes)
}
