package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"sellsync/internal/api/middleware"
	"sellsync/internal/config"
	"sellsync/internal/logger"
	"sellsync/internal/models"
	"sellsync/internal/repository"
	"sellsync/internal/services/ebay"

	"github.com/gin-gonic/gin"
)

// ProfileFetcher reads the marketplace identity of a connected account.
type ProfileFetcher interface {
	GetProfile(ctx context.Context, accountID string) (*ebay.Profile, error)
}

type EbayHandler struct {
	store    *repository.Store
	oauth    *ebay.OAuthService
	states   *ebay.StateSigner
	profiles ProfileFetcher
	config   *config.Config
	logger   *logger.Logger
}

func NewEbayHandler(store *repository.Store, oauth *ebay.OAuthService, states *ebay.StateSigner, profiles ProfileFetcher, cfg *config.Config, logger *logger.Logger) *EbayHandler {
	return &EbayHandler{
		store:    store,
		oauth:    oauth,
		states:   states,
		profiles: profiles,
		config:   cfg,
		logger:   logger,
	}
}

// Connect returns the consent URL the seller must visit.
func (h *EbayHandler) Connect(c *gin.Context) {
	if !h.config.EbayConfigured() {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "eBay API not configured. Please set EBAY_CLIENT_ID and EBAY_CLIENT_SECRET.",
		})
		return
	}

	state, err := h.states.Sign(middleware.AccountID(c))
	if err != nil {
		h.logger.Error("Failed to sign OAuth state: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate eBay connection"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"auth_url": h.oauth.AuthURL(state),
		"message":  "Redirect user to the auth_url to complete OAuth flow",
	})
}

// Callback completes the OAuth flow. The account comes from the signed state.
func (h *EbayHandler) Callback(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "eBay authorization denied: " + reason})
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameters"})
		return
	}

	accountID, err := h.states.Verify(state)
	if err != nil {
		h.logger.Warn("Rejected OAuth callback: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired state"})
		return
	}

	ctx := c.Request.Context()
	token, err := h.oauth.Exchange(ctx, code)
	if err != nil {
		h.logger.Error("Failed to exchange code for token: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to exchange authorization code"})
		return
	}

	cred := models.Credential{AccessToken: token.AccessToken, RefreshToken: token.RefreshToken}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		cred.ExpiresAt = &expiry
	}
	if err := h.store.SaveConnection(ctx, accountID, cred); err != nil {
		h.logger.Error("Failed to save eBay connection: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save eBay connection"})
		return
	}

	// The profile only decorates the connection; a failure here is not fatal.
	var username string
	if profile, err := h.profiles.GetProfile(ctx, accountID); err != nil {
		h.logger.Warn("Failed to fetch eBay profile for account %s: %v", accountID, err)
	} else {
		username = profile.Username
		if err := h.store.SaveProfile(ctx, accountID, profile.UserID, profile.Username); err != nil {
			h.logger.Warn("Failed to save eBay profile for account %s: %v", accountID, err)
		}
	}

	h.logger.Info("eBay account connected for account %s", accountID)
	c.JSON(http.StatusOK, gin.H{
		"message":  "eBay account connected successfully",
		"username": username,
	})
}

func (h *EbayHandler) Status(c *gin.Context) {
	account, err := h.store.GetAccount(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		h.logger.Error("Failed to get eBay status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get eBay status"})
		return
	}

	cred := models.CredentialOf(account)
	tokenExpired := cred.ExpiresAt != nil && cred.ExpiresAt.Before(time.Now())

	c.JSON(http.StatusOK, gin.H{
		"configured":    h.config.EbayConfigured(),
		"connected":     cred.Connected(),
		"token_expired": tokenExpired,
		"username":      account.EbayUsername,
		"connected_at":  account.EbayConnectedAt,
	})
}

func (h *EbayHandler) Disconnect(c *gin.Context) {
	err := h.store.Disconnect(c.Request.Context(), middleware.AccountID(c))
	if errors.Is(err, repository.ErrAccountNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to disconnect eBay: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to disconnect eBay account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "eBay account disconnected"})
}
