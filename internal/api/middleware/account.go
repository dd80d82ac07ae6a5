package middleware

import (
	"context"
	"net/http"

	"sellsync/internal/logger"
	"sellsync/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountHeader identifies the seller account a request acts on. Session
// handling lives in front of this service.
const AccountHeader = "X-Account-ID"

const accountKey = "account_id"

type AccountStore interface {
	EnsureAccount(ctx context.Context, accountID string) (*models.Account, error)
}

// Account resolves the account from AccountHeader, creating it on first use.
func Account(store AccountStore, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader(AccountHeader))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		account, err := store.EnsureAccount(c.Request.Context(), id.String())
		if err != nil {
			logger.Error("Failed to load account %s: %v", id, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load account"})
			return
		}

		c.Set(accountKey, account.ID)
		c.Next()
	}
}

// AccountID returns the account resolved by Account.
func AccountID(c *gin.Context) string {
	return c.GetString(accountKey)
}
