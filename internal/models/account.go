package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account owns every canonical record and carries the marketplace credential.
type Account struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Marketplace credential. Access and refresh tokens are both set or both empty.
	EbayUserID        *string    `json:"ebay_user_id"`
	EbayUsername      *string    `json:"ebay_username"`
	EbayAccessToken   *string    `json:"-"`
	EbayRefreshToken  *string    `json:"-"`
	EbayTokenExpiry   *time.Time `json:"ebay_token_expiry"`
	EbayConnectedAt   *time.Time `json:"ebay_connected_at"`
	CredentialVersion int64      `json:"-" gorm:"not null;default:0"`

	LastSync *time.Time `json:"last_sync"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// Credential is the versioned token triple read from an Account.
type Credential struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
	Username     string
	ConnectedAt  *time.Time
	Version      int64
}

// Connected reports whether a usable refresh token exists.
func (c Credential) Connected() bool {
	return c.AccessToken != "" && c.RefreshToken != ""
}

// CredentialOf extracts the credential fields from an account row.
func CredentialOf(a *Account) Credential {
	cred := Credential{
		ExpiresAt:   a.EbayTokenExpiry,
		ConnectedAt: a.EbayConnectedAt,
		Version:     a.CredentialVersion,
	}
	if a.EbayAccessToken != nil {
		cred.AccessToken = *a.EbayAccessToken
	}
	if a.EbayRefreshToken != nil {
		cred.RefreshToken = *a.EbayRefreshToken
	}
	if a.EbayUsername != nil {
		cred.Username = *a.EbayUsername
	}
	return cred
}
