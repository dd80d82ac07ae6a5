package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sellsync/internal/models"

	"gorm.io/gorm"
)

// EnsureAccount returns the account, creating an empty one on first sight.
func (s *Store) EnsureAccount(ctx context.Context, accountID string) (*models.Account, error) {
	account := models.Account{ID: accountID}
	if err := s.db.WithContext(ctx).Where("id = ?", accountID).FirstOrCreate(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to ensure account: %w", err)
	}
	return &account, nil
}

func (s *Store) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	var account models.Account
	err := s.db.WithContext(ctx).First(&account, "id = ?", accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}
	return &account, nil
}

// GetCredential reads the versioned credential of an account.
func (s *Store) GetCredential(ctx context.Context, accountID string) (models.Credential, error) {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return models.Credential{}, err
	}
	return models.CredentialOf(account), nil
}

// SwapCredential stores new tokens only if the stored version still equals
// expectedVersion. The version is incremented on success.
func (s *Store) SwapCredential(ctx context.Context, accountID string, expectedVersion int64, cred models.Credential) error {
	updates := map[string]interface{}{
		"ebay_access_token":  cred.AccessToken,
		"ebay_refresh_token": cred.RefreshToken,
		"ebay_token_expiry":  cred.ExpiresAt,
		"credential_version": gorm.Expr("credential_version + 1"),
	}
	return s.casUpdate(ctx, accountID, expectedVersion, updates)
}

// ClearCredential wipes the token triple if the version still matches.
func (s *Store) ClearCredential(ctx context.Context, accountID string, expectedVersion int64) error {
	updates := map[string]interface{}{
		"ebay_access_token":  nil,
		"ebay_refresh_token": nil,
		"ebay_token_expiry":  nil,
		"credential_version": gorm.Expr("credential_version + 1"),
	}
	return s.casUpdate(ctx, accountID, expectedVersion, updates)
}

func (s *Store) casUpdate(ctx context.Context, accountID string, expectedVersion int64, updates map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ? AND credential_version = ?", accountID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update credential: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetAccount(ctx, accountID); err != nil {
			return err
		}
		return ErrCredentialConflict
	}
	return nil
}

// SaveConnection stores the tokens obtained from an authorization-code
// exchange, regardless of the current version.
func (s *Store) SaveConnection(ctx context.Context, accountID string, cred models.Credential) error {
	if _, err := s.EnsureAccount(ctx, accountID); err != nil {
		return err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"ebay_access_token":  cred.AccessToken,
		"ebay_refresh_token": cred.RefreshToken,
		"ebay_token_expiry":  cred.ExpiresAt,
		"ebay_connected_at":  now,
		"credential_version": gorm.Expr("credential_version + 1"),
	}
	if cred.Username != "" {
		updates["ebay_username"] = cred.Username
	}

	err := s.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", accountID).Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to save connection: %w", err)
	}
	return nil
}

// SaveProfile records the marketplace identity of a connected account.
func (s *Store) SaveProfile(ctx context.Context, accountID, externalUserID, username string) error {
	updates := map[string]interface{}{}
	if externalUserID != "" {
		updates["ebay_user_id"] = externalUserID
	}
	if username != "" {
		updates["ebay_username"] = username
	}
	if len(updates) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", accountID).Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// Disconnect clears every marketplace field of the account.
func (s *Store) Disconnect(ctx context.Context, accountID string) error {
	updates := map[string]interface{}{
		"ebay_user_id":       nil,
		"ebay_username":      nil,
		"ebay_access_token":  nil,
		"ebay_refresh_token": nil,
		"ebay_token_expiry":  nil,
		"ebay_connected_at":  nil,
		"credential_version": gorm.Expr("credential_version + 1"),
	}
	res := s.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", accountID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to disconnect account: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}
