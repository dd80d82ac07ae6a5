package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrAccountNotFound is returned when the account row does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrCredentialConflict is returned when a compare-and-swap on the
	// credential lost against a concurrent writer.
	ErrCredentialConflict = errors.New("credential was modified concurrently")
)

// Store is the gorm-backed persistence used by sync, import and the HTTP layer.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *gorm.DB {
	return s.db
}
