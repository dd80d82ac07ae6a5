package ebay

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected means the account has no usable marketplace credential.
	ErrNotConnected = errors.New("marketplace account not connected")

	// ErrRefreshFailed is returned, together with ErrNotConnected, when the
	// refresh token was rejected and the credential has been cleared.
	ErrRefreshFailed = errors.New("token refresh failed")
)

// UpstreamError is a non-2xx response from the marketplace.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("API request failed: %d - %s", e.StatusCode, e.Body)
}
