package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/coachhub/coachhub/internal/domain/integration"
)

var (
	ErrUnsupported = errors.New("operation not supported by provider")
	// ErrRefreshRejected means the provider refused the refresh token itself.
	ErrRefreshRejected = errors.New("refresh token rejected")
	// ErrInvalidGrant means the grant was revoked and the user must reconnect.
	ErrInvalidGrant = errors.New("invalid_grant")
)

// Error is a non-2xx response from a provider API.
type Error struct {
	Provider   integration.Provider
	Op         string
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Provider, e.Op, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%s %s: %d: %s", e.Provider, e.Op, e.StatusCode, e.Message)
}

// Transient reports whether retrying the same request may succeed.
func (e *Error) Transient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsTransient classifies err for the retry policy: network failures, 5xx and
// 429 responses are transient. Context cancellation never is.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Transient()
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// StatusCode extracts the HTTP status from a provider error, or 0.
func StatusCode(err error) int {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.StatusCode
	}
	return 0
}
