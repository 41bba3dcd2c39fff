package errors

import (
	stderrors "errors"
	"net/http"
)

// Authentication-specific error types
const (
	ErrorTypeTokenExpired     ErrorType = "token_expired"
	ErrorTypeTokenInvalid     ErrorType = "token_invalid"
	ErrorTypeSignatureInvalid ErrorType = "signature_invalid"
	ErrorTypeReauthRequired   ErrorType = "reauth_required"
)

// AuthError represents authentication-specific errors with security context
type AuthError struct {
	*AppError
	// SecurityEvent marks errors worth tracking (forged signatures, replayed tokens).
	SecurityEvent bool
}

// Error implements the error interface
func (e *AuthError) Error() string {
	return e.AppError.Error()
}

// Unwrap allows errors.Is and errors.As to work correctly
func (e *AuthError) Unwrap() error {
	return e.AppError
}

// NewTokenExpiredError creates an error for an expired session token
func NewTokenExpiredError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeTokenExpired,
			Message: "Session token has expired",
			Code:    http.StatusUnauthorized,
		},
	}
}

// NewTokenInvalidError creates an error for a malformed or forged session token
func NewTokenInvalidError(details ...string) *AuthError {
	appErr := newAppError(ErrorTypeTokenInvalid, http.StatusUnauthorized, "Invalid session token", details)
	return &AuthError{AppError: appErr, SecurityEvent: true}
}

// NewSignatureInvalidError is returned when a webhook signature does not verify
func NewSignatureInvalidError(details ...string) *AuthError {
	appErr := newAppError(ErrorTypeSignatureInvalid, http.StatusUnauthorized, "Invalid webhook signature", details)
	return &AuthError{AppError: appErr, SecurityEvent: true}
}

// NewReauthRequiredError is returned when a provider integration must be reconnected by the user
func NewReauthRequiredError(provider string) *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeReauthRequired,
			Message: "Calendar integration must be reconnected",
			Code:    http.StatusConflict,
			Details: provider,
		},
	}
}

// IsAuthError checks if the error is an AuthError
func IsAuthError(err error) bool {
	var authErr *AuthError
	return stderrors.As(err, &authErr)
}

// IsReauthRequired checks if a provider integration needs the user to reconnect
func IsReauthRequired(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeReauthRequired
}
