// file: service/errors.go

package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for the authentication and authorization flow. The handler
// layer maps these to stable error kinds and HTTP status codes; anything not
// in this list is treated as an infrastructure failure.
var (
	ErrMissingToken    = errors.New("no token supplied")
	ErrTokenRevoked    = errors.New("token has been revoked")
	ErrTokenExpired    = errors.New("token has expired")
	ErrMalformedToken  = errors.New("token is malformed or has an invalid signature")
	ErrSubjectNotFound = errors.New("token subject no longer exists")

	ErrUnauthenticated = errors.New("no authenticated user")
	ErrForbidden       = errors.New("insufficient privileges")
	// ErrSelfDelete wraps ErrForbidden: same status, distinct reason.
	ErrSelfDelete = fmt.Errorf("%w: admins may not delete their own account", ErrForbidden)

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrBannerNotFound     = errors.New("banner not found")

	ErrNotAnImage   = errors.New("only image files are allowed")
	ErrFileTooLarge = errors.New("file exceeds the maximum allowed size")
)
