package handler

import (
	"errors"
	"net/http"

	"go-banner-api/common"
	"go-banner-api/repository"
	"go-banner-api/service"
)

func ErrorHandlingMiddleware(next func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}

// appErrorFrom translates service and repository errors into the stable
// HTTP-facing taxonomy. Anything unrecognized is an infrastructure failure:
// logged with its cause, surfaced to the caller as a generic 503.
func appErrorFrom(err error, fallbackMessage string) *common.AppError {
	switch {
	case errors.Is(err, service.ErrMissingToken):
		return common.NewAppError(http.StatusUnauthorized, common.KindMissingToken, "Not authorized, no token", nil)
	case errors.Is(err, service.ErrTokenRevoked):
		return common.NewAppError(http.StatusUnauthorized, common.KindTokenRevoked, "Not authorized, token has been logged out", nil)
	case errors.Is(err, service.ErrTokenExpired):
		return common.NewAppError(http.StatusUnauthorized, common.KindTokenExpired, "Not authorized, token expired", nil)
	case errors.Is(err, service.ErrMalformedToken):
		return common.NewAppError(http.StatusUnauthorized, common.KindMalformedToken, "Not authorized, invalid token", nil)
	case errors.Is(err, service.ErrSubjectNotFound):
		return common.NewAppError(http.StatusUnauthorized, common.KindSubjectNotFound, "Not authorized, account no longer exists", nil)
	case errors.Is(err, service.ErrUnauthenticated):
		return common.NewAppError(http.StatusUnauthorized, common.KindUnauthenticated, "Not authorized, user not found in request", nil)
	case errors.Is(err, service.ErrSelfDelete):
		return common.NewAppError(http.StatusForbidden, common.KindForbidden, "Admins may not delete their own account", nil)
	case errors.Is(err, service.ErrForbidden):
		return common.NewAppError(http.StatusForbidden, common.KindForbidden, "Access denied", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		return common.NewAppError(http.StatusUnauthorized, common.KindInvalidCredentials, "Invalid email or password", nil)
	case errors.Is(err, repository.ErrDuplicate):
		return common.NewAppError(http.StatusBadRequest, common.KindDuplicateResource, "User with that username or email already exists", nil)
	case errors.Is(err, service.ErrUserNotFound):
		return common.NewAppError(http.StatusNotFound, common.KindNotFound, "User not found", nil)
	case errors.Is(err, service.ErrBannerNotFound):
		return common.NewAppError(http.StatusNotFound, common.KindNotFound, "Banner not found", nil)
	case errors.Is(err, service.ErrNotAnImage):
		return common.NewAppError(http.StatusBadRequest, common.KindValidation, "Only image files are allowed", nil)
	case errors.Is(err, service.ErrFileTooLarge):
		return common.NewAppError(http.StatusBadRequest, common.KindValidation, "File exceeds the maximum allowed size", nil)
	default:
		return common.NewAppError(http.StatusServiceUnavailable, common.KindInternal, fallbackMessage, err)
	}
}
