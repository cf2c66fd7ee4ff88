package common

import (
	"encoding/json"
	"go-banner-api/logger"
	"net/http"

	"github.com/sirupsen/logrus"
)

// ErrorKind is a stable, machine-readable classification of an error.
// Clients can branch on it without parsing messages.
type ErrorKind string

const (
	KindMissingToken       ErrorKind = "MISSING_TOKEN"
	KindTokenRevoked       ErrorKind = "TOKEN_REVOKED"
	KindTokenExpired       ErrorKind = "TOKEN_EXPIRED"
	KindMalformedToken     ErrorKind = "MALFORMED_TOKEN"
	KindSubjectNotFound    ErrorKind = "SUBJECT_NOT_FOUND"
	KindUnauthenticated    ErrorKind = "UNAUTHENTICATED"
	KindForbidden          ErrorKind = "FORBIDDEN"
	KindInvalidCredentials ErrorKind = "INVALID_CREDENTIALS"
	KindDuplicateResource  ErrorKind = "DUPLICATE_RESOURCE"
	KindNotFound           ErrorKind = "NOT_FOUND"
	KindValidation         ErrorKind = "VALIDATION"
	KindInternal           ErrorKind = "INTERNAL"
)

type AppError struct {
	Code    int       `json:"code"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, kind ErrorKind, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		logger.Log.WithFields(logrus.Fields{
			"status_code":    e.Code,
			"kind":           e.Kind,
			"internal_error": e.Err.Error(),
		}).Error(e.Message)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Code)
	json.NewEncoder(w).Encode(e)
}
