package common

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func ValidateAndDecode(w http.ResponseWriter, r *http.Request, payload interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		NewAppError(http.StatusBadRequest, KindValidation, "Invalid request body", nil).Send(w)
		return false
	}

	return ValidateStruct(w, payload)
}

// ValidateStruct runs struct validation only. Used for multipart requests
// where the payload is assembled from form fields rather than a JSON body.
func ValidateStruct(w http.ResponseWriter, payload interface{}) bool {
	if err := validate.Struct(payload); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		NewAppError(http.StatusBadRequest, KindValidation, validationErrors.Error(), nil).Send(w)
		return false
	}

	return true
}
