package middleware

import (
	"encoding/json"
	"net/http"

	domainerrors "posterforge/internal/errors"
)

// failure is the JSON envelope every rejection written by this package uses.
type failure struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Code    domainerrors.Code `json:"code"`
}

func writeFailure(w http.ResponseWriter, e *domainerrors.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.HTTPStatus())
	_ = json.NewEncoder(w).Encode(failure{Error: e.Message, Code: e.Code})
}
