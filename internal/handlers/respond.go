package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	domainerrors "posterforge/internal/errors"
	"posterforge/pkg/logging/logging"
)

// failureResponse is the body of every non-2xx answer.
type failureResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Code    domainerrors.Code `json:"code"`
	Details any               `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to its HTTP status and the failure envelope. Internal
// causes are logged but never echoed to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	de := domainerrors.From(err)
	status := de.HTTPStatus()

	logger := logging.L(r.Context())
	fields := []zap.Field{zap.String("code", string(de.Code)), zap.Int("status", status), zap.Error(err)}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", fields...)
	} else {
		logger.Warn("request rejected", fields...)
	}

	writeJSON(w, status, failureResponse{
		Error:   de.Message,
		Code:    de.Code,
		Details: de.Details,
	})
}

// decodeJSON reads the request body into dst. An empty body leaves dst at its
// zero value.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return domainerrors.Validationf("request body exceeds %d bytes", tooLarge.Limit)
	}
	return domainerrors.Wrap(err, domainerrors.CodeValidation, "request body is not valid JSON")
}
