package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	domainerrors "posterforge/internal/errors"
	"posterforge/pkg/logging/logging"
)

// Recoverer turns a panic into a logged 500 with the standard JSON envelope.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// Let net/http abort the connection as it normally would
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logging.L(r.Context()).Error("panic recovered",
					zap.Any("error", rec),
					zap.ByteString("stack", debug.Stack()),
				)
				writeFailure(w, domainerrors.Internal("Internal server error"))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
