package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	appErrors "github.com/aaravmahajanofficial/users-api/internal/errors"
	"github.com/aaravmahajanofficial/users-api/internal/utils/response"
)

func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				LoggerFromContext(r.Context()).Error("Panic recovered",
					slog.String("panic", fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
				response.Error(w, appErrors.InternalError("Internal server error"))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
