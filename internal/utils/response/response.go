package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aaravmahajanofficial/users-api/internal/errors"
	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.UGCPolicy()

func WriteJson(w http.ResponseWriter, statusCode int, data any) error {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func WriteHTML(w http.ResponseWriter, statusCode int, fragment string) error {

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err := w.Write([]byte(htmlPolicy.Sanitize(fragment)))
	return err
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error renders err as "<h1>{status} {message}</h1>" with an optional
// "<p>{detail}</p>". Errors that are not AppErrors become a 500.
func Error(w http.ResponseWriter, err error) {

	appErr, ok := errors.IsAppError(err)
	if !ok {
		appErr = errors.InternalError("Internal server error").WithError(err)
	}

	fragment := fmt.Sprintf("<h1>%d %s</h1>", appErr.StatusCode, appErr.Message)
	if appErr.Detail != "" {
		fragment += fmt.Sprintf("<p>%s</p>", appErr.Detail)
	}

	WriteHTML(w, appErr.StatusCode, fragment)
}
