package response

import (
	"errors"
	"net/http"

	"github.com/baechuer/task-manager/internal/domain"
	"github.com/baechuer/task-manager/internal/logger"
)

// ErrorBody is the wire shape of every failure: {"message", "error"?}.
type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// WriteError converts an error into a JSON HTTP error response.
// Internal and upstream failures echo their cause in "error"; non-domain
// errors are reported as internal.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		de = domain.ErrInternal(err)
	}
	status := statusFromKind(de.Kind)

	body := ErrorBody{Message: de.Message}
	if (de.Kind == domain.KindInternal || de.Kind == domain.KindUpstream) && de.Cause != nil {
		body.Error = de.Cause.Error()
	}

	if status >= http.StatusInternalServerError {
		logger.WithCtx(r.Context()).Error().
			Err(err).
			Str("code", de.Code).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}

	WriteJSON(w, status, body)
}

// statusFromKind maps domain error kinds to HTTP status codes.
func statusFromKind(kind domain.ErrKind) int {
	switch kind {
	case domain.KindValidation, domain.KindConflict:
		return http.StatusBadRequest
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	case domain.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
