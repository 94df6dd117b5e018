package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	appCtx "github.com/baechuer/task-manager/internal/pkg/context"
)

const HeaderXRequestID = "X-Request-Id"

// inbound ids longer than this are replaced
const maxRequestIDLen = 128

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := strings.TrimSpace(r.Header.Get(HeaderXRequestID))
		if reqID == "" || len(reqID) > maxRequestIDLen {
			reqID = uuid.NewString()
		}

		w.Header().Set(HeaderXRequestID, reqID)
		next.ServeHTTP(w, r.WithContext(appCtx.WithRequestID(r.Context(), reqID)))
	})
}
