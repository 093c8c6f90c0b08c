package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"showgrounds/paddock/internal/constants"
	"showgrounds/paddock/internal/logging"
	"showgrounds/paddock/internal/models/dtos/responses"
)

// AuthMiddleware checks `Authorization: Bearer <secret>` on every request.
// An empty secret turns the check off.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	if secret == "" {
		logging.Warn("API_SECRET_KEY is empty, API authentication disabled")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				logging.Warn("Rejected request with invalid API key",
					"endpoint", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				writeError(w, http.StatusUnauthorized, constants.MsgInvalidAPIKey)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}

// writeError answers with the same envelope the api package uses; middleware
// cannot import api without a cycle through routes.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	resp := responses.APIResponse[any]{
		Status:    constants.APIStatusError,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}
