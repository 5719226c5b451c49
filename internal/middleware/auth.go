package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vikasavnish/tradedesk/internal/models"
)

const bearerPrefix = "Bearer "

// WriteGate rejects requests that do not carry "Authorization: Bearer
// <secret>". With no secret configured every request is refused with 500.
func WriteGate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				zerolog.Ctx(r.Context()).Error().Msg("write rejected: API_SECRET is not set")
				writeError(w, http.StatusInternalServerError, "API_SECRET not configured")
				return
			}

			authorizationHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authorizationHeader, bearerPrefix) {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			token := strings.TrimPrefix(authorizationHeader, bearerPrefix)
			if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{Error: message})
}
