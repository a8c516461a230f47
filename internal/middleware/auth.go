package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"finance/internal/auth"
)

type contextKey string

const userIDKey contextKey = "user_id"

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// WithUserID stores userID the way Auth does. Used by tests and internal callers.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Auth accepts a bearer token from the Authorization header. Websocket
// upgrades cannot set headers from a browser, so a "token" query parameter is
// accepted for those requests only.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, code := bearerToken(r)
			if code != "" {
				writeError(w, http.StatusUnauthorized, code)
				return
			}
			claims, err := auth.ParseToken(secret, raw)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid_token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
		})
	}
}

func bearerToken(r *http.Request) (string, string) {
	header := r.Header.Get("Authorization")
	if header == "" {
		if isWebsocketUpgrade(r) {
			if token := r.URL.Query().Get("token"); token != "" {
				return token, ""
			}
		}
		return "", "missing_authorization"
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", "invalid_authorization"
	}
	return strings.TrimSpace(parts[1]), ""
}

func isWebsocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
