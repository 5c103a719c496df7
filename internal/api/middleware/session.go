package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ndewijer/Stock-Research-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/auth"
)

// SessionVerifier verifies a session token and returns its user id.
type SessionVerifier interface {
	Verify(token string) (string, error)
}

// RequireSession rejects requests without a valid session token and stores the
// signed-in uid in the request context (see auth.UIDFromContext).
//
// The token is read from "Authorization: Bearer <token>", falling back to the
// token query parameter because browsers cannot set headers on WebSocket upgrades.
func RequireSession(sessions SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, err := sessions.Verify(sessionToken(r))
			if err != nil {
				msg := apperrors.ErrInvalidSession.Error()
				if errors.Is(err, apperrors.ErrMissingSession) {
					msg = apperrors.ErrMissingSession.Error()
				}
				response.RespondError(w, http.StatusUnauthorized, msg, nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUID(r.Context(), uid)))
		})
	}
}

func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return r.URL.Query().Get("token")
}
