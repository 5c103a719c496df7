package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ndewijer/Stock-Research-Backend/internal/api/middleware"
	"github.com/ndewijer/Stock-Research-Backend/internal/auth"
	"github.com/ndewijer/Stock-Research-Backend/internal/testutil"
)

func TestRequireSession(t *testing.T) {
	sessions, err := auth.NewSessionManager("", time.Hour)
	if err != nil {
		t.Fatalf("NewSessionManager() returned unexpected error: %v", err)
	}
	uid := testutil.MakeID()
	token, _, err := sessions.Issue(uid)
	if err != nil {
		t.Fatalf("Issue() returned unexpected error: %v", err)
	}

	var gotUID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID, _ = auth.UIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	mw := middleware.RequireSession(sessions)(next)

	t.Run("accepts bearer token", func(t *testing.T) {
		gotUID = ""
		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		mw.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if gotUID != uid {
			t.Errorf("Expected uid %s in context, got %s", uid, gotUID)
		}
	})

	t.Run("accepts token query parameter", func(t *testing.T) {
		gotUID = ""
		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/ws/chat", map[string]string{"token": token})
		w := httptest.NewRecorder()

		mw.ServeHTTP(w, req)

		if w.Code != http.StatusOK || gotUID != uid {
			t.Errorf("Expected 200 with uid, got %d and %q", w.Code, gotUID)
		}
	})

	t.Run("rejects missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		w := httptest.NewRecorder()

		mw.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})

	t.Run("rejects token from another key", func(t *testing.T) {
		other, _ := auth.NewSessionManager("", time.Hour)
		foreign, _, _ := other.Issue(uid)

		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		req.Header.Set("Authorization", "Bearer "+foreign)
		w := httptest.NewRecorder()

		mw.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})
}
