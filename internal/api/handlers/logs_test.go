package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ndewijer/Stock-Research-Backend/internal/model"
	"github.com/ndewijer/Stock-Research-Backend/internal/testutil"
)

func TestLogHandler_PruneLogs(t *testing.T) {
	t.Run("deletes entries before the cutoff", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewLogHandler(testutil.NewTestActivityService(t, db))
		uid := testutil.MakeID()

		testutil.CreateActivity(t, db, uid, model.ActionSearch, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC))
		testutil.CreateActivity(t, db, uid, model.ActionSearch, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

		req := testutil.NewRequestWithQueryParams(http.MethodDelete, "/api/internal/logs", map[string]string{"before": "2024-01-01"})
		w := httptest.NewRecorder()

		handler.PruneLogs(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp PruneResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&resp)

		if resp.Deleted != 1 {
			t.Errorf("Expected 1 deleted entry, got %d", resp.Deleted)
		}
		if n := testutil.CountRows(t, db, "user_log"); n != 1 {
			t.Errorf("Expected 1 remaining entry, got %d", n)
		}
	})

	t.Run("returns 400 without before", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewLogHandler(testutil.NewTestActivityService(t, db))

		w := httptest.NewRecorder()
		handler.PruneLogs(w, httptest.NewRequest(http.MethodDelete, "/api/internal/logs", nil))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}
