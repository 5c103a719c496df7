package handlers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/testutil"
)

var (
	errLLMDown     = fmt.Errorf("%w: connection reset", apperrors.ErrLLMRequest)
	errFinanceDown = fmt.Errorf("%w: status 503", apperrors.ErrFinanceAPI)
)

// newUploadRequest builds a signed-in multipart request carrying content in the given field.
func newUploadRequest(t *testing.T, path, field, content, uid string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		part, err := mw.CreateFormFile(field, "trades.csv")
		if err != nil {
			t.Fatalf("CreateFormFile() returned unexpected error: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("Write() returned unexpected error: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Close() returned unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return testutil.WithUID(req, uid)
}
