package hierarchy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/codeset/codeset/internal/platform/respond"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc := NewService(newDrugGraph())
	return NewHandler(svc), echo.New()
}

func postJSON(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/hierarchy", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_Resolve_Success(t *testing.T) {
	h, e := newTestHandler()
	c, rec := postJSON(e, `{"concept_id": 100}`)

	if err := h.Resolve(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var env struct {
		Success bool   `json:"success"`
		Data    []Node `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !env.Success {
		t.Error("expected success=true")
	}
	if len(env.Data) != 3 {
		t.Errorf("expected 3 nodes, got %d", len(env.Data))
	}
}

func TestHandler_Resolve_NotFound(t *testing.T) {
	h, e := newTestHandler()
	c, rec := postJSON(e, `{"concept_id": 424242}`)

	if err := h.Resolve(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	var env respond.Envelope
	json.Unmarshal(rec.Body.Bytes(), &env)
	if env.Success {
		t.Error("expected success=false")
	}
}

func TestHandler_Resolve_MissingID(t *testing.T) {
	h, e := newTestHandler()
	c, rec := postJSON(e, `{}`)

	if err := h.Resolve(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
