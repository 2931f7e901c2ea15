package umls

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/codeset/codeset/internal/platform/cache"
)

func postJSON(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/umls/search", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_Search_EmptyTerm(t *testing.T) {
	h := NewHandler(NewClient("key", cache.NewMemory(), zerolog.Nop()))
	c, rec := postJSON(echo.New(), `{"search_term": "  "}`)

	if err := h.Search(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_Search_NotConfigured(t *testing.T) {
	h := NewHandler(NewClient("", cache.NewMemory(), zerolog.Nop()))
	c, rec := postJSON(echo.New(), `{"search_term": "diabetes"}`)

	if err := h.Search(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
}

func TestHandler_Search_Success(t *testing.T) {
	cas := newCASServer("ST-123")
	defer cas.srv.Close()
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(searchPayload(map[string]any{
			"ui": "E11.9", "name": "Type 2 diabetes mellitus", "rootSource": "ICD10CM",
		}))
	}))
	defer search.Close()

	h := NewHandler(newTestClient(cas.srv.URL, search.URL))
	c, rec := postJSON(echo.New(), `{"search_term": "diabetes"}`)

	if err := h.Search(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"E11.9"`) {
		t.Errorf("expected result in body, got %s", rec.Body.String())
	}
}
