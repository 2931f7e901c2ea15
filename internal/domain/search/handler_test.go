package search

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	repo := newMockRepo()
	seedDrugConcepts(repo)
	return NewHandler(NewService(repo)), echo.New()
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_Search_Success(t *testing.T) {
	h, e := newTestHandler()
	c, rec := postJSON(e, "/api/v1/search", `{"searchterm": "ritonavir", "domain_id": "Drug"}`)

	if err := h.Search(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var env struct {
		Success bool     `json:"success"`
		Data    []Result `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !env.Success || len(env.Data) == 0 {
		t.Fatalf("expected results, got %+v", env)
	}
	if env.Data[0].SearchedVocabulary == "" {
		t.Errorf("missing searched_vocabulary in %+v", env.Data[0])
	}
}

func TestHandler_Search_ShortTerm(t *testing.T) {
	h, e := newTestHandler()
	c, rec := postJSON(e, "/api/v1/search", `{"searchterm": "r", "domain_id": "Drug"}`)

	if err := h.Search(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_Search_MalformedBody(t *testing.T) {
	h, e := newTestHandler()
	c, rec := postJSON(e, "/api/v1/search", `{"searchterm": 42}`)

	if err := h.Search(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_Search_NoMatchesReturnsEmptyList(t *testing.T) {
	h, e := newTestHandler()
	c, rec := postJSON(e, "/api/v1/search", `{"searchterm": "zzzzzz", "domain_id": "Drug"}`)

	if err := h.Search(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Errorf("expected empty data array, got %s", rec.Body.String())
	}
}

func TestHandler_LabTestPanels_EmptyIDs(t *testing.T) {
	h, e := newTestHandler()
	c, rec := postJSON(e, "/api/v1/labtest/panels", `{"lab_test_concept_ids": []}`)

	if err := h.LabTestPanels(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
