package search

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codeset/codeset/internal/platform/respond"
)

// Handler exposes the search endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a search handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers search routes on the API group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/search", h.Search)
	api.POST("/labtest/search", h.LabTestSearch)
	api.POST("/labtest/panels", h.LabTestPanels)
}

// Search handles POST /api/v1/search.
func (h *Handler) Search(c echo.Context) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		return respond.FailWith(c, http.StatusBadRequest, "invalid request body")
	}
	results, err := h.svc.Search(c.Request().Context(), req.SearchTerm, req.DomainID)
	if err != nil {
		return respond.Fail(c, err)
	}
	if results == nil {
		results = []Result{}
	}
	return respond.OK(c, results)
}

// LabTestSearch handles POST /api/v1/labtest/search.
func (h *Handler) LabTestSearch(c echo.Context) error {
	var req LabTestRequest
	if err := c.Bind(&req); err != nil {
		return respond.FailWith(c, http.StatusBadRequest, "invalid request body")
	}
	results, err := h.svc.LabTestSearch(c.Request().Context(), req.SearchTerm)
	if err != nil {
		return respond.Fail(c, err)
	}
	if results == nil {
		results = []LabTestResult{}
	}
	return respond.OK(c, results)
}

// LabTestPanels handles POST /api/v1/labtest/panels.
func (h *Handler) LabTestPanels(c echo.Context) error {
	var req PanelRequest
	if err := c.Bind(&req); err != nil {
		return respond.FailWith(c, http.StatusBadRequest, "invalid request body")
	}
	results, err := h.svc.LabTestPanels(c.Request().Context(), req.LabTestConceptIDs)
	if err != nil {
		return respond.Fail(c, err)
	}
	if results == nil {
		results = []PanelResult{}
	}
	return respond.OK(c, results)
}
