package codeset

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codeset/codeset/internal/platform/respond"
)

// Handler exposes the code-set build endpoint.
type Handler struct {
	svc *Service
}

// NewHandler creates a code-set handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers code-set routes on the API group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/codeset", h.Build)
}

// Build handles POST /api/v1/codeset.
func (h *Handler) Build(c echo.Context) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		return respond.FailWith(c, http.StatusBadRequest, "invalid request body")
	}
	rows, err := h.svc.Build(c.Request().Context(), req.ConceptIDs, req.ComboFilter, req.BuildType)
	if err != nil {
		return respond.Fail(c, err)
	}
	if rows == nil {
		rows = []Row{}
	}
	return respond.OK(c, rows)
}
