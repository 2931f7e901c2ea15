package hierarchy

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codeset/codeset/internal/platform/respond"
)

// Handler exposes the hierarchy endpoint.
type Handler struct {
	svc *Service
}

// NewHandler creates a hierarchy handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers hierarchy routes on the API group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/hierarchy", h.Resolve)
}

// Resolve handles POST /api/v1/hierarchy.
func (h *Handler) Resolve(c echo.Context) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		return respond.FailWith(c, http.StatusBadRequest, "invalid request body")
	}
	nodes, err := h.svc.Resolve(c.Request().Context(), req.ConceptID)
	if err != nil {
		return respond.Fail(c, err)
	}
	if nodes == nil {
		nodes = []Node{}
	}
	return respond.OK(c, nodes)
}
