package savedset

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/codeset/codeset/internal/platform/auth"
	"github.com/codeset/codeset/internal/platform/respond"
)

// Handler exposes the saved code set endpoints. Routes require auth.
type Handler struct {
	svc *Service
}

// NewHandler creates a saved set handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers saved set routes on the (authenticated) group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/codesets", h.Save)
	api.GET("/codesets", h.List)
	api.GET("/codesets/:id", h.Get)
	api.DELETE("/codesets/:id", h.Delete)
}

// Save handles POST /api/v1/codesets.
func (h *Handler) Save(c echo.Context) error {
	var req SaveRequest
	if err := c.Bind(&req); err != nil {
		return respond.FailWith(c, http.StatusBadRequest, "invalid request body")
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	set, err := h.svc.Save(c.Request().Context(), userID, req)
	if err != nil {
		return respond.Fail(c, err)
	}
	return c.JSON(http.StatusCreated, respond.Envelope{Success: true, Data: set})
}

// List handles GET /api/v1/codesets.
func (h *Handler) List(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	items, err := h.svc.List(c.Request().Context(), userID)
	if err != nil {
		return respond.Fail(c, err)
	}
	if items == nil {
		items = []Summary{}
	}
	return respond.OK(c, items)
}

// Get handles GET /api/v1/codesets/:id.
func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respond.FailWith(c, http.StatusBadRequest, "invalid code set id")
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	set, err := h.svc.Get(c.Request().Context(), userID, id)
	if err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, set)
}

// Delete handles DELETE /api/v1/codesets/:id.
func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respond.FailWith(c, http.StatusBadRequest, "invalid code set id")
	}
	userID := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.Delete(c.Request().Context(), userID, id); err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, map[string]string{"deleted": id.String()})
}
