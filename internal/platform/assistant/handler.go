package assistant

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codeset/codeset/internal/platform/respond"
)

// ChatRequest is the assistant chat payload.
type ChatRequest struct {
	Messages []Message `json:"messages"`
}

// Handler exposes the chat assistant endpoint.
type Handler struct {
	svc *Service
}

// NewHandler creates an assistant handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the assistant routes on the (authenticated) group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/assistant/chat", h.Chat)
}

// Chat handles POST /api/v1/assistant/chat.
func (h *Handler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return respond.FailWith(c, http.StatusBadRequest, "invalid request body")
	}
	reply, err := h.svc.Chat(c.Request().Context(), req.Messages)
	if err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, reply)
}
