package umls

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/codeset/codeset/internal/platform/respond"
)

// SearchRequest is the UMLS search proxy payload.
type SearchRequest struct {
	SearchTerm   string   `json:"search_term"`
	Vocabularies []string `json:"vocabularies"`
	PageSize     int      `json:"page_size"`
}

// Handler exposes the UMLS search proxy.
type Handler struct {
	client *Client
}

// NewHandler creates a UMLS handler.
func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

// RegisterRoutes registers the UMLS routes on the (authenticated) group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/umls/search", h.Search)
}

// Search handles POST /api/v1/umls/search.
func (h *Handler) Search(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return respond.FailWith(c, http.StatusBadRequest, "invalid request body")
	}
	term := strings.TrimSpace(req.SearchTerm)
	if term == "" {
		return respond.Fail(c, fmt.Errorf("%w: search term is required", respond.ErrInvalidInput))
	}
	resp, err := h.client.Search(c.Request().Context(), term, req.Vocabularies, req.PageSize)
	if err != nil {
		return respond.Fail(c, fmt.Errorf("%w: %v", respond.ErrUpstream, err))
	}
	if resp.Results == nil {
		resp.Results = []Result{}
	}
	return respond.OK(c, resp)
}
