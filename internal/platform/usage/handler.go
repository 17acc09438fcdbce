package usage

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Handler exposes the tracker over HTTP.
type Handler struct {
	tracker *Tracker
}

func NewHandler(tracker *Tracker) *Handler {
	return &Handler{tracker: tracker}
}

// RegisterRoutes registers the usage endpoints on g.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/usage", h.GetOverview)
	g.GET("/usage/endpoints", h.GetTopEndpoints)
	g.POST("/usage/reset", h.Reset)
}

func (h *Handler) GetOverview(c echo.Context) error {
	return c.JSON(http.StatusOK, h.tracker.Overview())
}

func (h *Handler) GetTopEndpoints(c echo.Context) error {
	limit := 20
	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	return c.JSON(http.StatusOK, h.tracker.TopEndpoints(limit))
}

func (h *Handler) Reset(c echo.Context) error {
	h.tracker.Reset()
	return c.NoContent(http.StatusNoContent)
}
