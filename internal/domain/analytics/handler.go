package analytics

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/healthportal/portal/internal/platform/responseformat"
	"github.com/healthportal/portal/internal/platform/usage"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/analytics/overview", h.GetOverview)
	g.GET("/analytics/series", h.GetSeries)
	g.GET("/analytics/insights", h.GetInsights)
}

// SeriesResponse is the body of GET /analytics/series.
type SeriesResponse struct {
	TimeRange Range              `json:"timeRange"`
	Days      int                `json:"days"`
	Series    []DailyObservation `json:"series"`
}

// InsightsResponse is the body of GET /analytics/insights.
type InsightsResponse struct {
	TimeRange Range           `json:"timeRange"`
	Summary   *MetricsSummary `json:"summary"`
	Insights  []Insight       `json:"insights"`
}

func (h *Handler) GetOverview(c echo.Context) error {
	ov, err := h.derive(c)
	if err != nil {
		return err
	}
	return responseformat.Write(c, http.StatusOK, ov)
}

func (h *Handler) GetSeries(c echo.Context) error {
	ov, err := h.derive(c)
	if err != nil {
		return err
	}
	return responseformat.Write(c, http.StatusOK, SeriesResponse{
		TimeRange: ov.TimeRange,
		Days:      ov.Days,
		Series:    ov.Series,
	})
}

func (h *Handler) GetInsights(c echo.Context) error {
	ov, err := h.derive(c)
	if err != nil {
		return err
	}
	return responseformat.Write(c, http.StatusOK, InsightsResponse{
		TimeRange: ov.TimeRange,
		Summary:   ov.Summary,
		Insights:  ov.Insights,
	})
}

func (h *Handler) derive(c echo.Context) (*Overview, error) {
	req := Request{Range: c.QueryParam("timeRange")}
	if req.Range == "" {
		req.Range = c.QueryParam("range")
	}
	if raw := c.QueryParam("seed"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid seed")
		}
		req.Seed = seed
	}

	ov, err := h.svc.Derive(c.Request().Context(), req)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Set(usage.LabelKey, ov.TimeRange.String())
	return ov, nil
}
