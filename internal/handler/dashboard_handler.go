package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/larissaOjeda/thesis-canvas/internal/dto"
	"github.com/larissaOjeda/thesis-canvas/internal/middleware"
	"github.com/larissaOjeda/thesis-canvas/internal/semester"
	appErrors "github.com/larissaOjeda/thesis-canvas/pkg/errors"
	"github.com/larissaOjeda/thesis-canvas/pkg/response"
)

type dashboardService interface {
	Overview(ctx context.Context, year int, season semester.Season) (*dto.KPIOverviewResponse, bool, error)
	RenderHTML(ctx context.Context, year int, season semester.Season) ([]byte, error)
}

// DashboardHandler exposes the composed KPI overview and the rendered
// interactive dashboard.
type DashboardHandler struct {
	dashboard dashboardService
}

// NewDashboardHandler constructs the dashboard handler.
func NewDashboardHandler(dashboard dashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Overview godoc
// @Summary Composed KPI overview
// @Description Every KPI of the semester in one payload
// @Tags Dashboard
// @Produce json
// @Param year query int false "Calendar year"
// @Param semester query string true "Semester tag (Spring, Summer or Winter)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard/overview [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	if h.dashboard == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	year, season, err := parseSemesterSelector(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	overview, cacheHit, err := h.dashboard.Overview(c.Request.Context(), year, season)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	middleware.SetSemester(c, year, string(season))
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = make(map[string]interface{})
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, overview, meta)
}

// HTML godoc
// @Summary Interactive dashboard page
// @Tags Dashboard
// @Produce html
// @Param year query int false "Calendar year"
// @Param semester query string true "Semester tag"
// @Success 200 {string} string "rendered dashboard"
// @Router /dashboard [get]
func (h *DashboardHandler) HTML(c *gin.Context) {
	if h.dashboard == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	year, season, err := parseSemesterSelector(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	page, err := h.dashboard.RenderHTML(c.Request.Context(), year, season)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
