package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/larissaOjeda/thesis-canvas/internal/dto"
	"github.com/larissaOjeda/thesis-canvas/internal/models"
	"github.com/larissaOjeda/thesis-canvas/internal/semester"
)

type fakeDashboardSrv struct {
	overview *dto.KPIOverviewResponse
	html     []byte
	hit      bool
	err      error

	lastYear   int
	lastSeason semester.Season
}

func (f *fakeDashboardSrv) Overview(_ context.Context, year int, season semester.Season) (*dto.KPIOverviewResponse, bool, error) {
	f.lastYear = year
	f.lastSeason = season
	return f.overview, f.hit, f.err
}

func (f *fakeDashboardSrv) RenderHTML(context.Context, int, semester.Season) ([]byte, error) {
	return f.html, f.err
}

func TestDashboardHandlerOverviewRequiresSemester(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/overview", nil)

	handler.Overview(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardHandlerOverviewSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDashboardSrv{
		overview: &dto.KPIOverviewResponse{
			Semester:     dto.SemesterInfo{Year: 2024, Semester: "Winter"},
			Availability: models.AvailabilitySummary{ActiveCount: 4, InactiveCount: 1, Ratio: 4},
		},
		hit: true,
	}
	handler := NewDashboardHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/overview?year=2024&semester=Winter", nil)

	handler.Overview(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2024, srv.lastYear)
	assert.Equal(t, semester.SeasonWinter, srv.lastSeason)

	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Equal(t, "Winter", envelope.Meta["semester"])
}

func TestDashboardHandlerHTML(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{html: []byte("<html><body>kpis</body></html>")})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard?year=2024&semester=Spring", nil)

	handler.HTML(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "kpis")
}

func TestDashboardHandlerOverviewServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{err: assert.AnError})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/overview?year=2024&semester=Spring", nil)

	handler.Overview(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
