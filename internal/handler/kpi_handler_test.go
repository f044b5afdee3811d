package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/larissaOjeda/thesis-canvas/internal/models"
	"github.com/larissaOjeda/thesis-canvas/internal/semester"
)

type responseEnvelope struct {
	Data  interface{}            `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type fakeKPISrv struct {
	availability *models.AvailabilitySummary
	retention    *models.RetentionSummary
	hit          bool
	err          error

	lastYear   int
	lastSeason semester.Season
}

func (f *fakeKPISrv) Availability(_ context.Context, year int, season semester.Season) (*models.AvailabilitySummary, bool, error) {
	f.lastYear = year
	f.lastSeason = season
	return f.availability, f.hit, f.err
}

func (f *fakeKPISrv) MonthlyAvailability(context.Context, int, semester.Season) ([]models.MonthlyAvailabilityPoint, bool, error) {
	return nil, false, f.err
}

func (f *fakeKPISrv) Retention(context.Context, int, semester.Season) (*models.RetentionSummary, bool, error) {
	return f.retention, f.hit, f.err
}

func (f *fakeKPISrv) Completion(context.Context, int, semester.Season) (*models.CompletionSummary, bool, error) {
	return &models.CompletionSummary{}, false, f.err
}

func (f *fakeKPISrv) Scores(context.Context, int, semester.Season) (*models.ScoreOverview, bool, error) {
	return &models.ScoreOverview{}, false, f.err
}

func (f *fakeKPISrv) ScoresByCourse(context.Context, int, semester.Season) ([]models.CourseScoreSummary, bool, error) {
	return nil, false, f.err
}

func (f *fakeKPISrv) FeedbackTime(context.Context, int, semester.Season) ([]models.CourseFeedbackSummary, bool, error) {
	return nil, false, f.err
}

func (f *fakeKPISrv) FeedbackDays(context.Context, int, semester.Season) ([]models.CourseFeedbackDaysSummary, bool, error) {
	return nil, false, f.err
}

func (f *fakeKPISrv) Mastery(context.Context, int, semester.Season) ([]models.CourseMasterySummary, bool, error) {
	return nil, false, f.err
}

func (f *fakeKPISrv) ModuleProgress(context.Context, int, semester.Season) ([]models.ModuleProgressSummary, bool, error) {
	return nil, false, f.err
}

func (f *fakeKPISrv) CourseCompletion(context.Context, int, semester.Season) ([]models.CourseCompletionSummary, bool, error) {
	return nil, false, f.err
}

func (f *fakeKPISrv) TermRetention(context.Context, int, semester.Season) ([]models.TermRetentionSummary, bool, error) {
	return nil, false, f.err
}

func (f *fakeKPISrv) SystemMetrics() models.SystemMetrics {
	return models.SystemMetrics{Goroutines: 7}
}

func TestKPIHandlerAvailabilityRequiresSemester(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewKPIHandler(&fakeKPISrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/kpis/availability?year=2024", nil)

	handler.Availability(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestKPIHandlerAvailabilityRejectsUnknownSemester(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewKPIHandler(&fakeKPISrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/kpis/availability?year=2024&semester=Fall", nil)

	handler.Availability(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, "INVALID_SEMESTER", envelope.Error["code"])
}

func TestKPIHandlerAvailabilitySuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeKPISrv{
		availability: &models.AvailabilitySummary{ActiveCount: 9, InactiveCount: 3, Ratio: 3},
		hit:          true,
	}
	handler := NewKPIHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/kpis/availability?year=2024&semester=Spring", nil)

	handler.Availability(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2024, srv.lastYear)
	assert.Equal(t, semester.SeasonSpring, srv.lastSeason)

	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	data, ok := envelope.Data.(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, float64(9), data["active_count"])
}

func TestKPIHandlerAvailabilityInvalidYear(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewKPIHandler(&fakeKPISrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/kpis/availability?year=abc&semester=Spring", nil)

	handler.Availability(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestKPIHandlerServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewKPIHandler(&fakeKPISrv{err: assert.AnError})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/kpis/retention?year=2024&semester=Summer", nil)

	handler.Retention(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestKPIHandlerSystem(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewKPIHandler(&fakeKPISrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/kpis/system", nil)

	handler.System(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	data, ok := envelope.Data.(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, float64(7), data["goroutines"])
}
