package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/larissaOjeda/thesis-canvas/internal/middleware"
	"github.com/larissaOjeda/thesis-canvas/internal/models"
	"github.com/larissaOjeda/thesis-canvas/internal/semester"
	appErrors "github.com/larissaOjeda/thesis-canvas/pkg/errors"
	"github.com/larissaOjeda/thesis-canvas/pkg/response"
)

type kpiService interface {
	Availability(ctx context.Context, year int, season semester.Season) (*models.AvailabilitySummary, bool, error)
	MonthlyAvailability(ctx context.Context, year int, season semester.Season) ([]models.MonthlyAvailabilityPoint, bool, error)
	Retention(ctx context.Context, year int, season semester.Season) (*models.RetentionSummary, bool, error)
	Completion(ctx context.Context, year int, season semester.Season) (*models.CompletionSummary, bool, error)
	Scores(ctx context.Context, year int, season semester.Season) (*models.ScoreOverview, bool, error)
	ScoresByCourse(ctx context.Context, year int, season semester.Season) ([]models.CourseScoreSummary, bool, error)
	FeedbackTime(ctx context.Context, year int, season semester.Season) ([]models.CourseFeedbackSummary, bool, error)
	FeedbackDays(ctx context.Context, year int, season semester.Season) ([]models.CourseFeedbackDaysSummary, bool, error)
	Mastery(ctx context.Context, year int, season semester.Season) ([]models.CourseMasterySummary, bool, error)
	ModuleProgress(ctx context.Context, year int, season semester.Season) ([]models.ModuleProgressSummary, bool, error)
	CourseCompletion(ctx context.Context, year int, season semester.Season) ([]models.CourseCompletionSummary, bool, error)
	TermRetention(ctx context.Context, year int, season semester.Season) ([]models.TermRetentionSummary, bool, error)
	SystemMetrics() models.SystemMetrics
}

// KPIHandler exposes the per-KPI query endpoints.
type KPIHandler struct {
	kpis kpiService
}

// NewKPIHandler constructs the KPI handler.
func NewKPIHandler(kpis kpiService) *KPIHandler {
	return &KPIHandler{kpis: kpis}
}

func (h *KPIHandler) serve(c *gin.Context, compute func(int, semester.Season) (interface{}, bool, error)) {
	if h.kpis == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	year, season, err := parseSemesterSelector(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	data, cacheHit, err := compute(year, season)
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
	response.JSON(c, http.StatusOK, data, meta)
}

// Availability godoc
// @Summary Course availability counts
// @Description Active versus inactive course counts and their ratio for a semester
// @Tags KPIs
// @Produce json
// @Param year query int false "Calendar year"
// @Param semester query string true "Semester tag (Spring, Summer or Winter)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /kpis/availability [get]
func (h *KPIHandler) Availability(c *gin.Context) {
	h.serve(c, func(year int, season semester.Season) (interface{}, bool, error) {
		return h.kpis.Availability(c.Request.Context(), year, season)
	})
}

// MonthlyAvailability godoc
// @Summary Monthly course availability series
// @Tags KPIs
// @Produce json
// @Param year query int false "Calendar year"
// @Param semester query string true "Semester tag"
// @Success 200 {object} response.Envelope
// @Router /kpis/availability/monthly [get]
func (h *KPIHandler) MonthlyAvailability(c *gin.Context) {
	h.serve(c, func(year int, season semester.Season) (interface{}, bool, error) {
		return h.kpis.MonthlyAvailability(c.Request.Context(), year, season)
	})
}

// Retention godoc
// @Summary Student retention rate
// @Description Share of window-start enrollments still active at window end
// @Tags KPIs
// @Produce json
// @Param year query int false "Calendar year"
// @Param semester query string true "Semester tag"
// @Success 200 {object} response.Envelope
// @Router /kpis/retention [get]
func (h *KPIHandler) Retention(c *gin.Context) {
	h.serve(c, func(year int, season semester.Season) (interface{}, bool, error) {
		return h.kpis.Retention(c.Request.Context(), year, season)
	})
}

// Completion godoc
// @Summary Assignment completion rate
// @Tags KPIs
// @Produce json
// @Param year query int false "Calendar year"
// @Param semester query string true "Semester tag"
// @Success 200 {object} response.Envelope
// @Router /kpis/completion [get]
func (h *KPIHandler) Completion(c *gin.Context) {
	h.serve(c, func(year int, season semester.Season) (interface{}, bool, error) {
		return h.kpis.Completion(c.Request.Context(), year, season)
	})
}

// Scores godoc
// @Summary Score overview with distribution histogram
// @Tags KPIs
// @Produce json
// @Param year query int false "Calendar year"
// @Param semester query string true "Semester tag"
// @Success 200 {object} response.Envelope
// @Router /kpis/scores [get]
func (h *KPIHandler) Scores(c *gin.Context) {
	h.serve(c, func(year int, season semester.Season) (interface{}, bool, error) {
		return h.kpis.Scores(c.Request.Context(), year, season)
	})
}

// ScoresByCourse godoc
// @Summary Average submission score per course
// @Tags KPIs
// @Produce json
// @Param year query int false "Calendar year"
// @Param semester query string true "Semester tag"
// @Success 200 {object} response.Envelope
// @Router /kpis/scores/by-course [get]
func (h *KPIHandler) ScoresByCourse(c *gin.Context) {
	h.serve(c, func(year int, season semester.Season) (interface{}, bool, error) {
		return h.kpis.ScoresByCourse(c.Request.Context(), year, season)
	})
}

// FeedbackTime godoc
// @Summary Feedback latency versus submission volume per course
// @Tags KPIs
// @Produce json
// @Param year query int false "Calendar year"
// @Param semester query string true "Semester tag"
// @Success 200 {object} response.Envelope
// @Router /kpis/feedback/time [get]
func (h *KPIHandler) FeedbackTime(c *gin.Context) {
	h.serve(c, func(year int, season semester.Season) (interface{}, bool, error) {
		return h.kpis.FeedbackTime(c.Request.Context(), year, season)
	})
}

// FeedbackDays godoc
// @Summary First-comment feedback days per course
// @Tags KPIs
// @Produce json
// @Param year query int false "Calendar year"
// @Param semester query string true "Semester tag"
// @Success 200 {object} response.Envelope
// @Router /kpis/feedback/days [get]
func (h *KPIHandler) FeedbackDays(c *gin.Context) {
	h.serve(c, func(year int, season semester.Season) (interface{}, bool, error) {
		return h.kpis.FeedbackDays(c.Request.Context(), year, season)
	})
}

// Mastery godoc
// @Summary Learning objective completion per course
// @Tags KPIs
// @Produce json
// @Param year query int false "Calendar year"
// @Param semester query string true "Semester tag"
// @Success 200 {object} response.Envelope
// @Router /kpis/mastery [get]
func (h *KPIHandler) Mastery(c *gin.Context) {
	h.serve(c, func(year int, season semester.Season) (interface{}, bool, error) {
		return h.kpis.Mastery(c.Request.Context(), year, season)
	})
}

// ModuleProgress godoc
// @Summary Module requirement progress per course
// @Tags KPIs
// @Produce json
// @Param year query int false "Calendar year"
// @Param semester query string true "Semester tag"
// @Success 200 {object} response.Envelope
// @Router /kpis/modules/progress [get]
func (h *KPIHandler) ModuleProgress(c *gin.Context) {
	h.serve(c, func(year int, season semester.Season) (interface{}, bool, error) {
		return h.kpis.ModuleProgress(c.Request.Context(), year, season)
	})
}

// CourseCompletion godoc
// @Summary Course completion by module requirements
// @Tags KPIs
// @Produce json
// @Param year query int false "Calendar year"
// @Param semester query string true "Semester tag"
// @Success 200 {object} response.Envelope
// @Router /kpis/modules/completion [get]
func (h *KPIHandler) CourseCompletion(c *gin.Context) {
	h.serve(c, func(year int, season semester.Season) (interface{}, bool, error) {
		return h.kpis.CourseCompletion(c.Request.Context(), year, season)
	})
}

// TermRetention godoc
// @Summary Term-scoped retention with activity band
// @Tags KPIs
// @Produce json
// @Param year query int false "Calendar year"
// @Param semester query string true "Semester tag"
// @Success 200 {object} response.Envelope
// @Router /kpis/retention/term [get]
func (h *KPIHandler) TermRetention(c *gin.Context) {
	h.serve(c, func(year int, season semester.Season) (interface{}, bool, error) {
		return h.kpis.TermRetention(c.Request.Context(), year, season)
	})
}

// System godoc
// @Summary Instrumentation snapshot
// @Tags KPIs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /kpis/system [get]
func (h *KPIHandler) System(c *gin.Context) {
	if h.kpis == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	metrics := h.kpis.SystemMetrics()
	middleware.SetCacheHit(c, false)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = make(map[string]interface{})
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, metrics, meta)
}
