package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/larissaOjeda/thesis-canvas/internal/dto"
	"github.com/larissaOjeda/thesis-canvas/internal/semester"
	"github.com/larissaOjeda/thesis-canvas/internal/service"
	appErrors "github.com/larissaOjeda/thesis-canvas/pkg/errors"
	"github.com/larissaOjeda/thesis-canvas/pkg/response"
)

type reportService interface {
	Generate(ctx context.Context, kpiName, format string, year int, season semester.Season) (*dto.ReportResponse, error)
	Open(token string) (*os.File, string, error)
}

// ReportHandler exposes report generation and signed downloads.
type ReportHandler struct {
	reports reportService
}

// NewReportHandler constructs the report handler.
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Generate godoc
// @Summary Generate a KPI report
// @Description Renders the named KPI dataset as CSV or PDF and returns a signed download link
// @Tags Reports
// @Produce json
// @Param kpi query string true "Report name (overview, feedback_time, feedback_days, mastery, scores_by_course, module_progress, course_completion, term_retention)"
// @Param format query string false "Report format (csv or pdf)" default(csv)
// @Param year query int false "Calendar year"
// @Param semester query string true "Semester tag"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reports [post]
func (h *ReportHandler) Generate(c *gin.Context) {
	if h.reports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	kpiName := c.Query("kpi")
	if kpiName == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "kpi query parameter is required"))
		return
	}
	format := c.DefaultQuery("format", service.ReportFormatCSV)
	year, season, err := parseSemesterSelector(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	report, err := h.reports.Generate(c.Request.Context(), kpiName, format, year, season)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, report, nil)
}

// Download godoc
// @Summary Download a generated report
// @Tags Reports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Failure 401 {object} response.Envelope
// @Router /reports/download/{token} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	if h.reports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	file, filename, err := h.reports.Open(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat report"))
		return
	}

	contentType := "application/octet-stream"
	switch filepath.Ext(filename) {
	case ".csv":
		contentType = "text/csv"
	case ".pdf":
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.DataFromReader(http.StatusOK, info.Size(), contentType, file, nil)
}
