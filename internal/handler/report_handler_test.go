package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larissaOjeda/thesis-canvas/internal/dto"
	"github.com/larissaOjeda/thesis-canvas/internal/semester"
	appErrors "github.com/larissaOjeda/thesis-canvas/pkg/errors"
)

type fakeReportSrv struct {
	report   *dto.ReportResponse
	filePath string
	err      error

	lastKPI    string
	lastFormat string
}

func (f *fakeReportSrv) Generate(_ context.Context, kpiName, format string, _ int, _ semester.Season) (*dto.ReportResponse, error) {
	f.lastKPI = kpiName
	f.lastFormat = format
	return f.report, f.err
}

func (f *fakeReportSrv) Open(string) (*os.File, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	file, err := os.Open(f.filePath)
	if err != nil {
		return nil, "", err
	}
	return file, filepath.Base(f.filePath), nil
}

func TestReportHandlerGenerateRequiresKPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&fakeReportSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/reports?year=2024&semester=Spring", nil)

	handler.Generate(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportHandlerGenerateDefaultsToCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeReportSrv{report: &dto.ReportResponse{Filename: "mastery.csv", URL: "/reports/download/tok"}}
	handler := NewReportHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/reports?kpi=mastery&year=2024&semester=Spring", nil)

	handler.Generate(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "mastery", srv.lastKPI)
	assert.Equal(t, "csv", srv.lastFormat)
}

func TestReportHandlerDownloadStreamsFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	path := filepath.Join(t.TempDir(), "overview_2024_Spring.csv")
	require.NoError(t, os.WriteFile(path, []byte("kpi,value\nactive_courses,9\n"), 0o644))
	handler := NewReportHandler(&fakeReportSrv{filePath: path})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/download/tok", nil)
	c.Params = gin.Params{{Key: "token", Value: "tok"}}

	handler.Download(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "overview_2024_Spring.csv")
	assert.Contains(t, rec.Body.String(), "active_courses")
}

func TestReportHandlerDownloadRejectsBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&fakeReportSrv{err: appErrors.ErrUnauthorized})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/download/bad", nil)
	c.Params = gin.Params{{Key: "token", Value: "bad"}}

	handler.Download(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
