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
	appErrors "github.com/larissaOjeda/thesis-canvas/pkg/errors"
)

type fakeSyncSrv struct {
	runs []models.SyncRecord
	run  *models.SyncRecord
	err  error

	lastTable string
	lastLimit int
}

func (f *fakeSyncSrv) TriggerAll(context.Context) ([]models.SyncRecord, error) {
	return f.runs, f.err
}

func (f *fakeSyncSrv) TriggerTable(_ context.Context, table string) (*models.SyncRecord, error) {
	f.lastTable = table
	return f.run, f.err
}

func (f *fakeSyncSrv) Status(_ context.Context, id string) (*models.SyncRecord, error) {
	return f.run, f.err
}

func (f *fakeSyncSrv) Recent(_ context.Context, limit int) ([]models.SyncRecord, error) {
	f.lastLimit = limit
	return f.runs, f.err
}

func TestSyncHandlerTriggerAccepted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSyncHandler(&fakeSyncSrv{runs: []models.SyncRecord{{ID: "run-1", TableName: "courses"}}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/sync", nil)

	handler.Trigger(c)

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestSyncHandlerTriggerDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSyncHandler(&fakeSyncSrv{err: appErrors.ErrSyncDisabled})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/sync", nil)

	handler.Trigger(c)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, "SYNC_DISABLED", envelope.Error["code"])
}

func TestSyncHandlerTriggerTablePassesName(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeSyncSrv{run: &models.SyncRecord{ID: "run-2", TableName: "scores"}}
	handler := NewSyncHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/sync/tables/scores", nil)
	c.Params = gin.Params{{Key: "table", Value: "scores"}}

	handler.TriggerTable(c)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "scores", srv.lastTable)
}

func TestSyncHandlerStatusNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSyncHandler(&fakeSyncSrv{err: appErrors.ErrNotFound})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/sync/runs/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Status(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSyncHandlerRecentLimitValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSyncHandler(&fakeSyncSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/sync/runs?limit=0", nil)

	handler.Recent(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSyncHandlerRecentPassesLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeSyncSrv{}
	handler := NewSyncHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/sync/runs?limit=5", nil)

	handler.Recent(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, srv.lastLimit)
}
