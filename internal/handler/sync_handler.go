package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/larissaOjeda/thesis-canvas/internal/models"
	appErrors "github.com/larissaOjeda/thesis-canvas/pkg/errors"
	"github.com/larissaOjeda/thesis-canvas/pkg/response"
)

type syncService interface {
	TriggerAll(ctx context.Context) ([]models.SyncRecord, error)
	TriggerTable(ctx context.Context, table string) (*models.SyncRecord, error)
	Status(ctx context.Context, id string) (*models.SyncRecord, error)
	Recent(ctx context.Context, limit int) ([]models.SyncRecord, error)
}

// SyncHandler exposes the table replication endpoints.
type SyncHandler struct {
	sync syncService
}

// NewSyncHandler constructs the sync handler.
func NewSyncHandler(sync syncService) *SyncHandler {
	return &SyncHandler{sync: sync}
}

// Trigger godoc
// @Summary Trigger replication of every configured table
// @Tags Sync
// @Produce json
// @Success 202 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /sync [post]
func (h *SyncHandler) Trigger(c *gin.Context) {
	if h.sync == nil {
		response.Error(c, appErrors.ErrSyncDisabled)
		return
	}
	runs, err := h.sync.TriggerAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, runs, nil)
}

// TriggerTable godoc
// @Summary Trigger replication of one table
// @Tags Sync
// @Produce json
// @Param table path string true "Canvas table name"
// @Success 202 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /sync/tables/{table} [post]
func (h *SyncHandler) TriggerTable(c *gin.Context) {
	if h.sync == nil {
		response.Error(c, appErrors.ErrSyncDisabled)
		return
	}
	run, err := h.sync.TriggerTable(c.Request.Context(), c.Param("table"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, run, nil)
}

// Status godoc
// @Summary Fetch one replication run
// @Tags Sync
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sync/runs/{id} [get]
func (h *SyncHandler) Status(c *gin.Context) {
	if h.sync == nil {
		response.Error(c, appErrors.ErrSyncDisabled)
		return
	}
	run, err := h.sync.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}

// Recent godoc
// @Summary List recent replication runs
// @Tags Sync
// @Produce json
// @Param limit query int false "Maximum number of runs" default(20)
// @Success 200 {object} response.Envelope
// @Router /sync/runs [get]
func (h *SyncHandler) Recent(c *gin.Context) {
	if h.sync == nil {
		response.Error(c, appErrors.ErrSyncDisabled)
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be between 1 and 200"))
			return
		}
		limit = parsed
	}
	runs, err := h.sync.Recent(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, runs, nil)
}
