package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/larissaOjeda/thesis-canvas/internal/canvas"
	"github.com/larissaOjeda/thesis-canvas/internal/models"
	appErrors "github.com/larissaOjeda/thesis-canvas/pkg/errors"
	"github.com/larissaOjeda/thesis-canvas/pkg/jobs"
)

type dapClient interface {
	Login(ctx context.Context) error
	StartSnapshot(ctx context.Context, table string) (*canvas.Job, error)
	WaitForJob(ctx context.Context, table, jobID string, pollInterval time.Duration) (*canvas.Job, error)
	ResolveObjectURLs(ctx context.Context, objects []canvas.Object) (map[string]string, error)
}

type syncStore interface {
	Create(ctx context.Context, record *models.SyncRecord) error
	Update(ctx context.Context, record *models.SyncRecord) error
	GetByID(ctx context.Context, id string) (*models.SyncRecord, error)
	ListRecent(ctx context.Context, limit int) ([]models.SyncRecord, error)
}

type syncPayload struct {
	RunID string
	Table string
}

// SyncServiceConfig tunes replication behaviour.
type SyncServiceConfig struct {
	Enabled      bool
	Tables       []string
	PollInterval time.Duration
	Workers      int
	Retries      int
}

// SyncService replicates Canvas tables through the DAP export API on a
// background worker queue. Successful runs invalidate the KPI caches so the
// next request recomputes against fresh rows.
type SyncService struct {
	client  dapClient
	records syncStore
	cache   *CacheService
	queue   *jobs.Queue
	logger  *zap.Logger
	cfg     SyncServiceConfig
}

// NewSyncService constructs a sync service and its worker queue.
func NewSyncService(client dapClient, records syncStore, cache *CacheService, logger *zap.Logger, cfg SyncServiceConfig) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}

	s := &SyncService{
		client:  client,
		records: records,
		cache:   cache,
		logger:  logger,
		cfg:     cfg,
	}
	s.queue = jobs.New("table-sync", s.handle, jobs.Options{
		Workers:     cfg.Workers,
		MaxAttempts: cfg.Retries,
		Logger:      logger,
	})
	return s
}

// Start launches the worker pool.
func (s *SyncService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the worker pool.
func (s *SyncService) Stop() {
	s.queue.Stop()
}

// TriggerAll enqueues one replication run per configured table.
func (s *SyncService) TriggerAll(ctx context.Context) ([]models.SyncRecord, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.ErrSyncDisabled
	}
	records := make([]models.SyncRecord, 0, len(s.cfg.Tables))
	for _, table := range s.cfg.Tables {
		record, err := s.TriggerTable(ctx, table)
		if err != nil {
			return records, err
		}
		records = append(records, *record)
	}
	return records, nil
}

// TriggerTable enqueues a replication run for one table.
func (s *SyncService) TriggerTable(ctx context.Context, table string) (*models.SyncRecord, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.ErrSyncDisabled
	}
	record := &models.SyncRecord{TableName: table}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}
	if err := s.queue.Enqueue(ctx, jobs.Task{
		ID:      record.ID,
		Kind:    "table-sync",
		Payload: syncPayload{RunID: record.ID, Table: table},
	}); err != nil {
		record.Status = models.SyncStatusFailed
		record.Error = err.Error()
		s.finish(ctx, record)
		return nil, fmt.Errorf("enqueue sync for %s: %w", table, err)
	}
	return record, nil
}

// Status fetches one replication run.
func (s *SyncService) Status(ctx context.Context, id string) (*models.SyncRecord, error) {
	return s.records.GetByID(ctx, id)
}

// Recent lists the latest runs.
func (s *SyncService) Recent(ctx context.Context, limit int) ([]models.SyncRecord, error) {
	return s.records.ListRecent(ctx, limit)
}

func (s *SyncService) handle(ctx context.Context, task jobs.Task) error {
	payload, ok := task.Payload.(syncPayload)
	if !ok {
		return fmt.Errorf("unexpected sync payload type %T", task.Payload)
	}

	record, err := s.records.GetByID(ctx, payload.RunID)
	if err != nil {
		return err
	}
	record.Status = models.SyncStatusRunning
	if err := s.records.Update(ctx, record); err != nil {
		s.logger.Warn("sync status update failed", zap.String("run", record.ID), zap.Error(err))
	}

	if err := s.replicate(ctx, record); err != nil {
		record.Status = models.SyncStatusFailed
		record.Error = err.Error()
		s.finish(ctx, record)
		return err
	}

	record.Status = models.SyncStatusSucceeded
	record.Error = ""
	s.finish(ctx, record)

	if s.cache != nil {
		for _, pattern := range []string{"kpi:*", "dashboard:*"} {
			if err := s.cache.Invalidate(ctx, pattern); err != nil {
				s.logger.Warn("cache invalidation after sync failed", zap.String("pattern", pattern), zap.Error(err))
			}
		}
	}

	s.logger.Info("table replicated",
		zap.String("table", record.TableName),
		zap.Int64("objects", record.ObjectCount),
	)
	return nil
}

func (s *SyncService) replicate(ctx context.Context, record *models.SyncRecord) error {
	if err := s.client.Login(ctx); err != nil {
		return err
	}
	job, err := s.client.StartSnapshot(ctx, record.TableName)
	if err != nil {
		return err
	}
	job, err = s.client.WaitForJob(ctx, record.TableName, job.ID, s.cfg.PollInterval)
	if err != nil {
		return err
	}
	urls, err := s.client.ResolveObjectURLs(ctx, job.Objects)
	if err != nil {
		return err
	}
	record.ObjectCount = int64(len(urls))
	return nil
}

func (s *SyncService) finish(ctx context.Context, record *models.SyncRecord) {
	now := time.Now().UTC()
	record.FinishedAt = &now
	if err := s.records.Update(ctx, record); err != nil {
		s.logger.Warn("sync record update failed", zap.String("run", record.ID), zap.Error(err))
	}
}
