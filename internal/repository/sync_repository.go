package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/larissaOjeda/thesis-canvas/internal/models"
	appErrors "github.com/larissaOjeda/thesis-canvas/pkg/errors"
)

// SyncRepository persists table replication runs.
type SyncRepository struct {
	db *sqlx.DB
}

// NewSyncRepository instantiates the repository.
func NewSyncRepository(db *sqlx.DB) *SyncRepository {
	return &SyncRepository{db: db}
}

// Create inserts a new run record, assigning an id and start time when unset.
func (r *SyncRepository) Create(ctx context.Context, record *models.SyncRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Status == "" {
		record.Status = models.SyncStatusQueued
	}
	if record.StartedAt.IsZero() {
		record.StartedAt = time.Now().UTC()
	}

	const query = `INSERT INTO sync_runs (id, table_name, status, object_count, error, started_at, finished_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query,
		record.ID, record.TableName, record.Status, record.ObjectCount,
		record.Error, record.StartedAt, record.FinishedAt); err != nil {
		return fmt.Errorf("insert sync run: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a run record.
func (r *SyncRepository) Update(ctx context.Context, record *models.SyncRecord) error {
	const query = `UPDATE sync_runs SET status = $1, object_count = $2, error = $3, finished_at = $4 WHERE id = $5`
	if _, err := r.db.ExecContext(ctx, query,
		record.Status, record.ObjectCount, record.Error, record.FinishedAt, record.ID); err != nil {
		return fmt.Errorf("update sync run %s: %w", record.ID, err)
	}
	return nil
}

// GetByID fetches one run record.
func (r *SyncRepository) GetByID(ctx context.Context, id string) (*models.SyncRecord, error) {
	const query = `SELECT id, table_name, status, object_count, error, started_at, finished_at
        FROM sync_runs WHERE id = $1`

	var record models.SyncRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("get sync run %s: %w", id, err)
	}
	return &record, nil
}

// ListRecent returns the most recent runs, newest first.
func (r *SyncRepository) ListRecent(ctx context.Context, limit int) ([]models.SyncRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	const query = `SELECT id, table_name, status, object_count, error, started_at, finished_at
        FROM sync_runs ORDER BY started_at DESC LIMIT $1`

	var records []models.SyncRecord
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	return records, nil
}
