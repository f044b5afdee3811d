package models

import "time"

// Sync job lifecycle states.
const (
	SyncStatusQueued    = "queued"
	SyncStatusRunning   = "running"
	SyncStatusSucceeded = "succeeded"
	SyncStatusFailed    = "failed"
)

// SyncRecord tracks one replication run of a Canvas DAP table into the
// local store.
type SyncRecord struct {
	ID          string     `db:"id" json:"id"`
	TableName   string     `db:"table_name" json:"table_name"`
	Status      string     `db:"status" json:"status"`
	ObjectCount int64      `db:"object_count" json:"object_count"`
	Error       string     `db:"error" json:"error,omitempty"`
	StartedAt   time.Time  `db:"started_at" json:"started_at"`
	FinishedAt  *time.Time `db:"finished_at" json:"finished_at,omitempty"`
}
