package models

import "time"

// Score workflow states used by the KPI layer.
const (
	ScoreStateActive = "active"
)

// Score is a row of the replicated canvas.scores table.
type Score struct {
	ID            int64      `db:"id" json:"id"`
	EnrollmentID  int64      `db:"enrollment_id" json:"enrollment_id"`
	WorkflowState string     `db:"workflow_state" json:"workflow_state"`
	CurrentScore  *float64   `db:"current_score" json:"current_score,omitempty"`
	FinalScore    *float64   `db:"final_score" json:"final_score,omitempty"`
	CreatedAt     *time.Time `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
