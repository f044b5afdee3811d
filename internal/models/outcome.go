package models

import "time"

// OutcomeResult is a row of the replicated canvas.learning_outcome_results
// table, restricted to course contexts. ContextID references the course.
type OutcomeResult struct {
	ID                int64      `db:"id" json:"id"`
	LearningOutcomeID int64      `db:"learning_outcome_id" json:"learning_outcome_id"`
	ContextID         int64      `db:"context_id" json:"context_id"`
	UserID            int64      `db:"user_id" json:"user_id"`
	WorkflowState     string     `db:"workflow_state" json:"workflow_state"`
	Score             *float64   `db:"score" json:"score,omitempty"`
	Possible          *float64   `db:"possible" json:"possible,omitempty"`
	Mastery           *bool      `db:"mastery" json:"mastery,omitempty"`
	CreatedAt         *time.Time `db:"created_at" json:"created_at,omitempty"`
}
