package models

import "time"

// Assignment is a row of the replicated canvas.assignments table.
// ContextID references the owning course.
type Assignment struct {
	ID        int64      `db:"id" json:"id"`
	ContextID int64      `db:"context_id" json:"context_id"`
	CreatedAt *time.Time `db:"created_at" json:"created_at,omitempty"`
}
