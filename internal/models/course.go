package models

import "time"

// Course workflow states relevant to availability classification.
const (
	CourseStateAvailable = "available"
)

// Course is a row of the replicated canvas.courses table. The replicated
// snapshot exposes dotted "value.*" column names; queries alias them to the
// plain names carried here. Nullable timestamps stay nil rather than zero.
type Course struct {
	ID            int64      `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	WorkflowState string     `db:"workflow_state" json:"workflow_state"`
	CreatedAt     *time.Time `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
