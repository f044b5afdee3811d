package models

import "time"

// Enrollment workflow states and types used by the KPI layer.
const (
	EnrollmentStateAvailable = "available"
	EnrollmentStateActive    = "active"
	EnrollmentStateDeleted   = "deleted"
	EnrollmentStateRejected  = "rejected"
	EnrollmentStateInactive  = "inactive"

	EnrollmentTypeStudent = "StudentEnrollment"
)

// Enrollment is a row of the replicated canvas.enrollments table.
type Enrollment struct {
	ID             int64      `db:"id" json:"id"`
	UserID         int64      `db:"user_id" json:"user_id"`
	CourseID       int64      `db:"course_id" json:"course_id"`
	Type           string     `db:"type" json:"type"`
	WorkflowState  string     `db:"workflow_state" json:"workflow_state"`
	CreatedAt      *time.Time `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `db:"updated_at" json:"updated_at,omitempty"`
	StartAt        *time.Time `db:"start_at" json:"start_at,omitempty"`
	EndAt          *time.Time `db:"end_at" json:"end_at,omitempty"`
	LastActivityAt *time.Time `db:"last_activity_at" json:"last_activity_at,omitempty"`
}
