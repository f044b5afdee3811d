package models

import "time"

// Submission workflow states used by the KPI layer.
const (
	SubmissionStateGraded = "graded"
)

// Submission is a row of the replicated canvas.submissions table.
type Submission struct {
	ID            int64      `db:"id" json:"id"`
	AssignmentID  int64      `db:"assignment_id" json:"assignment_id"`
	CourseID      int64      `db:"course_id" json:"course_id"`
	UserID        int64      `db:"user_id" json:"user_id"`
	WorkflowState string     `db:"workflow_state" json:"workflow_state"`
	Score         *float64   `db:"score" json:"score,omitempty"`
	SubmittedAt   *time.Time `db:"submitted_at" json:"submitted_at,omitempty"`
	CreatedAt     *time.Time `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// SubmissionComment is a row of the replicated canvas.submission_comments
// table. Only comments authored by someone other than the submitting student
// count as feedback.
type SubmissionComment struct {
	ID           int64      `db:"id" json:"id"`
	SubmissionID int64      `db:"submission_id" json:"submission_id"`
	AuthorID     int64      `db:"author_id" json:"author_id"`
	CreatedAt    *time.Time `db:"created_at" json:"created_at,omitempty"`
}
