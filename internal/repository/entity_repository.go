package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/larissaOjeda/thesis-canvas/internal/models"
	"github.com/larissaOjeda/thesis-canvas/internal/semester"
)

// EntityRepository loads replicated Canvas rows for in-memory KPI
// computation. Each query applies only the coarse window bound needed to keep
// result sets small; the fine-grained classification happens in the kpi
// package so a single load serves several metrics.
type EntityRepository struct {
	db *sqlx.DB
}

// NewEntityRepository instantiates the repository.
func NewEntityRepository(db *sqlx.DB) *EntityRepository {
	return &EntityRepository{db: db}
}

// ListCourses returns courses created on or before the window end.
func (r *EntityRepository) ListCourses(ctx context.Context, w semester.Window) ([]models.Course, error) {
	const query = `SELECT id, name, workflow_state, created_at, updated_at
        FROM canvas.courses
        WHERE created_at <= $1
        ORDER BY id`

	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, w.End); err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	return courses, nil
}

// ListStudentEnrollments returns student enrollments created on or before the
// window end.
func (r *EntityRepository) ListStudentEnrollments(ctx context.Context, w semester.Window) ([]models.Enrollment, error) {
	const query = `SELECT id, user_id, course_id, type, workflow_state,
        created_at, updated_at, start_at, end_at, last_activity_at
        FROM canvas.enrollments
        WHERE type = $1 AND created_at <= $2
        ORDER BY id`

	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, models.EnrollmentTypeStudent, w.End); err != nil {
		return nil, fmt.Errorf("query enrollments: %w", err)
	}
	return enrollments, nil
}

// ListAssignments returns assignments created inside the window.
func (r *EntityRepository) ListAssignments(ctx context.Context, w semester.Window) ([]models.Assignment, error) {
	const query = `SELECT id, context_id, created_at
        FROM canvas.assignments
        WHERE created_at >= $1 AND created_at <= $2
        ORDER BY id`

	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, w.Start, w.End); err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	return assignments, nil
}

// ListSubmissions returns submissions submitted inside the window.
func (r *EntityRepository) ListSubmissions(ctx context.Context, w semester.Window) ([]models.Submission, error) {
	const query = `SELECT id, assignment_id, course_id, user_id, workflow_state,
        score, submitted_at, created_at, updated_at
        FROM canvas.submissions
        WHERE submitted_at >= $1 AND submitted_at <= $2
        ORDER BY id`

	var submissions []models.Submission
	if err := r.db.SelectContext(ctx, &submissions, query, w.Start, w.End); err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	return submissions, nil
}

// ListSubmissionsCreated returns submissions created inside the window,
// regardless of whether or when they were submitted. The feedback-latency
// KPI keys on creation, so a submitted_at bound would silently drop rows
// with a late or null submitted_at.
func (r *EntityRepository) ListSubmissionsCreated(ctx context.Context, w semester.Window) ([]models.Submission, error) {
	const query = `SELECT id, assignment_id, course_id, user_id, workflow_state,
        score, submitted_at, created_at, updated_at
        FROM canvas.submissions
        WHERE created_at >= $1 AND created_at <= $2
        ORDER BY id`

	var submissions []models.Submission
	if err := r.db.SelectContext(ctx, &submissions, query, w.Start, w.End); err != nil {
		return nil, fmt.Errorf("query submissions by creation: %w", err)
	}
	return submissions, nil
}

// ListSubmissionComments returns the comments attached to submissions
// submitted inside the window.
func (r *EntityRepository) ListSubmissionComments(ctx context.Context, w semester.Window) ([]models.SubmissionComment, error) {
	const query = `SELECT sc.id, sc.submission_id, sc.author_id, sc.created_at
        FROM canvas.submission_comments sc
        JOIN canvas.submissions s ON s.id = sc.submission_id
        WHERE s.submitted_at >= $1 AND s.submitted_at <= $2
        ORDER BY sc.id`

	var comments []models.SubmissionComment
	if err := r.db.SelectContext(ctx, &comments, query, w.Start, w.End); err != nil {
		return nil, fmt.Errorf("query submission comments: %w", err)
	}
	return comments, nil
}

// ListScores returns score rows created on or before the window end.
func (r *EntityRepository) ListScores(ctx context.Context, w semester.Window) ([]models.Score, error) {
	const query = `SELECT id, enrollment_id, workflow_state,
        current_score, final_score, created_at, updated_at
        FROM canvas.scores
        WHERE created_at <= $1
        ORDER BY id`

	var scores []models.Score
	if err := r.db.SelectContext(ctx, &scores, query, w.End); err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	return scores, nil
}

// ListOutcomeResults returns course-scoped learning outcome results created
// inside the window.
func (r *EntityRepository) ListOutcomeResults(ctx context.Context, w semester.Window) ([]models.OutcomeResult, error) {
	const query = `SELECT id, learning_outcome_id, context_id, user_id,
        workflow_state, score, possible, mastery, created_at
        FROM canvas.learning_outcome_results
        WHERE context_type = 'Course' AND created_at >= $1 AND created_at <= $2
        ORDER BY id`

	var results []models.OutcomeResult
	if err := r.db.SelectContext(ctx, &results, query, w.Start, w.End); err != nil {
		return nil, fmt.Errorf("query learning outcome results: %w", err)
	}
	return results, nil
}
