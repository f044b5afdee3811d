package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/larissaOjeda/thesis-canvas/internal/models"
	"github.com/larissaOjeda/thesis-canvas/internal/semester"
)

// KPIRepository runs the aggregate KPI queries that are cheaper to express in
// SQL than to assemble row by row: module requirement progress, module-based
// course completion and the term-scoped retention band.
type KPIRepository struct {
	db *sqlx.DB
}

// NewKPIRepository instantiates the repository.
func NewKPIRepository(db *sqlx.DB) *KPIRepository {
	return &KPIRepository{db: db}
}

// ModuleProgress computes per-course module requirement completion for
// students enrolled during the window. A (user, module) pair counts as
// completed when its progression row reached the completed state; courses
// with zero completion are dropped.
func (r *KPIRepository) ModuleProgress(ctx context.Context, w semester.Window) ([]models.ModuleProgressSummary, error) {
	const query = `WITH enrolled_students AS (
        SELECT DISTINCT e.user_id, e.course_id
        FROM canvas.enrollments e
        JOIN canvas.courses c ON e.course_id = c.id
        WHERE e.type = 'StudentEnrollment'
          AND e.workflow_state NOT IN ('deleted', 'rejected', 'inactive')
          AND (e.start_at IS NULL OR e.start_at <= $2)
          AND (e.end_at IS NULL OR e.end_at >= $1)
          AND (e.end_at IS NULL OR e.start_at IS NULL OR e.end_at >= e.start_at)
    ),
    module_progress AS (
        SELECT es.user_id, es.course_id, cmp.workflow_state
        FROM enrolled_students es
        JOIN canvas.context_modules cm ON cm.context_id = es.course_id
        LEFT JOIN canvas.context_module_progressions cmp
            ON cmp.context_module_id = cm.id AND cmp.user_id = es.user_id
    )
    SELECT c.id AS course_id, c.name AS course_name,
        ROUND(COUNT(CASE WHEN mp.workflow_state = '` + models.ModuleProgressionDone + `' THEN 1 END) * 100.0
            / NULLIF(COUNT(*), 0), 2) AS completion_percentage
    FROM canvas.courses c
    JOIN module_progress mp ON mp.course_id = c.id
    GROUP BY c.id, c.name
    HAVING COUNT(CASE WHEN mp.workflow_state = '` + models.ModuleProgressionDone + `' THEN 1 END) > 0
    ORDER BY completion_percentage ASC`

	var summaries []models.ModuleProgressSummary
	if err := r.db.SelectContext(ctx, &summaries, query, w.Start, w.End); err != nil {
		return nil, fmt.Errorf("query module progress: %w", err)
	}
	return summaries, nil
}

// CourseCompletionByModules computes, for each course available at the window
// start, the share of enrolled students who completed every active module.
func (r *KPIRepository) CourseCompletionByModules(ctx context.Context, w semester.Window) ([]models.CourseCompletionSummary, error) {
	const query = `WITH active_courses AS (
        SELECT id AS course_id
        FROM canvas.courses c
        WHERE c.workflow_state = '` + models.CourseStateAvailable + `'
          AND (c.start_at IS NULL OR c.start_at <= $1)
    ),
    course_requirements AS (
        SELECT course_id, COUNT(DISTINCT cm.id) AS total_modules
        FROM active_courses ac
        JOIN canvas.context_modules cm ON cm.context_id = ac.course_id
        WHERE cm.workflow_state = '` + models.ModuleStateActive + `'
        GROUP BY course_id
    ),
    student_progress AS (
        SELECT e.course_id, e.user_id,
            COUNT(DISTINCT CASE WHEN cmp.workflow_state = '` + models.ModuleProgressionDone + `' THEN cm.id END) AS completed_modules
        FROM active_courses ac
        JOIN canvas.enrollments e ON e.course_id = ac.course_id
        JOIN canvas.context_modules cm ON cm.context_id = e.course_id
        LEFT JOIN canvas.context_module_progressions cmp
            ON cmp.context_module_id = cm.id AND cmp.user_id = e.user_id
        WHERE e.type = 'StudentEnrollment'
          AND e.workflow_state NOT IN ('deleted', 'rejected', 'inactive')
          AND (e.start_at IS NULL OR e.start_at <= $2)
          AND (e.end_at IS NULL OR e.end_at >= $1)
        GROUP BY e.course_id, e.user_id
    )
    SELECT sp.course_id,
        COUNT(DISTINCT sp.user_id) AS total_enrolled,
        COUNT(DISTINCT CASE WHEN sp.completed_modules >= cr.total_modules THEN sp.user_id END) AS completed_count,
        ROUND(COUNT(DISTINCT CASE WHEN sp.completed_modules >= cr.total_modules THEN sp.user_id END)::numeric * 100.0
            / NULLIF(COUNT(DISTINCT sp.user_id), 0), 2) AS completion_rate
    FROM student_progress sp
    JOIN course_requirements cr ON cr.course_id = sp.course_id
    GROUP BY sp.course_id
    ORDER BY sp.course_id`

	var summaries []models.CourseCompletionSummary
	if err := r.db.SelectContext(ctx, &summaries, query, w.Start, w.End); err != nil {
		return nil, fmt.Errorf("query course completion by modules: %w", err)
	}
	return summaries, nil
}

// TermRetention computes per-course retention scoped to enrollment terms whose
// name matches termName. An enrollment counts as retained when its last
// activity falls within three days of the window end.
func (r *KPIRepository) TermRetention(ctx context.Context, w semester.Window, termName string) ([]models.TermRetentionSummary, error) {
	const query = `WITH enrollment_counts AS (
        SELECT c.id AS course_id, c.name AS course_name, et.name AS term_name,
            COUNT(DISTINCT e.user_id) AS total_enrollments,
            COUNT(DISTINCT CASE
                WHEN e.created_at >= $1
                     AND e.last_activity_at BETWEEN $2::timestamp - INTERVAL '3 days'
                         AND $2::timestamp + INTERVAL '3 days'
                THEN e.user_id
            END) AS active_enrollments
        FROM canvas.courses c
        JOIN canvas.enrollments e ON c.id = e.course_id
        JOIN canvas.enrollment_terms et ON c.enrollment_term_id = et.id
        WHERE e.type = 'StudentEnrollment'
          AND et.name ILIKE '%' || $3 || '%'
        GROUP BY c.id, c.name, et.name
    )
    SELECT course_id, course_name, term_name, total_enrollments, active_enrollments,
        ROUND((active_enrollments::DECIMAL / NULLIF(total_enrollments, 0) * 100)::DECIMAL, 2) AS retention_rate
    FROM enrollment_counts
    WHERE total_enrollments > 0 AND active_enrollments > 0
    ORDER BY retention_rate DESC`

	var summaries []models.TermRetentionSummary
	if err := r.db.SelectContext(ctx, &summaries, query, w.Start, w.End, termName); err != nil {
		return nil, fmt.Errorf("query term retention: %w", err)
	}
	return summaries, nil
}
