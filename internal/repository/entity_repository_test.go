package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/larissaOjeda/thesis-canvas/internal/models"
	"github.com/larissaOjeda/thesis-canvas/internal/semester"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func springWindow(t *testing.T) semester.Window {
	t.Helper()
	w, err := semester.Resolve(2024, semester.SeasonSpring)
	require.NoError(t, err)
	return w
}

func TestEntityRepositoryListCourses(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEntityRepository(db)
	w := springWindow(t)

	created := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "name", "workflow_state", "created_at", "updated_at"}).
		AddRow(int64(101), "Algebra", "available", created, created)
	mock.ExpectQuery("SELECT id, name, workflow_state, created_at, updated_at").
		WithArgs(w.End).
		WillReturnRows(rows)

	courses, err := repo.ListCourses(context.Background(), w)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Equal(t, int64(101), courses[0].ID)
	require.Equal(t, models.CourseStateAvailable, courses[0].WorkflowState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepositoryListStudentEnrollments(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEntityRepository(db)
	w := springWindow(t)

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "course_id", "type", "workflow_state",
		"created_at", "updated_at", "start_at", "end_at", "last_activity_at",
	}).AddRow(int64(1), int64(7), int64(101), "StudentEnrollment", "available", created, created, nil, nil, nil)
	mock.ExpectQuery("SELECT id, user_id, course_id, type, workflow_state").
		WithArgs(models.EnrollmentTypeStudent, w.End).
		WillReturnRows(rows)

	enrollments, err := repo.ListStudentEnrollments(context.Background(), w)
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	require.Equal(t, int64(7), enrollments[0].UserID)
	require.Nil(t, enrollments[0].EndAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepositoryListSubmissionsWindowArgs(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEntityRepository(db)
	w := springWindow(t)

	submitted := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	score := 88.5
	rows := sqlmock.NewRows([]string{
		"id", "assignment_id", "course_id", "user_id", "workflow_state",
		"score", "submitted_at", "created_at", "updated_at",
	}).AddRow(int64(5), int64(42), int64(101), int64(7), "graded", score, submitted, submitted, submitted)
	mock.ExpectQuery("SELECT id, assignment_id, course_id, user_id, workflow_state").
		WithArgs(w.Start, w.End).
		WillReturnRows(rows)

	submissions, err := repo.ListSubmissions(context.Background(), w)
	require.NoError(t, err)
	require.Len(t, submissions, 1)
	require.NotNil(t, submissions[0].Score)
	require.InDelta(t, 88.5, *submissions[0].Score, 1e-9)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepositoryListSubmissionsCreatedKeepsNullSubmittedAt(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEntityRepository(db)
	w := springWindow(t)

	created := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	updated := created.Add(24 * time.Hour)
	rows := sqlmock.NewRows([]string{
		"id", "assignment_id", "course_id", "user_id", "workflow_state",
		"score", "submitted_at", "created_at", "updated_at",
	}).AddRow(int64(5), int64(42), int64(101), int64(7), "unsubmitted", nil, nil, created, updated)
	mock.ExpectQuery("WHERE created_at >= \\$1 AND created_at <= \\$2").
		WithArgs(w.Start, w.End).
		WillReturnRows(rows)

	submissions, err := repo.ListSubmissionsCreated(context.Background(), w)
	require.NoError(t, err)
	require.Len(t, submissions, 1)
	require.Nil(t, submissions[0].SubmittedAt)
	require.NotNil(t, submissions[0].CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEntityRepositoryListOutcomeResultsError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEntityRepository(db)
	w := springWindow(t)

	mock.ExpectQuery("SELECT id, learning_outcome_id, context_id, user_id").
		WithArgs(w.Start, w.End).
		WillReturnError(context.DeadlineExceeded)

	_, err := repo.ListOutcomeResults(context.Background(), w)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
