package kpi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larissaOjeda/thesis-canvas/internal/models"
	"github.com/larissaOjeda/thesis-canvas/internal/semester"
)

func TestAvailabilityCountsSingleActiveCourse(t *testing.T) {
	courses := []models.Course{
		{ID: 1, WorkflowState: models.CourseStateAvailable, CreatedAt: ts(2024, 1, 10), UpdatedAt: ts(2024, 5, 1)},
	}

	summary := AvailabilityCounts(courses, spring2024(t))
	assert.Equal(t, 1, summary.ActiveCount)
	assert.Equal(t, 0, summary.InactiveCount)
	assert.True(t, math.IsInf(summary.Ratio, 1))
}

func TestAvailabilityCountsBuckets(t *testing.T) {
	w := spring2024(t)
	courses := []models.Course{
		// Active: open-ended updated_at.
		{ID: 1, WorkflowState: models.CourseStateAvailable, CreatedAt: ts(2023, 9, 1)},
		// Active: updated inside the window.
		{ID: 2, WorkflowState: models.CourseStateAvailable, CreatedAt: ts(2023, 9, 1), UpdatedAt: ts(2024, 2, 1)},
		// Inactive: ended before the window.
		{ID: 3, WorkflowState: "completed", CreatedAt: ts(2023, 2, 1), UpdatedAt: ts(2023, 6, 1)},
		// Neither: unavailable but updated inside the window.
		{ID: 4, WorkflowState: "unpublished", CreatedAt: ts(2023, 9, 1), UpdatedAt: ts(2024, 2, 1)},
		// Neither: created after the window end.
		{ID: 5, WorkflowState: models.CourseStateAvailable, CreatedAt: ts(2024, 9, 1)},
		// Neither: nil created_at excludes the row entirely.
		{ID: 6, WorkflowState: models.CourseStateAvailable},
		// Neither: unavailable with open-ended updated_at.
		{ID: 7, WorkflowState: "deleted", CreatedAt: ts(2023, 1, 1)},
	}

	summary := AvailabilityCounts(courses, w)
	assert.Equal(t, 2, summary.ActiveCount)
	assert.Equal(t, 1, summary.InactiveCount)
	assert.InDelta(t, 2.0, summary.Ratio, 1e-9)

	// Buckets never cover more rows than the table holds.
	assert.LessOrEqual(t, summary.ActiveCount+summary.InactiveCount, len(courses))
}

func TestAvailabilityCountsAvailableEndedBeforeWindow(t *testing.T) {
	// An available course whose updated_at predates the window matches
	// neither predicate.
	courses := []models.Course{
		{ID: 1, WorkflowState: models.CourseStateAvailable, CreatedAt: ts(2023, 1, 1), UpdatedAt: ts(2023, 6, 1)},
	}

	summary := AvailabilityCounts(courses, spring2024(t))
	assert.Equal(t, 0, summary.ActiveCount)
	assert.Equal(t, 0, summary.InactiveCount)
	assert.True(t, math.IsInf(summary.Ratio, 1))
}

func TestAvailabilityCountsDoesNotMutateInput(t *testing.T) {
	courses := []models.Course{
		{ID: 1, WorkflowState: models.CourseStateAvailable, CreatedAt: ts(2024, 1, 10), UpdatedAt: ts(2024, 5, 1)},
	}
	snapshot := make([]models.Course, len(courses))
	copy(snapshot, courses)

	first := AvailabilityCounts(courses, spring2024(t))
	second := AvailabilityCounts(courses, spring2024(t))

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, courses)
}

func TestMonthlyAvailability(t *testing.T) {
	courses := []models.Course{
		{ID: 1, WorkflowState: models.CourseStateAvailable, CreatedAt: ts(2024, 2, 15)},
		{ID: 2, WorkflowState: "completed", CreatedAt: ts(2023, 9, 1), UpdatedAt: ts(2024, 1, 20)},
	}

	points, err := MonthlyAvailability(courses, 2024, semester.SeasonSpring)
	require.NoError(t, err)
	require.Len(t, points, 5)

	assert.Equal(t, "Jan", points[0].Month)
	// Course 1 is not created until February.
	assert.Equal(t, 0, points[0].ActiveCount)
	assert.Equal(t, "Feb", points[1].Month)
	assert.Equal(t, 1, points[1].ActiveCount)
	// Course 2 ended on Jan 20, before February starts.
	assert.Equal(t, 1, points[1].InactiveCount)
}

func TestMonthlyAvailabilityInvalidSeason(t *testing.T) {
	_, err := MonthlyAvailability(nil, 2024, semester.Season("Fall"))
	require.Error(t, err)
}
