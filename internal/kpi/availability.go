package kpi

import (
	"math"

	"github.com/larissaOjeda/thesis-canvas/internal/models"
	"github.com/larissaOjeda/thesis-canvas/internal/semester"
)

// AvailabilityCounts classifies courses against a semester window.
//
// Active: workflow_state is available, the course started (created_at) on or
// before the window end, and it was still updated on or after the window
// start or carries no update timestamp (open-ended).
//
// Inactive: any other workflow_state, started on or before the window end,
// and genuinely ended (non-nil updated_at strictly before the window start).
//
// Rows matching neither predicate are counted in neither bucket. The ratio
// is active/inactive, or +Inf when there are no inactive courses.
func AvailabilityCounts(courses []models.Course, w semester.Window) models.AvailabilitySummary {
	summary := models.AvailabilitySummary{}
	for _, course := range courses {
		if !onOrBefore(course.CreatedAt, w.End) {
			continue
		}
		if course.WorkflowState == models.CourseStateAvailable {
			if openEndedOnOrAfter(course.UpdatedAt, w.Start) {
				summary.ActiveCount++
			}
			continue
		}
		if course.UpdatedAt != nil && course.UpdatedAt.Before(w.Start) {
			summary.InactiveCount++
		}
	}
	if summary.InactiveCount > 0 {
		summary.Ratio = float64(summary.ActiveCount) / float64(summary.InactiveCount)
	} else {
		summary.Ratio = math.Inf(1)
	}
	return summary
}

// MonthlyAvailability computes the availability classification for every
// calendar month of the given semester.
func MonthlyAvailability(courses []models.Course, year int, season semester.Season) ([]models.MonthlyAvailabilityPoint, error) {
	window, err := semester.Resolve(year, season)
	if err != nil {
		return nil, err
	}

	months := window.Months()
	points := make([]models.MonthlyAvailabilityPoint, 0, len(months))
	for _, month := range months {
		counts := AvailabilityCounts(courses, month)
		points = append(points, models.MonthlyAvailabilityPoint{
			Month:         month.Start.Format("Jan"),
			ActiveCount:   counts.ActiveCount,
			InactiveCount: counts.InactiveCount,
		})
	}
	return points, nil
}
