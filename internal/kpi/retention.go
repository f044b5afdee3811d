package kpi

import (
	"github.com/larissaOjeda/thesis-canvas/internal/models"
	"github.com/larissaOjeda/thesis-canvas/internal/semester"
)

// RetentionRate computes the canonical window-membership retention KPI
// (RetentionDefinition = WindowMembership): the initial cohort is every
// available enrollment created on or before the window start, the final
// cohort every available enrollment still updated on or after the window
// end. Returns final/initial*100, or 0 when the initial cohort is empty.
//
// The incompatible term-scoped activity-band definition lives in the SQL
// layer as TermRetention and is reported as a distinct KPI.
func RetentionRate(enrollments []models.Enrollment, w semester.Window) float64 {
	var initial, final int
	for _, enrollment := range enrollments {
		if enrollment.WorkflowState != models.EnrollmentStateAvailable {
			continue
		}
		if onOrBefore(enrollment.CreatedAt, w.Start) {
			initial++
		}
		if onOrAfter(enrollment.UpdatedAt, w.End) {
			final++
		}
	}
	if initial == 0 {
		return 0
	}
	return float64(final) / float64(initial) * 100
}
