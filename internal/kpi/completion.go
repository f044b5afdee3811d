package kpi

import (
	"github.com/larissaOjeda/thesis-canvas/internal/models"
	"github.com/larissaOjeda/thesis-canvas/internal/semester"
)

// CompletionRate computes the assignment completion KPI: the share of
// distinct assignments created inside the window that have at least one
// graded submission submitted inside the window. Returns 0.0 when no
// assignment qualifies (never NaN, never an error).
func CompletionRate(assignments []models.Assignment, submissions []models.Submission, w semester.Window) float64 {
	total := map[int64]struct{}{}
	for _, assignment := range assignments {
		if inWindow(assignment.CreatedAt, w) {
			total[assignment.ID] = struct{}{}
		}
	}
	if len(total) == 0 {
		return 0.0
	}

	completed := map[int64]struct{}{}
	for _, submission := range submissions {
		if submission.WorkflowState != models.SubmissionStateGraded {
			continue
		}
		if inWindow(submission.SubmittedAt, w) {
			completed[submission.AssignmentID] = struct{}{}
		}
	}
	return float64(len(completed)) / float64(len(total)) * 100
}
