package kpi

import (
	"time"

	"github.com/larissaOjeda/thesis-canvas/internal/models"
	"github.com/larissaOjeda/thesis-canvas/internal/semester"
)

// MissingFeedbackPenaltyDays is the sentinel applied in the first-comment
// feedback variant when a submission never received outside feedback.
// Penalising instead of excluding keeps unanswered submissions visible in
// the average; see DESIGN.md for the open question around this choice.
const MissingFeedbackPenaltyDays = 30.0

// FeedbackTimeVsVolume computes the canonical per-course feedback latency
// KPI: for submissions created inside the window, the delta between
// updated_at and created_at in hours, averaged per course, together with the
// number of measured submissions. Rows without both timestamps are dropped.
func FeedbackTimeVsVolume(submissions []models.Submission, w semester.Window) []models.CourseFeedbackSummary {
	type acc struct {
		hours float64
		count int
	}
	byCourse := map[int64]acc{}
	ids := map[int64]struct{}{}
	for _, submission := range submissions {
		if !inWindow(submission.CreatedAt, w) {
			continue
		}
		if submission.UpdatedAt == nil {
			continue
		}
		delta := submission.UpdatedAt.Sub(*submission.CreatedAt)
		entry := byCourse[submission.CourseID]
		entry.hours += delta.Hours()
		entry.count++
		byCourse[submission.CourseID] = entry
		ids[submission.CourseID] = struct{}{}
	}

	summaries := make([]models.CourseFeedbackSummary, 0, len(byCourse))
	for _, courseID := range sortedKeys(ids) {
		entry := byCourse[courseID]
		summaries = append(summaries, models.CourseFeedbackSummary{
			CourseID:             courseID,
			AverageFeedbackHours: entry.hours / float64(entry.count),
			SubmissionCount:      entry.count,
		})
	}
	return summaries
}

// FirstCommentFeedback computes the first-outside-comment feedback variant:
// for submissions submitted inside the window, the days until the earliest
// comment authored by someone other than the submitting student. Submissions
// with no such comment count as MissingFeedbackPenaltyDays; submissions whose
// first comment predates the submission are dropped as invalid data.
func FirstCommentFeedback(submissions []models.Submission, comments []models.SubmissionComment, w semester.Window) []models.CourseFeedbackDaysSummary {
	authorBySubmission := map[int64]int64{}
	for _, submission := range submissions {
		authorBySubmission[submission.ID] = submission.UserID
	}

	firstComment := map[int64]time.Time{}
	for _, comment := range comments {
		if comment.CreatedAt == nil {
			continue
		}
		if author, ok := authorBySubmission[comment.SubmissionID]; ok && comment.AuthorID == author {
			continue
		}
		if current, ok := firstComment[comment.SubmissionID]; !ok || comment.CreatedAt.Before(current) {
			firstComment[comment.SubmissionID] = *comment.CreatedAt
		}
	}

	type acc struct {
		days  float64
		count int
	}
	byCourse := map[int64]acc{}
	ids := map[int64]struct{}{}
	for _, submission := range submissions {
		if !inWindow(submission.SubmittedAt, w) {
			continue
		}
		days := MissingFeedbackPenaltyDays
		if first, ok := firstComment[submission.ID]; ok {
			if first.Before(*submission.SubmittedAt) {
				continue
			}
			days = first.Sub(*submission.SubmittedAt).Hours() / 24
		}
		entry := byCourse[submission.CourseID]
		entry.days += days
		entry.count++
		byCourse[submission.CourseID] = entry
		ids[submission.CourseID] = struct{}{}
	}

	summaries := make([]models.CourseFeedbackDaysSummary, 0, len(byCourse))
	for _, courseID := range sortedKeys(ids) {
		entry := byCourse[courseID]
		summaries = append(summaries, models.CourseFeedbackDaysSummary{
			CourseID:            courseID,
			AverageFeedbackDays: entry.days / float64(entry.count),
			SubmissionCount:     entry.count,
		})
	}
	return summaries
}
