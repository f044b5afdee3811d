package kpi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larissaOjeda/thesis-canvas/internal/models"
)

func tsAt(year int, month time.Month, day, hour int) *time.Time {
	t := time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
	return &t
}

func TestFeedbackTimeVsVolume(t *testing.T) {
	w := spring2024(t)
	submissions := []models.Submission{
		{ID: 1, CourseID: 10, CreatedAt: tsAt(2024, 2, 1, 0), UpdatedAt: tsAt(2024, 2, 1, 12)},
		{ID: 2, CourseID: 10, CreatedAt: tsAt(2024, 2, 2, 0), UpdatedAt: tsAt(2024, 2, 3, 0)},
		// Nil updated_at: dropped from the average.
		{ID: 3, CourseID: 10, CreatedAt: tsAt(2024, 2, 3, 0)},
		// Created outside the window: dropped.
		{ID: 4, CourseID: 10, CreatedAt: tsAt(2023, 11, 1, 0), UpdatedAt: tsAt(2023, 11, 2, 0)},
		{ID: 5, CourseID: 20, CreatedAt: tsAt(2024, 3, 1, 0), UpdatedAt: tsAt(2024, 3, 1, 6)},
	}

	summaries := FeedbackTimeVsVolume(submissions, w)
	require.Len(t, summaries, 2)

	assert.Equal(t, int64(10), summaries[0].CourseID)
	// (12h + 24h) / 2 submissions.
	assert.InDelta(t, 18.0, summaries[0].AverageFeedbackHours, 1e-9)
	assert.Equal(t, 2, summaries[0].SubmissionCount)

	assert.Equal(t, int64(20), summaries[1].CourseID)
	assert.InDelta(t, 6.0, summaries[1].AverageFeedbackHours, 1e-9)
}

func TestFeedbackTimeVsVolumeEmpty(t *testing.T) {
	assert.Empty(t, FeedbackTimeVsVolume(nil, spring2024(t)))
}

func TestFirstCommentFeedback(t *testing.T) {
	w := spring2024(t)
	submissions := []models.Submission{
		{ID: 1, CourseID: 10, UserID: 100, SubmittedAt: tsAt(2024, 2, 1, 0)},
		{ID: 2, CourseID: 10, UserID: 101, SubmittedAt: tsAt(2024, 2, 1, 0)},
	}
	comments := []models.SubmissionComment{
		// Feedback after two days, earliest of two outside comments.
		{ID: 1, SubmissionID: 1, AuthorID: 7, CreatedAt: tsAt(2024, 2, 3, 0)},
		{ID: 2, SubmissionID: 1, AuthorID: 8, CreatedAt: tsAt(2024, 2, 5, 0)},
		// Self comment: never counts as feedback.
		{ID: 3, SubmissionID: 2, AuthorID: 101, CreatedAt: tsAt(2024, 2, 2, 0)},
	}

	summaries := FirstCommentFeedback(submissions, comments, w)
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(10), summaries[0].CourseID)
	// Submission 1 waited 2 days; submission 2 takes the 30 day penalty.
	assert.InDelta(t, 16.0, summaries[0].AverageFeedbackDays, 1e-9)
	assert.Equal(t, 2, summaries[0].SubmissionCount)
}

func TestFirstCommentFeedbackInvalidOrderingDropped(t *testing.T) {
	w := spring2024(t)
	submissions := []models.Submission{
		{ID: 1, CourseID: 10, UserID: 100, SubmittedAt: tsAt(2024, 2, 10, 0)},
	}
	comments := []models.SubmissionComment{
		// Comment predating the submission is invalid data.
		{ID: 1, SubmissionID: 1, AuthorID: 7, CreatedAt: tsAt(2024, 2, 1, 0)},
	}

	assert.Empty(t, FirstCommentFeedback(submissions, comments, w))
}

func TestFirstCommentFeedbackWindowOnSubmittedAt(t *testing.T) {
	w := spring2024(t)
	submissions := []models.Submission{
		// Submitted outside the window; ignored even with feedback.
		{ID: 1, CourseID: 10, UserID: 100, SubmittedAt: tsAt(2023, 11, 1, 0)},
		// Nil submitted_at: excluded.
		{ID: 2, CourseID: 10, UserID: 100},
	}
	comments := []models.SubmissionComment{
		{ID: 1, SubmissionID: 1, AuthorID: 7, CreatedAt: tsAt(2023, 11, 2, 0)},
	}

	assert.Empty(t, FirstCommentFeedback(submissions, comments, w))
}
