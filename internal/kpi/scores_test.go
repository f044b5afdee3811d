package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larissaOjeda/thesis-canvas/internal/models"
)

func TestAverageScore(t *testing.T) {
	scores := []models.Score{
		{ID: 1, WorkflowState: models.ScoreStateActive, CurrentScore: f64(80), UpdatedAt: ts(2024, 3, 1)},
		{ID: 2, WorkflowState: models.ScoreStateActive, CurrentScore: f64(60), UpdatedAt: ts(2024, 3, 2)},
		// Not active: ignored.
		{ID: 3, WorkflowState: "deleted", CurrentScore: f64(10), UpdatedAt: ts(2024, 3, 2)},
		// Updated outside the window: ignored.
		{ID: 4, WorkflowState: models.ScoreStateActive, CurrentScore: f64(10), UpdatedAt: ts(2024, 9, 1)},
		// Nil score: dropped.
		{ID: 5, WorkflowState: models.ScoreStateActive, UpdatedAt: ts(2024, 3, 3)},
	}

	assert.InDelta(t, 70.0, AverageScore(scores, spring2024(t)), 1e-9)
}

func TestAverageScoreEmpty(t *testing.T) {
	assert.Equal(t, 0.0, AverageScore(nil, spring2024(t)))
}

func TestScoreDistributionFiltersAndOrder(t *testing.T) {
	w := spring2024(t)
	scores := []models.Score{
		{ID: 1, FinalScore: f64(91), CreatedAt: ts(2024, 1, 5), UpdatedAt: ts(2024, 2, 1)},
		// Open-ended updated_at counts.
		{ID: 2, FinalScore: f64(55), CreatedAt: ts(2024, 2, 5)},
		// Updated before the window start: excluded.
		{ID: 3, FinalScore: f64(40), CreatedAt: ts(2023, 9, 1), UpdatedAt: ts(2023, 10, 1)},
		// Created after the window end: excluded.
		{ID: 4, FinalScore: f64(70), CreatedAt: ts(2024, 9, 1)},
		// Nil final score: dropped.
		{ID: 5, CreatedAt: ts(2024, 2, 5)},
	}

	values := ScoreDistribution(scores, w)
	assert.Equal(t, []float64{91, 55}, values)
}

func TestScoreDistributionIdempotent(t *testing.T) {
	w := spring2024(t)
	scores := []models.Score{
		{ID: 1, FinalScore: f64(91), CreatedAt: ts(2024, 1, 5)},
		{ID: 2, FinalScore: f64(55), CreatedAt: ts(2024, 2, 5)},
	}

	first := ScoreDistribution(scores, w)
	second := ScoreDistribution(scores, w)
	assert.Equal(t, first, second)
}

func TestAverageScoreByCourse(t *testing.T) {
	w := spring2024(t)
	submissions := []models.Submission{
		{ID: 1, CourseID: 20, Score: f64(90), SubmittedAt: ts(2024, 2, 1)},
		{ID: 2, CourseID: 20, Score: f64(70), SubmittedAt: ts(2024, 2, 2)},
		{ID: 3, CourseID: 10, Score: f64(50), SubmittedAt: ts(2024, 2, 3)},
		// No score: dropped.
		{ID: 4, CourseID: 10, SubmittedAt: ts(2024, 2, 3)},
		// Outside window: dropped.
		{ID: 5, CourseID: 10, Score: f64(10), SubmittedAt: ts(2024, 9, 1)},
	}

	summaries := AverageScoreByCourse(submissions, w)
	require.Len(t, summaries, 2)
	assert.Equal(t, int64(10), summaries[0].CourseID)
	assert.InDelta(t, 50.0, summaries[0].AverageScore, 1e-9)
	assert.Equal(t, int64(20), summaries[1].CourseID)
	assert.InDelta(t, 80.0, summaries[1].AverageScore, 1e-9)
	assert.Equal(t, 2, summaries[1].SubmissionCount)
}

func TestHistogram(t *testing.T) {
	bins := Histogram([]float64{0, 10, 55, 99, 100, 150}, 10, 0, 100)
	require.Len(t, bins, 10)
	assert.Equal(t, 1, bins[0].Count) // 0
	assert.Equal(t, 1, bins[1].Count) // 10
	assert.Equal(t, 1, bins[5].Count) // 55
	// 99 and the inclusive upper boundary 100 share the final bin; 150 falls
	// outside the range.
	assert.Equal(t, 2, bins[9].Count)
}

func TestHistogramDegenerateRange(t *testing.T) {
	assert.Nil(t, Histogram([]float64{1, 2}, 0, 0, 100))
	assert.Nil(t, Histogram([]float64{1, 2}, 10, 100, 100))
}
