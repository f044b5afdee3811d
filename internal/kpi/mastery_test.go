package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larissaOjeda/thesis-canvas/internal/models"
)

func TestObjectiveCompletionUserGrainMastery(t *testing.T) {
	w := spring2024(t)
	results := []models.OutcomeResult{
		// User 1 masters on the second attempt: counts once.
		{ID: 1, ContextID: 10, UserID: 1, Score: f64(2), Possible: f64(4), Mastery: boolPtr(false), CreatedAt: ts(2024, 2, 1)},
		{ID: 2, ContextID: 10, UserID: 1, Score: f64(4), Possible: f64(4), Mastery: boolPtr(true), CreatedAt: ts(2024, 3, 1)},
		// User 2 never masters.
		{ID: 3, ContextID: 10, UserID: 2, Score: f64(1), Possible: f64(4), Mastery: boolPtr(false), CreatedAt: ts(2024, 2, 1)},
		// Outside the window: ignored.
		{ID: 4, ContextID: 10, UserID: 3, Score: f64(4), Possible: f64(4), Mastery: boolPtr(true), CreatedAt: ts(2024, 9, 1)},
	}

	summaries := ObjectiveCompletion(results, w)
	require.Len(t, summaries, 1)
	summary := summaries[0]
	assert.Equal(t, int64(10), summary.CourseID)
	// Achievement over rows: (50 + 100 + 25) / 3.
	assert.InDelta(t, 58.333333, summary.AvgAchievementPercentage, 1e-4)
	// Mastery over users: 1 of 2.
	assert.InDelta(t, 50.0, summary.MasteryPercentage, 1e-9)
}

func TestObjectiveCompletionZeroPossibleExcludedFromAchievement(t *testing.T) {
	w := spring2024(t)
	results := []models.OutcomeResult{
		{ID: 1, ContextID: 10, UserID: 1, Score: f64(3), Possible: f64(0), Mastery: boolPtr(true), CreatedAt: ts(2024, 2, 1)},
		{ID: 2, ContextID: 10, UserID: 2, Score: f64(3), Possible: f64(6), Mastery: nil, CreatedAt: ts(2024, 2, 1)},
	}

	summaries := ObjectiveCompletion(results, w)
	require.Len(t, summaries, 1)
	// Only the possible > 0 row contributes to achievement.
	assert.InDelta(t, 50.0, summaries[0].AvgAchievementPercentage, 1e-9)
	// Nil mastery counts as not mastered.
	assert.InDelta(t, 50.0, summaries[0].MasteryPercentage, 1e-9)
}

func TestObjectiveCompletionEmpty(t *testing.T) {
	assert.Empty(t, ObjectiveCompletion(nil, spring2024(t)))
}
