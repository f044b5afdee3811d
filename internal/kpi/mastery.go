package kpi

import (
	"github.com/larissaOjeda/thesis-canvas/internal/models"
	"github.com/larissaOjeda/thesis-canvas/internal/semester"
)

// ObjectiveCompletion computes the per-course learning objective KPI over
// outcome results created inside the window.
//
// Achievement is row grain: the mean of score/possible*100 across rows with
// possible > 0 and a recorded score. Mastery is user grain: the share of
// distinct users with at least one mastered attempt, which avoids double
// counting users with multiple attempts.
func ObjectiveCompletion(results []models.OutcomeResult, w semester.Window) []models.CourseMasterySummary {
	type acc struct {
		achievementSum   float64
		achievementCount int
		users            map[int64]struct{}
		mastered         map[int64]struct{}
	}
	byCourse := map[int64]*acc{}
	ids := map[int64]struct{}{}
	for _, result := range results {
		if !inWindow(result.CreatedAt, w) {
			continue
		}
		entry := byCourse[result.ContextID]
		if entry == nil {
			entry = &acc{users: map[int64]struct{}{}, mastered: map[int64]struct{}{}}
			byCourse[result.ContextID] = entry
			ids[result.ContextID] = struct{}{}
		}
		if result.Score != nil && result.Possible != nil && *result.Possible > 0 {
			entry.achievementSum += *result.Score / *result.Possible * 100
			entry.achievementCount++
		}
		entry.users[result.UserID] = struct{}{}
		if result.Mastery != nil && *result.Mastery {
			entry.mastered[result.UserID] = struct{}{}
		}
	}

	summaries := make([]models.CourseMasterySummary, 0, len(byCourse))
	for _, courseID := range sortedKeys(ids) {
		entry := byCourse[courseID]
		summary := models.CourseMasterySummary{CourseID: courseID}
		if entry.achievementCount > 0 {
			summary.AvgAchievementPercentage = entry.achievementSum / float64(entry.achievementCount)
		}
		if len(entry.users) > 0 {
			summary.MasteryPercentage = float64(len(entry.mastered)) / float64(len(entry.users)) * 100
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
