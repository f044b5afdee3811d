package kpi

import (
	"github.com/larissaOjeda/thesis-canvas/internal/models"
	"github.com/larissaOjeda/thesis-canvas/internal/semester"
)

// AverageScore returns the mean current_score across active score rows
// updated inside the window. Rows without a current score are dropped.
// Returns 0.0 when the filtered set is empty.
func AverageScore(scores []models.Score, w semester.Window) float64 {
	var sum float64
	var count int
	for _, score := range scores {
		if score.WorkflowState != models.ScoreStateActive {
			continue
		}
		if !inWindow(score.UpdatedAt, w) {
			continue
		}
		if score.CurrentScore == nil {
			continue
		}
		sum += *score.CurrentScore
		count++
	}
	if count == 0 {
		return 0.0
	}
	return sum / float64(count)
}

// ScoreDistribution returns the final_score values of score rows created on
// or before the window end and updated on or after the window start (a nil
// updated_at is open-ended). Nil final scores are dropped. The result keeps
// the insertion order of the source rows and is recomputed on every call.
func ScoreDistribution(scores []models.Score, w semester.Window) []float64 {
	values := make([]float64, 0, len(scores))
	for _, score := range scores {
		if !onOrBefore(score.CreatedAt, w.End) {
			continue
		}
		if !openEndedOnOrAfter(score.UpdatedAt, w.Start) {
			continue
		}
		if score.FinalScore == nil {
			continue
		}
		values = append(values, *score.FinalScore)
	}
	return values
}

// AverageScoreByCourse groups scored submissions submitted inside the window
// by course and averages their scores.
func AverageScoreByCourse(submissions []models.Submission, w semester.Window) []models.CourseScoreSummary {
	type acc struct {
		sum   float64
		count int
	}
	byCourse := map[int64]acc{}
	ids := map[int64]struct{}{}
	for _, submission := range submissions {
		if !inWindow(submission.SubmittedAt, w) {
			continue
		}
		if submission.Score == nil {
			continue
		}
		entry := byCourse[submission.CourseID]
		entry.sum += *submission.Score
		entry.count++
		byCourse[submission.CourseID] = entry
		ids[submission.CourseID] = struct{}{}
	}

	summaries := make([]models.CourseScoreSummary, 0, len(byCourse))
	for _, courseID := range sortedKeys(ids) {
		entry := byCourse[courseID]
		summaries = append(summaries, models.CourseScoreSummary{
			CourseID:        courseID,
			AverageScore:    entry.sum / float64(entry.count),
			SubmissionCount: entry.count,
		})
	}
	return summaries
}

// Histogram buckets values into equal-width bins over [low, high], both
// boundaries inclusive for the final bin. Values outside the range are
// ignored.
func Histogram(values []float64, bins int, low, high float64) []models.HistogramBin {
	if bins <= 0 || high <= low {
		return nil
	}
	width := (high - low) / float64(bins)
	result := make([]models.HistogramBin, bins)
	for i := range result {
		result[i].Low = low + float64(i)*width
		result[i].High = low + float64(i+1)*width
	}
	for _, v := range values {
		if v < low || v > high {
			continue
		}
		idx := int((v - low) / width)
		if idx == bins {
			idx = bins - 1
		}
		result[idx].Count++
	}
	return result
}
