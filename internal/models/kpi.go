package models

import (
	"encoding/json"
	"math"
)

// AvailabilitySummary holds the course availability KPI for one semester
// window. Active and inactive are not an exhaustive partition: rows matching
// neither predicate fall in no bucket.
type AvailabilitySummary struct {
	ActiveCount   int     `json:"active_count"`
	InactiveCount int     `json:"inactive_count"`
	Ratio         float64 `json:"-"`
}

type availabilitySummaryJSON struct {
	ActiveCount   int      `json:"active_count"`
	InactiveCount int      `json:"inactive_count"`
	Ratio         *float64 `json:"ratio"`
}

// MarshalJSON encodes an infinite active/inactive ratio as null so the
// summary survives JSON transport and the redis cache.
func (s AvailabilitySummary) MarshalJSON() ([]byte, error) {
	out := availabilitySummaryJSON{ActiveCount: s.ActiveCount, InactiveCount: s.InactiveCount}
	if !math.IsInf(s.Ratio, 1) {
		ratio := s.Ratio
		out.Ratio = &ratio
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores the infinite-ratio convention.
func (s *AvailabilitySummary) UnmarshalJSON(data []byte) error {
	var in availabilitySummaryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	s.ActiveCount = in.ActiveCount
	s.InactiveCount = in.InactiveCount
	if in.Ratio == nil {
		s.Ratio = math.Inf(1)
	} else {
		s.Ratio = *in.Ratio
	}
	return nil
}

// MonthlyAvailabilityPoint is one month of the monthly availability series.
type MonthlyAvailabilityPoint struct {
	Month         string `json:"month"`
	ActiveCount   int    `json:"active_count"`
	InactiveCount int    `json:"inactive_count"`
}

// CourseFeedbackSummary is the per-course feedback latency KPI using the
// canonical self-update delta definition (updated_at minus created_at).
type CourseFeedbackSummary struct {
	CourseID             int64   `json:"course_id"`
	AverageFeedbackHours float64 `json:"average_feedback_hours"`
	SubmissionCount      int     `json:"submission_count"`
}

// CourseFeedbackDaysSummary is the per-course first-outside-comment feedback
// variant. Submissions with no qualifying comment carry a fixed 30 day
// sentinel instead of being excluded.
type CourseFeedbackDaysSummary struct {
	CourseID            int64   `json:"course_id"`
	CourseName          string  `json:"course_name,omitempty"`
	AverageFeedbackDays float64 `json:"average_feedback_days"`
	SubmissionCount     int     `json:"submission_count"`
}

// CourseMasterySummary is the per-course learning objective KPI.
// Mastery is counted at user grain: a user counts as mastered when any of
// their attempts has mastery true.
type CourseMasterySummary struct {
	CourseID                 int64   `json:"course_id"`
	AvgAchievementPercentage float64 `json:"avg_achievement_percentage"`
	MasteryPercentage        float64 `json:"mastery_percentage"`
}

// CourseScoreSummary is the per-course average submission score KPI.
type CourseScoreSummary struct {
	CourseID        int64   `json:"course_id"`
	AverageScore    float64 `json:"average_score"`
	SubmissionCount int     `json:"submission_count"`
}

// HistogramBin is one bucket of a score distribution histogram.
type HistogramBin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// RetentionSummary wraps the window-membership retention rate.
type RetentionSummary struct {
	RetentionRate float64 `json:"retention_rate"`
}

// CompletionSummary wraps the assignment-based completion rate.
type CompletionSummary struct {
	CompletionRate float64 `json:"completion_rate"`
}

// ScoreOverview combines the average current score with the final score
// distribution histogram.
type ScoreOverview struct {
	AverageScore float64        `json:"average_score"`
	Histogram    []HistogramBin `json:"histogram"`
}

// ModuleProgressSummary is the SQL-level module requirement progress KPI:
// per (user, module) completion averaged per course.
type ModuleProgressSummary struct {
	CourseID             int64   `db:"course_id" json:"course_id"`
	CourseName           string  `db:"course_name" json:"course_name"`
	CompletionPercentage float64 `db:"completion_percentage" json:"completion_percentage"`
}

// CourseCompletionSummary is the SQL-level course completion rate KPI over
// module requirements.
type CourseCompletionSummary struct {
	CourseID       int64   `db:"course_id" json:"course_id"`
	TotalEnrolled  int     `db:"total_enrolled" json:"total_enrolled"`
	CompletedCount int     `db:"completed_count" json:"completed_count"`
	CompletionRate float64 `db:"completion_rate" json:"completion_rate"`
}

// TermRetentionSummary is the term-scoped retention variant
// (RetentionDefinition = TermActivityBand): initial membership by creation
// window, final membership by last-activity recency band around semester end.
type TermRetentionSummary struct {
	CourseID          int64   `db:"course_id" json:"course_id"`
	CourseName        string  `db:"course_name" json:"course_name"`
	TermName          string  `db:"term_name" json:"term_name"`
	TotalEnrollments  int     `db:"total_enrollments" json:"total_enrollments"`
	ActiveEnrollments int     `db:"active_enrollments" json:"active_enrollments"`
	RetentionRate     float64 `db:"retention_rate" json:"retention_rate"`
}
