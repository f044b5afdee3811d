// Package dto holds response shapes composed from multiple models.
package dto

import (
	"time"

	"github.com/larissaOjeda/thesis-canvas/internal/models"
)

// SemesterInfo echoes the resolved window back to the caller.
type SemesterInfo struct {
	Year     int       `json:"year"`
	Semester string    `json:"semester"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// KPIOverviewResponse is the full KPI set for one semester window.
type KPIOverviewResponse struct {
	Semester            SemesterInfo                      `json:"semester"`
	Availability        models.AvailabilitySummary        `json:"availability"`
	MonthlyAvailability []models.MonthlyAvailabilityPoint `json:"monthly_availability"`
	Retention           models.RetentionSummary           `json:"retention"`
	Completion          models.CompletionSummary          `json:"completion"`
	Scores              models.ScoreOverview              `json:"scores"`
	ScoresByCourse      []models.CourseScoreSummary       `json:"scores_by_course"`
	FeedbackTime        []models.CourseFeedbackSummary    `json:"feedback_time"`
	FeedbackDays        []models.CourseFeedbackDaysSummary `json:"feedback_days"`
	Mastery             []models.CourseMasterySummary     `json:"mastery"`
	ModuleProgress      []models.ModuleProgressSummary    `json:"module_progress"`
	CourseCompletion    []models.CourseCompletionSummary  `json:"course_completion"`
	TermRetention       []models.TermRetentionSummary     `json:"term_retention"`
	GeneratedAt         time.Time                         `json:"generated_at"`
}

// SyncRunResponse reports the state of one replication run.
type SyncRunResponse struct {
	Run models.SyncRecord `json:"run"`
}

// SyncTriggerResponse lists the runs enqueued by a sync trigger.
type SyncTriggerResponse struct {
	Runs []models.SyncRecord `json:"runs"`
}

// ReportResponse points at a generated report download.
type ReportResponse struct {
	Filename  string    `json:"filename"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
