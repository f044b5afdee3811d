package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/larissaOjeda/thesis-canvas/internal/kpi"
	"github.com/larissaOjeda/thesis-canvas/internal/models"
	"github.com/larissaOjeda/thesis-canvas/internal/semester"
)

const (
	scoreHistogramBins = 10
	scoreHistogramLow  = 0
	scoreHistogramHigh = 100
)

// EntityLoader describes the row-level persistence required by KPIService.
type EntityLoader interface {
	ListCourses(ctx context.Context, w semester.Window) ([]models.Course, error)
	ListStudentEnrollments(ctx context.Context, w semester.Window) ([]models.Enrollment, error)
	ListAssignments(ctx context.Context, w semester.Window) ([]models.Assignment, error)
	ListSubmissions(ctx context.Context, w semester.Window) ([]models.Submission, error)
	ListSubmissionsCreated(ctx context.Context, w semester.Window) ([]models.Submission, error)
	ListSubmissionComments(ctx context.Context, w semester.Window) ([]models.SubmissionComment, error)
	ListScores(ctx context.Context, w semester.Window) ([]models.Score, error)
	ListOutcomeResults(ctx context.Context, w semester.Window) ([]models.OutcomeResult, error)
}

// AggregateQuerier describes the SQL-level KPI queries.
type AggregateQuerier interface {
	ModuleProgress(ctx context.Context, w semester.Window) ([]models.ModuleProgressSummary, error)
	CourseCompletionByModules(ctx context.Context, w semester.Window) ([]models.CourseCompletionSummary, error)
	TermRetention(ctx context.Context, w semester.Window, termName string) ([]models.TermRetentionSummary, error)
}

// KPIService resolves semester windows, loads replicated rows and computes
// the KPI set with cache integration. The boolean on every method indicates
// whether the payload originated from cache.
type KPIService struct {
	entities   EntityLoader
	aggregates AggregateQuerier
	cache      *CacheService
	metrics    *MetricsService
	logger     *zap.Logger
	cacheTTL   time.Duration
}

// NewKPIService constructs a KPI service.
func NewKPIService(entities EntityLoader, aggregates AggregateQuerier, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cacheTTL time.Duration) *KPIService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &KPIService{
		entities:   entities,
		aggregates: aggregates,
		cache:      cache,
		metrics:    metrics,
		logger:     logger,
		cacheTTL:   cacheTTL,
	}
}

// Availability classifies courses into active and inactive for the window.
func (s *KPIService) Availability(ctx context.Context, year int, season semester.Season) (*models.AvailabilitySummary, bool, error) {
	w, err := semester.Resolve(year, season)
	if err != nil {
		return nil, false, err
	}

	cacheKey := makeKPICacheKey("availability", year, season)
	var cached models.AvailabilitySummary
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	start := time.Now()
	courses, err := s.entities.ListCourses(ctx, w)
	if err != nil {
		return nil, false, err
	}
	s.observeDB("courses", start)
	summary := kpi.AvailabilityCounts(courses, w)
	s.observe("availability", start)

	s.persist(ctx, cacheKey, summary)
	return &summary, false, nil
}

// MonthlyAvailability returns the per-month availability series across the window.
func (s *KPIService) MonthlyAvailability(ctx context.Context, year int, season semester.Season) ([]models.MonthlyAvailabilityPoint, bool, error) {
	w, err := semester.Resolve(year, season)
	if err != nil {
		return nil, false, err
	}

	cacheKey := makeKPICacheKey("availability_monthly", year, season)
	var cached []models.MonthlyAvailabilityPoint
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, true, nil
	}

	start := time.Now()
	courses, err := s.entities.ListCourses(ctx, w)
	if err != nil {
		return nil, false, err
	}
	s.observeDB("courses", start)
	points, err := kpi.MonthlyAvailability(courses, year, season)
	if err != nil {
		return nil, false, err
	}
	s.observe("availability_monthly", start)

	s.persist(ctx, cacheKey, points)
	return points, false, nil
}

// Retention computes the window-membership retention rate over student enrollments.
func (s *KPIService) Retention(ctx context.Context, year int, season semester.Season) (*models.RetentionSummary, bool, error) {
	w, err := semester.Resolve(year, season)
	if err != nil {
		return nil, false, err
	}

	cacheKey := makeKPICacheKey("retention", year, season)
	var cached models.RetentionSummary
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	start := time.Now()
	enrollments, err := s.entities.ListStudentEnrollments(ctx, w)
	if err != nil {
		return nil, false, err
	}
	s.observeDB("enrollments", start)
	summary := models.RetentionSummary{RetentionRate: kpi.RetentionRate(enrollments, w)}
	s.observe("retention", start)

	s.persist(ctx, cacheKey, summary)
	return &summary, false, nil
}

// Completion computes the assignment-based completion rate.
func (s *KPIService) Completion(ctx context.Context, year int, season semester.Season) (*models.CompletionSummary, bool, error) {
	w, err := semester.Resolve(year, season)
	if err != nil {
		return nil, false, err
	}

	cacheKey := makeKPICacheKey("completion", year, season)
	var cached models.CompletionSummary
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	start := time.Now()
	assignments, err := s.entities.ListAssignments(ctx, w)
	if err != nil {
		return nil, false, err
	}
	s.observeDB("assignments", start)

	qStart := time.Now()
	submissions, err := s.entities.ListSubmissions(ctx, w)
	if err != nil {
		return nil, false, err
	}
	s.observeDB("submissions", qStart)
	summary := models.CompletionSummary{CompletionRate: kpi.CompletionRate(assignments, submissions, w)}
	s.observe("completion", start)

	s.persist(ctx, cacheKey, summary)
	return &summary, false, nil
}

// Scores combines the average current score with the final score histogram.
func (s *KPIService) Scores(ctx context.Context, year int, season semester.Season) (*models.ScoreOverview, bool, error) {
	w, err := semester.Resolve(year, season)
	if err != nil {
		return nil, false, err
	}

	cacheKey := makeKPICacheKey("scores", year, season)
	var cached models.ScoreOverview
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	start := time.Now()
	scores, err := s.entities.ListScores(ctx, w)
	if err != nil {
		return nil, false, err
	}
	s.observeDB("scores", start)
	overview := models.ScoreOverview{
		AverageScore: kpi.AverageScore(scores, w),
		Histogram:    kpi.Histogram(kpi.ScoreDistribution(scores, w), scoreHistogramBins, scoreHistogramLow, scoreHistogramHigh),
	}
	s.observe("scores", start)

	s.persist(ctx, cacheKey, overview)
	return &overview, false, nil
}

// ScoresByCourse computes the per-course average submission score.
func (s *KPIService) ScoresByCourse(ctx context.Context, year int, season semester.Season) ([]models.CourseScoreSummary, bool, error) {
	w, err := semester.Resolve(year, season)
	if err != nil {
		return nil, false, err
	}

	cacheKey := makeKPICacheKey("scores_by_course", year, season)
	var cached []models.CourseScoreSummary
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, true, nil
	}

	start := time.Now()
	submissions, err := s.entities.ListSubmissions(ctx, w)
	if err != nil {
		return nil, false, err
	}
	s.observeDB("submissions", start)
	summaries := kpi.AverageScoreByCourse(submissions, w)
	s.observe("scores_by_course", start)

	s.persist(ctx, cacheKey, summaries)
	return summaries, false, nil
}

// FeedbackTime computes the per-course self-update feedback latency.
func (s *KPIService) FeedbackTime(ctx context.Context, year int, season semester.Season) ([]models.CourseFeedbackSummary, bool, error) {
	w, err := semester.Resolve(year, season)
	if err != nil {
		return nil, false, err
	}

	cacheKey := makeKPICacheKey("feedback_time", year, season)
	var cached []models.CourseFeedbackSummary
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, true, nil
	}

	start := time.Now()
	submissions, err := s.entities.ListSubmissionsCreated(ctx, w)
	if err != nil {
		return nil, false, err
	}
	s.observeDB("submissions_created", start)
	summaries := kpi.FeedbackTimeVsVolume(submissions, w)
	s.observe("feedback_time", start)

	s.persist(ctx, cacheKey, summaries)
	return summaries, false, nil
}

// FeedbackDays computes the per-course first-outside-comment feedback
// latency in days, with course names resolved for presentation.
func (s *KPIService) FeedbackDays(ctx context.Context, year int, season semester.Season) ([]models.CourseFeedbackDaysSummary, bool, error) {
	w, err := semester.Resolve(year, season)
	if err != nil {
		return nil, false, err
	}

	cacheKey := makeKPICacheKey("feedback_days", year, season)
	var cached []models.CourseFeedbackDaysSummary
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, true, nil
	}

	start := time.Now()
	submissions, err := s.entities.ListSubmissions(ctx, w)
	if err != nil {
		return nil, false, err
	}
	s.observeDB("submissions", start)

	qStart := time.Now()
	comments, err := s.entities.ListSubmissionComments(ctx, w)
	if err != nil {
		return nil, false, err
	}
	s.observeDB("submission_comments", qStart)
	summaries := kpi.FirstCommentFeedback(submissions, comments, w)

	if len(summaries) > 0 {
		qStart = time.Now()
		courses, err := s.entities.ListCourses(ctx, w)
		if err != nil {
			return nil, false, err
		}
		s.observeDB("courses", qStart)
		names := make(map[int64]string, len(courses))
		for _, course := range courses {
			names[course.ID] = course.Name
		}
		for i := range summaries {
			summaries[i].CourseName = names[summaries[i].CourseID]
		}
	}
	s.observe("feedback_days", start)

	s.persist(ctx, cacheKey, summaries)
	return summaries, false, nil
}

// Mastery computes the per-course learning objective KPI.
func (s *KPIService) Mastery(ctx context.Context, year int, season semester.Season) ([]models.CourseMasterySummary, bool, error) {
	w, err := semester.Resolve(year, season)
	if err != nil {
		return nil, false, err
	}

	cacheKey := makeKPICacheKey("mastery", year, season)
	var cached []models.CourseMasterySummary
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, true, nil
	}

	start := time.Now()
	results, err := s.entities.ListOutcomeResults(ctx, w)
	if err != nil {
		return nil, false, err
	}
	s.observeDB("outcome_results", start)
	summaries := kpi.ObjectiveCompletion(results, w)
	s.observe("mastery", start)

	s.persist(ctx, cacheKey, summaries)
	return summaries, false, nil
}

// ModuleProgress runs the SQL module requirement progress query.
func (s *KPIService) ModuleProgress(ctx context.Context, year int, season semester.Season) ([]models.ModuleProgressSummary, bool, error) {
	w, err := semester.Resolve(year, season)
	if err != nil {
		return nil, false, err
	}

	cacheKey := makeKPICacheKey("module_progress", year, season)
	var cached []models.ModuleProgressSummary
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, true, nil
	}

	start := time.Now()
	summaries, err := s.aggregates.ModuleProgress(ctx, w)
	if err != nil {
		return nil, false, err
	}
	s.observeDB("module_progress", start)
	s.observe("module_progress", start)

	s.persist(ctx, cacheKey, summaries)
	return summaries, false, nil
}

// CourseCompletion runs the SQL module-based course completion query.
func (s *KPIService) CourseCompletion(ctx context.Context, year int, season semester.Season) ([]models.CourseCompletionSummary, bool, error) {
	w, err := semester.Resolve(year, season)
	if err != nil {
		return nil, false, err
	}

	cacheKey := makeKPICacheKey("course_completion", year, season)
	var cached []models.CourseCompletionSummary
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, true, nil
	}

	start := time.Now()
	summaries, err := s.aggregates.CourseCompletionByModules(ctx, w)
	if err != nil {
		return nil, false, err
	}
	s.observeDB("course_completion_modules", start)
	s.observe("course_completion", start)

	s.persist(ctx, cacheKey, summaries)
	return summaries, false, nil
}

// TermRetention runs the activity-band retention query scoped to enrollment
// terms whose name contains the season.
func (s *KPIService) TermRetention(ctx context.Context, year int, season semester.Season) ([]models.TermRetentionSummary, bool, error) {
	w, err := semester.Resolve(year, season)
	if err != nil {
		return nil, false, err
	}

	cacheKey := makeKPICacheKey("term_retention", year, season)
	var cached []models.TermRetentionSummary
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, true, nil
	}

	start := time.Now()
	summaries, err := s.aggregates.TermRetention(ctx, w, string(season))
	if err != nil {
		return nil, false, err
	}
	s.observeDB("term_retention", start)
	s.observe("term_retention", start)

	s.persist(ctx, cacheKey, summaries)
	return summaries, false, nil
}

// SystemMetrics returns the instrumentation snapshot.
func (s *KPIService) SystemMetrics() models.SystemMetrics {
	if s.metrics == nil {
		return models.SystemMetrics{}
	}
	return s.metrics.Snapshot()
}

func (s *KPIService) observe(name string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveKPICompute(name, time.Since(start))
	}
}

func (s *KPIService) observeDB(label string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveDBQuery(label, time.Since(start))
	}
}

func (s *KPIService) persist(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("kpi cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func makeKPICacheKey(name string, year int, season semester.Season) string {
	return fmt.Sprintf("kpi:%s:%d:%s", name, year, season)
}
