package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/larissaOjeda/thesis-canvas/internal/charts"
	"github.com/larissaOjeda/thesis-canvas/internal/dto"
	"github.com/larissaOjeda/thesis-canvas/internal/models"
	"github.com/larissaOjeda/thesis-canvas/internal/semester"
)

type kpiProvider interface {
	Availability(ctx context.Context, year int, season semester.Season) (*models.AvailabilitySummary, bool, error)
	MonthlyAvailability(ctx context.Context, year int, season semester.Season) ([]models.MonthlyAvailabilityPoint, bool, error)
	Retention(ctx context.Context, year int, season semester.Season) (*models.RetentionSummary, bool, error)
	Completion(ctx context.Context, year int, season semester.Season) (*models.CompletionSummary, bool, error)
	Scores(ctx context.Context, year int, season semester.Season) (*models.ScoreOverview, bool, error)
	ScoresByCourse(ctx context.Context, year int, season semester.Season) ([]models.CourseScoreSummary, bool, error)
	FeedbackTime(ctx context.Context, year int, season semester.Season) ([]models.CourseFeedbackSummary, bool, error)
	FeedbackDays(ctx context.Context, year int, season semester.Season) ([]models.CourseFeedbackDaysSummary, bool, error)
	Mastery(ctx context.Context, year int, season semester.Season) ([]models.CourseMasterySummary, bool, error)
	ModuleProgress(ctx context.Context, year int, season semester.Season) ([]models.ModuleProgressSummary, bool, error)
	CourseCompletion(ctx context.Context, year int, season semester.Season) ([]models.CourseCompletionSummary, bool, error)
	TermRetention(ctx context.Context, year int, season semester.Season) ([]models.TermRetentionSummary, bool, error)
}

type snapshotStore interface {
	Save(filename string, data []byte) (string, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardService composes the full KPI set into one overview payload and
// renders the interactive HTML dashboard.
type DashboardService struct {
	kpis      kpiProvider
	cache     *CacheService
	snapshots snapshotStore
	logger    *zap.Logger
	now       func() time.Time
	cfg       DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(kpis kpiProvider, cache *CacheService, snapshots snapshotStore, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		kpis:      kpis,
		cache:     cache,
		snapshots: snapshots,
		logger:    logger,
		now:       time.Now,
		cfg:       cfg,
	}
}

// Overview assembles every KPI for the semester window. The boolean reports
// whether the composed payload came from cache.
func (s *DashboardService) Overview(ctx context.Context, year int, season semester.Season) (*dto.KPIOverviewResponse, bool, error) {
	w, err := semester.Resolve(year, season)
	if err != nil {
		return nil, false, err
	}

	cacheKey := fmt.Sprintf("dashboard:overview:%d:%s", year, season)
	if s.cache != nil {
		var cached dto.KPIOverviewResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	overview := &dto.KPIOverviewResponse{
		Semester: dto.SemesterInfo{
			Year:     year,
			Semester: string(season),
			Start:    w.Start,
			End:      w.End,
		},
		GeneratedAt: s.now().UTC(),
	}

	availability, _, err := s.kpis.Availability(ctx, year, season)
	if err != nil {
		return nil, false, err
	}
	overview.Availability = *availability

	if overview.MonthlyAvailability, _, err = s.kpis.MonthlyAvailability(ctx, year, season); err != nil {
		return nil, false, err
	}

	retention, _, err := s.kpis.Retention(ctx, year, season)
	if err != nil {
		return nil, false, err
	}
	overview.Retention = *retention

	completion, _, err := s.kpis.Completion(ctx, year, season)
	if err != nil {
		return nil, false, err
	}
	overview.Completion = *completion

	scores, _, err := s.kpis.Scores(ctx, year, season)
	if err != nil {
		return nil, false, err
	}
	overview.Scores = *scores

	if overview.ScoresByCourse, _, err = s.kpis.ScoresByCourse(ctx, year, season); err != nil {
		return nil, false, err
	}
	if overview.FeedbackTime, _, err = s.kpis.FeedbackTime(ctx, year, season); err != nil {
		return nil, false, err
	}
	if overview.FeedbackDays, _, err = s.kpis.FeedbackDays(ctx, year, season); err != nil {
		return nil, false, err
	}
	if overview.Mastery, _, err = s.kpis.Mastery(ctx, year, season); err != nil {
		return nil, false, err
	}
	if overview.ModuleProgress, _, err = s.kpis.ModuleProgress(ctx, year, season); err != nil {
		return nil, false, err
	}
	if overview.CourseCompletion, _, err = s.kpis.CourseCompletion(ctx, year, season); err != nil {
		return nil, false, err
	}
	if overview.TermRetention, _, err = s.kpis.TermRetention(ctx, year, season); err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, overview, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return overview, false, nil
}

// RenderHTML renders the interactive dashboard page and persists a snapshot
// of the rendered document when a snapshot store is configured.
func (s *DashboardService) RenderHTML(ctx context.Context, year int, season semester.Season) ([]byte, error) {
	overview, _, err := s.Overview(ctx, year, season)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := charts.RenderOverview(&buf, overview); err != nil {
		return nil, err
	}

	if s.snapshots != nil {
		filename := fmt.Sprintf("dashboard_%s_%d_%s.html", season, year, s.now().UTC().Format("20060102T150405"))
		if _, err := s.snapshots.Save(filename, buf.Bytes()); err != nil {
			s.logger.Warn("dashboard snapshot save failed", zap.String("filename", filename), zap.Error(err))
		}
	}
	return buf.Bytes(), nil
}
