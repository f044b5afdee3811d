package service

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/larissaOjeda/thesis-canvas/internal/dto"
	"github.com/larissaOjeda/thesis-canvas/internal/semester"
	appErrors "github.com/larissaOjeda/thesis-canvas/pkg/errors"
	"github.com/larissaOjeda/thesis-canvas/pkg/export"
	"github.com/larissaOjeda/thesis-canvas/pkg/storage"
)

// Report formats.
const (
	ReportFormatCSV = "csv"
	ReportFormatPDF = "pdf"
)

type reportStore interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

// ReportService renders KPI datasets into downloadable CSV and PDF files
// with signed download links.
type ReportService struct {
	kpis   kpiProvider
	store  reportStore
	signer *storage.SignedURLSigner
	logger *zap.Logger
}

// NewReportService constructs a report service.
func NewReportService(kpis kpiProvider, store reportStore, signer *storage.SignedURLSigner, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		kpis:   kpis,
		store:  store,
		signer: signer,
		logger: logger,
	}
}

// Generate renders the named KPI dataset for the window and returns a signed
// download link.
func (s *ReportService) Generate(ctx context.Context, kpiName, format string, year int, season semester.Season) (*dto.ReportResponse, error) {
	dataset, err := s.buildDataset(ctx, kpiName, year, season)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch format {
	case ReportFormatCSV:
		payload, err = export.RenderCSV(*dataset)
	case ReportFormatPDF:
		payload, err = export.RenderPDF(*dataset)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	jobID := uuid.NewString()
	filename := fmt.Sprintf("%s_%d_%s_%s.%s", kpiName, year, season, jobID[:8], format)
	if _, err := s.store.Save(filename, payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store report")
	}

	token, expiresAt, err := s.signer.Generate(filename)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign report link")
	}

	s.logger.Info("report generated",
		zap.String("kpi", kpiName),
		zap.String("format", format),
		zap.String("filename", filename),
	)

	return &dto.ReportResponse{
		Filename:  filename,
		URL:       "/reports/download/" + token,
		ExpiresAt: expiresAt,
	}, nil
}

// Open validates a signed token and returns the stored report file.
func (s *ReportService) Open(token string) (*os.File, string, error) {
	relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "report file not found")
	}
	return file, relPath, nil
}

func (s *ReportService) buildDataset(ctx context.Context, kpiName string, year int, season semester.Season) (*export.Dataset, error) {
	switch kpiName {
	case "overview":
		return s.overviewDataset(ctx, year, season)
	case "feedback_time":
		summaries, _, err := s.kpis.FeedbackTime(ctx, year, season)
		if err != nil {
			return nil, err
		}
		dataset := &export.Dataset{Headers: []string{"course_id", "average_feedback_hours", "submission_count"}}
		for _, summary := range summaries {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"course_id":              strconv.FormatInt(summary.CourseID, 10),
				"average_feedback_hours": formatFloat(summary.AverageFeedbackHours),
				"submission_count":       strconv.Itoa(summary.SubmissionCount),
			})
		}
		dataset.Title = "Feedback Time by Course"
		return dataset, nil
	case "feedback_days":
		summaries, _, err := s.kpis.FeedbackDays(ctx, year, season)
		if err != nil {
			return nil, err
		}
		dataset := &export.Dataset{Headers: []string{"course_id", "course_name", "average_feedback_days", "submission_count"}}
		for _, summary := range summaries {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"course_id":             strconv.FormatInt(summary.CourseID, 10),
				"course_name":           summary.CourseName,
				"average_feedback_days": formatFloat(summary.AverageFeedbackDays),
				"submission_count":      strconv.Itoa(summary.SubmissionCount),
			})
		}
		dataset.Title = "First Comment Feedback Days"
		return dataset, nil
	case "mastery":
		summaries, _, err := s.kpis.Mastery(ctx, year, season)
		if err != nil {
			return nil, err
		}
		dataset := &export.Dataset{Headers: []string{"course_id", "avg_achievement_percentage", "mastery_percentage"}}
		for _, summary := range summaries {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"course_id":                  strconv.FormatInt(summary.CourseID, 10),
				"avg_achievement_percentage": formatFloat(summary.AvgAchievementPercentage),
				"mastery_percentage":         formatFloat(summary.MasteryPercentage),
			})
		}
		dataset.Title = "Learning Objective Completion"
		return dataset, nil
	case "scores_by_course":
		summaries, _, err := s.kpis.ScoresByCourse(ctx, year, season)
		if err != nil {
			return nil, err
		}
		dataset := &export.Dataset{Headers: []string{"course_id", "average_score", "submission_count"}}
		for _, summary := range summaries {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"course_id":        strconv.FormatInt(summary.CourseID, 10),
				"average_score":    formatFloat(summary.AverageScore),
				"submission_count": strconv.Itoa(summary.SubmissionCount),
			})
		}
		dataset.Title = "Average Score by Course"
		return dataset, nil
	case "module_progress":
		summaries, _, err := s.kpis.ModuleProgress(ctx, year, season)
		if err != nil {
			return nil, err
		}
		dataset := &export.Dataset{Headers: []string{"course_id", "course_name", "completion_percentage"}}
		for _, summary := range summaries {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"course_id":             strconv.FormatInt(summary.CourseID, 10),
				"course_name":           summary.CourseName,
				"completion_percentage": formatFloat(summary.CompletionPercentage),
			})
		}
		dataset.Title = "Module Requirement Progress"
		return dataset, nil
	case "course_completion":
		summaries, _, err := s.kpis.CourseCompletion(ctx, year, season)
		if err != nil {
			return nil, err
		}
		dataset := &export.Dataset{Headers: []string{"course_id", "total_enrolled", "completed_count", "completion_rate"}}
		for _, summary := range summaries {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"course_id":       strconv.FormatInt(summary.CourseID, 10),
				"total_enrolled":  strconv.Itoa(summary.TotalEnrolled),
				"completed_count": strconv.Itoa(summary.CompletedCount),
				"completion_rate": formatFloat(summary.CompletionRate),
			})
		}
		dataset.Title = "Course Completion by Modules"
		return dataset, nil
	case "term_retention":
		summaries, _, err := s.kpis.TermRetention(ctx, year, season)
		if err != nil {
			return nil, err
		}
		dataset := &export.Dataset{Headers: []string{"course_id", "course_name", "term_name", "total_enrollments", "active_enrollments", "retention_rate"}}
		for _, summary := range summaries {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"course_id":          strconv.FormatInt(summary.CourseID, 10),
				"course_name":        summary.CourseName,
				"term_name":          summary.TermName,
				"total_enrollments":  strconv.Itoa(summary.TotalEnrollments),
				"active_enrollments": strconv.Itoa(summary.ActiveEnrollments),
				"retention_rate":     formatFloat(summary.RetentionRate),
			})
		}
		dataset.Title = "Retention by Course"
		return dataset, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown report %q", kpiName))
	}
}

func (s *ReportService) overviewDataset(ctx context.Context, year int, season semester.Season) (*export.Dataset, error) {
	availability, _, err := s.kpis.Availability(ctx, year, season)
	if err != nil {
		return nil, err
	}
	retention, _, err := s.kpis.Retention(ctx, year, season)
	if err != nil {
		return nil, err
	}
	completion, _, err := s.kpis.Completion(ctx, year, season)
	if err != nil {
		return nil, err
	}
	scores, _, err := s.kpis.Scores(ctx, year, season)
	if err != nil {
		return nil, err
	}

	ratio := "inf"
	if availability.InactiveCount > 0 {
		ratio = formatFloat(availability.Ratio)
	}
	dataset := &export.Dataset{
		Headers: []string{"kpi", "value"},
		Rows: []map[string]string{
			{"kpi": "active_courses", "value": strconv.Itoa(availability.ActiveCount)},
			{"kpi": "inactive_courses", "value": strconv.Itoa(availability.InactiveCount)},
			{"kpi": "availability_ratio", "value": ratio},
			{"kpi": "retention_rate", "value": formatFloat(retention.RetentionRate)},
			{"kpi": "completion_rate", "value": formatFloat(completion.CompletionRate)},
			{"kpi": "average_score", "value": formatFloat(scores.AverageScore)},
		},
	}
	dataset.Title = fmt.Sprintf("KPI Overview %s %d", season, year)
	return dataset, nil
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
