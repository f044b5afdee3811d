// Package charts renders the KPI dashboard figures with go-echarts.
package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/larissaOjeda/thesis-canvas/internal/dto"
	"github.com/larissaOjeda/thesis-canvas/internal/models"
)

const (
	chartWidth  = "900px"
	chartHeight = "420px"
)

// MonthlyAvailabilityBar builds a stacked bar of active and inactive course
// counts per month.
func MonthlyAvailabilityBar(points []models.MonthlyAvailabilityPoint) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Course Availability by Month"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Courses"}),
	)

	labels := make([]string, len(points))
	active := make([]opts.BarData, len(points))
	inactive := make([]opts.BarData, len(points))
	for i, point := range points {
		labels[i] = point.Month
		active[i] = opts.BarData{Value: point.ActiveCount}
		inactive[i] = opts.BarData{Value: point.InactiveCount}
	}

	bar.SetXAxis(labels).
		AddSeries("Active", active, charts.WithBarChartOpts(opts.BarChart{Stack: "availability"})).
		AddSeries("Inactive", inactive, charts.WithBarChartOpts(opts.BarChart{Stack: "availability"}))
	return bar
}

// RateGauge builds a single-dial gauge for a percentage KPI.
func RateGauge(title string, value float64) *charts.Gauge {
	gauge := charts.NewGauge()
	gauge.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "420px", Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title}),
	)
	gauge.AddSeries(title, []opts.GaugeData{{Name: "%", Value: roundTo(value, 2)}})
	return gauge
}

// ScoreHistogramBar builds a bar chart over fixed-range score bins.
func ScoreHistogramBar(bins []models.HistogramBin) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Final Score Distribution"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Score"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Students"}),
	)

	labels := make([]string, len(bins))
	data := make([]opts.BarData, len(bins))
	for i, bin := range bins {
		labels[i] = fmt.Sprintf("%.0f-%.0f", bin.Low, bin.High)
		data[i] = opts.BarData{Value: bin.Count}
	}
	bar.SetXAxis(labels).AddSeries("Students", data)
	return bar
}

// FeedbackScatter plots feedback latency against submission volume per course.
func FeedbackScatter(summaries []models.CourseFeedbackSummary) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Feedback Time vs Submission Volume"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Submissions", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Avg Feedback (hours)", Type: "value"}),
	)

	data := make([]opts.ScatterData, len(summaries))
	for i, summary := range summaries {
		data[i] = opts.ScatterData{
			Name:       fmt.Sprintf("course %d", summary.CourseID),
			Value:      []interface{}{summary.SubmissionCount, roundTo(summary.AverageFeedbackHours, 2)},
			SymbolSize: 12,
		}
	}
	scatter.AddSeries("Courses", data)
	return scatter
}

// MasteryBar compares achievement and mastery percentages per course.
func MasteryBar(summaries []models.CourseMasterySummary) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Learning Objective Completion"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "%"}),
	)

	labels := make([]string, len(summaries))
	achievement := make([]opts.BarData, len(summaries))
	mastery := make([]opts.BarData, len(summaries))
	for i, summary := range summaries {
		labels[i] = fmt.Sprintf("course %d", summary.CourseID)
		achievement[i] = opts.BarData{Value: roundTo(summary.AvgAchievementPercentage, 2)}
		mastery[i] = opts.BarData{Value: roundTo(summary.MasteryPercentage, 2)}
	}
	bar.SetXAxis(labels).
		AddSeries("Avg Achievement", achievement).
		AddSeries("Mastery", mastery)
	return bar
}

// ModuleProgressBar shows per-course module requirement completion.
func ModuleProgressBar(summaries []models.ModuleProgressSummary) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Module Requirement Progress"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "% Completed"}),
	)

	labels := make([]string, len(summaries))
	data := make([]opts.BarData, len(summaries))
	for i, summary := range summaries {
		labels[i] = summary.CourseName
		data[i] = opts.BarData{Value: summary.CompletionPercentage}
	}
	bar.SetXAxis(labels).AddSeries("Completion", data)
	return bar
}

// TermRetentionBar shows the activity-band retention rate per course.
func TermRetentionBar(summaries []models.TermRetentionSummary) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Retention by Course (term activity band)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Retention %"}),
	)

	labels := make([]string, len(summaries))
	data := make([]opts.BarData, len(summaries))
	for i, summary := range summaries {
		labels[i] = summary.CourseName
		data[i] = opts.BarData{Value: summary.RetentionRate}
	}
	bar.SetXAxis(labels).AddSeries("Retention", data)
	return bar
}

// AverageScoreByCourseBar shows mean submission scores per course.
func AverageScoreByCourseBar(summaries []models.CourseScoreSummary) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Average Submission Score by Course"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Score"}),
	)

	labels := make([]string, len(summaries))
	data := make([]opts.BarData, len(summaries))
	for i, summary := range summaries {
		labels[i] = fmt.Sprintf("course %d", summary.CourseID)
		data[i] = opts.BarData{Value: roundTo(summary.AverageScore, 2)}
	}
	bar.SetXAxis(labels).AddSeries("Average", data)
	return bar
}

// RenderOverview writes the full dashboard page for one semester window.
func RenderOverview(w io.Writer, overview *dto.KPIOverviewResponse) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Canvas KPIs %s %d", overview.Semester.Semester, overview.Semester.Year)
	page.SetLayout(components.PageFlexLayout)

	page.AddCharts(
		MonthlyAvailabilityBar(overview.MonthlyAvailability),
		RateGauge("Retention", overview.Retention.RetentionRate),
		RateGauge("Completion", overview.Completion.CompletionRate),
		RateGauge("Average Score", overview.Scores.AverageScore),
		ScoreHistogramBar(overview.Scores.Histogram),
		AverageScoreByCourseBar(overview.ScoresByCourse),
		FeedbackScatter(overview.FeedbackTime),
		MasteryBar(overview.Mastery),
		ModuleProgressBar(overview.ModuleProgress),
		TermRetentionBar(overview.TermRetention),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render dashboard page: %w", err)
	}
	return nil
}

func roundTo(value float64, digits int) float64 {
	factor := 1.0
	for i := 0; i < digits; i++ {
		factor *= 10
	}
	return float64(int64(value*factor+0.5)) / factor
}
