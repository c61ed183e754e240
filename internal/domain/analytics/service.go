package analytics

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const (
	defaultTrailingWeeks  = 12
	maxTrailingWeeks      = 104
	defaultTrailingMonths = 6
	maxTrailingMonths     = 60
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) WeeklyTrends(ctx context.Context, userID string, weeks int) ([]SkillTrend, error) {
	weeks = clamp(weeks, defaultTrailingWeeks, maxTrailingWeeks)
	from := WeekStart(time.Now().UTC()).AddDate(0, 0, -7*(weeks-1))
	observations, err := s.store.Observations(ctx, userID, &from, nil)
	if err != nil {
		return nil, err
	}
	return ComputeTrends(observations, GranularityWeek)
}

func (s *Service) MonthlyTrends(ctx context.Context, userID string, months int) ([]SkillTrend, error) {
	months = clamp(months, defaultTrailingMonths, maxTrailingMonths)
	from := MonthStart(time.Now().UTC()).AddDate(0, -(months - 1), 0)
	observations, err := s.store.Observations(ctx, userID, &from, nil)
	if err != nil {
		return nil, err
	}
	return ComputeTrends(observations, GranularityMonth)
}

func (s *Service) SkillAverages(ctx context.Context, userID string) (SkillBreakdown, error) {
	observations, err := s.store.Observations(ctx, userID, nil, nil)
	if err != nil {
		return SkillBreakdown{}, err
	}
	return ComputeSkillAverages(observations)
}

func (s *Service) Summary(ctx context.Context, userID string, from, to *time.Time) (Summary, error) {
	flags, err := s.store.TaskFlags(ctx, userID, from, to)
	if err != nil {
		return Summary{}, err
	}
	observations, err := s.store.Observations(ctx, userID, from, to)
	if err != nil {
		return Summary{}, err
	}
	return ComputeSummary(flags, observations)
}

// SummaryPDF renders the performance summary as a downloadable document.
func (s *Service) SummaryPDF(ctx context.Context, userID, displayName string, from, to *time.Time) ([]byte, error) {
	summary, err := s.Summary(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Performance Summary")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	if displayName != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", displayName))
		pdf.Ln(7)
	}
	if from != nil || to != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", formatOrOpen(from), formatOrOpen(to)))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Tasks: %d", summary.TotalTasks))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Overall average: %.2f", summary.OverallAverage))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("On-time delivery: %.1f%%", summary.OnTimeDeliveryRate))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Manager found issues: %.1f%%", summary.ManagerIssuesRate))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Manager helped analysis: %.1f%%", summary.ManagerHelpedRate))
	pdf.Ln(10)

	writeRanked := func(title string, entries []SkillAverage) {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, title)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 12)
		for _, entry := range entries {
			pdf.Cell(0, 7, fmt.Sprintf("%s: %.2f (%d ratings)", entry.SkillName, entry.Average, entry.Count))
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}
	writeRanked("Strengths", summary.Strengths)
	writeRanked("Growth opportunities", summary.GrowthOpportunities)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatOrOpen(date *time.Time) string {
	if date == nil {
		return "open"
	}
	return date.Format("2006-01-02")
}

func clamp(value, fallback, max int) int {
	if value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}
