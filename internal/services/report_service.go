package services

import (
	"context"
	"fmt"
	"time"

	"orderly/internal/domain"
	"orderly/internal/repos"
)

const (
	DefaultSeriesDays = 7
	MaxSeriesDays     = 90
)

type ReportService struct {
	Reports *repos.ReportRepo
}

func NewReportService(reports *repos.ReportRepo) *ReportService {
	return &ReportService{Reports: reports}
}

// DailySeries returns exactly days rows ending today, oldest first. Days
// without orders are present with zero counts.
func (s *ReportService) DailySeries(ctx context.Context, merchantID int64, days int) ([]domain.DayCount, error) {
	if days <= 0 {
		days = DefaultSeriesDays
	}
	if days > MaxSeriesDays {
		days = MaxSeriesDays
	}
	todayStr, err := s.Reports.Today(ctx)
	if err != nil {
		return nil, err
	}
	today, err := time.Parse(time.DateOnly, todayStr)
	if err != nil {
		return nil, fmt.Errorf("parse today %q: %w", todayStr, err)
	}
	from := today.AddDate(0, 0, -(days - 1))

	rows, err := s.Reports.DaysSince(ctx, merchantID, from.Format(time.DateOnly))
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]domain.DayCount, len(rows))
	for _, r := range rows {
		byDay[r.Day] = r
	}

	out := make([]domain.DayCount, 0, days)
	for d := from; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		dc, ok := byDay[key]
		if !ok {
			dc = domain.DayCount{Day: key}
		}
		out = append(out, dc)
	}
	return out, nil
}

func (s *ReportService) Counts(ctx context.Context, merchantID int64) (domain.Counts, error) {
	return s.Reports.Counts(ctx, merchantID)
}

func (s *ReportService) ByCategory(ctx context.Context, merchantID int64) ([]domain.CategoryCount, error) {
	return s.Reports.ByCategory(ctx, merchantID)
}

func (s *ReportService) DailyStats(ctx context.Context, merchantID int64, days int) ([]domain.DailyStat, error) {
	return s.Reports.DailyStats(ctx, merchantID, days)
}
