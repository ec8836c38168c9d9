// Package report serves the merchant's sales dashboards. Periods are
// computed in the configured report timezone.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/foxseedlab/kasirsuara/internal/pipeline"
	"github.com/foxseedlab/kasirsuara/internal/repository"
)

type MonthlyReport struct {
	Month string
	Days  []repository.DailyTotal
}

type Summary struct {
	Today repository.PeriodSummary
	Month repository.PeriodSummary
}

type Service struct {
	repo  repository.ReportRepository
	loc   *time.Location
	limit int
	now   func() time.Time
}

func NewService(repo repository.ReportRepository, loc *time.Location, lastTransactionsLimit int) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, loc: loc, limit: lastTransactionsLimit, now: time.Now}
}

// MonthlyTransactions returns per-day sale totals of the current month,
// newest day first. Days without sales are omitted.
func (s *Service) MonthlyTransactions(ctx context.Context, merchantID int64) (MonthlyReport, error) {
	if err := checkMerchant(merchantID); err != nil {
		return MonthlyReport{}, err
	}
	from, to := monthBounds(s.now().In(s.loc))
	days, err := s.repo.ListDailySaleTotals(ctx, merchantID, from, to, s.loc)
	if err != nil {
		return MonthlyReport{}, fmt.Errorf("%w: list daily totals: %w", pipeline.ErrDataAccess, err)
	}
	return MonthlyReport{Month: from.Format("2006-01"), Days: days}, nil
}

func (s *Service) TransactionSummary(ctx context.Context, merchantID int64) (Summary, error) {
	if err := checkMerchant(merchantID); err != nil {
		return Summary{}, err
	}
	now := s.now().In(s.loc)
	dayFrom, dayTo := dayBounds(now)
	monthFrom, monthTo := monthBounds(now)

	today, err := s.repo.SummarizeSales(ctx, merchantID, dayFrom, dayTo)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: summarize today: %w", pipeline.ErrDataAccess, err)
	}
	month, err := s.repo.SummarizeSales(ctx, merchantID, monthFrom, monthTo)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: summarize month: %w", pipeline.ErrDataAccess, err)
	}
	return Summary{Today: today, Month: month}, nil
}

func (s *Service) LastTransactions(ctx context.Context, merchantID int64) ([]repository.RecentTransaction, error) {
	if err := checkMerchant(merchantID); err != nil {
		return nil, err
	}
	list, err := s.repo.ListRecentSales(ctx, merchantID, s.limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list recent sales: %w", pipeline.ErrDataAccess, err)
	}
	return list, nil
}

func checkMerchant(merchantID int64) error {
	if merchantID <= 0 {
		return fmt.Errorf("%w: umkm_id must be positive", pipeline.ErrInvalidInput)
	}
	return nil
}

func dayBounds(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 0, 1)
}

func monthBounds(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 1, 0)
}
