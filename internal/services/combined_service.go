package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"txstats/internal/core"
)

// Ingester reloads the dataset.
type Ingester interface {
	Run(ctx context.Context) (core.IngestResult, error)
}

// CombinedService reloads the dataset and then gathers every report for one month.
type CombinedService struct {
	ingester Ingester
	reports  *ReportService
}

func NewCombinedService(ingester Ingester, reports *ReportService) *CombinedService {
	return &CombinedService{ingester: ingester, reports: reports}
}

// Combined ingests first, then computes the four views concurrently. Any
// failure aborts the whole result.
func (s *CombinedService) Combined(ctx context.Context, month core.Month) (core.Combined, error) {
	loaded, err := s.ingester.Run(ctx)
	if err != nil {
		return core.Combined{}, err
	}

	out := core.Combined{InitializeData: loaded}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.TransactionsData, err = s.reports.Transactions(gctx, core.ListParams{Month: month})
		return err
	})
	g.Go(func() (err error) {
		out.StatisticsData, err = s.reports.Statistics(gctx, month)
		return err
	})
	g.Go(func() (err error) {
		out.BarChartData, err = s.reports.PriceHistogram(gctx, month)
		return err
	})
	g.Go(func() (err error) {
		out.PieChartData, err = s.reports.CategoryBreakdown(gctx, month)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.Combined{}, err
	}

	return out, nil
}
