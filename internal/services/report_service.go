package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"txstats/internal/core"
)

// ReportStore is the read side of the transaction store.
type ReportStore interface {
	ListTransactions(ctx context.Context, p core.ListParams) ([]core.Transaction, error)
	SumPrice(ctx context.Context, month core.Month) (float64, error)
	CountAll(ctx context.Context, month core.Month) (int64, error)
	CountUnpriced(ctx context.Context, month core.Month) (int64, error)
	CountInBucket(ctx context.Context, month core.Month, buckets []core.PriceBucket, i int) (int64, error)
	CountByCategory(ctx context.Context, month core.Month) ([]core.CategoryCount, error)
}

// ReportService computes the month-scoped views over the stored dataset.
type ReportService struct {
	store   ReportStore
	buckets []core.PriceBucket
}

func NewReportService(store ReportStore) *ReportService {
	return &ReportService{store: store, buckets: core.PriceBuckets()}
}

// Transactions returns one page of the listing. It never returns nil.
func (s *ReportService) Transactions(ctx context.Context, p core.ListParams) ([]core.Transaction, error) {
	rows, err := s.store.ListTransactions(ctx, p.Normalize())
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if rows == nil {
		rows = []core.Transaction{}
	}
	return rows, nil
}

// Statistics runs the three month aggregates concurrently.
func (s *ReportService) Statistics(ctx context.Context, month core.Month) (core.Statistics, error) {
	var (
		sum           float64
		all, unpriced int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.store.SumPrice(gctx, month)
		if err != nil {
			return fmt.Errorf("total sale amount: %w", err)
		}
		sum = v
		return nil
	})
	g.Go(func() error {
		v, err := s.store.CountAll(gctx, month)
		if err != nil {
			return fmt.Errorf("total sold items: %w", err)
		}
		all = v
		return nil
	})
	g.Go(func() error {
		v, err := s.store.CountUnpriced(gctx, month)
		if err != nil {
			return fmt.Errorf("total not sold items: %w", err)
		}
		unpriced = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.Statistics{}, err
	}

	return core.Statistics{
		TotalSaleAmount:   core.RoundAmount(sum),
		TotalSoldItems:    all,
		TotalNotSoldItems: unpriced,
	}, nil
}

// PriceHistogram counts the month's priced rows per bucket. Every bucket is
// present in ascending order, empty ones with a zero count.
func (s *ReportService) PriceHistogram(ctx context.Context, month core.Month) ([]core.RangeCount, error) {
	counts := make([]int64, len(s.buckets))

	g, gctx := errgroup.WithContext(ctx)
	for i := range s.buckets {
		g.Go(func() error {
			n, err := s.store.CountInBucket(gctx, month, s.buckets, i)
			if err != nil {
				return fmt.Errorf("count range %s: %w", s.buckets[i].Label(), err)
			}
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]core.RangeCount, len(s.buckets))
	for i, b := range s.buckets {
		out[i] = core.RangeCount{Range: b.Label(), Count: counts[i]}
	}
	return out, nil
}

// CategoryBreakdown returns per-category row counts for the month.
func (s *ReportService) CategoryBreakdown(ctx context.Context, month core.Month) ([]core.CategoryCount, error) {
	cats, err := s.store.CountByCategory(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}
	if cats == nil {
		cats = []core.CategoryCount{}
	}
	return cats, nil
}
