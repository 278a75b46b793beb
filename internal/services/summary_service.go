package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"budget/internal/cache"
	"budget/internal/core"
	"budget/internal/ledger"
	applog "budget/internal/log"
)

// DefaultRangeConcurrency bounds the months computed in parallel by Range.
const DefaultRangeConcurrency = 4

// SummaryService computes monthly summaries from a transaction lister,
// caching results per month. Each Invalidate bumps the month's generation;
// a summary computed under an older generation is never cached.
type SummaryService struct {
	lister      ledger.TransactionLister
	cache       cache.Cache[core.MonthlySummary]
	concurrency int

	mu          sync.Mutex
	generations map[core.MonthKey]uint64
}

// NewSummaryService returns a service; a nil cache disables caching.
func NewSummaryService(lister ledger.TransactionLister, c cache.Cache[core.MonthlySummary]) *SummaryService {
	return &SummaryService{
		lister:      lister,
		cache:       c,
		concurrency: DefaultRangeConcurrency,
		generations: make(map[core.MonthKey]uint64),
	}
}

// WithConcurrency sets how many months Range computes at once.
func (s *SummaryService) WithConcurrency(n int) *SummaryService {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

// Summary returns the summary for month, served from cache when fresh.
// The result never shares its ByCategory map with the cache.
func (s *SummaryService) Summary(ctx context.Context, month core.MonthKey) (core.MonthlySummary, error) {
	if !month.Valid() {
		return core.MonthlySummary{}, fmt.Errorf("%w: %q", core.ErrInvalidMonth, month)
	}
	if s.cache != nil {
		if cached, ok := s.cache.Get(string(month)); ok {
			slog.DebugContext(ctx, "Summary cache hit", "month", month)
			return cached.Clone(), nil
		}
	}

	gen := s.generation(month)
	summary, err := s.Compute(ctx, month)
	if err != nil {
		return core.MonthlySummary{}, err
	}
	s.store(month, gen, summary)
	return summary, nil
}

// Compute aggregates month straight from the store, bypassing the cache.
func (s *SummaryService) Compute(ctx context.Context, month core.MonthKey) (core.MonthlySummary, error) {
	txs, err := s.lister.ListTransactions(ctx, month)
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("list transactions for %s: %w", month, err)
	}
	summary := core.ComputeMonthlySummary(txs, month)
	fields := applog.NewFields().
		WithMonth(month).
		WithOperation(applog.OpSummary)
	fields["transactions"] = len(txs)
	fields[applog.FieldCategories] = len(summary.ByCategory)
	slog.DebugContext(ctx, "Computed monthly summary", fields.ToSlice()...)
	return summary, nil
}

// Range returns one summary per month from `from` to `to` inclusive, in
// calendar order. The first failing month cancels the others.
func (s *SummaryService) Range(ctx context.Context, from, to core.MonthKey) ([]core.MonthlySummary, error) {
	months, err := core.MonthRange(from, to)
	if err != nil {
		return nil, err
	}

	out := make([]core.MonthlySummary, len(months))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, m := range months {
		g.Go(func() error {
			summary, err := s.Summary(gctx, m)
			if err != nil {
				return err
			}
			out[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Invalidate drops the cached summary of month and retires any computation
// of it still in flight.
func (s *SummaryService) Invalidate(month core.MonthKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[month]++
	if s.cache != nil {
		s.cache.Delete(string(month))
	}
}

func (s *SummaryService) generation(month core.MonthKey) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[month]
}

// store caches summary unless month was invalidated after gen was read.
func (s *SummaryService) store(month core.MonthKey, gen uint64, summary core.MonthlySummary) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[month] != gen {
		slog.Debug("Discarding stale summary", applog.FieldMonth, string(month))
		return
	}
	s.cache.Set(string(month), summary.Clone())
}
