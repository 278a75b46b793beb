package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget/internal/cache"
	"budget/internal/core"
	"budget/internal/ledger/memory"
)

func sampleTransactions() []core.Transaction {
	return []core.Transaction{
		{ID: "1", AccountID: "a", CategoryID: core.CategoryRef("salary"), Amount: decimal.NewFromInt(2000), Date: "2025-09-15"},
		{ID: "2", AccountID: "a", CategoryID: core.CategoryRef("groceries"), Amount: decimal.NewFromInt(-100), Date: "2025-09-16"},
		{ID: "3", AccountID: "a", Amount: decimal.NewFromInt(-50), Date: "2025-09-17"},
		{ID: "4", AccountID: "a", CategoryID: core.CategoryRef("groceries"), Amount: decimal.NewFromInt(-30), Date: "2025-10-01"},
	}
}

func TestSummaryService_Summary(t *testing.T) {
	lister := &fakeLister{txs: sampleTransactions()}
	svc := NewSummaryService(lister, cache.NewLRUCache[core.MonthlySummary](10, time.Minute))

	got, err := svc.Summary(context.Background(), "2025-09")
	require.NoError(t, err)
	assert.Equal(t, "2000", got.Income.String())
	assert.Equal(t, "150", got.Expenses.String())
	assert.Equal(t, "1850", got.Net.String())
	assert.Len(t, got.ByCategory, 2)

	got.ByCategory["tampered"] = decimal.NewFromInt(1)
	again, err := svc.Summary(context.Background(), "2025-09")
	require.NoError(t, err)
	assert.NotContains(t, again.ByCategory, "tampered")
	assert.Equal(t, int32(1), lister.calls.Load(), "second call should be served from cache")

	svc.Invalidate("2025-09")
	_, err = svc.Summary(context.Background(), "2025-09")
	require.NoError(t, err)
	assert.Equal(t, int32(2), lister.calls.Load())
}

func TestSummaryService_NoCache(t *testing.T) {
	lister := &fakeLister{txs: sampleTransactions()}
	svc := NewSummaryService(lister, nil)

	for range 3 {
		_, err := svc.Summary(context.Background(), "2025-10")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), lister.calls.Load())
	svc.Invalidate("2025-10")
}

func TestSummaryService_Errors(t *testing.T) {
	boom := errors.New("db gone")
	svc := NewSummaryService(&fakeLister{err: map[core.MonthKey]error{"2025-09": boom}}, nil)

	_, err := svc.Summary(context.Background(), "2025-13")
	assert.ErrorIs(t, err, core.ErrInvalidMonth)

	_, err = svc.Summary(context.Background(), "2025-09")
	assert.ErrorIs(t, err, boom)
}

func TestSummaryService_Range(t *testing.T) {
	lister := &fakeLister{txs: sampleTransactions()}
	svc := NewSummaryService(lister, nil).WithConcurrency(2)

	got, err := svc.Range(context.Background(), "2025-08", "2025-11")
	require.NoError(t, err)
	require.Len(t, got, 4)

	want := []core.MonthKey{"2025-08", "2025-09", "2025-10", "2025-11"}
	for i, s := range got {
		assert.Equal(t, want[i], s.Month)
		assert.NotNil(t, s.ByCategory)
	}
	assert.True(t, got[0].Net.IsZero())
	assert.Equal(t, "-30", got[2].ByCategory["groceries"].String())
}

func TestSummaryService_RangeErrors(t *testing.T) {
	boom := errors.New("db gone")
	svc := NewSummaryService(&fakeLister{err: map[core.MonthKey]error{"2025-10": boom}}, nil)

	_, err := svc.Range(context.Background(), "2025-09", "2025-11")
	assert.ErrorIs(t, err, boom)

	_, err = svc.Range(context.Background(), "2025-11", "2025-09")
	assert.ErrorIs(t, err, core.ErrInvalidMonth)

	_, err = svc.Range(context.Background(), "2020-01", "2025-01")
	assert.ErrorIs(t, err, core.ErrInvalidMonth)
}

func TestSummaryService_InvalidateDuringCompute(t *testing.T) {
	store := memory.New(nil)
	lister := &gatedLister{next: store, read: make(chan struct{}), release: make(chan struct{})}
	summaries := NewSummaryService(lister, cache.NewLRUCache[core.MonthlySummary](10, time.Minute))
	transactions := NewTransactionService(store, nil, summaries)

	done := make(chan error, 1)
	go func() {
		_, err := summaries.Summary(context.Background(), "2025-09")
		done <- err
	}()

	<-lister.read
	_, err := transactions.Record(context.Background(), core.Transaction{
		AccountID: "a",
		Amount:    decimal.NewFromInt(-10),
		Date:      "2025-09-01",
	})
	require.NoError(t, err)
	close(lister.release)
	require.NoError(t, <-done)

	got, err := summaries.Summary(context.Background(), "2025-09")
	require.NoError(t, err)
	assert.Equal(t, "10", got.Expenses.String())
}
