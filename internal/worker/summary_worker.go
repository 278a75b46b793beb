// Package worker recomputes monthly summaries on transaction events and
// exports them.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"budget/internal/amqp"
	"budget/internal/core"
	"budget/internal/ledger"
	applog "budget/internal/log"
)

// SummaryComputer computes a summary without consulting any cache.
type SummaryComputer interface {
	Compute(ctx context.Context, month core.MonthKey) (core.MonthlySummary, error)
}

// SummaryWorker exports fresh monthly summaries through a SummaryExporter.
type SummaryWorker struct {
	summaries SummaryComputer
	exporter  ledger.SummaryExporter
	reader    ledger.TransactionReader
	now       func() time.Time
}

// NewSummaryWorker builds a worker. reader is optional; when set, events for
// unknown transactions are acknowledged without exporting.
func NewSummaryWorker(summaries SummaryComputer, exporter ledger.SummaryExporter, reader ledger.TransactionReader) *SummaryWorker {
	return &SummaryWorker{
		summaries: summaries,
		exporter:  exporter,
		reader:    reader,
		now:       time.Now,
	}
}

// HandleTransactionRecorded recomputes and exports the month named by msg.
// Returning an error requeues the message.
func (w *SummaryWorker) HandleTransactionRecorded(ctx context.Context, msg *amqp.TransactionRecordedMessage) error {
	slog.InfoContext(ctx, "Processing transaction recorded message",
		"transaction_id", msg.ID,
		"month", msg.Month)

	if w.reader != nil {
		t, err := w.reader.GetTransaction(ctx, msg.ID)
		switch {
		case errors.Is(err, ledger.ErrNotFound):
			slog.WarnContext(ctx, "Transaction from message not in store, skipping", "transaction_id", msg.ID)
			return nil
		case err != nil:
			return fmt.Errorf("get transaction %s: %w", msg.ID, err)
		case t.Month() != msg.Month:
			slog.WarnContext(ctx, "Message month differs from stored transaction",
				"transaction_id", msg.ID,
				"message_month", msg.Month,
				"stored_month", t.Month())
		}
	}

	_, err := w.ExportMonth(ctx, msg.Month)
	return err
}

// ExportMonth computes month from the store and exports it.
func (w *SummaryWorker) ExportMonth(ctx context.Context, month core.MonthKey) (string, error) {
	summary, err := w.summaries.Compute(ctx, month)
	if err != nil {
		return "", fmt.Errorf("compute summary: %w", err)
	}

	ref, err := w.exporter.ExportSummary(ctx, summary)
	if err != nil {
		return "", fmt.Errorf("export summary for %s: %w", month, err)
	}

	fields := applog.NewFields().
		WithComponent(applog.ComponentWorker).
		WithOperation(applog.OpExport).
		WithSummary(summary)
	fields[applog.FieldExportRef] = ref
	slog.InfoContext(ctx, "Exported monthly summary", fields.ToSlice()...)
	return ref, nil
}

// RunPeriodic exports the current month immediately and then on every tick
// until ctx ends. Export failures are logged and retried on the next tick.
func (w *SummaryWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		month := core.MonthKeyFromTime(w.now())
		if _, err := w.ExportMonth(ctx, month); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.ErrorContext(ctx, "Periodic summary export failed", "month", month, "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
