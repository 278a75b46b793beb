// Package services orchestrates the write path and the summary read path.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"budget/internal/core"
	"budget/internal/ledger"
	applog "budget/internal/log"
)

// EventPublisher announces recorded transactions to downstream consumers.
type EventPublisher interface {
	PublishTransactionRecorded(ctx context.Context, id string, month core.MonthKey) error
}

// MonthInvalidator drops cached state for a month.
type MonthInvalidator interface {
	Invalidate(month core.MonthKey)
}

// TransactionService stores transactions and publishes a recorded event for each.
type TransactionService struct {
	writer      ledger.TransactionWriter
	publisher   EventPublisher
	invalidator MonthInvalidator
}

// NewTransactionService wires the write path. publisher and invalidator may be nil.
func NewTransactionService(writer ledger.TransactionWriter, publisher EventPublisher, invalidator MonthInvalidator) *TransactionService {
	return &TransactionService{
		writer:      writer,
		publisher:   publisher,
		invalidator: invalidator,
	}
}

// Record assigns an id when missing, validates, persists and publishes.
// A failed publish is logged; the transaction is already stored.
func (s *TransactionService) Record(ctx context.Context, t core.Transaction) (string, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := t.Validate(); err != nil {
		return "", err
	}

	id, err := s.writer.Record(ctx, t)
	if err != nil {
		return "", fmt.Errorf("save transaction: %w", err)
	}

	slog.DebugContext(ctx, "Transaction stored", applog.NewFields().
		WithComponent(applog.ComponentTransaction).
		WithOperation(applog.OpRecord).
		WithTransaction(t).
		ToSlice()...)

	month := t.Month()
	if s.invalidator != nil {
		s.invalidator.Invalidate(month)
	}

	if err := s.publish(ctx, id, month); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction recorded message",
			"transaction_id", id, "month", month, "error", err)
	}
	return id, nil
}

func (s *TransactionService) publish(ctx context.Context, id string, month core.MonthKey) error {
	if s.publisher == nil {
		slog.DebugContext(ctx, "AMQP publisher not configured, skipping recorded message", "transaction_id", id)
		return nil
	}
	return s.publisher.PublishTransactionRecorded(ctx, id, month)
}

// Close releases the writer and publisher when they hold resources.
func (s *TransactionService) Close() error {
	var errs []error
	if c, ok := s.writer.(io.Closer); ok && c != nil {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if c, ok := s.publisher.(io.Closer); ok && c != nil {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	return errors.Join(errs...)
}
