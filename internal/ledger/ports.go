// Package ledger declares the ports through which transactions enter and
// leave the system.
package ledger

import (
	"context"
	"errors"

	"budget/internal/core"
)

var (
	// ErrNotFound is returned when a transaction id is unknown.
	ErrNotFound = errors.New("transaction not found")
	// ErrDuplicate is returned when a transaction id is already recorded.
	ErrDuplicate = errors.New("transaction already exists")
)

// Ports for outbound adapters.
type (
	TransactionWriter interface {
		Record(ctx context.Context, t core.Transaction) (id string, err error)
	}

	// TransactionLister returns the transactions of one month. Implementations
	// may return extra rows; the aggregator filters by month again.
	TransactionLister interface {
		ListTransactions(ctx context.Context, month core.MonthKey) ([]core.Transaction, error)
	}

	// MonthLister returns the distinct months holding transactions, newest first.
	MonthLister interface {
		ListMonths(ctx context.Context) ([]core.MonthKey, error)
	}

	// TransactionReader fetches a single transaction by id.
	TransactionReader interface {
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	}

	// SummaryExporter publishes a computed summary to an external destination.
	SummaryExporter interface {
		ExportSummary(ctx context.Context, s core.MonthlySummary) (ref string, err error)
	}
)

// Store is the full set of operations a transaction backend provides.
type Store interface {
	TransactionWriter
	TransactionLister
	MonthLister
	TransactionReader
}
