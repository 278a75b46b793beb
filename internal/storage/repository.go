// Package storage persists transactions in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"budget/internal/core"
	"budget/internal/ledger"
)

var _ ledger.Store = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Record implements ledger.TransactionWriter.
func (r *SQLiteRepository) Record(ctx context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}

	var category sql.NullString
	if t.Categorized() {
		category = sql.NullString{String: t.Category(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, account_id, category_id, amount, date, month, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.AccountID, category, t.Amount.String(), t.Date, string(t.Month()), t.Description)
	if isPrimaryKeyViolation(err) {
		return "", fmt.Errorf("%w: %q", ledger.ErrDuplicate, t.ID)
	}
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", t.ID,
		"account_id", t.AccountID,
		"amount", t.Amount.String(),
		"month", t.Month())

	return t.ID, nil
}

// ListTransactions implements ledger.TransactionLister.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, month core.MonthKey) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, account_id, category_id, amount, date, description
		 FROM transactions WHERE month = ? ORDER BY date, created_at, id`, string(month))
	if err != nil {
		return nil, fmt.Errorf("query transactions for %s: %w", month, err)
	}
	defer rows.Close()

	out := make([]core.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// GetTransaction implements ledger.TransactionReader.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, account_id, category_id, amount, date, description
		 FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("get %q: %w", id, ledger.ErrNotFound)
	}
	return t, err
}

// ListMonths returns the distinct months holding transactions, newest first.
func (r *SQLiteRepository) ListMonths(ctx context.Context) ([]core.MonthKey, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT month FROM transactions ORDER BY month DESC`)
	if err != nil {
		return nil, fmt.Errorf("query months: %w", err)
	}
	defer rows.Close()

	months := []core.MonthKey{}
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("scan month: %w", err)
		}
		months = append(months, core.MonthKey(m))
	}
	return months, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (core.Transaction, error) {
	var (
		t        core.Transaction
		category sql.NullString
		amount   string
	)
	if err := s.Scan(&t.ID, &t.AccountID, &category, &amount, &t.Date, &t.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, err
		}
		return t, fmt.Errorf("scan transaction: %w", err)
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return t, fmt.Errorf("transaction %s has corrupt amount %q: %w", t.ID, amount, err)
	}
	t.Amount = d
	if category.Valid {
		t.CategoryID = core.CategoryRef(category.String)
	}
	return t, nil
}

func isPrimaryKeyViolation(err error) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
