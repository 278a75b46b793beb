package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"budget/internal/core"
	"budget/internal/ledger"
)

// SeedFile is the optional JSON file NewFromFiles loads transactions from.
const SeedFile = "transactions.json"

var _ ledger.Store = (*Store)(nil)

type Store struct {
	mu    sync.Mutex
	items []core.Transaction
	index map[string]int
}

func New(seed []core.Transaction) *Store {
	s := &Store{index: make(map[string]int)}
	for _, t := range seed {
		if _, dup := s.index[t.ID]; dup {
			continue
		}
		s.index[t.ID] = len(s.items)
		s.items = append(s.items, t.Clone())
	}
	return s
}

// NewFromFiles seeds the store from base/transactions.json when present.
// A missing or unreadable file yields an empty store.
func NewFromFiles(base string) *Store {
	seed, err := readSeed(filepath.Join(base, SeedFile))
	if err != nil {
		slog.Warn("Ignoring transaction seed file", "path", filepath.Join(base, SeedFile), "error", err)
	}
	return New(seed)
}

// Record stores the transaction and returns its id.
func (s *Store) Record(_ context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.index[t.ID]; dup {
		return "", fmt.Errorf("%w: %q", ledger.ErrDuplicate, t.ID)
	}
	s.index[t.ID] = len(s.items)
	s.items = append(s.items, t.Clone())
	return t.ID, nil
}

// ListTransactions returns copies of the transactions dated in month, in insertion order.
func (s *Store) ListTransactions(_ context.Context, month core.MonthKey) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0)
	for _, t := range s.items {
		if t.Month() == month {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}

// ListMonths returns the distinct months of the stored transactions, newest first.
func (s *Store) ListMonths(_ context.Context) ([]core.MonthKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[core.MonthKey]bool)
	months := []core.MonthKey{}
	for _, t := range s.items {
		if m := t.Month(); !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	slices.Sort(months)
	slices.Reverse(months)
	return months, nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("get %q: %w", id, ledger.ErrNotFound)
	}
	return s.items[i].Clone(), nil
}

// Len returns the number of stored transactions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func readSeed(path string) ([]core.Transaction, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var seed []core.Transaction
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return seed, nil
}
