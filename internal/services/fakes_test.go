package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"budget/internal/core"
	"budget/internal/ledger"
)

type fakeLister struct {
	txs   []core.Transaction
	err   map[core.MonthKey]error
	calls atomic.Int32
}

func (f *fakeLister) ListTransactions(_ context.Context, month core.MonthKey) ([]core.Transaction, error) {
	f.calls.Add(1)
	if err := f.err[month]; err != nil {
		return nil, err
	}
	return f.txs, nil
}

type fakeWriter struct {
	mu     sync.Mutex
	stored []core.Transaction
	err    error
	closed bool
}

func (f *fakeWriter) Record(_ context.Context, t core.Transaction) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.stored = append(f.stored, t)
	return t.ID, nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

type publishedEvent struct {
	id    string
	month core.MonthKey
}

type fakePublisher struct {
	events []publishedEvent
	err    error
}

func (f *fakePublisher) PublishTransactionRecorded(_ context.Context, id string, month core.MonthKey) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, publishedEvent{id, month})
	return nil
}

func (f *fakePublisher) Close() error {
	return errors.New("publisher close failed")
}

type fakeInvalidator struct {
	months []core.MonthKey
}

func (f *fakeInvalidator) Invalidate(m core.MonthKey) {
	f.months = append(f.months, m)
}

// gatedLister reads from the wrapped lister, then waits for release before
// returning, so tests can interleave writes with an in-flight computation.
type gatedLister struct {
	next    ledger.TransactionLister
	read    chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedLister) ListTransactions(ctx context.Context, month core.MonthKey) ([]core.Transaction, error) {
	txs, err := g.next.ListTransactions(ctx, month)
	gated := false
	g.once.Do(func() { gated = true })
	if gated {
		close(g.read)
		<-g.release
	}
	return txs, err
}
