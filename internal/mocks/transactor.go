package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/scry-vocab/internal/store"
)

// MockTransactor implements store.Transactor without a database. By default
// it runs fn directly with a nil transaction, which the in-memory store mocks
// accept.
type MockTransactor struct {
	RunInTransactionFn func(ctx context.Context, fn store.TxFn) error

	// BeginErr is returned without running fn, as if the transaction could not start.
	BeginErr error

	mu    sync.Mutex
	calls int
}

var _ store.Transactor = (*MockTransactor)(nil)

// RunInTransaction implements store.Transactor.
func (m *MockTransactor) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.RunInTransactionFn != nil {
		return m.RunInTransactionFn(ctx, fn)
	}
	if m.BeginErr != nil {
		return m.BeginErr
	}
	return fn(ctx, nil)
}

// Calls returns how many transactions were requested.
func (m *MockTransactor) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
