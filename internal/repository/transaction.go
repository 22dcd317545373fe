package repository

import (
	"context"
	"fmt"
)

// transactionManager implements TransactionManager
type transactionManager struct {
	s *store
}

// WithTransaction runs fn while holding the store lock. The repositories
// handed to fn do not lock again.
func (tm *transactionManager) WithTransaction(ctx context.Context, fn func(repos *Repositories) error) error {
	if tm.s.inTx {
		return fn(tm.s.repositories())
	}

	tm.s.mu.Lock()
	defer tm.s.mu.Unlock()

	view := *tm.s
	view.inTx = true

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction not started: %w", err)
	}
	return fn(view.repositories())
}
