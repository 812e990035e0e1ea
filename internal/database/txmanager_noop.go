package database

import "context"

// noopTxManager runs fn directly. Used by stores whose writes are single
// document operations and therefore already atomic.
type noopTxManager struct{}

// NewNoopTxManager returns a TxManager that does not open transactions.
func NewNoopTxManager() TxManager {
	return noopTxManager{}
}

func (noopTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
