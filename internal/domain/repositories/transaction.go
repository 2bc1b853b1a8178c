package repositories

import "context"

// TxFn runs inside a transaction. Returning an error rolls the transaction back.
type TxFn func(ctx context.Context) error

// TransactionManager runs a function atomically.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
