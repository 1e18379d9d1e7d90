package tokens

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	GetPool(ctx context.Context, clubID int, month string) (*TokenPool, error)
	// CreatePool inserts a pool row if absent and returns the row either
	// way; concurrent callers converge on one row.
	CreatePool(ctx context.Context, clubID int, month string, allocated, rolloverIn, overdraftLimit int) (*TokenPool, error)

	Debit(ctx context.Context, clubID int, month string, tokens int, reason string) (*TokenPool, error)
	Credit(ctx context.Context, clubID int, month string, tokens int, reason string) (*TokenPool, error)
	Purchase(ctx context.Context, clubID int, month string, tokens int) (*TokenPool, error)

	// Tx variants participate in a caller-owned transaction so a debit or
	// credit can commit atomically with a reservation or redemption write.
	DebitTx(ctx context.Context, tx *sqlx.Tx, clubID int, month string, tokens int, reason string) (*TokenPool, error)
	CreditTx(ctx context.Context, tx *sqlx.Tx, clubID int, month string, tokens int, reason string) (*TokenPool, error)

	GetTransactions(ctx context.Context, clubID int, month string, limit, offset int) ([]Transaction, error)
}
