package tokens

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrPoolNotFound       = errors.New("token pool not found")
	ErrInsufficientTokens = errors.New("insufficient tokens in pool")
)

const poolColumns = `id, club_id, month, allocated, used, purchased, rollover_in, overdraft_used, overdraft_limit, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetPool(ctx context.Context, clubID int, month string) (*TokenPool, error) {
	pool := &TokenPool{}
	err := r.db.GetContext(ctx, pool,
		`SELECT `+poolColumns+` FROM token_pools WHERE club_id = $1 AND month = $2`,
		clubID, month,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPoolNotFound
		}
		return nil, err
	}

	return pool, nil
}

func (r *repository) CreatePool(ctx context.Context, clubID int, month string, allocated, rolloverIn, overdraftLimit int) (*TokenPool, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO token_pools (club_id, month, allocated, rollover_in, overdraft_limit)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (club_id, month) DO NOTHING
	`, clubID, month, allocated, rolloverIn, overdraftLimit)
	if err != nil {
		return nil, err
	}

	return r.GetPool(ctx, clubID, month)
}

// lockPool loads the pool row under FOR UPDATE inside tx.
func lockPool(ctx context.Context, tx *sqlx.Tx, clubID int, month string) (*TokenPool, error) {
	pool := &TokenPool{}
	err := tx.QueryRowxContext(ctx,
		`SELECT `+poolColumns+` FROM token_pools WHERE club_id = $1 AND month = $2 FOR UPDATE`,
		clubID, month,
	).StructScan(pool)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPoolNotFound
		}
		return nil, err
	}

	return pool, nil
}

// writePool persists the mutated counters and appends the audit row.
func writePool(ctx context.Context, tx *sqlx.Tx, pool *TokenPool, amount int, txType, reason string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE token_pools
		SET used = $1, purchased = $2, overdraft_used = $3, updated_at = NOW()
		WHERE id = $4
	`, pool.Used, pool.Purchased, pool.OverdraftUsed, pool.ID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO token_transactions (pool_id, amount, type, reason, balance_after)
		VALUES ($1, $2, $3, $4, $5)
	`, pool.ID, amount, txType, reason, pool.Available())
	return err
}

func debitLocked(ctx context.Context, tx *sqlx.Tx, clubID int, month string, tokens int, reason string) (*TokenPool, error) {
	pool, err := lockPool(ctx, tx, clubID, month)
	if err != nil {
		return nil, err
	}

	if !pool.CanDebit(tokens) {
		return nil, ErrInsufficientTokens
	}

	pool.applyDebit(tokens)

	if err := writePool(ctx, tx, pool, -tokens, "debit", reason); err != nil {
		return nil, err
	}

	return pool, nil
}

func creditLocked(ctx context.Context, tx *sqlx.Tx, clubID int, month string, tokens int, reason string) (*TokenPool, error) {
	pool, err := lockPool(ctx, tx, clubID, month)
	if err != nil {
		return nil, err
	}

	pool.applyCredit(tokens)

	if err := writePool(ctx, tx, pool, tokens, "credit", reason); err != nil {
		return nil, err
	}

	return pool, nil
}

func (r *repository) Debit(ctx context.Context, clubID int, month string, tokens int, reason string) (*TokenPool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	pool, err := debitLocked(ctx, tx, clubID, month, tokens, reason)
	if err != nil {
		return nil, err
	}

	return pool, tx.Commit()
}

func (r *repository) Credit(ctx context.Context, clubID int, month string, tokens int, reason string) (*TokenPool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	pool, err := creditLocked(ctx, tx, clubID, month, tokens, reason)
	if err != nil {
		return nil, err
	}

	return pool, tx.Commit()
}

func (r *repository) Purchase(ctx context.Context, clubID int, month string, tokens int) (*TokenPool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	pool, err := lockPool(ctx, tx, clubID, month)
	if err != nil {
		return nil, err
	}

	pool.applyPurchase(tokens)

	if err := writePool(ctx, tx, pool, tokens, "purchase", "token top-up"); err != nil {
		return nil, err
	}

	return pool, tx.Commit()
}

func (r *repository) DebitTx(ctx context.Context, tx *sqlx.Tx, clubID int, month string, tokens int, reason string) (*TokenPool, error) {
	return debitLocked(ctx, tx, clubID, month, tokens, reason)
}

func (r *repository) CreditTx(ctx context.Context, tx *sqlx.Tx, clubID int, month string, tokens int, reason string) (*TokenPool, error) {
	return creditLocked(ctx, tx, clubID, month, tokens, reason)
}

func (r *repository) GetTransactions(ctx context.Context, clubID int, month string, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	var poolID int
	err := r.db.GetContext(ctx, &poolID,
		`SELECT id FROM token_pools WHERE club_id = $1 AND month = $2`, clubID, month)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []Transaction{}, nil
		}
		return nil, err
	}

	var txs []Transaction
	err = r.db.SelectContext(ctx, &txs, `
		SELECT id, pool_id, amount, type, reason, balance_after, created_at
		FROM token_transactions
		WHERE pool_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, poolID, limit, offset)
	if err != nil {
		return nil, err
	}

	return txs, nil
}
