package wallet

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByUserID(userID int) (*Wallet, error) {
	var w Wallet
	err := r.db.Get(&w, `SELECT * FROM wallets WHERE user_id = $1`, userID)
	if err == sql.ErrNoRows {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &w, nil
}

func (r *PostgresRepository) Create(userID int) (*Wallet, error) {
	_, err := r.db.Exec(`
		INSERT INTO wallets (user_id, balance_cents, currency)
		VALUES ($1, 0, 'USD')
		ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return r.GetByUserID(userID)
}

// AddTransaction applies a signed amount to the wallet balance and records
// an audit row, all in one transaction. Negative amounts that would take the
// balance below zero return ErrInsufficientBalance.
func (r *PostgresRepository) AddTransaction(userID int, amountCents int64, txType string) (*Wallet, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	w, err := r.addTransactionLocked(tx, userID, amountCents, txType)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return w, nil
}

// AddTransactionTx is AddTransaction inside a caller-owned transaction, so a
// booking can settle its cash leg atomically with the rest of its writes.
func (r *PostgresRepository) AddTransactionTx(tx *sqlx.Tx, userID int, amountCents int64, txType string) (*Wallet, error) {
	return r.addTransactionLocked(tx, userID, amountCents, txType)
}

func (r *PostgresRepository) addTransactionLocked(tx *sqlx.Tx, userID int, amountCents int64, txType string) (*Wallet, error) {
	var w Wallet
	err := tx.Get(&w, `SELECT * FROM wallets WHERE user_id = $1 FOR UPDATE`, userID)
	if err == sql.ErrNoRows {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}

	newBalance := w.BalanceCents + amountCents
	if newBalance < 0 {
		return nil, ErrInsufficientBalance
	}

	err = tx.Get(&w, `
		UPDATE wallets SET balance_cents = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING *`, newBalance, w.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update wallet: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO wallet_transactions (wallet_id, amount_cents, type, balance_after)
		VALUES ($1, $2, $3, $4)`, w.ID, amountCents, txType, newBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to record wallet transaction: %w", err)
	}

	return &w, nil
}

func (r *PostgresRepository) GetTransactions(userID int, limit, offset int) ([]Transaction, error) {
	var txs []Transaction
	err := r.db.Select(&txs, `
		SELECT t.* FROM wallet_transactions t
		JOIN wallets w ON w.id = t.wallet_id
		WHERE w.user_id = $1
		ORDER BY t.created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet transactions: %w", err)
	}
	return txs, nil
}
