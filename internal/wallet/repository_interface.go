package wallet

import "github.com/jmoiron/sqlx"

type Repository interface {
	GetByUserID(userID int) (*Wallet, error)
	Create(userID int) (*Wallet, error)
	AddTransaction(userID int, amountCents int64, txType string) (*Wallet, error)
	AddTransactionTx(tx *sqlx.Tx, userID int, amountCents int64, txType string) (*Wallet, error)
	GetTransactions(userID int, limit, offset int) ([]Transaction, error)
}
