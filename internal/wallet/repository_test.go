package wallet

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupWalletMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewPostgresRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func walletRows(id, userID int, balance int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "user_id", "balance_cents", "currency", "created_at", "updated_at"}).
		AddRow(id, userID, balance, "USD", now, now)
}

func TestGetByUserID_NotFound(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	mock.ExpectQuery("SELECT (.+) FROM wallets").WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByUserID(7)
	require.ErrorIs(t, err, ErrWalletNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddTransaction_TopUp(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM wallets (.+) FOR UPDATE").WithArgs(7).
		WillReturnRows(walletRows(3, 7, 1000))
	mock.ExpectQuery("UPDATE wallets SET balance_cents").WithArgs(int64(3000), 3).
		WillReturnRows(walletRows(3, 7, 3000))
	mock.ExpectExec("INSERT INTO wallet_transactions").WithArgs(3, int64(2000), "topup", int64(3000)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w, err := repo.AddTransaction(7, 2000, "topup")
	require.NoError(t, err)
	require.Equal(t, int64(3000), w.BalanceCents)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddTransaction_InsufficientBalance(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM wallets (.+) FOR UPDATE").WithArgs(7).
		WillReturnRows(walletRows(3, 7, 500))
	mock.ExpectRollback()

	_, err := repo.AddTransaction(7, -900, "booking_payment")
	require.ErrorIs(t, err, ErrInsufficientBalance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Idempotent(t *testing.T) {
	repo, mock, close := setupWalletMock(t)
	defer close()

	mock.ExpectExec("INSERT INTO wallets").WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM wallets").WithArgs(7).
		WillReturnRows(walletRows(3, 7, 0))

	w, err := repo.Create(7)
	require.NoError(t, err)
	require.Equal(t, int64(0), w.BalanceCents)
	require.NoError(t, mock.ExpectationsWereMet())
}
