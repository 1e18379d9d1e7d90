package tokens

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupTokenMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func poolRows(p *TokenPool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "club_id", "month", "allocated", "used", "purchased",
		"rollover_in", "overdraft_used", "overdraft_limit", "created_at", "updated_at",
	}).AddRow(p.ID, p.ClubID, p.Month, p.Allocated, p.Used, p.Purchased,
		p.RolloverIn, p.OverdraftUsed, p.OverdraftLimit, now, now)
}

func TestGetPool_NotFound(t *testing.T) {
	repo, mock, close := setupTokenMock(t)
	defer close()

	mock.ExpectQuery("SELECT (.+) FROM token_pools").WithArgs(1, "2026-09").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetPool(context.Background(), 1, "2026-09")
	require.ErrorIs(t, err, ErrPoolNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebit_Success(t *testing.T) {
	repo, mock, close := setupTokenMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM token_pools (.+) FOR UPDATE").WithArgs(1, "2026-09").
		WillReturnRows(poolRows(&TokenPool{ID: 3, ClubID: 1, Month: "2026-09", Allocated: 100, Used: 40}))
	mock.ExpectExec("UPDATE token_pools").WithArgs(50, 0, 0, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO token_transactions").WithArgs(3, -10, "debit", "booking:5", 50).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	pool, err := repo.Debit(context.Background(), 1, "2026-09", 10, "booking:5")
	require.NoError(t, err)
	require.Equal(t, 50, pool.Used)
	require.Equal(t, 50, pool.Available())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebit_IntoOverdraft(t *testing.T) {
	repo, mock, close := setupTokenMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM token_pools (.+) FOR UPDATE").WithArgs(1, "2026-09").
		WillReturnRows(poolRows(&TokenPool{ID: 3, ClubID: 1, Month: "2026-09", Allocated: 100, Used: 95, OverdraftLimit: 20}))
	mock.ExpectExec("UPDATE token_pools").WithArgs(110, 0, 10, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO token_transactions").WithArgs(3, -15, "debit", "booking:6", -10).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	pool, err := repo.Debit(context.Background(), 1, "2026-09", 15, "booking:6")
	require.NoError(t, err)
	require.Equal(t, -10, pool.Available())
	require.Equal(t, 10, pool.OverdraftUsed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebit_Insufficient(t *testing.T) {
	repo, mock, close := setupTokenMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM token_pools (.+) FOR UPDATE").WithArgs(1, "2026-09").
		WillReturnRows(poolRows(&TokenPool{ID: 3, ClubID: 1, Month: "2026-09", Allocated: 100, Used: 97}))
	mock.ExpectRollback()

	_, err := repo.Debit(context.Background(), 1, "2026-09", 10, "booking:7")
	require.ErrorIs(t, err, ErrInsufficientTokens)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCredit_UnwindsOverdraft(t *testing.T) {
	repo, mock, close := setupTokenMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM token_pools (.+) FOR UPDATE").WithArgs(1, "2026-09").
		WillReturnRows(poolRows(&TokenPool{ID: 3, ClubID: 1, Month: "2026-09", Allocated: 100, Used: 110, OverdraftUsed: 10, OverdraftLimit: 20}))
	mock.ExpectExec("UPDATE token_pools").WithArgs(95, 0, 0, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO token_transactions").WithArgs(3, 15, "credit", "booking_refund:6", 5).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	pool, err := repo.Credit(context.Background(), 1, "2026-09", 15, "booking_refund:6")
	require.NoError(t, err)
	require.Equal(t, 0, pool.OverdraftUsed)
	require.Equal(t, 5, pool.Available())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchase_AddsTokens(t *testing.T) {
	repo, mock, close := setupTokenMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM token_pools (.+) FOR UPDATE").WithArgs(1, "2026-09").
		WillReturnRows(poolRows(&TokenPool{ID: 3, ClubID: 1, Month: "2026-09", Allocated: 100, Used: 100}))
	mock.ExpectExec("UPDATE token_pools").WithArgs(100, 50, 0, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO token_transactions").WithArgs(3, 50, "purchase", "token top-up", 50).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	pool, err := repo.Purchase(context.Background(), 1, "2026-09", 50)
	require.NoError(t, err)
	require.Equal(t, 50, pool.Purchased)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePool_RaceConverges(t *testing.T) {
	repo, mock, close := setupTokenMock(t)
	defer close()

	mock.ExpectExec("INSERT INTO token_pools").WithArgs(1, "2026-09", 2500, 500, 0).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM token_pools").WithArgs(1, "2026-09").
		WillReturnRows(poolRows(&TokenPool{ID: 3, ClubID: 1, Month: "2026-09", Allocated: 2500, RolloverIn: 500}))

	pool, err := repo.CreatePool(context.Background(), 1, "2026-09", 2500, 500, 0)
	require.NoError(t, err)
	require.Equal(t, 3, pool.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
