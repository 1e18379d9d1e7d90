package booking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/tokens"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/wallet"
)

func setupBookingMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB, tokens.NewRepository(sqlxDB), wallet.NewPostgresRepository(sqlxDB))

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func TestCreateAtomic_Success(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	day := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WithArgs(bookingLockClass, dateLockKey(10, day)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT res.id AS reservation_id").WithArgs(10, day).
		WillReturnRows(sqlmock.NewRows([]string{"reservation_id", "start_min", "end_min", "status"}))
	mock.ExpectQuery("INSERT INTO reservations").
		WillReturnRows(sqlmock.NewRows([]string{"id", "club_id", "player_id", "date", "start_min", "end_min", "status", "payment_method", "tokens_used", "cash_cents", "created_at", "updated_at"}).
			AddRow(5, 1, 7, day, 600, 660, "pending", "tokens", 10, 0, now, now))
	mock.ExpectExec("INSERT INTO reservation_resources").WithArgs(5, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := repo.CreateAtomic(context.Background(), &Reservation{
		ClubID: 1, PlayerID: 7, Date: day, StartMin: 600, EndMin: 660,
		PaymentMethod: "tokens", TokensUsed: 10, ResourceIDs: []int{10},
	})
	require.NoError(t, err)
	require.Equal(t, 5, res.ID)
	require.Equal(t, StatusPending, res.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAtomic_Conflict(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	day := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WithArgs(bookingLockClass, dateLockKey(10, day)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT res.id AS reservation_id").WithArgs(10, day).
		WillReturnRows(sqlmock.NewRows([]string{"reservation_id", "start_min", "end_min", "status"}).
			AddRow(3, 630, 690, "confirmed"))
	mock.ExpectRollback()

	_, err := repo.CreateAtomic(context.Background(), &Reservation{
		ClubID: 1, PlayerID: 7, Date: day, StartMin: 600, EndMin: 660, ResourceIDs: []int{10},
	})
	require.ErrorIs(t, err, ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAtomic_SessionLocksBothResources(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	day := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectBegin()
	// Locks are taken in resource-id order regardless of request order.
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WithArgs(bookingLockClass, dateLockKey(10, day)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WithArgs(bookingLockClass, dateLockKey(22, day)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT res.id AS reservation_id").WithArgs(10, day).
		WillReturnRows(sqlmock.NewRows([]string{"reservation_id", "start_min", "end_min", "status"}))
	mock.ExpectQuery("SELECT res.id AS reservation_id").WithArgs(22, day).
		WillReturnRows(sqlmock.NewRows([]string{"reservation_id", "start_min", "end_min", "status"}))
	mock.ExpectQuery("INSERT INTO reservations").
		WillReturnRows(sqlmock.NewRows([]string{"id", "club_id", "player_id", "date", "start_min", "end_min", "status", "payment_method", "tokens_used", "cash_cents", "created_at", "updated_at"}).
			AddRow(6, 1, 7, day, 600, 660, "pending", "hybrid", 4, 1998, now, now))
	mock.ExpectExec("INSERT INTO reservation_resources").WithArgs(6, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO reservation_resources").WithArgs(6, 22).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := repo.CreateAtomic(context.Background(), &Reservation{
		ClubID: 1, PlayerID: 7, Date: day, StartMin: 600, EndMin: 660,
		PaymentMethod: "hybrid", TokensUsed: 4, CashCents: 1998,
		ResourceIDs: []int{22, 10},
	})
	require.NoError(t, err)
	require.Equal(t, []int{10, 22}, res.ResourceIDs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelWithRefund_AlreadyCancelled(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE reservations SET status = 'cancelled'").WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.CancelWithRefund(context.Background(), &Reservation{ID: 5}, "2026-09", 0, 0)
	require.ErrorIs(t, err, ErrNotCancellable)
	require.NoError(t, mock.ExpectationsWereMet())
}
