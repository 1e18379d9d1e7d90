package club

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupClubMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func TestCreateClub(t *testing.T) {
	repo, mock, close := setupClubMock(t)
	defer close()

	mock.ExpectQuery("INSERT INTO clubs").WithArgs("Riverside", "Portland").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "location", "created_at"}).
			AddRow(1, "Riverside", "Portland", time.Now()))

	club, err := repo.CreateClub(context.Background(), "Riverside", "Portland")
	require.NoError(t, err)
	require.Equal(t, 1, club.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetResourcesByClub_CategoryFilter(t *testing.T) {
	repo, mock, close := setupClubMock(t)
	defer close()

	cat := CategoryCourt
	mock.ExpectQuery("SELECT (.+) FROM resources").WithArgs(1, cat).
		WillReturnRows(sqlmock.NewRows([]string{"id", "club_id", "name", "category", "hourly_token_rate", "hourly_cash_cents", "active", "created_at"}).
			AddRow(10, 1, "Court 1", "court", 10, 2000, true, time.Now()).
			AddRow(11, 1, "Court 2", "court", 12, 2400, true, time.Now()))

	resources, err := repo.GetResourcesByClub(context.Background(), 1, &cat)
	require.NoError(t, err)
	require.Len(t, resources, 2)
	require.Equal(t, CategoryCourt, resources[0].Category)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetOperatingWindow_Upsert(t *testing.T) {
	repo, mock, close := setupClubMock(t)
	defer close()

	mock.ExpectQuery("INSERT INTO operating_windows").WithArgs(1, 3, 540, 1320).
		WillReturnRows(sqlmock.NewRows([]string{"id", "club_id", "weekday", "open_min", "close_min"}).
			AddRow(2, 1, 3, 540, 1320))

	w, err := repo.SetOperatingWindow(context.Background(), 1, time.Wednesday, 540, 1320)
	require.NoError(t, err)
	require.Equal(t, time.Wednesday, w.Weekday)
	require.Equal(t, 1320, w.CloseMin)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOperatingWindow_ClosedDay(t *testing.T) {
	repo, mock, close := setupClubMock(t)
	defer close()

	mock.ExpectQuery("SELECT (.+) FROM operating_windows").WithArgs(1, 4).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetOperatingWindow(context.Background(), 1, time.Thursday)
	require.ErrorIs(t, err, ErrWindowNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetResourceActive_NoRow(t *testing.T) {
	repo, mock, close := setupClubMock(t)
	defer close()

	mock.ExpectExec("UPDATE resources SET active").WithArgs(false, 42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetResourceActive(context.Background(), 42, false)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
