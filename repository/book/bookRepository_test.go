package bookrepo

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/Isayas7/book-rent-backend/model"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestCreate(t *testing.T) {
	mock := newMock(t)
	r := New(mock)

	created := time.Now()
	mock.ExpectQuery(`INSERT INTO books`).
		WithArgs("Dune", int64(7), "Frank Herbert", "Fiction", int64(5), 12.5, (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "status", "is_available", "created_at"}).
			AddRow(int64(1), model.StatusPending, true, created))

	b := &model.Book{Name: "Dune", OwnerID: 7, Author: "Frank Herbert", Category: "Fiction", Quantity: 5, RentPrice: 12.5}
	require.NoError(t, r.Create(context.Background(), b))

	require.Equal(t, int64(1), b.ID)
	require.Equal(t, model.StatusPending, b.Status)
	require.True(t, b.IsAvailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestByID(t *testing.T) {
	mock := newMock(t)
	r := New(mock)

	created := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM books WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "book_name", "owner_id", "author", "category", "quantity",
			"rent_price", "cover_photo_url", "status", "is_available", "created_at",
		}).AddRow(int64(3), "Dune", int64(7), "Frank Herbert", "Fiction", int64(5),
			12.5, (*string)(nil), model.StatusApproved, true, created))

	b, err := r.ByID(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, "Dune", b.Name)
	require.Equal(t, model.StatusApproved, b.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestByIDNotFound(t *testing.T) {
	mock := newMock(t)
	r := New(mock)

	mock.ExpectQuery(`SELECT (.+) FROM books WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	_, err := r.ByID(context.Background(), 99)
	require.ErrorIs(t, err, pgx.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus(t *testing.T) {
	mock := newMock(t)
	r := New(mock)

	mock.ExpectExec(`UPDATE books SET status = \$2 WHERE id = \$1`).
		WithArgs(int64(3), model.StatusApproved).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, r.UpdateStatus(context.Background(), 3, model.StatusApproved))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusMissing(t *testing.T) {
	mock := newMock(t)
	r := New(mock)

	mock.ExpectExec(`UPDATE books SET status = \$2 WHERE id = \$1`).
		WithArgs(int64(42), model.StatusRejected).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := r.UpdateStatus(context.Background(), 42, model.StatusRejected)
	require.ErrorIs(t, err, pgx.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	mock := newMock(t)
	r := New(mock)

	mock.ExpectExec(`DELETE FROM books WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, r.Delete(context.Background(), 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListOwnFilterArgs(t *testing.T) {
	mock := newMock(t)
	r := New(mock)

	author := "Frank Herbert"
	global := "dune"
	mock.ExpectQuery(`FROM books WHERE owner_id = \$1 AND author = \$2 AND \(book_name ILIKE`).
		WithArgs(int64(7), author, global).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "book_name", "owner_id", "author", "category", "quantity",
			"rent_price", "cover_photo_url", "status", "is_available", "created_at",
		}).AddRow(int64(3), "Dune", int64(7), author, "Fiction", int64(5),
			12.5, (*string)(nil), model.StatusApproved, true, time.Now()))

	books, err := r.ListOwn(context.Background(), 7, model.BookFilter{Author: &author, Global: &global})
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.Equal(t, "Dune", books[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFreeCategoryCounts(t *testing.T) {
	mock := newMock(t)
	r := New(mock)

	now := time.Now()
	owner := int64(7)
	mock.ExpectQuery(`SELECT b\.category, COUNT\(\*\)`).
		WithArgs(now, owner).
		WillReturnRows(pgxmock.NewRows([]string{"category", "count"}).
			AddRow("Fiction", int64(2)).
			AddRow("Science", int64(1)))

	counts, err := r.FreeCategoryCounts(context.Background(), &owner, now)
	require.NoError(t, err)
	require.Equal(t, []model.CategoryCount{
		{Category: "Fiction", Count: 2},
		{Category: "Science", Count: 1},
	}, counts)
	require.NoError(t, mock.ExpectationsWereMet())
}
