package usersvc

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/Isayas7/book-rent-backend/model"
	userrepo "github.com/Isayas7/book-rent-backend/repository/user"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error   { t.committed = true; return nil }
func (t *fakeTx) Rollback(context.Context) error { t.rolledBack = true; return nil }

type fakeDB struct{ tx *fakeTx }

func (d *fakeDB) Begin(context.Context) (pgx.Tx, error) { return d.tx, nil }

type repoMock struct {
	userrepo.Repo
	ownersFn      func(ctx context.Context) ([]model.OwnerRow, error)
	statusFn      func(ctx context.Context, id int64, status model.ApprovalStatus) error
	byIDFn        func(ctx context.Context, id int64) (*model.User, error)
	deleteBooksFn func(ctx context.Context, tx pgx.Tx, ownerID int64) (int64, error)
	deleteFn      func(ctx context.Context, tx pgx.Tx, id int64) error
}

func (m *repoMock) Owners(ctx context.Context) ([]model.OwnerRow, error) { return m.ownersFn(ctx) }
func (m *repoMock) UpdateStatus(ctx context.Context, id int64, status model.ApprovalStatus) error {
	return m.statusFn(ctx, id, status)
}
func (m *repoMock) ByID(ctx context.Context, id int64) (*model.User, error) {
	return m.byIDFn(ctx, id)
}
func (m *repoMock) DeleteBooksOfOwner(ctx context.Context, tx pgx.Tx, ownerID int64) (int64, error) {
	return m.deleteBooksFn(ctx, tx, ownerID)
}
func (m *repoMock) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	return m.deleteFn(ctx, tx, id)
}

var (
	admin = &model.User{ID: 1, Role: model.RoleAdmin}
	owner = &model.User{ID: 10, Role: model.RoleOwner}
)

func TestOwners_AdminOnly(t *testing.T) {
	m := &repoMock{ownersFn: func(ctx context.Context) ([]model.OwnerRow, error) {
		return []model.OwnerRow{{User: model.User{ID: 10}, Uploads: 3}}, nil
	}}
	s := New(&fakeDB{tx: &fakeTx{}}, m)

	rows, err := s.Owners(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, int64(3), rows[0].Uploads)

	_, err = s.Owners(context.Background(), owner)
	require.Equal(t, ErrForbidden, Code(err))
}

func TestChangeStatus(t *testing.T) {
	m := &repoMock{statusFn: func(ctx context.Context, id int64, status model.ApprovalStatus) error {
		if id == 404 {
			return pgx.ErrNoRows
		}
		require.Equal(t, model.StatusApproved, status)
		return nil
	}}
	s := New(&fakeDB{tx: &fakeTx{}}, m)

	require.NoError(t, s.ChangeStatus(context.Background(), admin, 10, model.StatusApproved))

	err := s.ChangeStatus(context.Background(), admin, 404, model.StatusApproved)
	require.Equal(t, ErrNotFound, Code(err))

	err = s.ChangeStatus(context.Background(), owner, 10, model.StatusApproved)
	require.Equal(t, ErrForbidden, Code(err))
}

func TestDeleteOwner_CascadesBooks(t *testing.T) {
	tx := &fakeTx{}
	var booksDeleted, userDeleted bool
	m := &repoMock{
		byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Role: model.RoleOwner}, nil
		},
		deleteBooksFn: func(_ context.Context, _ pgx.Tx, ownerID int64) (int64, error) {
			require.Equal(t, int64(10), ownerID)
			booksDeleted = true
			return 4, nil
		},
		deleteFn: func(_ context.Context, _ pgx.Tx, id int64) error {
			require.True(t, booksDeleted, "books must be deleted before the owner")
			userDeleted = true
			return nil
		},
	}
	s := New(&fakeDB{tx: tx}, m)

	require.NoError(t, s.DeleteOwner(context.Background(), admin, 10))
	require.True(t, userDeleted)
	require.True(t, tx.committed)
}

func TestDeleteOwner_NotFound(t *testing.T) {
	m := &repoMock{
		byIDFn: func(ctx context.Context, id int64) (*model.User, error) { return nil, pgx.ErrNoRows },
	}
	s := New(&fakeDB{tx: &fakeTx{}}, m)

	err := s.DeleteOwner(context.Background(), admin, 404)
	require.Equal(t, ErrNotFound, Code(err))
}

func TestDeleteOwner_Forbidden(t *testing.T) {
	s := New(&fakeDB{tx: &fakeTx{}}, &repoMock{})
	err := s.DeleteOwner(context.Background(), owner, 10)
	require.Equal(t, ErrForbidden, Code(err))
}
