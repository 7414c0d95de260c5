package booksvc_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/Isayas7/book-rent-backend/model"
	bookrepo "github.com/Isayas7/book-rent-backend/repository/book"
	booksvc "github.com/Isayas7/book-rent-backend/service/book"
)

type repoMock struct {
	bookrepo.Repo
	createFn     func(ctx context.Context, b *model.Book) error
	updateFn     func(ctx context.Context, b *model.Book) error
	deleteFn     func(ctx context.Context, id int64) error
	byIDFn       func(ctx context.Context, id int64) (*model.Book, error)
	ownByIDFn    func(ctx context.Context, ownerID, id int64) (*model.Book, error)
	listOwnFn    func(ctx context.Context, ownerID int64, f model.BookFilter) ([]model.Book, error)
	statusFn     func(ctx context.Context, id int64, status model.ApprovalStatus) error
	freeCountsFn func(ctx context.Context, ownerID *int64, now time.Time) ([]model.CategoryCount, error)
}

func (m *repoMock) Create(ctx context.Context, b *model.Book) error { return m.createFn(ctx, b) }
func (m *repoMock) Update(ctx context.Context, b *model.Book) error { return m.updateFn(ctx, b) }
func (m *repoMock) Delete(ctx context.Context, id int64) error      { return m.deleteFn(ctx, id) }
func (m *repoMock) ByID(ctx context.Context, id int64) (*model.Book, error) {
	return m.byIDFn(ctx, id)
}
func (m *repoMock) OwnByID(ctx context.Context, ownerID, id int64) (*model.Book, error) {
	return m.ownByIDFn(ctx, ownerID, id)
}
func (m *repoMock) ListOwn(ctx context.Context, ownerID int64, f model.BookFilter) ([]model.Book, error) {
	return m.listOwnFn(ctx, ownerID, f)
}
func (m *repoMock) UpdateStatus(ctx context.Context, id int64, status model.ApprovalStatus) error {
	return m.statusFn(ctx, id, status)
}
func (m *repoMock) FreeCategoryCounts(ctx context.Context, ownerID *int64, now time.Time) ([]model.CategoryCount, error) {
	return m.freeCountsFn(ctx, ownerID, now)
}

type imagesMock struct {
	uploadFn func(ctx context.Context, filename string, content io.Reader) (string, error)
}

func (m *imagesMock) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	if m.uploadFn == nil {
		return "", nil
	}
	return m.uploadFn(ctx, filename, content)
}

var (
	owner  = &model.User{ID: 10, Role: model.RoleOwner, Status: model.StatusApproved}
	admin  = &model.User{ID: 1, Role: model.RoleAdmin}
	renter = &model.User{ID: 7, Role: model.RoleRenter}
)

func validInput() booksvc.BookInput {
	return booksvc.BookInput{Name: "Fikir Eske Mekabir", Author: "Haddis Alemayehu",
		Category: "Fiction", Quantity: 3, RentPrice: 25}
}

func TestCreate_OnlyOwnersUpload(t *testing.T) {
	s := booksvc.New(&repoMock{}, &imagesMock{})

	_, err := s.Create(context.Background(), renter, validInput(), nil)
	require.Equal(t, booksvc.ErrForbidden, booksvc.Code(err))
	_, err = s.Create(context.Background(), admin, validInput(), nil)
	require.Equal(t, booksvc.ErrForbidden, booksvc.Code(err))
	_, err = s.Create(context.Background(), nil, validInput(), nil)
	require.Equal(t, booksvc.ErrForbidden, booksvc.Code(err))
}

func TestCreate_Validation(t *testing.T) {
	s := booksvc.New(&repoMock{}, &imagesMock{})

	in := validInput()
	in.Name = ""
	_, err := s.Create(context.Background(), owner, in, nil)
	require.Equal(t, booksvc.ErrBadInput, booksvc.Code(err))

	in = validInput()
	in.RentPrice = -1
	_, err = s.Create(context.Background(), owner, in, nil)
	require.Equal(t, booksvc.ErrBadInput, booksvc.Code(err))
}

func TestCreate_WithCover(t *testing.T) {
	m := &repoMock{createFn: func(ctx context.Context, b *model.Book) error {
		b.ID = 5
		b.Status = model.StatusPending
		return nil
	}}
	img := &imagesMock{uploadFn: func(_ context.Context, filename string, _ io.Reader) (string, error) {
		require.Equal(t, "cover.jpg", filename)
		return "https://img.example.com/books/cover.jpg", nil
	}}

	s := booksvc.New(m, img)
	b, err := s.Create(context.Background(), owner, validInput(),
		&booksvc.Cover{Filename: "cover.jpg", Content: strings.NewReader("jpeg")})
	require.NoError(t, err)
	require.Equal(t, int64(5), b.ID)
	require.Equal(t, int64(10), b.OwnerID)
	require.NotNil(t, b.CoverURL)
	require.Equal(t, "https://img.example.com/books/cover.jpg", *b.CoverURL)
}

func TestCreate_DuplicateName(t *testing.T) {
	m := &repoMock{createFn: func(ctx context.Context, b *model.Book) error {
		return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "books_book_name_key"}
	}}

	s := booksvc.New(m, &imagesMock{})
	_, err := s.Create(context.Background(), owner, validInput(), nil)
	require.Equal(t, booksvc.ErrDuplicate, booksvc.Code(err))
}

func TestUpdate_OwnershipScoped(t *testing.T) {
	stored := &model.Book{ID: 3, OwnerID: 99, Name: "x", Author: "y", Category: "z"}
	m := &repoMock{
		byIDFn:   func(ctx context.Context, id int64) (*model.Book, error) { return stored, nil },
		updateFn: func(ctx context.Context, b *model.Book) error { return nil },
	}
	s := booksvc.New(m, &imagesMock{})

	// Not the owner of book 3.
	_, err := s.Update(context.Background(), owner, 3, validInput(), nil)
	require.Equal(t, booksvc.ErrForbidden, booksvc.Code(err))

	stored.OwnerID = owner.ID
	b, err := s.Update(context.Background(), owner, 3, validInput(), nil)
	require.NoError(t, err)
	require.Equal(t, "Fikir Eske Mekabir", b.Name)
}

func TestDelete_OwnershipScoped(t *testing.T) {
	stored := &model.Book{ID: 3, OwnerID: owner.ID}
	var deleted bool
	m := &repoMock{
		byIDFn:   func(ctx context.Context, id int64) (*model.Book, error) { return stored, nil },
		deleteFn: func(ctx context.Context, id int64) error { deleted = true; return nil },
	}
	s := booksvc.New(m, &imagesMock{})

	require.NoError(t, s.Delete(context.Background(), owner, 3))
	require.True(t, deleted)

	stored.OwnerID = 99
	err := s.Delete(context.Background(), owner, 3)
	require.Equal(t, booksvc.ErrForbidden, booksvc.Code(err))
}

func TestDelete_NotFound(t *testing.T) {
	m := &repoMock{
		byIDFn: func(ctx context.Context, id int64) (*model.Book, error) { return nil, pgx.ErrNoRows },
	}
	s := booksvc.New(m, &imagesMock{})

	err := s.Delete(context.Background(), owner, 404)
	require.Equal(t, booksvc.ErrNotFound, booksvc.Code(err))
}

func TestOwnBooks_ScopedToActor(t *testing.T) {
	m := &repoMock{listOwnFn: func(ctx context.Context, ownerID int64, f model.BookFilter) ([]model.Book, error) {
		require.Equal(t, owner.ID, ownerID)
		require.NotNil(t, f.Category)
		require.Equal(t, "Fiction", *f.Category)
		return []model.Book{{ID: 1}}, nil
	}}
	s := booksvc.New(m, &imagesMock{})

	cat := "Fiction"
	books, err := s.OwnBooks(context.Background(), owner, model.BookFilter{Category: &cat})
	require.NoError(t, err)
	require.Len(t, books, 1)

	_, err = s.OwnBooks(context.Background(), renter, model.BookFilter{})
	require.Equal(t, booksvc.ErrForbidden, booksvc.Code(err))
}

func TestChangeStatus_AdminOnly(t *testing.T) {
	m := &repoMock{statusFn: func(ctx context.Context, id int64, status model.ApprovalStatus) error {
		require.Equal(t, model.StatusApproved, status)
		return nil
	}}
	s := booksvc.New(m, &imagesMock{})

	require.NoError(t, s.ChangeStatus(context.Background(), admin, 1, model.StatusApproved))

	err := s.ChangeStatus(context.Background(), owner, 1, model.StatusApproved)
	require.Equal(t, booksvc.ErrForbidden, booksvc.Code(err))
}

func TestFreeSummaries(t *testing.T) {
	m := &repoMock{freeCountsFn: func(ctx context.Context, ownerID *int64, now time.Time) ([]model.CategoryCount, error) {
		if ownerID != nil {
			require.Equal(t, owner.ID, *ownerID)
		}
		return []model.CategoryCount{{Category: "Fiction", Count: 2}}, nil
	}}
	s := booksvc.New(m, &imagesMock{})

	// Global summary is admin-only; owner-scoped summary is owner-only.
	_, err := s.FreeSummary(context.Background(), owner)
	require.Equal(t, booksvc.ErrForbidden, booksvc.Code(err))
	counts, err := s.FreeSummary(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, counts, 1)

	_, err = s.OwnFreeSummary(context.Background(), admin)
	require.Equal(t, booksvc.ErrForbidden, booksvc.Code(err))
	counts, err = s.OwnFreeSummary(context.Background(), owner)
	require.NoError(t, err)
	require.Equal(t, int64(2), counts[0].Count)
}
