package booksvc

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Isayas7/book-rent-backend/ability"
	"github.com/Isayas7/book-rent-backend/model"
	bookrepo "github.com/Isayas7/book-rent-backend/repository/book"
	"github.com/Isayas7/book-rent-backend/repository/imagehost"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound  ErrCode = "NOT_FOUND"
	ErrForbidden ErrCode = "FORBIDDEN"
	ErrDuplicate ErrCode = "DUPLICATE_NAME"
	ErrBadInput  ErrCode = "BAD_INPUT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Cover is an uploaded cover image.
type Cover struct {
	Filename string
	Content  io.Reader
}

// BookInput carries the mutable book fields for create and update.
type BookInput struct {
	Name      string
	Author    string
	Category  string
	Quantity  int64
	RentPrice float64
}

type Service interface {
	Create(ctx context.Context, actor *model.User, in BookInput, cover *Cover) (*model.Book, error)
	Update(ctx context.Context, actor *model.User, id int64, in BookInput, cover *Cover) (*model.Book, error)
	Delete(ctx context.Context, actor *model.User, id int64) error

	OwnBooks(ctx context.Context, actor *model.User, f model.BookFilter) ([]model.Book, error)
	AllBooks(ctx context.Context, actor *model.User, f model.BookFilter) ([]model.ListedBook, error)
	Rentable(ctx context.Context) ([]model.Book, error)
	OwnSingle(ctx context.Context, actor *model.User, id int64) (*model.Book, error)

	ChangeStatus(ctx context.Context, actor *model.User, id int64, status model.ApprovalStatus) error

	FreeSummary(ctx context.Context, actor *model.User) ([]model.CategoryCount, error)
	OwnFreeSummary(ctx context.Context, actor *model.User) ([]model.CategoryCount, error)
}

type service struct {
	r      bookrepo.Repo
	images imagehost.Repo
}

func New(r bookrepo.Repo, images imagehost.Repo) Service {
	return &service{r: r, images: images}
}

func (s *service) Create(ctx context.Context, actor *model.User, in BookInput, cover *Cover) (*model.Book, error) {
	if !ability.For(actor).Can(ability.Upload, ability.Book) {
		return nil, makeErr(ErrForbidden)
	}
	if in.Name == "" || in.Author == "" || in.Category == "" || in.Quantity < 0 || in.RentPrice < 0 {
		return nil, makeErr(ErrBadInput)
	}

	b := &model.Book{
		Name:      in.Name,
		OwnerID:   actor.ID,
		Author:    in.Author,
		Category:  in.Category,
		Quantity:  in.Quantity,
		RentPrice: in.RentPrice,
	}

	if cover != nil {
		url, err := s.images.Upload(ctx, cover.Filename, cover.Content)
		if err != nil {
			return nil, err
		}
		b.CoverURL = &url
	}

	if err := s.r.Create(ctx, b); err != nil {
		if isUniqueViolation(err) {
			return nil, makeErr(ErrDuplicate)
		}
		return nil, err
	}
	return b, nil
}

func (s *service) Update(ctx context.Context, actor *model.User, id int64, in BookInput, cover *Cover) (*model.Book, error) {
	b, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}

	if !ability.For(actor).CanSubject(ability.Update, ability.Book, b) {
		return nil, makeErr(ErrForbidden)
	}
	if in.Name == "" || in.Author == "" || in.Category == "" || in.Quantity < 0 || in.RentPrice < 0 {
		return nil, makeErr(ErrBadInput)
	}

	b.Name = in.Name
	b.Author = in.Author
	b.Category = in.Category
	b.Quantity = in.Quantity
	b.RentPrice = in.RentPrice

	if cover != nil {
		url, err := s.images.Upload(ctx, cover.Filename, cover.Content)
		if err != nil {
			return nil, err
		}
		b.CoverURL = &url
	}

	if err := s.r.Update(ctx, b); err != nil {
		if isUniqueViolation(err) {
			return nil, makeErr(ErrDuplicate)
		}
		return nil, err
	}
	return b, nil
}

func (s *service) Delete(ctx context.Context, actor *model.User, id int64) error {
	b, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	if !ability.For(actor).CanSubject(ability.Delete, ability.Book, b) {
		return makeErr(ErrForbidden)
	}
	return s.r.Delete(ctx, id)
}

func (s *service) OwnBooks(ctx context.Context, actor *model.User, f model.BookFilter) ([]model.Book, error) {
	if !ability.For(actor).Can(ability.Get, ability.OwnBooks) {
		return nil, makeErr(ErrForbidden)
	}
	return s.r.ListOwn(ctx, actor.ID, f)
}

func (s *service) AllBooks(ctx context.Context, actor *model.User, f model.BookFilter) ([]model.ListedBook, error) {
	if !ability.For(actor).Can(ability.Get, ability.AllBooks) {
		return nil, makeErr(ErrForbidden)
	}
	return s.r.ListAll(ctx, f)
}

func (s *service) Rentable(ctx context.Context) ([]model.Book, error) {
	return s.r.ListRentable(ctx)
}

func (s *service) OwnSingle(ctx context.Context, actor *model.User, id int64) (*model.Book, error) {
	if !ability.For(actor).Can(ability.Get, ability.OwnSingleBook) {
		return nil, makeErr(ErrForbidden)
	}
	b, err := s.r.OwnByID(ctx, actor.ID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return b, nil
}

func (s *service) ChangeStatus(ctx context.Context, actor *model.User, id int64, status model.ApprovalStatus) error {
	if !ability.For(actor).Can(ability.Change, ability.BookStatus) {
		return makeErr(ErrForbidden)
	}
	if err := s.r.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *service) FreeSummary(ctx context.Context, actor *model.User) ([]model.CategoryCount, error) {
	if !ability.For(actor).Can(ability.Get, ability.AllFreeBooks) {
		return nil, makeErr(ErrForbidden)
	}
	return s.r.FreeCategoryCounts(ctx, nil, time.Now().UTC())
}

func (s *service) OwnFreeSummary(ctx context.Context, actor *model.User) ([]model.CategoryCount, error) {
	if !ability.For(actor).Can(ability.Get, ability.OwnFreeBooks) {
		return nil, makeErr(ErrForbidden)
	}
	return s.r.FreeCategoryCounts(ctx, &actor.ID, time.Now().UTC())
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
