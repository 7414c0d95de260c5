package usersvc

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Isayas7/book-rent-backend/ability"
	"github.com/Isayas7/book-rent-backend/model"
	userrepo "github.com/Isayas7/book-rent-backend/repository/user"
)

type ErrCode string

const (
	ErrNotFound  ErrCode = "NOT_FOUND"
	ErrForbidden ErrCode = "FORBIDDEN"
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

// DB is the transaction opener, satisfied by *pgxpool.Pool.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Service interface {
	// Owners lists every owner with their uploaded-book count.
	Owners(ctx context.Context, actor *model.User) ([]model.OwnerRow, error)

	// ChangeStatus moves a user between PENDING / APPROVED / REJECTED.
	ChangeStatus(ctx context.Context, actor *model.User, id int64, status model.ApprovalStatus) error

	// DeleteOwner removes an owner and all of their books in one
	// transaction.
	DeleteOwner(ctx context.Context, actor *model.User, id int64) error
}

type service struct {
	db DB
	r  userrepo.Repo
}

func New(db DB, r userrepo.Repo) Service { return &service{db: db, r: r} }

func (s *service) Owners(ctx context.Context, actor *model.User) ([]model.OwnerRow, error) {
	if !ability.For(actor).Can(ability.Get, ability.Owners) {
		return nil, makeErr(ErrForbidden)
	}
	return s.r.Owners(ctx)
}

func (s *service) ChangeStatus(ctx context.Context, actor *model.User, id int64, status model.ApprovalStatus) error {
	if !ability.For(actor).Can(ability.Change, ability.OwnerStatus) {
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

func (s *service) DeleteOwner(ctx context.Context, actor *model.User, id int64) (err error) {
	if !ability.For(actor).Can(ability.Delete, ability.Owner) {
		return makeErr(ErrForbidden)
	}

	if _, err := s.r.ByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = s.r.DeleteBooksOfOwner(ctx, tx, id); err != nil {
		return err
	}
	if err = s.r.Delete(ctx, tx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	return tx.Commit(ctx)
}
