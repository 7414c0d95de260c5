package rentalsvc

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Isayas7/book-rent-backend/ability"
	"github.com/Isayas7/book-rent-backend/model"
	rentalrepo "github.com/Isayas7/book-rent-backend/repository/rental"
)

// errors used by controllers

type ErrCode string

const (
	ErrBookNotFound   ErrCode = "BOOK_NOT_FOUND"
	ErrNoStock        ErrCode = "NO_STOCK"
	ErrNotApproved    ErrCode = "NOT_APPROVED"
	ErrRentalNotFound ErrCode = "RENTAL_NOT_FOUND"
	ErrForbidden      ErrCode = "FORBIDDEN"
	ErrNotBorrowed    ErrCode = "NOT_BORROWED"
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

// rentalPeriod is how long one rental runs before the book is due back.
const rentalPeriod = 7 * 24 * time.Hour

// HistoryRow = repository shape
type HistoryRow = rentalrepo.HistoryRow

// DB is the transaction opener, satisfied by *pgxpool.Pool.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Service interface {
	// Rent creates a BORROWED rental, deducts the book's stock and credits
	// the owner's wallet in one transaction.
	Rent(ctx context.Context, renter *model.User, bookID, quantity int64) (*model.Rental, error)

	// Return transitions a BORROWED rental to RETURNED and restores the
	// book's stock. Only the renter who created the rental may return it.
	Return(ctx context.Context, actor *model.User, rentalID int64) error

	// MyHistory lists a renter's rentals, newest first.
	MyHistory(ctx context.Context, renterID int64) ([]HistoryRow, error)
}

type service struct {
	db DB
	r  rentalrepo.Repo
}

func New(db DB, r rentalrepo.Repo) Service {
	return &service{db: db, r: r}
}

func (s *service) Rent(ctx context.Context, renter *model.User, bookID, quantity int64) (rental *model.Rental, err error) {
	if renter == nil {
		return nil, makeErr(ErrForbidden)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	book, err := s.r.GetBookForUpdate(ctx, tx, bookID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrBookNotFound)
		}
		return nil, err
	}

	if book.Quantity < quantity {
		return nil, makeErr(ErrNoStock)
	}

	owner, err := s.r.GetOwnerForUpdate(ctx, tx, book.OwnerID)
	if err != nil {
		return nil, err
	}
	if book.Status != model.StatusApproved || owner.Status != model.StatusApproved {
		return nil, makeErr(ErrNotApproved)
	}

	rental = &model.Rental{
		RenterID:   renter.ID,
		BookID:     book.ID,
		Quantity:   quantity,
		RentPrice:  book.RentPrice * float64(quantity),
		ReturnDate: time.Now().UTC().Add(rentalPeriod),
	}

	if err = s.r.Insert(ctx, tx, rental); err != nil {
		return nil, err
	}
	if err = s.r.DecrementStock(ctx, tx, book.ID, quantity); err != nil {
		return nil, err
	}
	if err = s.r.CreditWallet(ctx, tx, book.OwnerID, rental.RentPrice); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return rental, nil
}

func (s *service) Return(ctx context.Context, actor *model.User, rentalID int64) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	rental, err := s.r.GetForUpdate(ctx, tx, rentalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return makeErr(ErrRentalNotFound)
		}
		return err
	}

	if !ability.For(actor).CanSubject(ability.Return, ability.Rental, rental) {
		return makeErr(ErrForbidden)
	}
	if rental.Status != model.RentalBorrowed {
		return makeErr(ErrNotBorrowed)
	}

	if err = s.r.MarkReturned(ctx, tx, rental.ID); err != nil {
		return err
	}
	if err = s.r.RestoreStock(ctx, tx, rental.BookID, rental.Quantity); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *service) MyHistory(ctx context.Context, renterID int64) ([]HistoryRow, error) {
	return s.r.ListByRenter(ctx, renterID)
}
