// repository/rental/rentalRepository.go
package rentalrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Isayas7/book-rent-backend/model"
	"github.com/Isayas7/book-rent-backend/util/database"
)

// HistoryRow is one entry of a renter's rental history.
type HistoryRow struct {
	RentalID   int64     `json:"rental_id"`
	BookID     int64     `json:"book_id"`
	BookName   string    `json:"book_name"`
	Quantity   int64     `json:"quantity"`
	RentPrice  float64   `json:"rent_price"`
	Status     string    `json:"status"`
	RentedAt   time.Time `json:"rented_at"`
	ReturnDate time.Time `json:"return_date"`
}

type Repo interface {
	// Tx-scoped rent flow. The book row stays locked across the
	// check-then-decrement.
	GetBookForUpdate(ctx context.Context, tx pgx.Tx, bookID int64) (*model.Book, error)
	GetOwnerForUpdate(ctx context.Context, tx pgx.Tx, ownerID int64) (*model.User, error)
	Insert(ctx context.Context, tx pgx.Tx, r *model.Rental) error
	DecrementStock(ctx context.Context, tx pgx.Tx, bookID, qty int64) error
	CreditWallet(ctx context.Context, tx pgx.Tx, ownerID int64, amount float64) error

	// Tx-scoped return flow.
	GetForUpdate(ctx context.Context, tx pgx.Tx, rentalID int64) (*model.Rental, error)
	MarkReturned(ctx context.Context, tx pgx.Tx, rentalID int64) error
	RestoreStock(ctx context.Context, tx pgx.Tx, bookID, qty int64) error

	ListByRenter(ctx context.Context, renterID int64) ([]HistoryRow, error)

	// SumRentPrice totals rental revenue inside [from, to], optionally
	// narrowed to one owner's books.
	SumRentPrice(ctx context.Context, from, to time.Time, ownerID *int64) (float64, error)
}

type repo struct{ db database.DB }

func New(db database.DB) Repo { return &repo{db} }

func (r *repo) GetBookForUpdate(ctx context.Context, tx pgx.Tx, bookID int64) (*model.Book, error) {
	b := &model.Book{}
	err := tx.QueryRow(ctx, `
		SELECT id, book_name, owner_id, author, category, quantity, rent_price,
		       cover_photo_url, status, is_available, created_at
		FROM books
		WHERE id = $1
		FOR UPDATE`,
		bookID,
	).Scan(&b.ID, &b.Name, &b.OwnerID, &b.Author, &b.Category, &b.Quantity,
		&b.RentPrice, &b.CoverURL, &b.Status, &b.IsAvailable, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) GetOwnerForUpdate(ctx context.Context, tx pgx.Tx, ownerID int64) (*model.User, error) {
	u := &model.User{}
	err := tx.QueryRow(ctx, `
		SELECT id, email, role, status, wallet
		FROM users
		WHERE id = $1
		FOR UPDATE`,
		ownerID,
	).Scan(&u.ID, &u.Email, &u.Role, &u.Status, &u.Wallet)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) Insert(ctx context.Context, tx pgx.Tx, rental *model.Rental) error {
	return tx.QueryRow(ctx, `
		INSERT INTO rentals (renter_id, book_id, quantity, rent_price, status, return_date)
		VALUES ($1,$2,$3,$4,'BORROWED',$5)
		RETURNING id, status, transaction_date`,
		rental.RenterID, rental.BookID, rental.Quantity, rental.RentPrice, rental.ReturnDate,
	).Scan(&rental.ID, &rental.Status, &rental.TransactionDate)
}

func (r *repo) DecrementStock(ctx context.Context, tx pgx.Tx, bookID, qty int64) error {
	// Guard: never take quantity below zero.
	tag, err := tx.Exec(ctx, `
		UPDATE books
		SET quantity = quantity - $2
		WHERE id = $1
		  AND quantity >= $2`,
		bookID, qty)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("insufficient stock")
	}
	return nil
}

func (r *repo) CreditWallet(ctx context.Context, tx pgx.Tx, ownerID int64, amount float64) error {
	_, err := tx.Exec(ctx, `
		UPDATE users
		SET wallet = wallet + $2
		WHERE id = $1`,
		ownerID, amount)
	return err
}

func (r *repo) GetForUpdate(ctx context.Context, tx pgx.Tx, rentalID int64) (*model.Rental, error) {
	rental := &model.Rental{}
	err := tx.QueryRow(ctx, `
		SELECT id, renter_id, book_id, quantity, rent_price, status, transaction_date, return_date
		FROM rentals
		WHERE id = $1
		FOR UPDATE`,
		rentalID,
	).Scan(&rental.ID, &rental.RenterID, &rental.BookID, &rental.Quantity,
		&rental.RentPrice, &rental.Status, &rental.TransactionDate, &rental.ReturnDate)
	if err != nil {
		return nil, err
	}
	return rental, nil
}

func (r *repo) MarkReturned(ctx context.Context, tx pgx.Tx, rentalID int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE rentals
		SET status = 'RETURNED'
		WHERE id = $1`,
		rentalID)
	return err
}

func (r *repo) RestoreStock(ctx context.Context, tx pgx.Tx, bookID, qty int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE books
		SET quantity = quantity + $2
		WHERE id = $1`,
		bookID, qty)
	return err
}

func (r *repo) ListByRenter(ctx context.Context, renterID int64) ([]HistoryRow, error) {
	const q = `
		SELECT r.id, r.book_id, b.book_name, r.quantity, r.rent_price, r.status,
		       r.transaction_date, r.return_date
		FROM rentals r
		JOIN books b ON b.id = r.book_id
		WHERE r.renter_id = $1
		ORDER BY r.transaction_date DESC, r.id DESC`
	rows, err := r.db.Query(ctx, q, renterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var h HistoryRow
		if err := rows.Scan(&h.RentalID, &h.BookID, &h.BookName, &h.Quantity,
			&h.RentPrice, &h.Status, &h.RentedAt, &h.ReturnDate); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *repo) SumRentPrice(ctx context.Context, from, to time.Time, ownerID *int64) (float64, error) {
	var total float64
	if ownerID == nil {
		err := r.db.QueryRow(ctx, `
			SELECT COALESCE(SUM(rent_price), 0)
			FROM rentals
			WHERE transaction_date BETWEEN $1 AND $2`,
			from, to,
		).Scan(&total)
		return total, err
	}
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(r.rent_price), 0)
		FROM rentals r
		JOIN books b ON b.id = r.book_id
		WHERE r.transaction_date BETWEEN $1 AND $2
		  AND b.owner_id = $3`,
		from, to, *ownerID,
	).Scan(&total)
	return total, err
}
