package bookrepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Isayas7/book-rent-backend/model"
	"github.com/Isayas7/book-rent-backend/util/database"
)

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	Update(ctx context.Context, b *model.Book) error
	Delete(ctx context.Context, id int64) error
	ByID(ctx context.Context, id int64) (*model.Book, error)
	OwnByID(ctx context.Context, ownerID, id int64) (*model.Book, error)
	ListOwn(ctx context.Context, ownerID int64, f model.BookFilter) ([]model.Book, error)
	ListAll(ctx context.Context, f model.BookFilter) ([]model.ListedBook, error)
	ListRentable(ctx context.Context) ([]model.Book, error)
	UpdateStatus(ctx context.Context, id int64, status model.ApprovalStatus) error
	FreeCategoryCounts(ctx context.Context, ownerID *int64, now time.Time) ([]model.CategoryCount, error)
}

type repo struct{ db database.DB }

func New(db database.DB) Repo { return &repo{db} }

const bookCols = `id, book_name, owner_id, author, category, quantity, rent_price, cover_photo_url, status, is_available, created_at`

func scanBook(row pgx.Row, b *model.Book) error {
	return row.Scan(&b.ID, &b.Name, &b.OwnerID, &b.Author, &b.Category, &b.Quantity,
		&b.RentPrice, &b.CoverURL, &b.Status, &b.IsAvailable, &b.CreatedAt)
}

func (r *repo) Create(ctx context.Context, b *model.Book) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO books (book_name, owner_id, author, category, quantity, rent_price, cover_photo_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, status, is_available, created_at`,
		b.Name, b.OwnerID, b.Author, b.Category, b.Quantity, b.RentPrice, b.CoverURL,
	).Scan(&b.ID, &b.Status, &b.IsAvailable, &b.CreatedAt)
}

func (r *repo) Update(ctx context.Context, b *model.Book) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE books
		SET book_name = $2, author = $3, category = $4, quantity = $5,
		    rent_price = $6, cover_photo_url = $7
		WHERE id = $1`,
		b.ID, b.Name, b.Author, b.Category, b.Quantity, b.RentPrice, b.CoverURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Book, error) {
	b := &model.Book{}
	if err := scanBook(r.db.QueryRow(ctx, `SELECT `+bookCols+` FROM books WHERE id = $1`, id), b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) OwnByID(ctx context.Context, ownerID, id int64) (*model.Book, error) {
	b := &model.Book{}
	err := scanBook(r.db.QueryRow(ctx,
		`SELECT `+bookCols+` FROM books WHERE id = $1 AND owner_id = $2`, id, ownerID), b)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListOwn lists one owner's books, narrowed by the filter.
func (r *repo) ListOwn(ctx context.Context, ownerID int64, f model.BookFilter) ([]model.Book, error) {
	var qb strings.Builder
	qb.WriteString(`SELECT ` + bookCols + ` FROM books WHERE owner_id = $1`)
	args := []any{ownerID}
	n := 2

	n = appendBookFields(&qb, &args, n, f)
	if f.Global != nil && *f.Global != "" {
		qb.WriteString(fmt.Sprintf(
			" AND (book_name ILIKE '%%'||$%d||'%%' OR author ILIKE '%%'||$%d||'%%' OR category ILIKE '%%'||$%d||'%%')",
			n, n, n))
		args = append(args, *f.Global)
	}
	qb.WriteString(" ORDER BY created_at ASC")

	rows, err := r.db.Query(ctx, qb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := scanBook(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListAll lists every book joined with its owner, narrowed by the filter
// including owner-side fields.
func (r *repo) ListAll(ctx context.Context, f model.BookFilter) ([]model.ListedBook, error) {
	var qb strings.Builder
	qb.WriteString(`
		SELECT b.id, b.book_name, b.owner_id, b.author, b.category, b.quantity,
		       b.rent_price, b.cover_photo_url, b.status, b.is_available, b.created_at,
		       u.email, u.location
		FROM books b
		JOIN users u ON u.id = b.owner_id
		WHERE 1=1`)
	var args []any
	n := 1

	n = appendBookFieldsPrefixed(&qb, &args, n, f, "b.")
	if f.OwnerEmail != nil && *f.OwnerEmail != "" {
		qb.WriteString(fmt.Sprintf(" AND u.email ILIKE '%%'||$%d||'%%'", n))
		args = append(args, *f.OwnerEmail)
		n++
	}
	if f.OwnerLocation != nil && *f.OwnerLocation != "" {
		qb.WriteString(fmt.Sprintf(" AND u.location ILIKE '%%'||$%d||'%%'", n))
		args = append(args, *f.OwnerLocation)
		n++
	}
	if f.Global != nil && *f.Global != "" {
		qb.WriteString(fmt.Sprintf(
			" AND (b.book_name ILIKE '%%'||$%d||'%%' OR b.author ILIKE '%%'||$%d||'%%'"+
				" OR b.category ILIKE '%%'||$%d||'%%' OR u.email ILIKE '%%'||$%d||'%%'"+
				" OR u.location ILIKE '%%'||$%d||'%%')",
			n, n, n, n, n))
		args = append(args, *f.Global)
	}
	qb.WriteString(" ORDER BY b.created_at ASC")

	rows, err := r.db.Query(ctx, qb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ListedBook
	for rows.Next() {
		var lb model.ListedBook
		if err := rows.Scan(&lb.ID, &lb.Name, &lb.OwnerID, &lb.Author, &lb.Category,
			&lb.Quantity, &lb.RentPrice, &lb.CoverURL, &lb.Status, &lb.IsAvailable,
			&lb.CreatedAt, &lb.OwnerEmail, &lb.OwnerLocation); err != nil {
			return nil, err
		}
		out = append(out, lb)
	}
	return out, rows.Err()
}

// ListRentable is the public catalog: approved, available books of approved
// owners.
func (r *repo) ListRentable(ctx context.Context) ([]model.Book, error) {
	const q = `
		SELECT b.id, b.book_name, b.owner_id, b.author, b.category, b.quantity,
		       b.rent_price, b.cover_photo_url, b.status, b.is_available, b.created_at
		FROM books b
		JOIN users u ON u.id = b.owner_id
		WHERE b.status = 'APPROVED'
		  AND b.is_available
		  AND u.status = 'APPROVED'
		ORDER BY b.created_at ASC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := scanBook(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) UpdateStatus(ctx context.Context, id int64, status model.ApprovalStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE books SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// FreeCategoryCounts groups available books with no rental still out
// (return date in the future) by category. ownerID narrows to one owner.
func (r *repo) FreeCategoryCounts(ctx context.Context, ownerID *int64, now time.Time) ([]model.CategoryCount, error) {
	var qb strings.Builder
	qb.WriteString(`
		SELECT b.category, COUNT(*)::BIGINT
		FROM books b
		WHERE b.is_available
		  AND NOT EXISTS (
		      SELECT 1 FROM rentals r
		      WHERE r.book_id = b.id AND r.return_date >= $1
		  )`)
	args := []any{now}
	if ownerID != nil {
		qb.WriteString(" AND b.owner_id = $2")
		args = append(args, *ownerID)
	}
	qb.WriteString(" GROUP BY b.category ORDER BY b.category")

	rows, err := r.db.Query(ctx, qb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CategoryCount
	for rows.Next() {
		var c model.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func appendBookFields(qb *strings.Builder, args *[]any, n int, f model.BookFilter) int {
	return appendBookFieldsPrefixed(qb, args, n, f, "")
}

func appendBookFieldsPrefixed(qb *strings.Builder, args *[]any, n int, f model.BookFilter, p string) int {
	if f.ID != nil {
		qb.WriteString(fmt.Sprintf(" AND %sid = $%d", p, n))
		*args = append(*args, *f.ID)
		n++
	}
	if f.Name != nil && *f.Name != "" {
		qb.WriteString(fmt.Sprintf(" AND %sbook_name = $%d", p, n))
		*args = append(*args, *f.Name)
		n++
	}
	if f.Author != nil && *f.Author != "" {
		qb.WriteString(fmt.Sprintf(" AND %sauthor = $%d", p, n))
		*args = append(*args, *f.Author)
		n++
	}
	if f.Category != nil && *f.Category != "" {
		qb.WriteString(fmt.Sprintf(" AND %scategory = $%d", p, n))
		*args = append(*args, *f.Category)
		n++
	}
	if f.Quantity != nil {
		qb.WriteString(fmt.Sprintf(" AND %squantity = $%d", p, n))
		*args = append(*args, *f.Quantity)
		n++
	}
	if f.RentPrice != nil {
		qb.WriteString(fmt.Sprintf(" AND %srent_price = $%d", p, n))
		*args = append(*args, *f.RentPrice)
		n++
	}
	return n
}
