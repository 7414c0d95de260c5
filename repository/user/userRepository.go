package userrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Isayas7/book-rent-backend/model"
	"github.com/Isayas7/book-rent-backend/util/database"
)

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByID(ctx context.Context, id int64) (*model.User, error)
	Owners(ctx context.Context) ([]model.OwnerRow, error)
	UpdateStatus(ctx context.Context, id int64, status model.ApprovalStatus) error

	DeleteBooksOfOwner(ctx context.Context, tx pgx.Tx, ownerID int64) (int64, error)
	Delete(ctx context.Context, tx pgx.Tx, id int64) error
}

type repo struct{ db database.DB }

func New(db database.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, u *model.User) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, role, location, phone_number)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, status, wallet, created_at`,
		u.Email, u.PasswordHash, u.Role, u.Location, u.PhoneNumber,
	).Scan(&u.ID, &u.Status, &u.Wallet, &u.CreatedAt)
}

func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := r.db.QueryRow(ctx, `
		SELECT id, email, password_hash, role, status, wallet, location, phone_number, created_at
		FROM users
		WHERE lower(email) = lower($1)`,
		email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Status, &u.Wallet, &u.Location, &u.PhoneNumber, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.User, error) {
	u := &model.User{}
	err := r.db.QueryRow(ctx, `
		SELECT id, email, password_hash, role, status, wallet, location, phone_number, created_at
		FROM users
		WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Status, &u.Wallet, &u.Location, &u.PhoneNumber, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) Owners(ctx context.Context) ([]model.OwnerRow, error) {
	const q = `
		SELECT u.id, u.email, u.role, u.status, u.wallet, u.location, u.phone_number, u.created_at,
		       COUNT(b.id)::BIGINT AS uploads
		FROM users u
		LEFT JOIN books b ON b.owner_id = u.id
		WHERE u.role = 'OWNER'
		GROUP BY u.id
		ORDER BY u.id`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.OwnerRow
	for rows.Next() {
		var o model.OwnerRow
		if err := rows.Scan(&o.ID, &o.Email, &o.Role, &o.Status, &o.Wallet, &o.Location, &o.PhoneNumber, &o.CreatedAt, &o.Uploads); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *repo) UpdateStatus(ctx context.Context, id int64, status model.ApprovalStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repo) DeleteBooksOfOwner(ctx context.Context, tx pgx.Tx, ownerID int64) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM books WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *repo) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
