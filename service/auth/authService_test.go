package authsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/Isayas7/book-rent-backend/model"
	userrepo "github.com/Isayas7/book-rent-backend/repository/user"
	"github.com/Isayas7/book-rent-backend/util/hash"
)

type mockRepo struct {
	userrepo.Repo
	byEmailFn func(ctx context.Context, email string) (*model.User, error)
	createFn  func(ctx context.Context, u *model.User) error
}

func (m *mockRepo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.byEmailFn(ctx, email)
}

func (m *mockRepo) Create(ctx context.Context, u *model.User) error {
	return m.createFn(ctx, u)
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := hash.HashPassword(plain)
	require.NoError(t, err)
	return h
}

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	m := &mockRepo{
		createFn: func(ctx context.Context, u *model.User) error {
			u.ID = 42
			u.Status = model.StatusPending
			return nil
		},
	}
	svc := New(m, "test-secret")

	u, err := svc.Register(ctx, model.RegisterReq{
		Email:       "Owner@Example.COM",
		Password:    "supersecret",
		Role:        "OWNER",
		Location:    "Addis Ababa",
		PhoneNumber: "0911000000",
	})
	require.NoError(t, err)
	require.Equal(t, int64(42), u.ID)
	require.Equal(t, "owner@example.com", u.Email)
	require.Equal(t, model.RoleOwner, u.Role)
	require.Equal(t, model.StatusPending, u.Status)
	require.NotEmpty(t, u.PasswordHash)
	require.NotEqual(t, "supersecret", u.PasswordHash)
}

func TestRegister_BadInput(t *testing.T) {
	svc := New(&mockRepo{}, "test-secret")
	_, err := svc.Register(context.Background(), model.RegisterReq{Email: " ", Password: ""})
	require.ErrorIs(t, err, ErrBadInput)
}

func TestRegister_EmailTaken(t *testing.T) {
	m := &mockRepo{
		createFn: func(ctx context.Context, u *model.User) error {
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"}
		},
	}
	svc := New(m, "test-secret")

	_, err := svc.Register(context.Background(), model.RegisterReq{
		Email:    "taken@example.com",
		Password: "123456",
		Role:     "RENTER",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_CreateError(t *testing.T) {
	m := &mockRepo{
		createFn: func(ctx context.Context, u *model.User) error { return errors.New("db down") },
	}
	svc := New(m, "test-secret")

	_, err := svc.Register(context.Background(), model.RegisterReq{
		Email:    "ok@example.com",
		Password: "123456",
		Role:     "OWNER",
	})
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrEmailTaken))
}

func TestLogin_Success(t *testing.T) {
	hashed := mustHash(t, "supersecret")
	m := &mockRepo{
		byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			require.Equal(t, "user@example.com", email)
			return &model.User{ID: 7, Email: email, Role: model.RoleRenter, PasswordHash: hashed}, nil
		},
	}
	svc := New(m, "test-secret")

	u, tok, err := svc.Login(context.Background(), model.LoginReq{
		Email:    "User@Example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), u.ID)
	require.NotEmpty(t, tok)
}

func TestLogin_UserNotFound(t *testing.T) {
	m := &mockRepo{
		byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return nil, pgx.ErrNoRows
		},
	}
	svc := New(m, "test-secret")

	_, _, err := svc.Login(context.Background(), model.LoginReq{
		Email:    "missing@example.com",
		Password: "whatever",
	})
	require.ErrorIs(t, err, ErrInvalidCreds)
}

func TestLogin_WrongPassword(t *testing.T) {
	hashed := mustHash(t, "correct-password")
	m := &mockRepo{
		byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: 101, Email: email, PasswordHash: hashed}, nil
		},
	}
	svc := New(m, "test-secret")

	_, _, err := svc.Login(context.Background(), model.LoginReq{
		Email:    "user@example.com",
		Password: "wrong-password",
	})
	require.ErrorIs(t, err, ErrInvalidCreds)
}
