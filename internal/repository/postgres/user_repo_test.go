package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/domain"
)

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	u := &domain.User{
		Email: "maria@example.com", PasswordHash: "hash", Salt: "salt",
		Name: "Maria Souza", CompanyName: "Acme", Segment: "tech",
		CreatedAt: now, UpdatedAt: now,
	}

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("maria@example.com", "hash", "salt", "Maria Souza", "", "", "", "",
			"Acme", "", "tech", now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-1"))

	repo := NewUserRepository(db)
	require.NoError(t, repo.Create(ctx, u))
	require.Equal(t, "user-1", u.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{
			"id", "email", "password_hash", "salt", "name", "cpf", "rg", "phone", "position",
			"company_name", "cnpj", "segment", "created_at", "updated_at",
		}).AddRow("user-1", "maria@example.com", "hash", "salt", "Maria Souza",
			"", "", "", "", "Acme", "", "tech", now, now)
		mock.ExpectQuery(`FROM users WHERE email = \$1`).
			WithArgs("maria@example.com").
			WillReturnRows(rows)

		repo := NewUserRepository(db)
		got, err := repo.GetByEmail(ctx, "maria@example.com")
		require.NoError(t, err)
		require.Equal(t, "user-1", got.ID)
		require.Equal(t, "hash", got.PasswordHash)
	})

	t.Run("missing maps to ErrNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM users WHERE email = \$1`).
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		repo := NewUserRepository(db)
		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUserRepository_AssignRole(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Idempotent on repeat grants.
	mock.ExpectExec(`INSERT INTO user_roles \(user_id, role_id\)`).
		WithArgs("user-1", "role-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewUserRepository(db)
	require.NoError(t, repo.AssignRole(ctx, "user-1", "role-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes existing user", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
			WithArgs("user-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewUserRepository(db)
		require.NoError(t, repo.Delete(ctx, "user-1"))
	})

	t.Run("zero rows affected maps to ErrNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
			WithArgs("nope").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewUserRepository(db)
		require.ErrorIs(t, repo.Delete(ctx, "nope"), domain.ErrNotFound)
	})
}
