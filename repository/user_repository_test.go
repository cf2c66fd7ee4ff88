package repository

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"go-banner-api/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func newMockRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(db), mock
}

func TestUserRepository_CreateUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		createdAt := time.Now()

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (username, email, password, role) VALUES ($1, $2, $3, $4) RETURNING id, created_at`)).
			WithArgs("alice", "a@x.com", "hashed-pw", "user").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, createdAt))

		user := &model.User{Username: "alice", Email: "a@x.com", Password: "hashed-pw", Role: "user"}
		err := repo.CreateUser(user)
		assert.NoError(t, err)
		assert.Equal(t, 1, user.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to ErrDuplicate", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

		user := &model.User{Username: "alice", Email: "a@x.com", Password: "hashed-pw", Role: "user"}
		err := repo.CreateUser(user)
		assert.ErrorIs(t, err, ErrDuplicate)
	})
}

func TestUserRepository_GetUserByID(t *testing.T) {
	columns := []string{"id", "username", "email", "password", "role", "created_at"}

	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, email, password, role, created_at FROM users WHERE id=$1`)).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(1, "alice", "a@x.com", "hash", "admin", time.Now()))

		user, err := repo.GetUserByID(1)
		assert.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "admin", user.Role)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, email, password, role, created_at FROM users WHERE id=$1`)).
			WithArgs(9).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetUserByID(9)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestUserRepository_GetAllUsers(t *testing.T) {
	repo, mock := newMockRepo(t)
	columns := []string{"id", "username", "email", "password", "role", "created_at"}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, email, password, role, created_at FROM users ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, "alice", "a@x.com", "h1", "admin", time.Now()).
			AddRow(2, "bob", "b@x.com", "h2", "user", time.Now()))

	users, err := repo.GetAllUsers()
	assert.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "bob", users[1].Username)
}

func TestUserRepository_DeleteUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id=$1`)).
			WithArgs(2).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.DeleteUser(2))
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id=$1`)).
			WithArgs(9).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.DeleteUser(9), sql.ErrNoRows)
	})
}

func TestUserRepository_UpdateUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET username=$1, email=$2, password=$3, role=$4 WHERE id=$5`)).
		WithArgs("alice", "a@x.com", "hash", "moderator", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateUser(&model.User{ID: 1, Username: "alice", Email: "a@x.com", Password: "hash", Role: "moderator"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
