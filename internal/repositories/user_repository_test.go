package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefrontlabs/storefront/internal/models"
	repository "github.com/storefrontlabs/storefront/internal/repositories"
)

func TestNewUserRepo(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewUserRepo(db)
	assert.NotNil(t, repo)
}

func TestUserRepository(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewUserRepo(db)
	ctx := context.Background()

	t.Run("CreateUser_Success", func(t *testing.T) {
		// Arrange
		user := &models.User{
			Name:     "Test User",
			Email:    "test@example.com",
			Password: "hashedpassword",
		}
		now := time.Now()
		newID := uuid.New()

		expectedSQL := regexp.QuoteMeta(`
			INSERT INTO users(name, email, password, created_at, updated_at)
			VALUES($1, $2, $3, NOW(), NOW())
			RETURNING id, created_at, updated_at`)

		mock.ExpectQuery(expectedSQL).
			WithArgs(user.Name, user.Email, user.Password).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(newID, now, now))

		// Act
		err := repo.CreateUser(ctx, user)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, newID, user.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CreateUser_DuplicateEmail", func(t *testing.T) {
		// Arrange
		user := &models.User{
			Name:     "Test User",
			Email:    "test@example.com",
			Password: "hashedpassword",
		}

		expectedSQL := regexp.QuoteMeta(`
			INSERT INTO users(name, email, password, created_at, updated_at)
			VALUES($1, $2, $3, NOW(), NOW())
			RETURNING id, created_at, updated_at`)

		// 23505 is the postgres unique_violation code
		mock.ExpectQuery(expectedSQL).
			WithArgs(user.Name, user.Email, user.Password).
			WillReturnError(&pq.Error{Code: "23505"})

		// Act
		err := repo.CreateUser(ctx, user)

		// Assert
		assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetUserByEmail_Success", func(t *testing.T) {
		// Arrange
		userID := uuid.New()
		now := time.Now()

		expectedSQL := regexp.QuoteMeta(`
			SELECT id, name, email, password, created_at, updated_at
			FROM users
			WHERE email = $1`)

		mock.ExpectQuery(expectedSQL).
			WithArgs("test@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password", "created_at", "updated_at"}).
				AddRow(userID, "Test User", "test@example.com", "hashedpassword", now, now))

		// Act
		user, err := repo.GetUserByEmail(ctx, "test@example.com")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, "test@example.com", user.Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetUserByEmail_NotFound", func(t *testing.T) {
		// Arrange
		expectedSQL := regexp.QuoteMeta(`
			SELECT id, name, email, password, created_at, updated_at
			FROM users
			WHERE email = $1`)

		mock.ExpectQuery(expectedSQL).
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		// Act
		user, err := repo.GetUserByEmail(ctx, "nobody@example.com")

		// Assert
		assert.Nil(t, user)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetUserByEmail_QueryError", func(t *testing.T) {
		// Arrange
		expectedSQL := regexp.QuoteMeta(`
			SELECT id, name, email, password, created_at, updated_at
			FROM users
			WHERE email = $1`)

		mock.ExpectQuery(expectedSQL).
			WithArgs("test@example.com").
			WillReturnError(errors.New("connection reset"))

		// Act
		user, err := repo.GetUserByEmail(ctx, "test@example.com")

		// Assert
		assert.Nil(t, user)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
