package services

import (
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbraun/myflix-be/internal/auth"
	"github.com/mbraun/myflix-be/internal/database"
	"github.com/mbraun/myflix-be/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func TestCreateUser(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	user, err := svc.CreateUser("abcde", "a@b.com", "pw1", "")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "abcde", user.Username)
	assert.Equal(t, "a@b.com", user.Email)
	assert.Empty(t, user.FavoriteMovies)
	assert.NotEqual(t, "pw1", user.PasswordHash, "secret must never equal the plaintext")
	assert.True(t, auth.VerifyPassword("pw1", user.PasswordHash))
}

func TestCreateUserDuplicate(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.CreateUser("abcde", "a@b.com", "pw1", "")
	require.NoError(t, err)

	_, err = svc.CreateUser("abcde", "other@b.com", "pw2", "")
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestGetUserByUsernameNotFound(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.GetUserByUsername("nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateUser(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.CreateUser("abcde", "a@b.com", "pw1", "")
	require.NoError(t, err)

	updated, err := svc.UpdateUser("abcde", UserUpdate{
		Username: "abcdef",
		Password: "pw2",
		Email:    "new@b.com",
		Birthday: "1990-01-02",
	})
	require.NoError(t, err)

	assert.Equal(t, "abcdef", updated.Username)
	assert.Equal(t, "new@b.com", updated.Email)
	assert.Equal(t, "1990-01-02", updated.Birthday)
	assert.True(t, auth.VerifyPassword("pw2", updated.PasswordHash))

	// The old identity is gone
	_, err = svc.GetUserByUsername("abcde")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateUserKeepsFavorites(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.CreateUser("abcde", "a@b.com", "pw1", "")
	require.NoError(t, err)
	_, err = svc.AddFavorite("abcde", "m1")
	require.NoError(t, err)

	updated, err := svc.UpdateUser("abcde", UserUpdate{
		Username: "abcdef",
		Password: "pw1",
		Email:    "a@b.com",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, updated.FavoriteMovies)
}

func TestUpdateUserNotFound(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.UpdateUser("nobody", UserUpdate{
		Username: "nobody",
		Password: "pw1",
		Email:    "a@b.com",
	})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateUserRenameConflict(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.CreateUser("abcde", "a@b.com", "pw1", "")
	require.NoError(t, err)
	_, err = svc.CreateUser("fghij", "f@b.com", "pw1", "")
	require.NoError(t, err)

	_, err = svc.UpdateUser("fghij", UserUpdate{
		Username: "abcde",
		Password: "pw1",
		Email:    "f@b.com",
	})
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestAddFavoriteIdempotent(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.CreateUser("abcde", "a@b.com", "pw1", "")
	require.NoError(t, err)

	user, err := svc.AddFavorite("abcde", "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, user.FavoriteMovies)

	// Adding the same id again is a no-op, not an error
	user, err = svc.AddFavorite("abcde", "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, user.FavoriteMovies)
}

func TestAddFavoriteUserNotFound(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.AddFavorite("nobody", "m1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAddFavoriteConcurrent(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.CreateUser("abcde", "a@b.com", "pw1", "")
	require.NoError(t, err)

	movieIDs := []string{"m1", "m2", "m3", "m4"}
	var wg sync.WaitGroup
	errs := make([]error, len(movieIDs))
	for i, id := range movieIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = svc.AddFavorite("abcde", id)
		}(i, id)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	// Every concurrent add must land: set union, no lost updates
	user, err := svc.GetUserByUsername("abcde")
	require.NoError(t, err)
	assert.ElementsMatch(t, movieIDs, user.FavoriteMovies)
}

func TestRemoveFavorite(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.CreateUser("abcde", "a@b.com", "pw1", "")
	require.NoError(t, err)
	_, err = svc.AddFavorite("abcde", "m1")
	require.NoError(t, err)

	user, err := svc.RemoveFavorite("abcde", "m1")
	require.NoError(t, err)
	assert.Empty(t, user.FavoriteMovies)
}

func TestRemoveFavoriteAbsentIsNoop(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.CreateUser("abcde", "a@b.com", "pw1", "")
	require.NoError(t, err)
	_, err = svc.AddFavorite("abcde", "m1")
	require.NoError(t, err)

	user, err := svc.RemoveFavorite("abcde", "m9")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, user.FavoriteMovies)
}

func TestRemoveFavoriteUserNotFound(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.RemoveFavorite("nobody", "m1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.CreateUser("abcde", "a@b.com", "pw1", "")
	require.NoError(t, err)
	_, err = svc.AddFavorite("abcde", "m1")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser("abcde"))

	_, err = svc.GetUserByUsername("abcde")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteUserCascadesAcrossConnections(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	_, err := svc.CreateUser("abcde", "a@b.com", "pw1", "")
	require.NoError(t, err)
	_, err = svc.AddFavorite("abcde", "m1")
	require.NoError(t, err)

	// Force subsequent statements onto fresh pool connections; the
	// cascade must hold there too, not only on the connection that ran
	// the earlier writes.
	db.SetMaxIdleConns(0)

	require.NoError(t, svc.DeleteUser("abcde"))

	var orphans int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM favorites").Scan(&orphans))
	assert.Zero(t, orphans, "favorites must cascade on user deletion")
}

func TestDeleteUserNotFound(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	err := svc.DeleteUser("nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAuthenticateUser(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.CreateUser("abcde", "a@b.com", "pw1", "")
	require.NoError(t, err)

	user, err := svc.AuthenticateUser("abcde", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "abcde", user.Username)

	_, err = svc.AuthenticateUser("abcde", "wrong")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = svc.AuthenticateUser("nobody", "pw1")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestGetAllUsers(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.CreateUser("abcde", "a@b.com", "pw1", "")
	require.NoError(t, err)
	_, err = svc.CreateUser("fghij", "f@b.com", "pw1", "")
	require.NoError(t, err)
	_, err = svc.AddFavorite("fghij", "m1")
	require.NoError(t, err)

	users, err := svc.GetAllUsers()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "abcde", users[0].Username)
	assert.Equal(t, []string{"m1"}, users[1].FavoriteMovies)
}
