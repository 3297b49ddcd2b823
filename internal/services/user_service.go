package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mbraun/myflix-be/internal/auth"
	"github.com/mbraun/myflix-be/internal/models"
)

// UserUpdate carries the replacement values for a profile update. All
// fields but Birthday are required; the password is re-hashed before the
// record is written.
type UserUpdate struct {
	Username string
	Password string
	Email    string
	Birthday string
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	CreateUser(username, email, password, birthday string) (models.User, error)
	GetUserByUsername(username string) (models.User, error)
	GetAllUsers() ([]models.User, error)
	UpdateUser(username string, update UserUpdate) (models.User, error)
	AddFavorite(username, movieID string) (models.User, error)
	RemoveFavorite(username, movieID string) (models.User, error)
	DeleteUser(username string) error
	AuthenticateUser(username, password string) (models.User, error)
}

// UserService provides business logic for user management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

var _ UserServiceProvider = (*UserService)(nil)

// CreateUser creates a new user, hashing their password. Returns
// models.ErrConflict when the username is already taken.
func (s *UserService) CreateUser(username, email, password, birthday string) (models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Birthday:     birthday,
	}

	_, err = s.db.Exec("INSERT INTO users(id, username, email, password_hash, birthday) VALUES(?, ?, ?, ?, ?)",
		user.ID, user.Username, user.Email, user.PasswordHash, user.Birthday)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("username %q: %w", username, models.ErrConflict)
		}
		return models.User{}, err
	}

	return s.GetUserByUsername(username)
}

// GetUserByUsername retrieves a single user, favorites included. Returns
// models.ErrNotFound when no such user exists.
func (s *UserService) GetUserByUsername(username string) (models.User, error) {
	var user models.User
	var birthday sql.NullString
	row := s.db.QueryRow("SELECT id, username, email, password_hash, birthday, created_at FROM users WHERE username = ?", username)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &birthday, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user %q: %w", username, models.ErrNotFound)
		}
		return models.User{}, err
	}
	user.Birthday = birthday.String

	favorites, err := s.favoritesFor(user.ID)
	if err != nil {
		return models.User{}, err
	}
	user.FavoriteMovies = favorites
	return user, nil
}

// GetAllUsers retrieves every user with their favorites.
func (s *UserService) GetAllUsers() ([]models.User, error) {
	rows, err := s.db.Query("SELECT id, username, email, password_hash, birthday, created_at FROM users ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		var birthday sql.NullString
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &birthday, &user.CreatedAt); err != nil {
			return nil, err
		}
		user.Birthday = birthday.String
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range users {
		favorites, err := s.favoritesFor(users[i].ID)
		if err != nil {
			return nil, err
		}
		users[i].FavoriteMovies = favorites
	}
	return users, nil
}

// UpdateUser replaces the profile fields of an existing user in a single
// record write and returns the post-update record. Returns
// models.ErrNotFound when the user is absent and models.ErrConflict when
// a rename collides with an existing username.
func (s *UserService) UpdateUser(username string, update UserUpdate) (models.User, error) {
	hash, err := auth.HashPassword(update.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := s.db.Exec("UPDATE users SET username = ?, email = ?, password_hash = ?, birthday = ? WHERE username = ?",
		update.Username, update.Email, hash, update.Birthday, username)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("username %q: %w", update.Username, models.ErrConflict)
		}
		return models.User{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.User{}, err
	}
	if affected == 0 {
		return models.User{}, fmt.Errorf("user %q: %w", username, models.ErrNotFound)
	}

	return s.GetUserByUsername(update.Username)
}

// AddFavorite inserts movieID into the user's favorites set. Adding an
// identifier that is already present is a no-op, and two concurrent adds
// both land: the set insert is a single statement keyed on the favorites
// primary key, not a read-then-write-back.
func (s *UserService) AddFavorite(username, movieID string) (models.User, error) {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO favorites (user_id, movie_id)
		SELECT id, ? FROM users WHERE username = ?`, movieID, username)
	if err != nil {
		return models.User{}, err
	}
	// A missing user inserts nothing above; the read-back reports it.
	return s.GetUserByUsername(username)
}

// RemoveFavorite deletes movieID from the user's favorites set. Removing
// an identifier that is not present is a no-op.
func (s *UserService) RemoveFavorite(username, movieID string) (models.User, error) {
	_, err := s.db.Exec(`DELETE FROM favorites
		WHERE movie_id = ? AND user_id = (SELECT id FROM users WHERE username = ?)`, movieID, username)
	if err != nil {
		return models.User{}, err
	}
	return s.GetUserByUsername(username)
}

// DeleteUser removes a user and, via cascade, their favorites. Returns
// models.ErrNotFound when no such user exists.
func (s *UserService) DeleteUser(username string) error {
	res, err := s.db.Exec("DELETE FROM users WHERE username = ?", username)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("user %q: %w", username, models.ErrNotFound)
	}
	return nil
}

// AuthenticateUser verifies a user's credentials. Unknown usernames and
// wrong passwords fail identically with models.ErrInvalidCredentials.
func (s *UserService) AuthenticateUser(username, password string) (models.User, error) {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.User{}, models.ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return models.User{}, models.ErrInvalidCredentials
	}
	return user, nil
}

// favoritesFor loads the favorites set for a user id. The result is never
// nil so it serializes as [] rather than null.
func (s *UserService) favoritesFor(userID string) ([]string, error) {
	rows, err := s.db.Query("SELECT movie_id FROM favorites WHERE user_id = ? ORDER BY movie_id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favorites := []string{}
	for rows.Next() {
		var movieID string
		if err := rows.Scan(&movieID); err != nil {
			return nil, err
		}
		favorites = append(favorites, movieID)
	}
	return favorites, rows.Err()
}

// isUniqueViolation reports whether err is a SQLite unique or primary key
// constraint failure.
func isUniqueViolation(err error) bool {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}
