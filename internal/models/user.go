package models

import "time"

// User represents a registered account. Username is the unique identity
// key; every store operation is addressed by it.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"` // Never expose this to the client
	Birthday       string    `json:"birthday,omitempty"`
	FavoriteMovies []string  `json:"favoriteMovies"`
	CreatedAt      time.Time `json:"createdAt"`
}

// HasFavorite reports whether movieID is in the favorites set.
func (u User) HasFavorite(movieID string) bool {
	for _, id := range u.FavoriteMovies {
		if id == movieID {
			return true
		}
	}
	return false
}
