package services

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mbraun/myflix-be/internal/models"
)

// MovieServiceProvider defines the interface for catalog lookups. The
// catalog is read-only; it has no mutation operations.
type MovieServiceProvider interface {
	GetAllMovies() ([]models.Movie, error)
	GetMovieByTitle(title string) (models.Movie, error)
	GetGenre(name string) (models.Genre, error)
	GetDirector(name string) (models.Director, error)
}

// MovieService provides catalog queries.
type MovieService struct {
	db *sql.DB
}

// NewMovieService creates a new MovieService.
func NewMovieService(db *sql.DB) *MovieService {
	return &MovieService{db: db}
}

var _ MovieServiceProvider = (*MovieService)(nil)

// scanMovie is a helper to scan a movie from a row or rows object.
func scanMovie(scanner interface{ Scan(...interface{}) error }) (models.Movie, error) {
	var m models.Movie
	var desc, genreJSON, directorJSON, imagePath sql.NullString

	err := scanner.Scan(&m.ID, &m.Title, &desc, &genreJSON, &directorJSON, &imagePath, &m.Featured)
	if err != nil {
		return m, err
	}

	m.Description = desc.String
	m.ImagePath = imagePath.String
	if genreJSON.String != "" {
		if err := json.Unmarshal([]byte(genreJSON.String), &m.Genre); err != nil {
			return m, fmt.Errorf("decode genre for %q: %w", m.Title, err)
		}
	}
	if directorJSON.String != "" {
		if err := json.Unmarshal([]byte(directorJSON.String), &m.Director); err != nil {
			return m, fmt.Errorf("decode director for %q: %w", m.Title, err)
		}
	}
	return m, nil
}

const movieColumns = "id, title, description, genre_json, director_json, image_path, featured"

// GetAllMovies retrieves the full catalog.
func (s *MovieService) GetAllMovies() ([]models.Movie, error) {
	rows, err := s.db.Query("SELECT " + movieColumns + " FROM movies ORDER BY title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// GetMovieByTitle retrieves a single movie by its display title. Returns
// models.ErrNotFound when the catalog has no such entry.
func (s *MovieService) GetMovieByTitle(title string) (models.Movie, error) {
	row := s.db.QueryRow("SELECT "+movieColumns+" FROM movies WHERE title = ?", title)
	m, err := scanMovie(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Movie{}, fmt.Errorf("movie %q: %w", title, models.ErrNotFound)
		}
		return models.Movie{}, err
	}
	return m, nil
}

// GetGenre retrieves genre details by genre name from any movie carrying
// it.
func (s *MovieService) GetGenre(name string) (models.Genre, error) {
	row := s.db.QueryRow(`SELECT `+movieColumns+` FROM movies
		WHERE json_extract(genre_json, '$.name') = ? LIMIT 1`, name)
	m, err := scanMovie(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Genre{}, fmt.Errorf("genre %q: %w", name, models.ErrNotFound)
		}
		return models.Genre{}, err
	}
	return m.Genre, nil
}

// GetDirector retrieves director details by name from any movie carrying
// them.
func (s *MovieService) GetDirector(name string) (models.Director, error) {
	row := s.db.QueryRow(`SELECT `+movieColumns+` FROM movies
		WHERE json_extract(director_json, '$.name') = ? LIMIT 1`, name)
	m, err := scanMovie(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Director{}, fmt.Errorf("director %q: %w", name, models.ErrNotFound)
		}
		return models.Director{}, err
	}
	return m.Director, nil
}
