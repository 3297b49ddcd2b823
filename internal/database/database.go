package database

import (
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mbraun/myflix-be/internal/models"
)

// New creates a new database connection pool. The pragmas ride in the
// DSN so that every connection the pool opens gets them, not just the
// one a plain Exec would run on.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		birthday TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS favorites (
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		movie_id TEXT NOT NULL,
		PRIMARY KEY (user_id, movie_id)
	);

	CREATE TABLE IF NOT EXISTS movies (
		id TEXT NOT NULL PRIMARY KEY,
		title TEXT NOT NULL UNIQUE,
		description TEXT,
		-- Store nested fields as JSON text
		genre_json TEXT,
		director_json TEXT,
		image_path TEXT,
		featured INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}

// Seed populates the movie catalog with an initial set of entries. It is
// a no-op when the movies table already has rows.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM movies").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seed := []models.Movie{
		{
			Title:       "The Godfather",
			Description: "The aging patriarch of an organized crime dynasty transfers control to his reluctant son.",
			Genre:       models.Genre{Name: "Crime", Description: "Films centered on organized crime and its consequences."},
			Director:    models.Director{Name: "Francis Ford Coppola", Bio: "American director and screenwriter.", Birth: "1939"},
			Featured:    true,
		},
		{
			Title:       "Spirited Away",
			Description: "A young girl wanders into a world ruled by spirits and witches.",
			Genre:       models.Genre{Name: "Animation", Description: "Animated feature films."},
			Director:    models.Director{Name: "Hayao Miyazaki", Bio: "Japanese animator and filmmaker, co-founder of Studio Ghibli.", Birth: "1941"},
			Featured:    true,
		},
		{
			Title:       "Alien",
			Description: "The crew of a commercial spacecraft encounters a deadly lifeform.",
			Genre:       models.Genre{Name: "Science Fiction", Description: "Speculative, science-based storytelling."},
			Director:    models.Director{Name: "Ridley Scott", Bio: "English filmmaker.", Birth: "1937"},
		},
		{
			Title:       "Blade Runner",
			Description: "A blade runner must pursue and terminate four replicants hiding in Los Angeles.",
			Genre:       models.Genre{Name: "Science Fiction", Description: "Speculative, science-based storytelling."},
			Director:    models.Director{Name: "Ridley Scott", Bio: "English filmmaker.", Birth: "1937"},
		},
		{
			Title:       "Casablanca",
			Description: "A cynical expatriate must choose between love and helping a resistance leader escape.",
			Genre:       models.Genre{Name: "Drama", Description: "Character-driven stories with realistic stakes."},
			Director:    models.Director{Name: "Michael Curtiz", Bio: "Hungarian-American film director.", Birth: "1886"},
		},
	}

	stmt, err := db.Prepare(`INSERT INTO movies (id, title, description, genre_json, director_json, image_path, featured)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range seed {
		genreJSON, err := json.Marshal(m.Genre)
		if err != nil {
			return err
		}
		directorJSON, err := json.Marshal(m.Director)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(uuid.New().String(), m.Title, m.Description, string(genreJSON), string(directorJSON), m.ImagePath, m.Featured); err != nil {
			return err
		}
	}
	return nil
}
