package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mbraun/myflix-be/internal/services"
)

// MovieHandler handles HTTP requests for the read-only movie catalog.
type MovieHandler struct {
	service services.MovieServiceProvider
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(service services.MovieServiceProvider) *MovieHandler {
	return &MovieHandler{service: service}
}

// GetAll handles the request to list the whole catalog.
func (h *MovieHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	movies, err := h.service.GetAllMovies()
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, movies)
}

// Get handles the request to get a single movie by title.
func (h *MovieHandler) Get(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")
	movie, err := h.service.GetMovieByTitle(title)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, movie)
}

// GetGenre handles the request to describe a genre by name.
func (h *MovieHandler) GetGenre(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	genre, err := h.service.GetGenre(name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, genre)
}

// GetDirector handles the request to describe a director by name.
func (h *MovieHandler) GetDirector(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	director, err := h.service.GetDirector(name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, director)
}
