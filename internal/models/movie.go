package models

// Genre describes a movie genre.
type Genre struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Director describes a movie director.
type Director struct {
	Name  string `json:"name"`
	Bio   string `json:"bio,omitempty"`
	Birth string `json:"birth,omitempty"`
}

// Movie is a read-only catalog entry. Genre and Director are stored as
// JSON text columns and unmarshalled when the row is scanned.
type Movie struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Genre       Genre    `json:"genre"`
	Director    Director `json:"director"`
	ImagePath   string   `json:"imagePath,omitempty"`
	Featured    bool     `json:"featured"`
}
