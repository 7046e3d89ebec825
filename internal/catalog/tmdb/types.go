package tmdb

// Movie is a normalized TMDB movie.
type Movie struct {
	ID             string // provider's numeric ID as a string
	Title          string
	Tagline        string
	Overview       string
	Genres         []string
	ReleaseDate    string // "2006-01-02"
	Language       string
	PosterURL      string
	RuntimeMinutes int
}

// SearchPage is one page of search results with the provider's totals.
// TMDB uses a fixed page size of 20.
type SearchPage struct {
	Items        []Movie
	TotalResults int
	TotalPages   int
}

// Raw API response types (internal)

type rawSearchResponse struct {
	Page         int              `json:"page"`
	Results      []rawMovieResult `json:"results"`
	TotalResults int              `json:"total_results"`
	TotalPages   int              `json:"total_pages"`
}

type rawMovieResult struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	GenreIDs         []int64 `json:"genre_ids"`
	ReleaseDate      string  `json:"release_date"`
	OriginalLanguage string  `json:"original_language"`
	PosterPath       string  `json:"poster_path"`
}

type rawMovieDetail struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Tagline          string     `json:"tagline"`
	Overview         string     `json:"overview"`
	Genres           []rawGenre `json:"genres"`
	ReleaseDate      string     `json:"release_date"`
	OriginalLanguage string     `json:"original_language"`
	PosterPath       string     `json:"poster_path"`
	Runtime          int        `json:"runtime"`
}

type rawGenre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type rawGenreList struct {
	Genres []rawGenre `json:"genres"`
}
