package googlebooks

// Volume is a normalized Google Books volume.
type Volume struct {
	ID            string
	Title         string
	Subtitle      string
	Description   string // markdown, converted from the provider's HTML
	Authors       []string
	Categories    []string // flattened, deduplicated
	Publisher     string
	PublishedDate string // provider formats vary: "2006", "2006-01", "2006-01-02"
	Language      string
	CoverURL      string
	PageCount     int
}

// SearchPage is one page of search results with the provider's total count.
type SearchPage struct {
	Items      []Volume
	TotalItems int
}

// Raw API response types (internal)

type rawSearchResponse struct {
	TotalItems int         `json:"totalItems"`
	Items      []rawVolume `json:"items"`
}

type rawVolume struct {
	ID         string        `json:"id"`
	VolumeInfo rawVolumeInfo `json:"volumeInfo"`
}

type rawVolumeInfo struct {
	Title         string        `json:"title"`
	Subtitle      string        `json:"subtitle"`
	Description   string        `json:"description"`
	Authors       []string      `json:"authors"`
	Categories    []string      `json:"categories"`
	Publisher     string        `json:"publisher"`
	PublishedDate string        `json:"publishedDate"`
	Language      string        `json:"language"`
	PageCount     int           `json:"pageCount"`
	ImageLinks    rawImageLinks `json:"imageLinks"`
}

type rawImageLinks struct {
	Thumbnail      string `json:"thumbnail"`
	SmallThumbnail string `json:"smallThumbnail"`
	Small          string `json:"small"`
	Medium         string `json:"medium"`
	Large          string `json:"large"`
}

// coverURL picks the best available image, preferring larger sizes.
func (l rawImageLinks) coverURL() string {
	for _, u := range []string{l.Large, l.Medium, l.Small, l.Thumbnail, l.SmallThumbnail} {
		if u != "" {
			return u
		}
	}
	return ""
}
