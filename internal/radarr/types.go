package radarr

// Movie represents a movie in Radarr
type Movie struct {
	ID        int     `json:"id"`
	Title     string  `json:"title"`
	SortTitle string  `json:"sortTitle"`
	Year      int     `json:"year"`
	TmdbID    int     `json:"tmdbId"`
	ImdbID    string  `json:"imdbId"`
	Overview  string  `json:"overview"`
	Studio    string  `json:"studio"`
	Status    string  `json:"status"`
	Path      string  `json:"path"`
	HasFile   bool    `json:"hasFile"`
	Monitored bool    `json:"monitored"`
	Runtime   int     `json:"runtime"`
	Images    []Image `json:"images,omitempty"`
}

// Poster returns the remote poster URL if Radarr supplied one
func (m *Movie) Poster() string {
	for _, img := range m.Images {
		if img.CoverType == "poster" {
			if img.RemoteURL != "" {
				return img.RemoteURL
			}
			return img.URL
		}
	}
	return ""
}

// Image is artwork metadata attached to a movie
type Image struct {
	CoverType string `json:"coverType"`
	URL       string `json:"url,omitempty"`
	RemoteURL string `json:"remoteUrl,omitempty"`
}

// SystemStatus is Radarr's /system/status response
type SystemStatus struct {
	AppName string `json:"appName"`
	Version string `json:"version"`
}
