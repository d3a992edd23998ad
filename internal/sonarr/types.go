package sonarr

// Series represents a TV series in Sonarr
type Series struct {
	ID         int              `json:"id"`
	Title      string           `json:"title"`
	TitleSlug  string           `json:"titleSlug"`
	SortTitle  string           `json:"sortTitle"`
	Path       string           `json:"path"`
	Year       int              `json:"year"`
	TvdbID     int              `json:"tvdbId"`
	ImdbID     string           `json:"imdbId"`
	Overview   string           `json:"overview"`
	Status     string           `json:"status"`
	Network    string           `json:"network"`
	Runtime    int              `json:"runtime"`
	Monitored  bool             `json:"monitored"`
	Images     []Image          `json:"images,omitempty"`
	Statistics *SeriesStatistic `json:"statistics,omitempty"`
}

// Poster returns the remote poster URL if Sonarr supplied one
func (s *Series) Poster() string {
	for _, img := range s.Images {
		if img.CoverType == "poster" {
			if img.RemoteURL != "" {
				return img.RemoteURL
			}
			return img.URL
		}
	}
	return ""
}

// SeriesStatistic holds per-series file counts
type SeriesStatistic struct {
	SeasonCount       int `json:"seasonCount"`
	EpisodeCount      int `json:"episodeCount"`
	EpisodeFileCount  int `json:"episodeFileCount"`
	TotalEpisodeCount int `json:"totalEpisodeCount"`
}

// Image is artwork metadata attached to a series
type Image struct {
	CoverType string `json:"coverType"`
	URL       string `json:"url,omitempty"`
	RemoteURL string `json:"remoteUrl,omitempty"`
}

// Episode represents an episode in Sonarr
type Episode struct {
	ID            int    `json:"id"`
	SeriesID      int    `json:"seriesId"`
	SeasonNumber  int    `json:"seasonNumber"`
	EpisodeNumber int    `json:"episodeNumber"`
	Title         string `json:"title"`
	AirDate       string `json:"airDate,omitempty"`
	Overview      string `json:"overview,omitempty"`
	HasFile       bool   `json:"hasFile"`
	Monitored     bool   `json:"monitored"`
}

// SystemStatus is Sonarr's /system/status response
type SystemStatus struct {
	AppName string `json:"appName"`
	Version string `json:"version"`
}
