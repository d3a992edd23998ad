package sonarr

// WebhookPayload is the body Sonarr posts to configured webhook connections.
// Only the fields the dispatcher needs are decoded; the raw body is kept
// separately for the audit trail.
type WebhookPayload struct {
	EventType string `json:"eventType"`

	Series   *WebhookSeries   `json:"series,omitempty"`
	Episodes []WebhookEpisode `json:"episodes,omitempty"`

	InstanceName string `json:"instanceName,omitempty"`
}

// WebhookSeries identifies the series an event refers to
type WebhookSeries struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	TvdbID int    `json:"tvdbId,omitempty"`
}

// WebhookEpisode identifies an episode an event refers to
type WebhookEpisode struct {
	ID            int    `json:"id"`
	SeasonNumber  int    `json:"seasonNumber"`
	EpisodeNumber int    `json:"episodeNumber"`
	Title         string `json:"title,omitempty"`
}
