package radarr

// WebhookPayload is the body Radarr posts to configured webhook connections.
type WebhookPayload struct {
	EventType string `json:"eventType"`

	Movie *WebhookMovie `json:"movie,omitempty"`

	InstanceName string `json:"instanceName,omitempty"`
}

// WebhookMovie identifies the movie an event refers to
type WebhookMovie struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Year   int    `json:"year,omitempty"`
	TmdbID int    `json:"tmdbId,omitempty"`
}
