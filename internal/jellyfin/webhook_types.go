package jellyfin

// WebhookEvent is the normalized payload received from the Jellyfin
// webhook plugin. Media-server notifications are logged for auditing but
// never drive library sync; the library managers own that data.
type WebhookEvent struct {
	NotificationType string `json:"NotificationType"`

	ServerName string `json:"ServerName,omitempty"`
	ServerID   string `json:"ServerId,omitempty"`

	ItemID   string `json:"ItemId,omitempty"`
	ItemName string `json:"Name,omitempty"`
	ItemType string `json:"ItemType,omitempty"`
	ItemPath string `json:"ItemPath,omitempty"`
	Year     int    `json:"Year,omitempty"`

	SeriesName    string `json:"SeriesName,omitempty"`
	SeasonNumber  *int   `json:"SeasonNumber,omitempty"`
	EpisodeNumber *int   `json:"EpisodeNumber,omitempty"`

	UserName   string `json:"NotificationUsername,omitempty"`
	DeviceName string `json:"DeviceName,omitempty"`
	ClientName string `json:"ClientName,omitempty"`

	TaskName string `json:"TaskName,omitempty"`

	Timestamp string `json:"Timestamp,omitempty"`
}
