package sonarr

import (
	"fmt"
)

func (c *Client) GetAllSeries() ([]Series, error) {
	var series []Series
	if err := c.get("/api/v3/series", &series); err != nil {
		return nil, fmt.Errorf("getting series: %w", err)
	}
	return series, nil
}

func (c *Client) GetSeries(id int) (*Series, error) {
	endpoint := fmt.Sprintf("/api/v3/series/%d", id)
	var series Series
	if err := c.get(endpoint, &series); err != nil {
		return nil, fmt.Errorf("getting series %d: %w", id, err)
	}
	return &series, nil
}

func (c *Client) GetEpisodes(seriesID int) ([]Episode, error) {
	endpoint := fmt.Sprintf("/api/v3/episode?seriesId=%d", seriesID)
	var episodes []Episode
	if err := c.get(endpoint, &episodes); err != nil {
		return nil, fmt.Errorf("getting episodes for series %d: %w", seriesID, err)
	}
	return episodes, nil
}

func (c *Client) GetEpisode(id int) (*Episode, error) {
	endpoint := fmt.Sprintf("/api/v3/episode/%d?includeSeries=true", id)
	var episode Episode
	if err := c.get(endpoint, &episode); err != nil {
		return nil, fmt.Errorf("getting episode %d: %w", id, err)
	}
	return &episode, nil
}
