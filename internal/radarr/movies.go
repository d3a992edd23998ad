package radarr

import (
	"fmt"
)

func (c *Client) GetMovies() ([]Movie, error) {
	var movies []Movie
	if err := c.get("/api/v3/movie", &movies); err != nil {
		return nil, fmt.Errorf("getting movies: %w", err)
	}
	return movies, nil
}

func (c *Client) GetMovie(id int) (*Movie, error) {
	endpoint := fmt.Sprintf("/api/v3/movie/%d", id)
	var movie Movie
	if err := c.get(endpoint, &movie); err != nil {
		return nil, fmt.Errorf("getting movie %d: %w", id, err)
	}
	return &movie, nil
}
