// Package lastfm reads the most recent scrobbled track for the site owner's
// now-playing widget. Read-only; there is no mutation path.
package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://ws.audioscrobbler.com/2.0/"

// NowPlaying is the widget payload. Zero values mean nothing has been
// scrobbled yet.
type NowPlaying struct {
	IsPlaying  bool   `json:"isPlaying"`
	SongName   string `json:"songName"`
	ArtistName string `json:"artistName"`
	SongURL    string `json:"songURL"`
	ImageURL   string `json:"imageURL"`
}

type recentTracksResponse struct {
	RecentTracks struct {
		Track []struct {
			Name   string `json:"name"`
			Artist struct {
				Text string `json:"#text"`
			} `json:"artist"`
			URL   string `json:"url"`
			Image []struct {
				Text string `json:"#text"`
			} `json:"image"`
			Attr *struct {
				NowPlaying string `json:"nowplaying"`
			} `json:"@attr"`
		} `json:"track"`
	} `json:"recenttracks"`
}

type Client struct {
	BaseURL    string
	Username   string
	APIKey     string
	HTTPClient *http.Client
}

func NewClient(username, apiKey string) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		Username:   username,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NowPlaying fetches the two most recent tracks and maps the first one.
func (c *Client) NowPlaying(ctx context.Context) (*NowPlaying, error) {
	query := url.Values{}
	query.Set("method", "user.getrecenttracks")
	query.Set("user", c.Username)
	query.Set("api_key", c.APIKey)
	query.Set("format", "json")
	query.Set("limit", "2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("now playing lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("now playing lookup failed: status %d", resp.StatusCode)
	}

	var payload recentTracksResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("now playing lookup failed: %w", err)
	}

	tracks := payload.RecentTracks.Track
	if len(tracks) == 0 {
		return &NowPlaying{}, nil
	}

	song := tracks[0]
	now := &NowPlaying{
		SongName:   song.Name,
		ArtistName: song.Artist.Text,
		SongURL:    song.URL,
	}
	if song.Attr != nil && song.Attr.NowPlaying == "true" {
		now.IsPlaying = true
	}
	// The image list runs small to large; the widget wants the largest.
	if n := len(song.Image); n > 0 {
		now.ImageURL = song.Image[n-1].Text
	}
	return now, nil
}
