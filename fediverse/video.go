package fediverse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fedigrab-cli/fedigrab/constant"
	"github.com/fedigrab-cli/fedigrab/network"
)

// Video is the PeerTube video document. PeerTube has no statuses endpoint;
// direct references to a PeerTube host are served by its own videos API.
type Video struct {
	UUID        string    `json:"uuid"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	Views       int       `json:"views"`
	Likes       int       `json:"likes"`
	PublishedAt time.Time `json:"publishedAt"`

	Account VideoAccount `json:"account"`

	ThumbnailPath      string              `json:"thumbnailPath"`
	Files              []VideoFile         `json:"files"`
	StreamingPlaylists []StreamingPlaylist `json:"streamingPlaylists"`

	// URL and Thumbnail are absolute, filled in by the client from the
	// host the document was fetched from.
	URL       string `json:"-"`
	Thumbnail string `json:"-"`
}

// VideoAccount identifies the uploading account.
type VideoAccount struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	URL         string `json:"url"`
}

// VideoFile is one directly downloadable rendition.
type VideoFile struct {
	FileURL    string          `json:"fileUrl"`
	Resolution VideoResolution `json:"resolution"`
	Size       int64           `json:"size"`
	FPS        int             `json:"fps"`
}

// VideoResolution carries the rendition height as reported by the API.
type VideoResolution struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// StreamingPlaylist is an HLS variant of the video. Newer instances publish
// renditions here instead of under files.
type StreamingPlaylist struct {
	PlaylistURL string      `json:"playlistUrl"`
	Files       []VideoFile `json:"files"`
}

// Video fetches a PeerTube video by id or UUID. Watch pages are public, so
// no credential is attached.
func (c *Client) Video(ctx context.Context, host, id string) (*Video, error) {
	endpoint := fmt.Sprintf("%s://%s/api/v1/videos/%s", scheme, host, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := network.Instance().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: video %s: unexpected response %d", host, id, resp.StatusCode)
	}

	var video Video
	if err := json.NewDecoder(resp.Body).Decode(&video); err != nil {
		return nil, fmt.Errorf("%s: decoding video %s: %w", host, id, err)
	}

	video.URL = fmt.Sprintf("%s://%s/videos/watch/%s", scheme, host, video.UUID)
	if video.ThumbnailPath != "" {
		video.Thumbnail = fmt.Sprintf("%s://%s%s", scheme, host, video.ThumbnailPath)
	}
	return &video, nil
}
