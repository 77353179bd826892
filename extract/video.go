package extract

import (
	"fmt"

	"github.com/fedigrab-cli/fedigrab/fediverse"
)

// FromVideo normalizes a PeerTube video document into a media record. Every
// published rendition becomes one item; when an instance publishes HLS
// playlists only, the playlist URL itself is the item.
func FromVideo(video *fediverse.Video) (*Result, error) {
	result := &Result{
		ID:          video.UUID,
		Title:       video.Name,
		Uploader:    video.Account.DisplayName,
		UploaderID:  video.Account.Name,
		UploaderURL: video.Account.URL,
		CreatedAt:   video.PublishedAt,
		LikeCount:   video.Likes,
	}

	files := video.Files
	for _, playlist := range video.StreamingPlaylists {
		files = append(files, playlist.Files...)
	}

	for _, file := range files {
		if file.FileURL == "" {
			continue
		}

		id := video.UUID
		if file.Resolution.Label != "" {
			id = fmt.Sprintf("%s-%s", video.UUID, file.Resolution.Label)
		}
		result.Media = append(result.Media, Media{
			ID:        id,
			Kind:      Video,
			Title:     video.Name,
			URL:       file.FileURL,
			Thumbnail: video.Thumbnail,
			Duration:  video.Duration,
			Height:    file.Resolution.ID,
		})
	}

	if len(result.Media) == 0 {
		for _, playlist := range video.StreamingPlaylists {
			if playlist.PlaylistURL == "" {
				continue
			}
			result.Media = append(result.Media, Media{
				ID:        video.UUID,
				Kind:      Video,
				Title:     video.Name,
				URL:       playlist.PlaylistURL,
				Thumbnail: video.Thumbnail,
				Duration:  video.Duration,
			})
		}
	}

	if len(result.Media) == 0 {
		return nil, fmt.Errorf("video %s: %w", video.UUID, ErrNoMediaFound)
	}
	return result, nil
}
