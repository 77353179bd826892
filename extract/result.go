package extract

import (
	"time"
)

// MediaKind distinguishes the two downloadable attachment types.
type MediaKind string

const (
	Video MediaKind = "video"
	Audio MediaKind = "audio"
)

// Media is one normalized downloadable item.
type Media struct {
	ID        string    `json:"id,omitempty"`
	Kind      MediaKind `json:"kind"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Thumbnail string    `json:"thumbnail,omitempty"`

	// AudioOnly marks items with no video track, so a downstream
	// pipeline skips video postprocessing for them.
	AudioOnly bool `json:"audio_only"`

	Duration float64 `json:"duration,omitempty"`
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	Bitrate  int     `json:"bitrate,omitempty"`
}

// Card points at content hosted on an external platform when the status
// itself attaches nothing. A downstream tool resolves the URL with its own
// site support.
type Card struct {
	URL       string `json:"url"`
	Title     string `json:"title,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// Result is the normalized record for one status.
type Result struct {
	ID    string `json:"id"`
	Title string `json:"title"`

	Uploader     string    `json:"uploader,omitempty"`
	UploaderID   string    `json:"uploader_id,omitempty"`
	UploaderURL  string    `json:"uploader_url,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	RepostCount  int       `json:"repost_count"`

	// Media holds every audio/video attachment; more than one makes the
	// record a playlist.
	Media []Media `json:"media,omitempty"`

	// Card is set instead of Media for the external-platform fallback.
	Card *Card `json:"card,omitempty"`
}

// Playlist reports whether the record carries multiple items.
func (r *Result) Playlist() bool {
	return len(r.Media) > 1
}
