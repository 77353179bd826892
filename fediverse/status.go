package fediverse

import (
	"time"

	"github.com/samber/mo"
)

// Status is the post document the instance API returns, trimmed to the
// fields the extractor reads.
type Status struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	Account Account `json:"account"`

	MediaAttachments []MediaAttachment `json:"media_attachments"`
	Card             mo.Option[Card]   `json:"card"`

	// Pleroma puts a duration on audio statuses directly.
	Duration float64 `json:"duration"`

	FavouritesCount int `json:"favourites_count"`
	RepliesCount    int `json:"replies_count"`
	ReblogsCount    int `json:"reblogs_count"`
}

// Account is the posting account, used for uploader attribution.
type Account struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	URL         string `json:"url"`
}

// MediaAttachment is one attached media object.
type MediaAttachment struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	PreviewURL  string `json:"preview_url"`
	Description string `json:"description"`

	Meta mo.Option[MediaMeta] `json:"meta"`
}

// MediaMeta carries the attachment's technical metadata. Only the
// original-variant numbers are read.
type MediaMeta struct {
	Original MediaDimensions `json:"original"`
}

// MediaDimensions are the numeric facts about the original upload.
type MediaDimensions struct {
	Duration float64 `json:"duration"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Bitrate  int     `json:"bitrate"`
}

// Card is the link-preview card, the fallback pointer to an external
// platform when a status has no direct attachments.
type Card struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Image string `json:"image"`
}
