package extract

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/spf13/viper"

	"github.com/fedigrab-cli/fedigrab/fediverse"
	"github.com/fedigrab-cli/fedigrab/key"
)

// ErrNoMediaFound means the status has neither audio/video attachments nor
// a usable link card.
var ErrNoMediaFound = errors.New("no audio or video attachments")

var (
	stripPolicy = bluemonday.StrictPolicy()
	brRe        = regexp.MustCompile(`(?i)<br\s*/?>`)
	closePRe    = regexp.MustCompile(`(?i)</p>\s*<p[^>]*>`)
)

// stripMarkup turns status HTML into plain text: paragraph and line breaks
// become newlines, every other tag is dropped, entities are decoded.
func stripMarkup(content string) string {
	content = closePRe.ReplaceAllString(content, "\n")
	content = brRe.ReplaceAllString(content, "\n")
	stripped := stripPolicy.Sanitize(content)
	return strings.TrimSpace(html.UnescapeString(stripped))
}

// FromStatus normalizes a status document into a media record. Pure
// transformation, no network.
func FromStatus(status *fediverse.Status) (*Result, error) {
	title := stripMarkup(status.Content)

	result := &Result{
		ID:           status.ID,
		Title:        title,
		Uploader:     status.Account.DisplayName,
		UploaderID:   status.Account.Username,
		UploaderURL:  status.Account.URL,
		CreatedAt:    status.CreatedAt,
		LikeCount:    status.FavouritesCount,
		CommentCount: status.RepliesCount,
		RepostCount:  status.ReblogsCount,
	}

	for _, attachment := range status.MediaAttachments {
		if attachment.Type != "video" && attachment.Type != "audio" {
			continue
		}

		media := Media{
			ID:        attachment.ID,
			Kind:      MediaKind(attachment.Type),
			Title:     title,
			URL:       attachment.URL,
			AudioOnly: attachment.Type == "audio",
		}
		if attachment.Description != "" {
			media.Title = attachment.Description
		}
		if attachment.Type == "video" {
			media.Thumbnail = attachment.PreviewURL
		}
		if meta, ok := attachment.Meta.Get(); ok {
			media.Duration = meta.Original.Duration
			media.Width = meta.Original.Width
			media.Height = meta.Original.Height
			media.Bitrate = meta.Original.Bitrate
		}
		if media.Duration == 0 {
			media.Duration = status.Duration
		}

		result.Media = append(result.Media, media)
	}

	if len(result.Media) > 0 {
		return result, nil
	}

	if card, ok := status.Card.Get(); ok && card.URL != "" && viper.GetBool(key.ExtractCardFallback) {
		result.Card = &Card{
			URL:       card.URL,
			Title:     card.Title,
			Thumbnail: card.Image,
		}
		return result, nil
	}

	return nil, fmt.Errorf("status %s: %w", status.ID, ErrNoMediaFound)
}
