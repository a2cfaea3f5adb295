// Package youtube normalizes YouTube Data API playlist payloads into the site's
// video records and fetches a channel's latest uploads.
package youtube

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/meiyaku-knights/navi/pkg/domain"
	yt "google.golang.org/api/youtube/v3"
)

// ErrNoItems is returned when a payload carries no items list at all.
var ErrNoItems = errors.New("no items found in raw data")

// ThumbnailSource records which size a thumbnail came from.
type ThumbnailSource int

const (
	ThumbnailNone ThumbnailSource = iota
	ThumbnailDefault
	ThumbnailMedium
)

func (s ThumbnailSource) String() string {
	switch s {
	case ThumbnailMedium:
		return "medium"
	case ThumbnailDefault:
		return "default"
	default:
		return "none"
	}
}

// ThumbnailURL picks medium, then default. ThumbnailNone means the video has no thumbnail.
func ThumbnailURL(td *yt.ThumbnailDetails) (string, ThumbnailSource) {
	if td == nil {
		return "", ThumbnailNone
	}
	if td.Medium != nil && td.Medium.Url != "" {
		return td.Medium.Url, ThumbnailMedium
	}
	if td.Default != nil && td.Default.Url != "" {
		return td.Default.Url, ThumbnailDefault
	}
	return "", ThumbnailNone
}

// ParseRaw decodes a stored playlistItems response.
func ParseRaw(data []byte) (*yt.PlaylistItemListResponse, error) {
	var resp yt.PlaylistItemListResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode raw payload: %w", err)
	}
	return &resp, nil
}

// Transform maps payload items to videos in input order.
// An absent items list fails the whole run with ErrNoItems; an empty one yields no videos.
func Transform(payload *yt.PlaylistItemListResponse) ([]domain.Video, error) {
	if payload == nil || payload.Items == nil {
		return nil, ErrNoItems
	}

	videos := make([]domain.Video, 0, len(payload.Items))
	for i, item := range payload.Items {
		if item == nil || item.Snippet == nil {
			return nil, fmt.Errorf("item %d: missing snippet", i)
		}
		sn := item.Snippet
		if sn.ResourceId == nil || sn.ResourceId.VideoId == "" {
			return nil, fmt.Errorf("item %d: missing resourceId.videoId", i)
		}

		var published time.Time
		if sn.PublishedAt != "" {
			t, err := time.Parse(time.RFC3339, sn.PublishedAt)
			if err != nil {
				return nil, fmt.Errorf("item %d: bad publishedAt: %w", i, err)
			}
			published = t
		}

		thumb, _ := ThumbnailURL(sn.Thumbnails)
		videos = append(videos, domain.Video{
			ID:          sn.ResourceId.VideoId,
			Title:       sn.Title,
			Thumbnail:   thumb,
			PublishedAt: published,
		})
	}
	return videos, nil
}

// Wrap puts normalized videos back into provider shape.
// Transform(Wrap(v)) returns v.
func Wrap(videos []domain.Video) *yt.PlaylistItemListResponse {
	items := make([]*yt.PlaylistItem, len(videos))
	for i, v := range videos {
		sn := &yt.PlaylistItemSnippet{
			Title:      v.Title,
			ResourceId: &yt.ResourceId{Kind: "youtube#video", VideoId: v.ID},
			Thumbnails: &yt.ThumbnailDetails{},
		}
		if !v.PublishedAt.IsZero() {
			sn.PublishedAt = v.PublishedAt.Format(time.RFC3339Nano)
		}
		if v.Thumbnail != "" {
			sn.Thumbnails.Medium = &yt.Thumbnail{Url: v.Thumbnail}
		}
		items[i] = &yt.PlaylistItem{Kind: "youtube#playlistItem", Snippet: sn}
	}
	return &yt.PlaylistItemListResponse{Kind: "youtube#playlistItemListResponse", Items: items}
}

var unavailableTitles = map[string]bool{
	"Private video": true,
	"Deleted video": true,
}

// DropUnavailable removes private and deleted uploads.
func DropUnavailable(videos []domain.Video) []domain.Video {
	out := make([]domain.Video, 0, len(videos))
	for _, v := range videos {
		if !unavailableTitles[v.Title] {
			out = append(out, v)
		}
	}
	return out
}
