package youtube_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/meiyaku-knights/navi/pkg/domain"
	"github.com/meiyaku-knights/navi/pkg/youtube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yt "google.golang.org/api/youtube/v3"
)

const rawPayload = `{
  "kind": "youtube#playlistItemListResponse",
  "items": [
    {"snippet": {
      "publishedAt": "2025-12-10T11:00:05Z",
      "title": "【速報】面会交流の新判例",
      "thumbnails": {
        "default": {"url": "https://i.ytimg.com/vi/aaa/default.jpg"},
        "medium": {"url": "https://i.ytimg.com/vi/aaa/mqdefault.jpg"}
      },
      "resourceId": {"kind": "youtube#video", "videoId": "aaa"}
    }},
    {"snippet": {
      "publishedAt": "2025-12-01T08:30:00+09:00",
      "title": "ライブ配信アーカイブ",
      "thumbnails": {"default": {"url": "https://i.ytimg.com/vi/bbb/default.jpg"}},
      "resourceId": {"videoId": "bbb"}
    }},
    {"snippet": {
      "publishedAt": "2025-11-20T00:00:00Z",
      "title": "Private video",
      "thumbnails": {},
      "resourceId": {"videoId": "ccc"}
    }}
  ]
}`

func TestTransform(t *testing.T) {
	raw, err := youtube.ParseRaw([]byte(rawPayload))
	require.NoError(t, err)

	videos, err := youtube.Transform(raw)
	require.NoError(t, err)
	require.Len(t, videos, 3)

	assert.Equal(t, "aaa", videos[0].ID)
	assert.Equal(t, "https://i.ytimg.com/vi/aaa/mqdefault.jpg", videos[0].Thumbnail, "medium wins")
	assert.Equal(t, "https://i.ytimg.com/vi/bbb/default.jpg", videos[1].Thumbnail, "default is the fallback")
	assert.Empty(t, videos[2].Thumbnail, "no thumbnail at all")
	assert.True(t, time.Date(2025, 11, 30, 23, 30, 0, 0, time.UTC).Equal(videos[1].PublishedAt))
	assert.Equal(t, "https://www.youtube.com/watch?v=aaa", videos[0].WatchURL())

	kept := youtube.DropUnavailable(videos)
	assert.Len(t, kept, 2)
}

// Re-wrapping normalized output in provider shape and transforming again is a no-op.
func TestTransform_Idempotent(t *testing.T) {
	raw, err := youtube.ParseRaw([]byte(rawPayload))
	require.NoError(t, err)
	first, err := youtube.Transform(raw)
	require.NoError(t, err)

	second, err := youtube.Transform(youtube.Wrap(first))
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second pass changed records (-first +second):\n%s", diff)
	}

	empty, err := youtube.Transform(youtube.Wrap(nil))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTransform_Failures(t *testing.T) {
	_, err := youtube.Transform(nil)
	assert.ErrorIs(t, err, youtube.ErrNoItems)

	raw, err := youtube.ParseRaw([]byte(`{"kind": "youtube#playlistItemListResponse"}`))
	require.NoError(t, err)
	_, err = youtube.Transform(raw)
	assert.ErrorIs(t, err, youtube.ErrNoItems)

	raw, err = youtube.ParseRaw([]byte(`{"items": []}`))
	require.NoError(t, err)
	videos, err := youtube.Transform(raw)
	require.NoError(t, err)
	assert.Empty(t, videos)

	_, err = youtube.Transform(&yt.PlaylistItemListResponse{Items: []*yt.PlaylistItem{{}}})
	require.Error(t, err)
	assert.False(t, errors.Is(err, youtube.ErrNoItems))
	assert.Contains(t, err.Error(), "item 0")

	_, err = youtube.Transform(&yt.PlaylistItemListResponse{Items: []*yt.PlaylistItem{
		{Snippet: &yt.PlaylistItemSnippet{Title: "x", ResourceId: &yt.ResourceId{VideoId: "x"}, PublishedAt: "yesterday"}},
	}})
	assert.Error(t, err)

	_, err = youtube.ParseRaw([]byte(`{`))
	assert.Error(t, err)
}

func TestThumbnailURL(t *testing.T) {
	tests := []struct {
		name    string
		details *yt.ThumbnailDetails
		url     string
		source  youtube.ThumbnailSource
	}{
		{"nil", nil, "", youtube.ThumbnailNone},
		{"empty", &yt.ThumbnailDetails{}, "", youtube.ThumbnailNone},
		{"default only", &yt.ThumbnailDetails{Default: &yt.Thumbnail{Url: "d"}}, "d", youtube.ThumbnailDefault},
		{"medium preferred", &yt.ThumbnailDetails{Default: &yt.Thumbnail{Url: "d"}, Medium: &yt.Thumbnail{Url: "m"}}, "m", youtube.ThumbnailMedium},
		{"blank medium", &yt.ThumbnailDetails{Default: &yt.Thumbnail{Url: "d"}, Medium: &yt.Thumbnail{}}, "d", youtube.ThumbnailDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, src := youtube.ThumbnailURL(tt.details)
			assert.Equal(t, tt.url, url)
			assert.Equal(t, tt.source, src)
		})
	}
	assert.Equal(t, "medium", youtube.ThumbnailMedium.String())
}

func TestDropUnavailable(t *testing.T) {
	in := []domain.Video{{ID: "1", Title: "ok"}, {ID: "2", Title: "Deleted video"}, {ID: "3", Title: "Private video"}}
	assert.Equal(t, []domain.Video{{ID: "1", Title: "ok"}}, youtube.DropUnavailable(in))
}
