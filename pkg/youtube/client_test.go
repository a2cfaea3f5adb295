package youtube_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meiyaku-knights/navi/pkg/youtube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, handler http.Handler) *youtube.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := youtube.NewClient(context.Background(), "test-key", []option.ClientOption{
		option.WithEndpoint(srv.URL + "/"),
		option.WithHTTPClient(srv.Client()),
	})
	require.NoError(t, err)
	return c
}

func TestClient_Latest(t *testing.T) {
	var gotMax, gotHandle, gotPlaylist string
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/channels", func(w http.ResponseWriter, r *http.Request) {
		gotHandle = r.URL.Query().Get("forHandle")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": [{"contentDetails": {"relatedPlaylists": {"uploads": "UU123"}}}]}`))
	})
	mux.HandleFunc("/youtube/v3/playlistItems", func(w http.ResponseWriter, r *http.Request) {
		gotPlaylist = r.URL.Query().Get("playlistId")
		gotMax = r.URL.Query().Get("maxResults")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(rawPayload))
	})

	c := newTestClient(t, mux)
	videos, err := c.Latest(context.Background(), "@meiyaku_knights", 6)
	require.NoError(t, err)

	assert.Equal(t, "@meiyaku_knights", gotHandle)
	assert.Equal(t, "UU123", gotPlaylist)
	assert.Equal(t, "6", gotMax)
	require.Len(t, videos, 3)
	assert.Equal(t, "aaa", videos[0].ID)
}

func TestClient_ChannelByID(t *testing.T) {
	var gotID string
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/channels", func(w http.ResponseWriter, r *http.Request) {
		gotID = r.URL.Query().Get("id")
		_, _ = w.Write([]byte(`{"items": [{"contentDetails": {"relatedPlaylists": {"uploads": "UUabc"}}}]}`))
	})

	id, err := newTestClient(t, mux).UploadsPlaylist(context.Background(), "UCabc")
	require.NoError(t, err)
	assert.Equal(t, "UCabc", gotID)
	assert.Equal(t, "UUabc", id)
}

func TestClient_Failures(t *testing.T) {
	t.Run("Unknown Channel", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/youtube/v3/channels", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"items": []}`))
		})
		_, err := newTestClient(t, mux).Latest(context.Background(), "@nobody", 6)
		assert.ErrorIs(t, err, youtube.ErrChannelNotFound)
	})

	t.Run("Quota Exceeded", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/youtube/v3/channels", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "quotaExceeded"}}`))
		})
		_, err := newTestClient(t, mux).Latest(context.Background(), "@meiyaku_knights", 6)
		assert.Error(t, err)
	})

	t.Run("Missing Items", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/youtube/v3/channels", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"items": [{"contentDetails": {"relatedPlaylists": {"uploads": "UU1"}}}]}`))
		})
		mux.HandleFunc("/youtube/v3/playlistItems", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"kind": "youtube#playlistItemListResponse"}`))
		})
		_, err := newTestClient(t, mux).Latest(context.Background(), "@meiyaku_knights", 6)
		assert.ErrorIs(t, err, youtube.ErrNoItems)
	})
}
