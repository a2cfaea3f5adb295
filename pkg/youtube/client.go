package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/meiyaku-knights/navi/internal/logging"
	"github.com/meiyaku-knights/navi/pkg/domain"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

// ErrChannelNotFound is returned when the channel lookup yields no items.
var ErrChannelNotFound = errors.New("channel not found")

// Client fetches uploads through the YouTube Data API v3.
type Client struct {
	svc    *yt.Service
	logger *slog.Logger
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client authenticating with apiKey.
// Extra Google API options (endpoint, HTTP client) are appended after the key.
func NewClient(ctx context.Context, apiKey string, opts []option.ClientOption, copts ...ClientOption) (*Client, error) {
	all := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := yt.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}

	c := &Client{svc: svc, logger: logging.NewNop()}
	for _, opt := range copts {
		opt(c)
	}
	return c, nil
}

// UploadsPlaylist resolves a channel to its uploads playlist.
// channel is either an @handle or a channel id.
func (c *Client) UploadsPlaylist(ctx context.Context, channel string) (string, error) {
	call := c.svc.Channels.List([]string{"contentDetails"}).Context(ctx)
	if strings.HasPrefix(channel, "@") {
		call = call.ForHandle(channel)
	} else {
		call = call.Id(channel)
	}

	resp, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("channels.list %s: %w", channel, err)
	}
	if len(resp.Items) == 0 || resp.Items[0].ContentDetails == nil || resp.Items[0].ContentDetails.RelatedPlaylists == nil {
		return "", fmt.Errorf("%w: %s", ErrChannelNotFound, channel)
	}
	uploads := resp.Items[0].ContentDetails.RelatedPlaylists.Uploads
	if uploads == "" {
		return "", fmt.Errorf("%w: %s has no uploads playlist", ErrChannelNotFound, channel)
	}
	return uploads, nil
}

// PlaylistItems fetches the newest max items of a playlist in provider shape.
func (c *Client) PlaylistItems(ctx context.Context, playlistID string, max int64) (*yt.PlaylistItemListResponse, error) {
	resp, err := c.svc.PlaylistItems.List([]string{"snippet"}).
		PlaylistId(playlistID).
		MaxResults(max).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("playlistItems.list %s: %w", playlistID, err)
	}
	return resp, nil
}

// Raw resolves the channel and returns its latest items unprocessed.
func (c *Client) Raw(ctx context.Context, channel string, max int64) (*yt.PlaylistItemListResponse, error) {
	playlistID, err := c.UploadsPlaylist(ctx, channel)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("resolved uploads playlist", "channel", channel, "playlist", playlistID)
	return c.PlaylistItems(ctx, playlistID, max)
}

// Latest implements ports.RemoteFeed: the channel's newest max uploads, normalized.
func (c *Client) Latest(ctx context.Context, channel string, max int64) ([]domain.Video, error) {
	raw, err := c.Raw(ctx, channel, max)
	if err != nil {
		return nil, err
	}
	videos, err := Transform(raw)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("fetched uploads", "channel", channel, "count", len(videos))
	return videos, nil
}
