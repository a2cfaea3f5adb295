package domain

import "time"

// Video is a normalized entry of the video carousel.
type Video struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	// Thumbnail is empty when the provider offered no usable size.
	Thumbnail   string    `json:"thumbnail,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
}

// WatchURL links to the video on YouTube.
func (v Video) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// CacheEntry is the persisted video cache payload.
type CacheEntry struct {
	Data []Video `json:"data"`
	// Timestamp is the write time in epoch milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// Fresh reports whether the entry is younger than ttl at now.
func (e CacheEntry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.UnixMilli()-e.Timestamp < ttl.Milliseconds()
}
