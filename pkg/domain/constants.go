package domain

const (
	// DefaultStartID is the question every session begins at.
	DefaultStartID = "Q1"

	// DefaultResultPrefix marks a "next" pointer as a terminal result identifier.
	DefaultResultPrefix = "End_"

	// VideoCacheKey is the key under which the video cache entry is stored.
	VideoCacheKey = "youtube_videos_cache"
)
