package domain

// Identity is the account the access token belongs to.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// MediaItem is a media object as returned by the /me/media edge.
type MediaItem struct {
	ID           string `json:"id"`
	Caption      string `json:"caption,omitempty"`
	MediaType    string `json:"media_type"`
	MediaURL     string `json:"media_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Permalink    string `json:"permalink"`
	Timestamp    string `json:"timestamp"`
}
