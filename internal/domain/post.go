package domain

// MediaType values reported by the Instagram Graph API.
const (
	MediaTypeImage         = "IMAGE"
	MediaTypeVideo         = "VIDEO"
	MediaTypeCarouselAlbum = "CAROUSEL_ALBUM"
)

// Post is the presentation-ready shape served by /api/feed.
type Post struct {
	ID        string `json:"id"`
	Caption   string `json:"caption"`
	MediaURL  string `json:"mediaUrl"`
	Permalink string `json:"permalink"`
	MediaType string `json:"mediaType"`
	Timestamp string `json:"timestamp"`
}

func (p Post) IsVideo() bool {
	return p.MediaType == MediaTypeVideo
}
