package feedimpl

import (
	"github.com/orgball2608/mozimo-site/internal/domain"
	"github.com/samber/lo"
)

// NormalizePost maps an upstream media item to a Post. Videos are shown by
// their thumbnail when Instagram provides one.
func NormalizePost(item domain.MediaItem) domain.Post {
	mediaURL := item.MediaURL
	if item.MediaType == domain.MediaTypeVideo && item.ThumbnailURL != "" {
		mediaURL = item.ThumbnailURL
	}

	return domain.Post{
		ID:        item.ID,
		Caption:   item.Caption,
		MediaURL:  mediaURL,
		Permalink: item.Permalink,
		MediaType: item.MediaType,
		Timestamp: item.Timestamp,
	}
}

// Normalize keeps upstream order and returns at most limit posts. The result
// is never nil so it encodes as an empty JSON array.
func Normalize(items []domain.MediaItem, limit int) []domain.Post {
	posts := lo.Map(items, func(item domain.MediaItem, _ int) domain.Post {
		return NormalizePost(item)
	})
	if posts == nil {
		posts = []domain.Post{}
	}
	if limit >= 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts
}
