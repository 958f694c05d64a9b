package feed

import (
	"context"

	"github.com/orgball2608/mozimo-site/internal/domain"
)

// DefaultLimit is the page size requested from Instagram.
const DefaultLimit = 6

//go:generate go run go.uber.org/mock/mockgen -source=feed.go -destination=mocks/mock.go
type Service interface {
	// GetPosts returns the most recent posts, newest first, at most the
	// configured limit. Errors are classified with pkg/errors sentinels.
	GetPosts(ctx context.Context) ([]domain.Post, error)
}
