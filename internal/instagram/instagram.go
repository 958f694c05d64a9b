package instagram

import (
	"context"

	"github.com/orgball2608/mozimo-site/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=instagram.go -destination=mocks/mock.go
type Client interface {
	// GetIdentity resolves the account behind token.
	GetIdentity(ctx context.Context, token string) (domain.Identity, error)

	// GetRecentMedia lists up to limit of the account's most recent media, newest first.
	GetRecentMedia(ctx context.Context, token string, limit int) ([]domain.MediaItem, error)
}
