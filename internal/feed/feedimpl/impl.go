package feedimpl

import (
	"context"

	"github.com/orgball2608/mozimo-site/internal/domain"
	"github.com/orgball2608/mozimo-site/internal/feed"
	"github.com/orgball2608/mozimo-site/internal/instagram"
	"github.com/orgball2608/mozimo-site/pkg/config"
	apperrors "github.com/orgball2608/mozimo-site/pkg/errors"
	"github.com/orgball2608/mozimo-site/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Instagram instagram.Client
	Config    *config.Config
	Logger    logger.Logger
}

type FeedImpl struct {
	Instagram instagram.Client
	Config    *config.Config
	Logger    logger.Logger
}

func New(opts Opts) *FeedImpl {
	return &FeedImpl{
		Instagram: opts.Instagram,
		Config:    opts.Config,
		Logger:    opts.Logger.WithComponent("Feed"),
	}
}

var _ feed.Service = (*FeedImpl)(nil)

// GetPosts resolves the account behind the configured token, then lists its
// recent media. The calls run one after the other and nothing is kept
// between invocations.
func (f *FeedImpl) GetPosts(ctx context.Context) ([]domain.Post, error) {
	token := f.Config.Instagram.AccessToken
	if token == "" {
		return nil, apperrors.WrapWithCode(apperrors.ErrNotConfigured, apperrors.CodeNotConfigured,
			"Instagram access token not configured")
	}

	identity, err := f.Instagram.GetIdentity(ctx, token)
	if err != nil {
		f.Logger.Error("Failed to fetch user info", "error", err)
		return nil, err
	}
	f.Logger.Info("Instagram user resolved", "username", identity.Username)

	limit := f.limit()
	items, err := f.Instagram.GetRecentMedia(ctx, token, limit)
	if err != nil {
		f.Logger.Error("Failed to fetch media", "error", err)
		return nil, err
	}

	posts := Normalize(items, limit)
	f.Logger.Info("Instagram media fetched", "received", len(items), "returned", len(posts))
	return posts, nil
}

func (f *FeedImpl) limit() int {
	if f.Config.Instagram.MediaLimit > 0 {
		return f.Config.Instagram.MediaLimit
	}
	return feed.DefaultLimit
}
