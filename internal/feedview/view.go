package feedview

import (
	"github.com/orgball2608/mozimo-site/internal/domain"
	"github.com/orgball2608/mozimo-site/internal/feedclient"
	"github.com/samber/lo"
)

const (
	// DisplayLimit is the number of live posts shown on the page.
	DisplayLimit = 3
	// SkeletonCount is the number of placeholders shown while loading.
	SkeletonCount = 3
)

type Kind int

const (
	KindSkeleton Kind = iota
	KindExpired
	KindFallback
	KindLive
)

func (k Kind) String() string {
	switch k {
	case KindSkeleton:
		return "skeleton"
	case KindExpired:
		return "expired"
	case KindFallback:
		return "fallback"
	case KindLive:
		return "live"
	default:
		return "unknown"
	}
}

type View struct {
	Kind      Kind
	Posts     []domain.Post
	Message   string
	Skeletons []int
}

// Select picks what the social media section renders for a feed state.
func Select(state feedclient.State) View {
	switch {
	case state.Loading():
		return View{Kind: KindSkeleton, Skeletons: lo.Range(SkeletonCount)}
	case state.Status == feedclient.StatusFailed && state.TokenExpired:
		return View{Kind: KindExpired, Message: state.Error}
	case state.Status == feedclient.StatusFailed:
		return View{Kind: KindFallback, Message: state.Error}
	default:
		return View{Kind: KindLive, Posts: lo.Subset(state.Posts, 0, DisplayLimit)}
	}
}
