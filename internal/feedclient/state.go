package feedclient

import "github.com/orgball2608/mozimo-site/internal/domain"

type Status int

const (
	StatusLoading Status = iota
	StatusFailed
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusFailed:
		return "failed"
	case StatusReady:
		return "ready"
	default:
		return "unknown"
	}
}

// State is the lifecycle of one mounted feed. Error and TokenExpired are only
// meaningful when Status is StatusFailed, Posts only when it is StatusReady.
type State struct {
	Status       Status
	Posts        []domain.Post
	Error        string
	TokenExpired bool
}

func loadingState() State {
	return State{Status: StatusLoading}
}

func readyState(posts []domain.Post) State {
	if posts == nil {
		posts = []domain.Post{}
	}
	return State{Status: StatusReady, Posts: posts}
}

func failedState(message string, tokenExpired bool) State {
	return State{Status: StatusFailed, Error: message, TokenExpired: tokenExpired}
}

func (s State) Loading() bool {
	return s.Status == StatusLoading
}

func (s State) Settled() bool {
	return s.Status != StatusLoading
}
