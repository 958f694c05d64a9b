package httpserver

import (
	"net/http"

	"github.com/orgball2608/mozimo-site/internal/feed"
	"github.com/orgball2608/mozimo-site/internal/metrics"
	apperrors "github.com/orgball2608/mozimo-site/pkg/errors"
	"github.com/orgball2608/mozimo-site/pkg/logger"
)

// FeedHandler serves GET /api/feed.
type FeedHandler struct {
	feed   feed.Service
	logger logger.Logger
}

func NewFeedHandler(svc feed.Service, log logger.Logger) *FeedHandler {
	return &FeedHandler{
		feed:   svc,
		logger: log.WithComponent("FeedHandler"),
	}
}

func (h *FeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	posts, err := h.feed.GetPosts(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	metrics.FeedRequestsTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, PostsResponse{Posts: posts})
}

func (h *FeedHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsNotConfigured(err):
		metrics.FeedRequestsTotal.WithLabelValues("not_configured").Inc()
		h.logger.Error("Feed requested without access token")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: apperrors.GetMessage(err),
		})

	case apperrors.IsTokenExpired(err):
		metrics.FeedRequestsTotal.WithLabelValues("token_expired").Inc()
		h.logger.Warn("Instagram access token has expired")
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   tokenExpiredMessage,
			Details: tokenRemediationMessage,
			Code:    apperrors.CodeTokenExpired,
		})

	default:
		metrics.FeedRequestsTotal.WithLabelValues("error").Inc()
		h.logger.Error("Instagram API Error", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   feedFailureMessage,
			Details: apperrors.GetMessage(err),
		})
	}
}
