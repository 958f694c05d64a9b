package feedclient

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/orgball2608/mozimo-site/internal/domain"
	apperrors "github.com/orgball2608/mozimo-site/pkg/errors"
	"github.com/orgball2608/mozimo-site/pkg/logger"
)

const (
	TokenExpiredMessage = "Instagram connection expired. Please contact support to refresh the connection."
	ServerErrorMessage  = "Failed to fetch Instagram posts"
	FetchErrorMessage   = "Failed to fetch posts"
)

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

type postsBody struct {
	Posts []domain.Post `json:"posts"`
}

type Opts struct {
	// Endpoint is the absolute URL of the feed proxy.
	Endpoint   string
	HTTPClient *http.Client
	Logger     logger.Logger
}

// Client calls the feed proxy and turns its answer into a State.
type Client struct {
	endpoint string
	http     *http.Client
	logger   logger.Logger
}

func New(opts Opts) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint: opts.Endpoint,
		http:     httpClient,
		logger:   opts.Logger.WithComponent("FeedClient"),
	}
}

// Fetch issues one request to the proxy and returns the terminal state it
// leads to. It never returns a loading state.
func (c *Client) Fetch(ctx context.Context, header http.Header) State {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return failedState(messageOf(err), false)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("Error fetching Instagram posts", "error", err)
		return failedState(messageOf(err), false)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var body errorBody
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			c.logger.Error("Error decoding feed error response", "status", resp.StatusCode, "error", err)
			return failedState(messageOf(err), false)
		}

		if body.Code == apperrors.CodeTokenExpired {
			return failedState(TokenExpiredMessage, true)
		}
		if body.Error == "" {
			return failedState(ServerErrorMessage, false)
		}
		return failedState(body.Error, false)
	}

	var body postsBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Error("Error decoding feed response", "error", err)
		return failedState(messageOf(err), false)
	}

	return readyState(body.Posts)
}

func messageOf(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return FetchErrorMessage
}
