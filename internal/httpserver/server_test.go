package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/orgball2608/mozimo-site/internal/domain"
	"github.com/orgball2608/mozimo-site/internal/feed/feedimpl"
	"github.com/orgball2608/mozimo-site/internal/feedclient"
	"github.com/orgball2608/mozimo-site/internal/instagram/graphapi"
	"github.com/orgball2608/mozimo-site/internal/ratelimit"
	"github.com/orgball2608/mozimo-site/internal/site"
	"github.com/orgball2608/mozimo-site/pkg/config"
	"github.com/orgball2608/mozimo-site/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upstream fakes the two Graph API endpoints the proxy calls.
type upstream struct {
	calls        atomic.Int32
	identityCode int
	identityBody string
	mediaCode    int
	mediaBody    string
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.calls.Add(1)
	switch r.URL.Path {
	case "/me":
		if u.identityCode != 0 {
			w.WriteHeader(u.identityCode)
		}
		_, _ = io.WriteString(w, u.identityBody)
	case "/me/media":
		if u.mediaCode != 0 {
			w.WriteHeader(u.mediaCode)
		}
		_, _ = io.WriteString(w, u.mediaBody)
	default:
		http.NotFound(w, r)
	}
}

type stack struct {
	server   *httptest.Server
	upstream *upstream
}

func newStack(t *testing.T, token string, up *upstream, limiter ratelimit.Limiter, graphClient *http.Client) *stack {
	t.Helper()
	log := logger.New(logger.Opts{Output: io.Discard})

	upSrv := httptest.NewServer(up)
	t.Cleanup(upSrv.Close)

	srv := httptest.NewUnstartedServer(nil)
	cfg := &config.Config{}
	cfg.Instagram.AccessToken = token
	cfg.Instagram.GraphURL = upSrv.URL
	cfg.Instagram.MediaLimit = 6
	cfg.Site.FeedEndpoint = "http://" + srv.Listener.Addr().String() + "/api/feed"
	cfg.Site.FeedWait = 5 * time.Second

	if graphClient == nil {
		graphClient = upSrv.Client()
	}
	ig := graphapi.New(graphapi.Opts{Config: cfg, Logger: log, HTTPClient: graphClient})
	svc := feedimpl.New(feedimpl.Opts{Instagram: ig, Config: cfg, Logger: log})
	s, err := site.New(site.Opts{Config: cfg, Logger: log})
	require.NoError(t, err)

	srv.Config.Handler = NewHandler(log, svc, s, limiter)
	srv.Start()
	t.Cleanup(srv.Close)

	return &stack{server: srv, upstream: up}
}

func (s *stack) get(t *testing.T, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(s.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func (s *stack) feedState(t *testing.T) feedclient.State {
	t.Helper()
	c := feedclient.New(feedclient.Opts{
		Endpoint: s.server.URL + "/api/feed",
		Logger:   logger.New(logger.Opts{Output: io.Discard}),
	})
	f := c.Mount(context.Background(), nil)
	select {
	case <-f.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("feed did not settle")
	}
	return f.State()
}

const twoItems = `{"data":[
	{"id":"100","caption":"Dark 70%","media_type":"IMAGE","media_url":"https://cdn/100.jpg","permalink":"https://ig/p/100","timestamp":"2025-04-01T10:00:00+0000"},
	{"id":"101","media_type":"VIDEO","media_url":"https://cdn/101.mp4","thumbnail_url":"https://cdn/101.jpg","permalink":"https://ig/p/101","timestamp":"2025-03-30T10:00:00+0000"}
]}`

func TestFeed_Success(t *testing.T) {
	s := newStack(t, "token", &upstream{identityBody: `{"id":"1","username":"mozimo"}`, mediaBody: twoItems}, ratelimit.Unlimited{}, nil)

	resp, body := s.get(t, "/api/feed")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got PostsResponse
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got.Posts, 2)
	assert.Equal(t, "https://cdn/100.jpg", got.Posts[0].MediaURL)
	assert.Equal(t, "https://cdn/101.jpg", got.Posts[1].MediaURL)
	assert.Equal(t, domain.MediaTypeVideo, got.Posts[1].MediaType)
	assert.Equal(t, "", got.Posts[1].Caption)

	state := s.feedState(t)
	assert.Equal(t, feedclient.StatusReady, state.Status)
	assert.Equal(t, got.Posts, state.Posts)
}

func TestFeed_Idempotent(t *testing.T) {
	s := newStack(t, "token", &upstream{identityBody: `{"id":"1","username":"mozimo"}`, mediaBody: twoItems}, ratelimit.Unlimited{}, nil)

	_, first := s.get(t, "/api/feed")
	_, second := s.get(t, "/api/feed")

	assert.JSONEq(t, string(first), string(second))
	assert.EqualValues(t, 4, s.upstream.calls.Load())
}

func TestFeed_ExpiredToken(t *testing.T) {
	s := newStack(t, "token", &upstream{
		identityCode: http.StatusBadRequest,
		identityBody: `{"error":{"message":"Error validating access token: Session has expired","type":"OAuthException","code":190}}`,
	}, ratelimit.Unlimited{}, nil)

	resp, body := s.get(t, "/api/feed")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var got ErrorResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "TOKEN_EXPIRED", got.Code)
	assert.EqualValues(t, 1, s.upstream.calls.Load())

	state := s.feedState(t)
	assert.False(t, state.Loading())
	assert.True(t, state.TokenExpired)
	assert.Equal(t, feedclient.TokenExpiredMessage, state.Error)
}

func TestFeed_MediaExpiredToken(t *testing.T) {
	s := newStack(t, "token", &upstream{
		identityBody: `{"id":"1","username":"mozimo"}`,
		mediaCode:    http.StatusBadRequest,
		mediaBody:    `{"error":{"code":190}}`,
	}, ratelimit.Unlimited{}, nil)

	resp, body := s.get(t, "/api/feed")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var got ErrorResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "Instagram access token has expired", got.Error)
	assert.Equal(t, "TOKEN_EXPIRED", got.Code)
	assert.NotEmpty(t, got.Details)
	assert.EqualValues(t, 2, s.upstream.calls.Load())

	state := s.feedState(t)
	assert.Equal(t, feedclient.StatusFailed, state.Status)
	assert.True(t, state.TokenExpired)
	assert.Equal(t, feedclient.TokenExpiredMessage, state.Error)
}

func TestFeed_MediaWithoutData(t *testing.T) {
	s := newStack(t, "token", &upstream{
		identityBody: `{"id":"1","username":"mozimo"}`,
		mediaBody:    `{"paging":{}}`,
	}, ratelimit.Unlimited{}, nil)

	resp, body := s.get(t, "/api/feed")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Failed to fetch Instagram posts","details":"failed to decode media response"}`, string(body))

	state := s.feedState(t)
	assert.False(t, state.TokenExpired)
	assert.Equal(t, "Failed to fetch Instagram posts", state.Error)
}

func TestFeed_MissingToken(t *testing.T) {
	s := newStack(t, "", &upstream{}, ratelimit.Unlimited{}, nil)

	resp, body := s.get(t, "/api/feed")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Instagram access token not configured"}`, string(body))
	assert.Zero(t, s.upstream.calls.Load())
}

type brokenTransport struct{}

func (brokenTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestFeed_TransportFailure(t *testing.T) {
	s := newStack(t, "token", &upstream{}, ratelimit.Unlimited{}, &http.Client{Transport: brokenTransport{}})

	resp, body := s.get(t, "/api/feed")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var got ErrorResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "Failed to fetch Instagram posts", got.Error)
	assert.Contains(t, got.Details, "connection refused")
	assert.Empty(t, got.Code)

	state := s.feedState(t)
	assert.False(t, state.TokenExpired)
	assert.Equal(t, "Failed to fetch Instagram posts", state.Error)
}

func TestHomePageRendersLiveFeed(t *testing.T) {
	s := newStack(t, "token", &upstream{identityBody: `{"id":"1","username":"mozimo"}`, mediaBody: twoItems}, ratelimit.Unlimited{}, nil)

	resp, body := s.get(t, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "https://ig/p/101")
}

func TestRateLimit(t *testing.T) {
	s := newStack(t, "token", &upstream{identityBody: `{"id":"1"}`, mediaBody: `{"data":[]}`}, ratelimit.NewInMemoryLimiter(1, time.Hour, 1), nil)

	resp, _ := s.get(t, "/api/feed")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := s.get(t, "/api/feed")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.JSONEq(t, `{"error":"too many requests"}`, string(body))

	resp, _ = s.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestOperationalEndpoints(t *testing.T) {
	s := newStack(t, "token", &upstream{}, ratelimit.Unlimited{}, nil)

	resp, body := s.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, body = s.get(t, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestFeed_MethodNotAllowed(t *testing.T) {
	s := newStack(t, "token", &upstream{}, ratelimit.Unlimited{}, nil)

	resp, err := http.Post(s.server.URL+"/api/feed", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

type panickingFeed struct{}

func (panickingFeed) GetPosts(context.Context) ([]domain.Post, error) {
	panic("unexpected nil media")
}

func TestRecover(t *testing.T) {
	log := logger.New(logger.Opts{Output: io.Discard})
	h := Chain(NewFeedHandler(panickingFeed{}, log), Recover(log))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/feed", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch Instagram posts","details":"unexpected nil media"}`, rec.Body.String())
}

func TestRecover_AfterResponseStarted(t *testing.T) {
	log := logger.New(logger.Opts{Output: io.Discard})
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"posts":[`)
		panic("template exploded")
	}), Recover(log))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/feed", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"posts":[`, rec.Body.String())
}
