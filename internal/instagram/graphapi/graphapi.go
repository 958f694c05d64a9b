package graphapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/orgball2608/mozimo-site/internal/domain"
	"github.com/orgball2608/mozimo-site/internal/instagram"
	"github.com/orgball2608/mozimo-site/internal/metrics"
	"github.com/orgball2608/mozimo-site/pkg/config"
	apperrors "github.com/orgball2608/mozimo-site/pkg/errors"
	"github.com/orgball2608/mozimo-site/pkg/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/fx"
)

const (
	identityFields = "id,username"
	mediaFields    = "id,caption,media_type,media_url,thumbnail_url,permalink,timestamp"

	tracerName   = "github.com/orgball2608/mozimo-site/internal/instagram/graphapi"
	maxErrorBody = 64 << 10
)

type Opts struct {
	fx.In

	Config     *config.Config
	Logger     logger.Logger
	HTTPClient *http.Client `optional:"true"`
}

// GraphAPI talks to the Instagram Graph API. It holds no per-account state;
// the access token travels with every call.
type GraphAPI struct {
	baseURL string
	http    *http.Client
	logger  logger.Logger
}

var _ instagram.Client = (*GraphAPI)(nil)

var errNoMediaData = apperrors.New("media response has no data field")

func New(opts Opts) *GraphAPI {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   opts.Config.Instagram.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	return &GraphAPI{
		baseURL: strings.TrimRight(opts.Config.Instagram.GraphURL, "/"),
		http:    httpClient,
		logger:  opts.Logger.WithComponent("InstagramGraphAPI"),
	}
}

func (g *GraphAPI) GetIdentity(ctx context.Context, token string) (domain.Identity, error) {
	var identity domain.Identity
	query := url.Values{"fields": {identityFields}}

	err := g.get(ctx, "identity", "/me", query, token, "Failed to authenticate with Instagram", &identity)
	if err != nil {
		return domain.Identity{}, err
	}

	g.logger.Debug("Resolved Instagram identity", "id", identity.ID, "username", identity.Username)
	return identity, nil
}

func (g *GraphAPI) GetRecentMedia(ctx context.Context, token string, limit int) ([]domain.MediaItem, error) {
	var page struct {
		Data *[]domain.MediaItem `json:"data"`
	}
	query := url.Values{
		"fields": {mediaFields},
		"limit":  {strconv.Itoa(limit)},
	}

	if err := g.get(ctx, "media", "/me/media", query, token, "Failed to fetch Instagram posts", &page); err != nil {
		return nil, err
	}
	if page.Data == nil {
		g.logger.Error("Instagram media response has no data field")
		return nil, apperrors.Wrap(errNoMediaData, "failed to decode media response")
	}

	g.logger.Debug("Fetched Instagram media", "count", len(*page.Data))
	return *page.Data, nil
}

// get performs one GET against the Graph API and decodes a 2xx body into out.
// Non-2xx responses are classified into ErrTokenExpired or ErrUpstream with
// failure as the user-facing message. Transport errors are returned as they
// are so their text reaches the response details.
func (g *GraphAPI) get(ctx context.Context, op, path string, query url.Values, token, failure string, out any) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "instagram."+op)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := g.http.Do(req)
	if err != nil {
		metrics.ObserveUpstream(op, "error", time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		g.logger.Error("Instagram request failed", "operation", op, "error", err)
		return err
	}
	defer resp.Body.Close()

	metrics.ObserveUpstream(op, strconv.Itoa(resp.StatusCode), time.Since(start))
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		span.SetStatus(codes.Error, resp.Status)
		g.logger.Error("Instagram returned an error response",
			"operation", op,
			"status", resp.StatusCode,
			"body", string(body))

		if IsTokenExpired(body) {
			return apperrors.WrapWithCode(apperrors.ErrTokenExpired, apperrors.CodeTokenExpired, "Instagram access token has expired")
		}
		return apperrors.WrapWithCode(apperrors.ErrUpstream, apperrors.CodeUpstream, failure)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		span.RecordError(err)
		return apperrors.Wrap(err, fmt.Sprintf("failed to decode %s response", op))
	}

	return nil
}
