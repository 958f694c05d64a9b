package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/orgball2608/mozimo-site/internal/feedclient"
	"github.com/orgball2608/mozimo-site/internal/feedview"
	"github.com/orgball2608/mozimo-site/internal/ratelimit"
	"github.com/orgball2608/mozimo-site/pkg/config"
	"github.com/orgball2608/mozimo-site/pkg/logger"
	"go.uber.org/fx"
)

//go:embed templates/*.html
var templatesFS embed.FS

var (
	banners    = []string{"Single origin, bean to bar", "Made in India"}
	categories = []string{"Bars", "Spreads", "Bonbons", "Gifting"}
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type Site struct {
	templates *template.Template
	feed      *feedclient.Client
	feedWait  time.Duration
	logger    logger.Logger
}

type page struct {
	Title string
}

type homePage struct {
	page
	Banners    []string
	Categories []string
	Social     feedview.View
}

func New(opts Opts) (*Site, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	log := opts.Logger.WithComponent("Site")
	return &Site{
		templates: tmpl,
		feed: feedclient.New(feedclient.Opts{
			Endpoint: opts.Config.FeedEndpoint(),
			Logger:   log,
		}),
		feedWait: opts.Config.Site.FeedWait,
		logger:   log,
	}, nil
}

func (s *Site) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.home)
	mux.HandleFunc("GET /about", s.about)
}

func (s *Site) home(w http.ResponseWriter, r *http.Request) {
	header := http.Header{}
	header.Set("X-Forwarded-For", ratelimit.ClientKey(r))

	feed := s.feed.Mount(r.Context(), header)
	defer feed.Unmount()

	settled := make(chan feedclient.State, 1)
	unsubscribe := feed.Subscribe(func(state feedclient.State) {
		if state.Settled() {
			settled <- state
		}
	})
	defer unsubscribe()

	timer := time.NewTimer(s.feedWait)
	defer timer.Stop()

	var state feedclient.State
	select {
	case state = <-settled:
	case <-timer.C:
		s.logger.Debug("Feed not ready in time, rendering placeholders")
		state = feed.State()
	case <-r.Context().Done():
		return
	}

	s.render(w, "home", homePage{
		page:       page{Title: "Mozimo Chocolate"},
		Banners:    banners,
		Categories: categories,
		Social:     feedview.Select(state),
	})
}

func (s *Site) about(w http.ResponseWriter, r *http.Request) {
	s.render(w, "about", page{Title: "About | Mozimo Chocolate"})
}

func (s *Site) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("Failed to render page", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
