package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/domain"
	contentService "github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/service"
	feedbackDomain "github.com/reshetovitsme/movie-catalog-bot/internal/modules/feedback/domain"
	settingsRepo "github.com/reshetovitsme/movie-catalog-bot/internal/modules/settings/repository"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/config"
	sloghttp "github.com/samber/slog-http"
)

// Catalog is the content service as used by the site and the admin panel.
type Catalog interface {
	Home(ctx context.Context) (*contentService.Home, error)
	Shelf(ctx context.Context, slug string) (contentService.Shelf, []*domain.Content, error)
	Search(ctx context.Context, query string) ([]*domain.Content, error)
	ByBadge(ctx context.Context, badge string) ([]*domain.Content, error)
	ByGenre(ctx context.Context, genre string) ([]*domain.Content, error)
	Genres(ctx context.Context) ([]string, error)
	Detail(ctx context.Context, id string) (*domain.Content, []*domain.Content, error)
	Get(ctx context.Context, id string) (*domain.Content, error)
	All(ctx context.Context) ([]*domain.Content, error)
	Create(ctx context.Context, c *domain.Content) (*domain.Content, error)
	Update(ctx context.Context, c *domain.Content) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}

// Feedback stores contact form submissions.
type Feedback interface {
	Submit(ctx context.Context, f *feedbackDomain.Feedback) error
	List(ctx context.Context) ([]*feedbackDomain.Feedback, error)
	Delete(ctx context.Context, id string) error
}

// FeedGenerator builds the RSS feed of recent titles.
type FeedGenerator interface {
	GenerateFeed(ctx context.Context, baseURL string) (*feeds.Feed, error)
}

// TrailerSource finds a trailer for records stored without one.
type TrailerSource interface {
	Trailer(ctx context.Context, tmdbID int64, kind domain.ContentType) string
}

// Pinger checks the database connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of the HTTP server. Trailers, Webhook and DB may be nil.
type Deps struct {
	Catalog  Catalog
	Feedback Feedback
	Settings settingsRepo.Repository
	Feed     FeedGenerator
	Trailers TrailerSource
	Webhook  http.Handler
	DB       Pinger
}

// Server serves the catalog site, the admin panel and the bot webhook
type Server struct {
	cfg       *config.Config
	deps      Deps
	templates *template.Template
	logger    *slog.Logger
	server    *http.Server
}

// New creates a new HTTP server
func New(cfg *config.Config, deps Deps) (*Server, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:       cfg,
		deps:      deps,
		templates: templates,
		logger:    slog.Default(),
	}, nil
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Handler returns the routed handler wrapped in logging and recovery middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /movie/{id}", s.handleDetail)
	mux.HandleFunc("GET /watch/{id}", s.handleWatch)
	mux.HandleFunc("GET /badge/{name}", s.handleBadge)
	mux.HandleFunc("GET /genres", s.handleGenres)
	mux.HandleFunc("GET /genre/{name}", s.handleGenre)
	for _, shelf := range contentService.Shelves {
		mux.HandleFunc("GET /"+shelf.Slug, s.handleShelf(shelf.Slug))
	}
	mux.HandleFunc("GET /contact", s.handleContactForm)
	mux.HandleFunc("POST /contact", s.handleContactSubmit)

	mux.HandleFunc("GET /rss", s.handleRSSFeed)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.Handle("GET /admin", s.requireAdmin(s.handleAdmin))
	mux.Handle("POST /admin", s.requireAdmin(s.handleAdminCreate))
	mux.Handle("POST /admin/save_ads", s.requireAdmin(s.handleSaveAds))
	mux.Handle("POST /admin/delete_all", s.requireAdmin(s.handleDeleteAll))
	mux.Handle("GET /edit_movie/{id}", s.requireAdmin(s.handleEditForm))
	mux.Handle("POST /edit_movie/{id}", s.requireAdmin(s.handleEditSubmit))
	mux.Handle("POST /delete_movie/{id}", s.requireAdmin(s.handleDeleteContent))
	mux.Handle("POST /delete_feedback/{id}", s.requireAdmin(s.handleDeleteFeedback))

	if s.deps.Webhook != nil {
		mux.Handle("POST /webhook", s.deps.Webhook)
	}

	handler := sloghttp.Recovery(mux)
	return sloghttp.New(s.logger)(handler)
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("HTTP server starting", "addr", addr)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleRSSFeed(w http.ResponseWriter, r *http.Request) {
	feed, err := s.deps.Feed.GenerateFeed(r.Context(), s.baseURL(r))
	if err != nil {
		s.logger.Error("Error generating feed", "error", err)
		http.Error(w, "Failed to generate feed", http.StatusInternalServerError)
		return
	}

	rss, err := feed.ToRss()
	if err != nil {
		s.logger.Error("Error converting feed to RSS", "error", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rss))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.deps.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.DB.Ping(ctx); err != nil {
			s.logger.Error("Health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"degraded","database":"unreachable"}`))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// baseURL prefers the configured site URL so links in feeds stay canonical.
func (s *Server) baseURL(r *http.Request) string {
	if s.cfg.SiteURL != "" {
		return s.cfg.SiteURL
	}
	return fmt.Sprintf("%s://%s", getScheme(r), r.Host)
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
