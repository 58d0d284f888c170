package http

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/domain"
	settingsDomain "github.com/reshetovitsme/movie-catalog-bot/internal/modules/settings/domain"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/config"
	sharedErrors "github.com/reshetovitsme/movie-catalog-bot/internal/shared/errors"
	"github.com/samber/oops"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"join": strings.Join,
	// Ad snippets are entered by admins and rendered verbatim.
	"trusted": func(s string) template.HTML { return template.HTML(s) },
	"links":   formatLinks,
	"rating": func(r *float64) string {
		if r == nil {
			return ""
		}
		return fmt.Sprintf("%.1f", *r)
	},
	"startLink": func(bot, payload string) string {
		return fmt.Sprintf("https://t.me/%s?start=%s", strings.TrimPrefix(bot, "@"), payload)
	},
}

func parseTemplates() (*template.Template, error) {
	t, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, oops.With("context", "parsing templates").Wrap(err)
	}
	return t, nil
}

// page is the root value of every template.
type page struct {
	Title string
	Site  siteInfo
	Ads   *settingsDomain.AdSettings
	Data  any
}

type siteInfo struct {
	URL         string
	BotUsername string
	Links       config.ChannelLinks
}

// listing is the data of every grid page.
type listing struct {
	Heading string
	Items   []*domain.Content
	Badges  []string
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	ads, err := s.deps.Settings.Get(r.Context())
	if err != nil {
		s.logger.Warn("Failed to load ad settings", "error", err)
		ads = &settingsDomain.AdSettings{}
	}

	p := page{
		Title: title,
		Site: siteInfo{
			URL:         s.cfg.SiteURL,
			BotUsername: strings.TrimPrefix(s.cfg.BotUsername, "@"),
			Links:       s.cfg.Links,
		},
		Ads:  ads,
		Data: data,
	}

	var buf strings.Builder
	if err := s.templates.ExecuteTemplate(&buf, name, p); err != nil {
		s.logger.Error("Error rendering template", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(buf.String()))
}

// fail maps err to a not-found page or a 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, sharedErrors.ErrContentNotFound), errors.Is(err, sharedErrors.ErrInvalidID),
		errors.Is(err, sharedErrors.ErrFeedbackNotFound):
		http.Error(w, "Content not found.", http.StatusNotFound)
	default:
		s.logger.Error("Request failed", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// formatLinks renders links back into the "Label: URL, ..." form the parser accepts.
func formatLinks(links []domain.Link) string {
	parts := make([]string, 0, len(links))
	for _, l := range links {
		parts = append(parts, l.Label+": "+l.URL)
	}
	return strings.Join(parts, ", ")
}
