package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/domain"
	feedbackDomain "github.com/reshetovitsme/movie-catalog-bot/internal/modules/feedback/domain"
	feedbackService "github.com/reshetovitsme/movie-catalog-bot/internal/modules/feedback/service"
)

type detailPage struct {
	Content *domain.Content
	Related []*domain.Content
	Trailer string
}

type watchPage struct {
	Content *domain.Content
	Heading string
	Links   []domain.Link
}

type contactPage struct {
	Sent       bool
	Error      string
	Category   string
	Title      string
	ReportID   string
	Categories []string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		items, err := s.deps.Catalog.Search(r.Context(), q)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		heading := fmt.Sprintf("Results for %q", q)
		s.render(w, r, http.StatusOK, "list.html", heading, listing{Heading: heading, Items: items})
		return
	}

	home, err := s.deps.Catalog.Home(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "index.html", "Home", home)
}

func (s *Server) handleShelf(slug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shelf, items, err := s.deps.Catalog.Shelf(r.Context(), slug)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.render(w, r, http.StatusOK, "list.html", shelf.Title, listing{Heading: shelf.Title, Items: items})
	}
}

func (s *Server) handleBadge(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	items, err := s.deps.Catalog.ByBadge(r.Context(), name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "list.html", name, listing{Heading: name, Items: items})
}

func (s *Server) handleGenre(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	items, err := s.deps.Catalog.ByGenre(r.Context(), name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "list.html", name, listing{Heading: name, Items: items})
}

func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.deps.Catalog.Genres(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "genres.html", "Browse by Genre", genres)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	c, related, err := s.deps.Catalog.Detail(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	trailer := c.TrailerKey
	if trailer == "" && c.TMDBID != 0 && s.deps.Trailers != nil {
		trailer = s.deps.Trailers.Trailer(r.Context(), c.TMDBID, c.Type)
	}
	s.render(w, r, http.StatusOK, "detail.html", c.Title, detailPage{Content: c, Related: related, Trailer: trailer})
}

// handleWatch lists the watch links of a movie, or of one episode when
// season and episode are given.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	c, err := s.deps.Catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	data := watchPage{Content: c, Heading: c.Title, Links: c.WatchLinks}
	if c.IsSeries() {
		season, err1 := strconv.Atoi(r.URL.Query().Get("season"))
		number, err2 := strconv.Atoi(r.URL.Query().Get("episode"))
		ep, ok := c.FindEpisode(season, number)
		if err1 != nil || err2 != nil || !ok {
			http.Error(w, "Content not found.", http.StatusNotFound)
			return
		}
		data.Heading = fmt.Sprintf("%s S%02dE%02d", c.Title, season, number)
		data.Links = ep.WatchLinks
	}

	if len(data.Links) == 0 {
		http.Error(w, "Content not found.", http.StatusNotFound)
		return
	}
	s.render(w, r, http.StatusOK, "watch.html", data.Heading, data)
}

func (s *Server) handleContactForm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := contactPage{
		Title:      q.Get("title"),
		ReportID:   q.Get("report_id"),
		Category:   feedbackDomain.FeedbackCategoryMovieRequest.String(),
		Categories: feedbackDomain.FeedbackCategoryNames(),
	}
	if data.ReportID != "" {
		data.Category = feedbackDomain.FeedbackCategoryProblemReport.String()
	}
	s.render(w, r, http.StatusOK, "contact.html", "Contact Us", data)
}

func (s *Server) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	f := &feedbackDomain.Feedback{
		Category:          feedbackService.ParseCategory(r.PostForm.Get("type")),
		ContentTitle:      r.PostForm.Get("content_title"),
		Message:           r.PostForm.Get("message"),
		Email:             r.PostForm.Get("email"),
		ReportedContentID: r.PostForm.Get("reported_content_id"),
	}
	if err := s.deps.Feedback.Submit(r.Context(), f); err != nil {
		s.logger.Warn("Feedback rejected", "error", err)
		data := contactPage{
			Error:      "Please tell us the title or write a message.",
			Category:   f.Category.String(),
			Title:      f.ContentTitle,
			ReportID:   f.ReportedContentID,
			Categories: feedbackDomain.FeedbackCategoryNames(),
		}
		s.render(w, r, http.StatusBadRequest, "contact.html", "Contact Us", data)
		return
	}
	s.render(w, r, http.StatusOK, "contact.html", "Contact Us", contactPage{Sent: true})
}
