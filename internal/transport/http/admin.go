package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/domain"
	feedbackDomain "github.com/reshetovitsme/movie-catalog-bot/internal/modules/feedback/domain"
	settingsDomain "github.com/reshetovitsme/movie-catalog-bot/internal/modules/settings/domain"
)

type adminPage struct {
	Content  []*domain.Content
	Feedback []*feedbackDomain.Feedback
	Settings *settingsDomain.AdSettings
	Error    string
}

type editPage struct {
	Content *domain.Content
	Error   string
}

// requireAdmin guards next with HTTP basic auth against the configured credentials.
func (s *Server) requireAdmin(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(s.cfg.AdminUsername)) != 1 ||
			subtle.ConstantTimeCompare([]byte(pass), []byte(s.cfg.AdminPassword)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="Login Required"`)
			http.Error(w, "Could not verify your access level for that URL.", http.StatusUnauthorized)
			return
		}
		next(w, r)
	})
}

func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	s.renderAdmin(w, r, http.StatusOK, "")
}

func (s *Server) renderAdmin(w http.ResponseWriter, r *http.Request, status int, formError string) {
	ctx := r.Context()
	items, err := s.deps.Catalog.All(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	feedback, err := s.deps.Feedback.List(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ads, err := s.deps.Settings.Get(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	data := adminPage{Content: items, Feedback: feedback, Settings: ads, Error: formError}
	s.render(w, r, status, "admin.html", "Admin Panel", data)
}

func (s *Server) handleAdminCreate(w http.ResponseWriter, r *http.Request) {
	c := &domain.Content{}
	if err := contentFromForm(r, c); err != nil {
		s.renderAdmin(w, r, http.StatusBadRequest, err.Error())
		return
	}

	stored, err := s.deps.Catalog.Create(r.Context(), c)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("Content created from admin panel", "content_id", stored.IDHex(), "title", stored.Title)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) handleSaveAds(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ads := &settingsDomain.AdSettings{
		PopunderCode:     r.PostForm.Get("popunder_code"),
		SocialBarCode:    r.PostForm.Get("social_bar_code"),
		BannerAdCode:     r.PostForm.Get("banner_ad_code"),
		NativeBannerCode: r.PostForm.Get("native_banner_code"),
	}
	if err := s.deps.Settings.Save(r.Context(), ads); err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil || r.PostForm.Get("confirm") != "DELETE" {
		s.renderAdmin(w, r, http.StatusBadRequest, `Type DELETE to confirm wiping the catalog.`)
		return
	}

	if _, err := s.deps.Catalog.DeleteAll(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	c, err := s.deps.Catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "edit.html", "Edit "+c.Title, editPage{Content: c})
}

func (s *Server) handleEditSubmit(w http.ResponseWriter, r *http.Request) {
	c, err := s.deps.Catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if err := contentFromForm(r, c); err != nil {
		s.render(w, r, http.StatusBadRequest, "edit.html", "Edit "+c.Title, editPage{Content: c, Error: err.Error()})
		return
	}
	if err := s.deps.Catalog.Update(r.Context(), c); err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) handleDeleteContent(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Catalog.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) handleDeleteFeedback(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Feedback.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}
