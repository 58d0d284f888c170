package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/domain"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/parser"
	"github.com/samber/oops"
)

// contentFromForm applies the admin content form to c. Uploaded file
// references are not editable and survive an edit of a movie.
func contentFromForm(r *http.Request, c *domain.Content) error {
	if err := r.ParseForm(); err != nil {
		return oops.Wrapf(err, "invalid form")
	}
	form := r.PostForm

	title := strings.TrimSpace(form.Get("title"))
	if title == "" {
		return oops.Errorf("title is required")
	}

	contentType := domain.ContentTypeMovie
	if raw := strings.TrimSpace(form.Get("content_type")); raw != "" {
		parsed, err := domain.ParseContentType(raw)
		if err != nil {
			return oops.Errorf("unknown content type %q", raw)
		}
		contentType = parsed
	}

	c.Title = title
	c.Type = contentType
	c.Poster = strings.TrimSpace(form.Get("poster"))
	c.Overview = strings.TrimSpace(form.Get("overview"))
	c.Genres = domain.CleanStrings(strings.Split(form.Get("genres"), ","))
	c.Badge = strings.TrimSpace(form.Get("poster_badge"))
	c.IsTrending = checked(form.Get("is_trending"))
	c.IsComing = checked(form.Get("is_coming_soon"))

	if contentType == domain.ContentTypeMovie {
		c.WatchLinks = parser.ParseLinks(form.Get("watch_links"))
		c.DownloadLinks = parser.ParseLinks(form.Get("download_links"))
		return nil
	}

	episodes, err := episodeRows(r)
	if err != nil {
		return err
	}
	packs, err := seasonPackRows(r)
	if err != nil {
		return err
	}
	c.Episodes = domain.PutEpisodes(nil, episodes...)
	c.SeasonPacks = domain.PutSeasonPacks(nil, packs...)
	return nil
}

func checked(v string) bool {
	return v == "true" || v == "on"
}

// column returns the i-th value of a repeated form field, or "" when missing.
func column(r *http.Request, name string, i int) string {
	values := r.PostForm[name]
	if i >= len(values) {
		return ""
	}
	return strings.TrimSpace(values[i])
}

func episodeRows(r *http.Request) ([]domain.Episode, error) {
	var episodes []domain.Episode
	for i := range r.PostForm["episode_season[]"] {
		seasonRaw, numberRaw := column(r, "episode_season[]", i), column(r, "episode_number[]", i)
		if seasonRaw == "" && numberRaw == "" {
			continue
		}
		season, err1 := strconv.Atoi(seasonRaw)
		number, err2 := strconv.Atoi(numberRaw)
		if err1 != nil || err2 != nil || season < 0 || number < 0 {
			return nil, oops.Errorf("episode row %d: season and episode must be numbers", i+1)
		}
		messageID, _ := strconv.Atoi(column(r, "episode_message_id[]", i))

		episodes = append(episodes, domain.Episode{
			Season:        season,
			Number:        number,
			Title:         column(r, "episode_title[]", i),
			WatchLinks:    parser.ParseLinks(column(r, "episode_watch_links[]", i)),
			DownloadLinks: parser.ParseLinks(column(r, "episode_download_links[]", i)),
			MessageID:     messageID,
		})
	}
	return episodes, nil
}

func seasonPackRows(r *http.Request) ([]domain.SeasonPack, error) {
	var packs []domain.SeasonPack
	for i := range r.PostForm["pack_season[]"] {
		seasonRaw := column(r, "pack_season[]", i)
		if seasonRaw == "" {
			continue
		}
		season, err := strconv.Atoi(seasonRaw)
		if err != nil || season < 0 {
			return nil, oops.Errorf("season pack row %d: season must be a number", i+1)
		}
		messageID, _ := strconv.Atoi(column(r, "pack_message_id[]", i))

		packs = append(packs, domain.SeasonPack{
			Season:        season,
			WatchLinks:    parser.ParseLinks(column(r, "pack_watch_links[]", i)),
			DownloadLinks: parser.ParseLinks(column(r, "pack_download_links[]", i)),
			MessageID:     messageID,
		})
	}
	return packs, nil
}
