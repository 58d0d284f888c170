package service

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/domain"
	metaDomain "github.com/reshetovitsme/movie-catalog-bot/internal/modules/metadata/domain"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/config"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/metrics"
	"github.com/samber/lo"
	"github.com/samber/oops"
	"resty.dev/v3"
)

const requestTimeout = 5 * time.Second

// Client looks titles up in TMDB.
type Client struct {
	http     *resty.Client
	apiKey   string
	imageURL string
}

type searchResponse struct {
	Results []struct {
		ID int64 `json:"id"`
	} `json:"results"`
}

type detailResponse struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Name         string     `json:"name"`
	PosterPath   string     `json:"poster_path"`
	Overview     string     `json:"overview"`
	ReleaseDate  string     `json:"release_date"`
	FirstAirDate string     `json:"first_air_date"`
	VoteAverage  *float64   `json:"vote_average"`
	Genres       []genre    `json:"genres"`
	Languages    []language `json:"spoken_languages"`
	Videos       videoList  `json:"videos"`
}

type genre struct {
	Name string `json:"name"`
}

type language struct {
	EnglishName string `json:"english_name"`
	Name        string `json:"name"`
}

type videoList struct {
	Results []struct {
		Key  string `json:"key"`
		Site string `json:"site"`
		Type string `json:"type"`
	} `json:"results"`
}

// New creates a new TMDB client
func New(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.TMDBAPIURL).
		SetTimeout(requestTimeout)

	return &Client{
		http:     client,
		apiKey:   cfg.TMDBAPIKey,
		imageURL: cfg.TMDBImageURL,
	}
}

// Close releases idle connections.
func (c *Client) Close() error {
	return c.http.Close()
}

// Lookup searches by title and returns the details of the top match.
// A search with a year that finds nothing is retried once without the year.
// Upstream failures are logged and reported as not found.
func (c *Client) Lookup(ctx context.Context, title string, kind domain.ContentType, year string) (*metaDomain.Metadata, bool) {
	id, err := c.search(ctx, title, kind, year)
	if err == nil && id == 0 && year != "" {
		slog.Debug("No metadata match with year, retrying without", "title", title, "year", year)
		id, err = c.search(ctx, title, kind, "")
	}
	if err != nil {
		metrics.MetadataLookups.WithLabelValues("error").Inc()
		slog.Warn("Metadata search failed", "title", title, "type", kind, "error", err)
		return nil, false
	}
	if id == 0 {
		metrics.MetadataLookups.WithLabelValues("not_found").Inc()
		return nil, false
	}

	detail, err := c.detail(ctx, id, kind)
	if err != nil {
		metrics.MetadataLookups.WithLabelValues("error").Inc()
		slog.Warn("Metadata detail failed", "tmdb_id", id, "type", kind, "error", err)
		return nil, false
	}

	metrics.MetadataLookups.WithLabelValues("found").Inc()
	return c.normalize(detail, kind), true
}

// Trailer returns the YouTube key of the first trailer, or empty.
func (c *Client) Trailer(ctx context.Context, tmdbID int64, kind domain.ContentType) string {
	if tmdbID == 0 {
		return ""
	}

	var videos videoList
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("type", mediaType(kind)).
		SetPathParam("id", strconv.FormatInt(tmdbID, 10)).
		SetQueryParam("api_key", c.apiKey).
		SetResult(&videos).
		Get("/{type}/{id}/videos")
	if err != nil {
		slog.Warn("Trailer lookup failed", "tmdb_id", tmdbID, "error", err)
		return ""
	}
	if resp.IsError() {
		slog.Warn("Trailer lookup failed", "tmdb_id", tmdbID, "status", resp.StatusCode())
		return ""
	}
	return videos.trailerKey()
}

func (c *Client) search(ctx context.Context, title string, kind domain.ContentType, year string) (int64, error) {
	params := map[string]string{
		"api_key": c.apiKey,
		"query":   title,
	}
	if year != "" {
		if kind == domain.ContentTypeSeries {
			params["first_air_date_year"] = year
		} else {
			params["primary_release_year"] = year
		}
	}

	var result searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("type", mediaType(kind)).
		SetQueryParams(params).
		SetResult(&result).
		Get("/search/{type}")
	if err != nil {
		return 0, oops.With("title", title).Wrap(err)
	}
	if resp.IsError() {
		return 0, oops.With("title", title, "status", resp.StatusCode()).Errorf("search returned %d", resp.StatusCode())
	}
	if len(result.Results) == 0 {
		return 0, nil
	}
	return result.Results[0].ID, nil
}

func (c *Client) detail(ctx context.Context, id int64, kind domain.ContentType) (*detailResponse, error) {
	var result detailResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("type", mediaType(kind)).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		SetQueryParams(map[string]string{
			"api_key":            c.apiKey,
			"append_to_response": "videos",
		}).
		SetResult(&result).
		Get("/{type}/{id}")
	if err != nil {
		return nil, oops.With("tmdb_id", id).Wrap(err)
	}
	if resp.IsError() {
		return nil, oops.With("tmdb_id", id, "status", resp.StatusCode()).Errorf("detail returned %d", resp.StatusCode())
	}
	if result.ID == 0 {
		result.ID = id
	}
	return &result, nil
}

func (c *Client) normalize(d *detailResponse, kind domain.ContentType) *metaDomain.Metadata {
	m := &metaDomain.Metadata{
		TMDBID:      d.ID,
		Title:       d.Title,
		Overview:    d.Overview,
		ReleaseDate: d.ReleaseDate,
		Rating:      d.VoteAverage,
		TrailerKey:  d.Videos.trailerKey(),
	}
	if kind == domain.ContentTypeSeries {
		m.Title = d.Name
		m.ReleaseDate = d.FirstAirDate
	}
	if d.PosterPath != "" {
		m.Poster = c.imageURL + d.PosterPath
	}

	m.Genres = lo.FilterMap(d.Genres, func(g genre, _ int) (string, bool) {
		return g.Name, g.Name != ""
	})
	m.Languages = lo.FilterMap(d.Languages, func(l language, _ int) (string, bool) {
		name := lo.Ternary(l.EnglishName != "", l.EnglishName, l.Name)
		return name, name != ""
	})
	return m
}

func (v videoList) trailerKey() string {
	for _, video := range v.Results {
		if video.Type == "Trailer" && video.Site == "YouTube" {
			return video.Key
		}
	}
	return ""
}

func mediaType(kind domain.ContentType) string {
	if kind == domain.ContentTypeSeries {
		return "tv"
	}
	return "movie"
}
