package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"

	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/domain"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/config"
)

type fakeTMDB struct {
	mu       sync.Mutex
	searches []string
	results  map[string][]int64 // "year" -> ids, "" for no year
	status   int
}

func (f *fakeTMDB) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(v); err != nil {
			t.Errorf("encode: %v", err)
		}
	}

	search := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "test-key" {
			t.Errorf("missing api key on %s", r.URL)
		}
		year := r.URL.Query().Get("primary_release_year") + r.URL.Query().Get("first_air_date_year")

		f.mu.Lock()
		f.searches = append(f.searches, r.URL.Path+"?"+year)
		f.mu.Unlock()

		if f.status != 0 {
			w.WriteHeader(f.status)
			return
		}
		var results []map[string]any
		for _, id := range f.results[year] {
			results = append(results, map[string]any{"id": id})
		}
		writeJSON(w, map[string]any{"results": results})
	}
	mux.HandleFunc("GET /search/movie", search)
	mux.HandleFunc("GET /search/tv", search)

	mux.HandleFunc("GET /movie/42", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("append_to_response") != "videos" {
			t.Errorf("detail request without videos: %s", r.URL)
		}
		writeJSON(w, map[string]any{
			"id":           42,
			"title":        "Metadata Title",
			"poster_path":  "/p.jpg",
			"overview":     "Plot.",
			"release_date": "2019-03-01",
			"vote_average": 7.5,
			"genres":       []map[string]any{{"name": "Drama"}, {"name": ""}},
			"spoken_languages": []map[string]any{
				{"english_name": "English", "name": "English"},
				{"english_name": "", "name": "Hindi"},
			},
			"videos": map[string]any{"results": []map[string]any{
				{"key": "teaser", "site": "YouTube", "type": "Teaser"},
				{"key": "yt1", "site": "YouTube", "type": "Trailer"},
			}},
		})
	})

	mux.HandleFunc("GET /tv/7", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"id":             7,
			"name":           "Show Name",
			"first_air_date": "2021-01-10",
		})
	})

	mux.HandleFunc("GET /tv/7/videos", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"results": []map[string]any{
			{"key": "vimeo", "site": "Vimeo", "type": "Trailer"},
			{"key": "tv-trailer", "site": "YouTube", "type": "Trailer"},
		}})
	})
	return mux
}

func (f *fakeTMDB) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searches...)
}

func newTestClient(t *testing.T, fake *fakeTMDB) *Client {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	c := New(&config.Config{
		TMDBAPIURL:   srv.URL,
		TMDBAPIKey:   "test-key",
		TMDBImageURL: "https://img.example",
	})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestLookupRetriesWithoutYear(t *testing.T) {
	fake := &fakeTMDB{results: map[string][]int64{"": {42, 43}}}
	c := newTestClient(t, fake)

	meta, ok := c.Lookup(context.Background(), "Movie Name", domain.ContentTypeMovie, "2020")
	if !ok {
		t.Fatal("expected a match after retrying without year")
	}

	wantSearches := []string{"/search/movie?2020", "/search/movie?"}
	if !reflect.DeepEqual(fake.calls(), wantSearches) {
		t.Errorf("searches = %v, want %v", fake.calls(), wantSearches)
	}

	if meta.TMDBID != 42 {
		t.Errorf("TMDBID = %d, want top match 42", meta.TMDBID)
	}
	if meta.Poster != "https://img.example/p.jpg" {
		t.Errorf("Poster = %q", meta.Poster)
	}
	if meta.TrailerKey != "yt1" {
		t.Errorf("TrailerKey = %q", meta.TrailerKey)
	}
	if !reflect.DeepEqual(meta.Genres, []string{"Drama"}) {
		t.Errorf("Genres = %v", meta.Genres)
	}
	if !reflect.DeepEqual(meta.Languages, []string{"English", "Hindi"}) {
		t.Errorf("Languages = %v", meta.Languages)
	}
	if meta.Rating == nil || *meta.Rating != 7.5 {
		t.Errorf("Rating = %v", meta.Rating)
	}
	if meta.ReleaseDate != "2019-03-01" {
		t.Errorf("ReleaseDate = %q", meta.ReleaseDate)
	}
}

func TestLookupNoYearSearchesOnce(t *testing.T) {
	fake := &fakeTMDB{results: map[string][]int64{}}
	c := newTestClient(t, fake)

	if _, ok := c.Lookup(context.Background(), "Nothing", domain.ContentTypeMovie, ""); ok {
		t.Fatal("expected not found")
	}
	if len(fake.calls()) != 1 {
		t.Errorf("searches = %v, want exactly one", fake.calls())
	}
}

func TestLookupNotFoundAfterRetry(t *testing.T) {
	fake := &fakeTMDB{results: map[string][]int64{}}
	c := newTestClient(t, fake)

	if _, ok := c.Lookup(context.Background(), "Nothing", domain.ContentTypeMovie, "1999"); ok {
		t.Fatal("expected not found")
	}
	if len(fake.calls()) != 2 {
		t.Errorf("searches = %v, want two", fake.calls())
	}
}

func TestLookupUpstreamFailureIsNotFound(t *testing.T) {
	fake := &fakeTMDB{status: http.StatusInternalServerError}
	c := newTestClient(t, fake)

	if meta, ok := c.Lookup(context.Background(), "Movie", domain.ContentTypeMovie, "2020"); ok || meta != nil {
		t.Fatalf("Lookup() = %v, %v; want not found", meta, ok)
	}
	if len(fake.calls()) != 1 {
		t.Errorf("failed search must not be retried, searches = %v", fake.calls())
	}
}

func TestLookupSeries(t *testing.T) {
	fake := &fakeTMDB{results: map[string][]int64{"2021": {7}}}
	c := newTestClient(t, fake)

	meta, ok := c.Lookup(context.Background(), "Show Name", domain.ContentTypeSeries, "2021")
	if !ok {
		t.Fatal("expected series match")
	}
	if calls := fake.calls(); calls[0] != "/search/tv?2021" {
		t.Errorf("search = %q", calls[0])
	}
	if meta.Title != "Show Name" || meta.ReleaseDate != "2021-01-10" {
		t.Errorf("meta = %+v", meta)
	}
	if meta.Poster != "" {
		t.Errorf("Poster = %q, want empty without poster_path", meta.Poster)
	}
}

func TestTrailer(t *testing.T) {
	c := newTestClient(t, &fakeTMDB{})

	if key := c.Trailer(context.Background(), 7, domain.ContentTypeSeries); key != "tv-trailer" {
		t.Errorf("Trailer() = %q", key)
	}
	if key := c.Trailer(context.Background(), 0, domain.ContentTypeSeries); key != "" {
		t.Errorf("Trailer(0) = %q", key)
	}
	if key := c.Trailer(context.Background(), 99, domain.ContentTypeMovie); key != "" {
		t.Errorf("Trailer(missing) = %q", key)
	}
}
