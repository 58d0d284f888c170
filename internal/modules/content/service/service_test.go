package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	announceDomain "github.com/reshetovitsme/movie-catalog-bot/internal/modules/announce/domain"
	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/domain"
	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/repository"
	metaDomain "github.com/reshetovitsme/movie-catalog-bot/internal/modules/metadata/domain"
	sharedErrors "github.com/reshetovitsme/movie-catalog-bot/internal/shared/errors"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/parser"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memRepo is an in-memory repository.Repository.
type memRepo struct {
	mu    sync.Mutex
	items []*domain.Content
}

func (r *memRepo) clone(c *domain.Content) *domain.Content {
	cp := *c
	return &cp
}

func (r *memRepo) byID(id string) (*domain.Content, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, sharedErrors.ErrInvalidID
	}
	for _, c := range r.items {
		if c.ID == oid {
			return c, nil
		}
	}
	return nil, sharedErrors.ErrContentNotFound
}

func (r *memRepo) Insert(_ context.Context, c *domain.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.Normalize()
	c.ID = primitive.NewObjectID()
	r.items = append(r.items, r.clone(c))
	return nil
}

func (r *memRepo) Get(_ context.Context, id string) (*domain.Content, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, err := r.byID(id)
	if err != nil {
		return nil, err
	}
	return r.clone(c), nil
}

func (r *memRepo) Update(_ context.Context, c *domain.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, err := r.byID(c.IDHex())
	if err != nil {
		return err
	}
	c.Normalize()
	*stored = *r.clone(c)
	return nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.items {
		if c.IDHex() == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return sharedErrors.ErrContentNotFound
}

func (r *memRepo) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.items))
	r.items = nil
	return n, nil
}

func (r *memRepo) IncrementViews(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, err := r.byID(id)
	if err != nil {
		return err
	}
	c.Views++
	return nil
}

func (r *memRepo) List(_ context.Context, f repository.Filter) ([]*domain.Content, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Content
	for i := len(r.items) - 1; i >= 0; i-- {
		c := r.items[i]
		switch {
		case f.Type != "" && c.Type != f.Type,
			f.Trending && !c.IsTrending,
			f.ComingSoon != nil && c.IsComing != *f.ComingSoon,
			f.Badge != "" && c.Badge != f.Badge,
			f.TitleQuery != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(f.TitleQuery)):
			continue
		}
		out = append(out, r.clone(c))
		if f.Limit > 0 && int64(len(out)) == f.Limit {
			break
		}
	}
	return out, nil
}

func (r *memRepo) Related(_ context.Context, _ *domain.Content, _ int64) ([]*domain.Content, error) {
	return nil, nil
}

func (r *memRepo) DistinctBadges(_ context.Context) ([]string, error) { return nil, nil }
func (r *memRepo) DistinctGenres(_ context.Context) ([]string, error) { return nil, nil }

func (r *memRepo) FindSeriesByTitle(_ context.Context, title string) (*domain.Content, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if c.IsSeries() && strings.EqualFold(c.Title, title) {
			return r.clone(c), nil
		}
	}
	return nil, sharedErrors.ErrContentNotFound
}

func (r *memRepo) FindByTMDB(_ context.Context, tmdbID int64, t domain.ContentType) (*domain.Content, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if c.TMDBID == tmdbID && c.Type == t {
			return r.clone(c), nil
		}
	}
	return nil, sharedErrors.ErrContentNotFound
}

func (r *memRepo) UpsertByTMDB(_ context.Context, c *domain.Content) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.TMDBID == c.TMDBID && existing.Type == c.Type {
			return false, nil
		}
	}
	c.Normalize()
	c.ID = primitive.NewObjectID()
	r.items = append(r.items, r.clone(c))
	return true, nil
}

func (r *memRepo) PutEpisode(_ context.Context, id string, ep domain.Episode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, err := r.byID(id)
	if err != nil {
		return err
	}
	c.Episodes = domain.PutEpisodes(c.Episodes, ep)
	return nil
}

func (r *memRepo) PutSeasonPack(_ context.Context, id string, pack domain.SeasonPack) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, err := r.byID(id)
	if err != nil {
		return err
	}
	c.SeasonPacks = domain.PutSeasonPacks(c.SeasonPacks, pack)
	return nil
}

func (r *memRepo) PutFile(_ context.Context, id string, file domain.TelegramFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, err := r.byID(id)
	if err != nil {
		return err
	}
	c.Files = domain.PutFiles(c.Files, file)
	return nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// fakeLookup resolves titles from a fixed table keyed by lower-cased title.
type fakeLookup struct {
	byTitle map[string]*metaDomain.Metadata
	calls   int
}

func (f *fakeLookup) Lookup(_ context.Context, title string, _ domain.ContentType, _ string) (*metaDomain.Metadata, bool) {
	f.calls++
	m, ok := f.byTitle[strings.ToLower(title)]
	return m, ok
}

type post struct {
	contentID string
	kind      announceDomain.PostKind
	season    int
}

type fakeAnnouncer struct {
	posts []post
	err   error
}

func (f *fakeAnnouncer) Publish(_ context.Context, contentID string, kind announceDomain.PostKind, season int) error {
	f.posts = append(f.posts, post{contentID, kind, season})
	return f.err
}

func newTestService() (*Service, *memRepo, *fakeLookup, *fakeAnnouncer) {
	repo := &memRepo{}
	lookup := &fakeLookup{byTitle: map[string]*metaDomain.Metadata{
		"show name":  {TMDBID: 5, Title: "Show Name (TMDB)", Genres: []string{"Drama"}, Languages: []string{"English"}},
		"the show":   {TMDBID: 5, Title: "Show Name (TMDB)"},
		"movie name": {TMDBID: 9, Title: "Movie Name", ReleaseDate: "2020-01-01", Poster: "https://img/p.jpg"},
	}}
	announcer := &fakeAnnouncer{}
	return New(repo, lookup, announcer), repo, lookup, announcer
}

func TestAttachEpisodeTwiceKeepsLastLinks(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()
	info := parser.ParseTitle("Show Name (2020)")

	first := domain.Episode{Season: 1, Number: 1, WatchLinks: parser.ParseLinks("Hindi: a")}
	second := domain.Episode{Season: 1, Number: 1, WatchLinks: parser.ParseLinks("Bangla: b, English: c")}

	if _, err := svc.AttachEpisode(ctx, info, first); err != nil {
		t.Fatalf("first attach: %v", err)
	}
	series, err := svc.AttachEpisode(ctx, info, second)
	if err != nil {
		t.Fatalf("second attach: %v", err)
	}

	if repo.count() != 1 {
		t.Fatalf("expected one series record, got %d", repo.count())
	}
	if len(series.Episodes) != 1 {
		t.Fatalf("expected exactly one S01E01, got %+v", series.Episodes)
	}
	if !reflect.DeepEqual(series.Episodes[0].WatchLinks, second.WatchLinks) {
		t.Errorf("links = %+v, want second attachment's %+v", series.Episodes[0].WatchLinks, second.WatchLinks)
	}
	if series.Title != "Show Name" {
		t.Errorf("title = %q, admin title must win over metadata", series.Title)
	}
}

func TestFindOrCreateSeriesSingleRecord(t *testing.T) {
	svc, repo, lookup, announcer := newTestService()
	ctx := context.Background()

	a, err := svc.FindOrCreateSeries(ctx, parser.TitleInfo{Title: "Show Name", Year: "2020"})
	if err != nil {
		t.Fatalf("FindOrCreateSeries: %v", err)
	}
	b, err := svc.FindOrCreateSeries(ctx, parser.TitleInfo{Title: "show name", Year: "2020"})
	if err != nil {
		t.Fatalf("FindOrCreateSeries again: %v", err)
	}
	if a.ID != b.ID || repo.count() != 1 {
		t.Errorf("expected the same record, got %s and %s (%d records)", a.IDHex(), b.IDHex(), repo.count())
	}
	if lookup.calls != 1 {
		t.Errorf("title match should skip metadata lookup, calls = %d", lookup.calls)
	}

	// A different title resolving to the same TMDB id converges on the same record.
	c, err := svc.FindOrCreateSeries(ctx, parser.TitleInfo{Title: "The Show"})
	if err != nil {
		t.Fatalf("FindOrCreateSeries by alias: %v", err)
	}
	if c.ID != a.ID || repo.count() != 1 {
		t.Errorf("expected upsert by tmdb id to reuse %s, got %s", a.IDHex(), c.IDHex())
	}

	if len(announcer.posts) != 1 || announcer.posts[0].kind != announceDomain.PostKindNewContent {
		t.Errorf("posts = %+v, want a single new_content post", announcer.posts)
	}
}

func TestFindOrCreateSeriesLookupFailure(t *testing.T) {
	svc, repo, _, _ := newTestService()

	_, err := svc.AttachEpisode(context.Background(), parser.TitleInfo{Title: "Unknown"}, domain.Episode{Season: 1, Number: 1})
	if !errors.Is(err, sharedErrors.ErrSeriesCreationFailed) {
		t.Fatalf("err = %v, want ErrSeriesCreationFailed", err)
	}
	if repo.count() != 0 {
		t.Errorf("nothing should be stored, got %d records", repo.count())
	}
}

func TestAttachSeasonPackAnnounces(t *testing.T) {
	svc, _, _, announcer := newTestService()
	ctx := context.Background()
	announcer.err = errors.New("telegram down")

	pack := domain.SeasonPack{Season: 2, DownloadLinks: parser.ParseLinks("Hindi: a, Tamil: b")}
	series, err := svc.AttachSeasonPack(ctx, parser.TitleInfo{Title: "Show Name"}, pack)
	if err != nil {
		t.Fatalf("AttachSeasonPack must not fail when announcing fails: %v", err)
	}
	if _, ok := series.FindSeasonPack(2); !ok {
		t.Errorf("season pack missing: %+v", series.SeasonPacks)
	}

	want := []post{
		{series.IDHex(), announceDomain.PostKindNewContent, 0},
		{series.IDHex(), announceDomain.PostKindSeasonPack, 2},
	}
	if !reflect.DeepEqual(announcer.posts, want) {
		t.Errorf("posts = %+v, want %+v", announcer.posts, want)
	}
}

func TestUpsertMovie(t *testing.T) {
	svc, repo, _, announcer := newTestService()
	ctx := context.Background()
	info := parser.ParseTitle("Movie Name [Hindi] (2020)")

	movie, created, err := svc.UpsertMovie(ctx, info, parser.ParseLinks("Hindi: w1"), parser.ParseLinks("Hindi: d1"))
	if err != nil || !created {
		t.Fatalf("UpsertMovie() created=%v err=%v", created, err)
	}
	if movie.Badge != "Hindi" || movie.Poster != "https://img/p.jpg" || movie.TMDBID != 9 {
		t.Errorf("movie = %+v", movie)
	}

	movie, created, err = svc.UpsertMovie(ctx, info, parser.ParseLinks("Hindi: w2"), nil)
	if err != nil || created {
		t.Fatalf("second UpsertMovie() created=%v err=%v", created, err)
	}
	if repo.count() != 1 {
		t.Errorf("records = %d", repo.count())
	}
	if len(movie.WatchLinks) != 1 || movie.WatchLinks[0].URL != "w2" || movie.DownloadLinks != nil {
		t.Errorf("links not replaced: %+v %+v", movie.WatchLinks, movie.DownloadLinks)
	}
	if len(announcer.posts) != 1 {
		t.Errorf("only creation is announced, posts = %+v", announcer.posts)
	}

	_, _, err = svc.UpsertMovie(ctx, parser.TitleInfo{Title: "Nope"}, nil, nil)
	if !errors.Is(err, sharedErrors.ErrMetadataNotFound) {
		t.Errorf("err = %v, want ErrMetadataNotFound", err)
	}
}

func TestIngestFile(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()

	movie, err := svc.IngestFile(ctx, "Movie.Name.2020.720p.WEB-DL.mkv", 100)
	if err != nil {
		t.Fatalf("IngestFile movie: %v", err)
	}
	if _, err := svc.IngestFile(ctx, "Movie.Name.2020.720p.x265.mkv", 101); err != nil {
		t.Fatalf("IngestFile movie again: %v", err)
	}
	if _, err := svc.IngestFile(ctx, "Movie.Name.2020.1080p.BluRay.mkv", 102); err != nil {
		t.Fatalf("IngestFile movie 1080p: %v", err)
	}

	movie, _ = svc.Get(ctx, movie.IDHex())
	if f, ok := movie.FindFile("720p"); !ok || f.MessageID != 101 {
		t.Errorf("720p file = %+v, %v", f, ok)
	}
	if len(movie.Files) != 2 {
		t.Errorf("files = %+v", movie.Files)
	}

	series, err := svc.IngestFile(ctx, "Show.Name.S01E03.480p.mkv", 200)
	if err != nil {
		t.Fatalf("IngestFile series: %v", err)
	}
	ep, ok := series.FindEpisode(1, 3)
	if !ok || ep.MessageID != 200 || ep.Quality != "480p" {
		t.Errorf("episode = %+v, %v", ep, ok)
	}
	if repo.count() != 2 {
		t.Errorf("records = %d", repo.count())
	}

	if _, err := svc.IngestFile(ctx, "Unknown.2001.mkv", 300); !errors.Is(err, sharedErrors.ErrMetadataNotFound) {
		t.Errorf("err = %v, want ErrMetadataNotFound", err)
	}
}

func TestShelvesAndDetail(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	_ = svc.repo.Insert(ctx, &domain.Content{Title: "Soon", Type: domain.ContentTypeMovie, IsComing: true})
	_ = svc.repo.Insert(ctx, &domain.Content{Title: "Hot", Type: domain.ContentTypeMovie, IsTrending: true})
	_ = svc.repo.Insert(ctx, &domain.Content{Title: "Series", Type: domain.ContentTypeSeries})

	home, err := svc.Home(ctx)
	if err != nil {
		t.Fatalf("Home: %v", err)
	}
	got := map[string]int{}
	for _, row := range home.Shelves {
		got[row.Shelf.Slug] = len(row.Items)
	}
	want := map[string]int{"trending_movies": 1, "movies_only": 1, "webseries": 1, "coming_soon": 1, "recently_added": 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("shelf sizes = %v, want %v", got, want)
	}

	if _, _, err := svc.Shelf(ctx, "nope"); err == nil {
		t.Error("unknown shelf should fail")
	}

	results, _ := svc.Search(ctx, "hO")
	if len(results) != 1 || results[0].Title != "Hot" {
		t.Errorf("Search = %+v", results)
	}

	c, _, err := svc.Detail(ctx, results[0].IDHex())
	if err != nil || c.Views != 1 {
		t.Errorf("Detail views = %v, err = %v", c, err)
	}
	if _, _, err := svc.Detail(ctx, "bad-id"); !errors.Is(err, sharedErrors.ErrInvalidID) {
		t.Errorf("err = %v, want ErrInvalidID", err)
	}
}
