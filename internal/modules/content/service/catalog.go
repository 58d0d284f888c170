package service

import (
	"context"
	"log/slog"

	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/domain"
	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/repository"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

const (
	shelfLimit   = 12
	relatedLimit = 12
)

// Shelf is a named catalog listing.
type Shelf struct {
	Slug   string
	Title  string
	Filter repository.Filter
}

var (
	released = lo.ToPtr(false)
	upcoming = lo.ToPtr(true)
)

// Shelves in home page order. Slugs double as route paths.
var Shelves = []Shelf{
	{Slug: "trending_movies", Title: "Trending Now", Filter: repository.Filter{Trending: true, ComingSoon: released}},
	{Slug: "movies_only", Title: "All Movies", Filter: repository.Filter{Type: domain.ContentTypeMovie, ComingSoon: released}},
	{Slug: "webseries", Title: "All Web Series", Filter: repository.Filter{Type: domain.ContentTypeSeries, ComingSoon: released}},
	{Slug: "coming_soon", Title: "Coming Soon", Filter: repository.Filter{ComingSoon: upcoming}},
	{Slug: "recently_added", Title: "Recently Added", Filter: repository.Filter{ComingSoon: released}},
}

// ShelfRow is one populated home page shelf.
type ShelfRow struct {
	Shelf Shelf
	Items []*domain.Content
}

// Home is the data behind the landing page.
type Home struct {
	Shelves []ShelfRow
	Badges  []string
}

// Home loads the first items of every shelf and the badge facets.
func (s *Service) Home(ctx context.Context) (*Home, error) {
	home := &Home{}
	for _, shelf := range Shelves {
		f := shelf.Filter
		f.Limit = shelfLimit
		items, err := s.repo.List(ctx, f)
		if err != nil {
			return nil, oops.With("shelf", shelf.Slug).Wrap(err)
		}
		home.Shelves = append(home.Shelves, ShelfRow{Shelf: shelf, Items: items})
	}

	badges, err := s.repo.DistinctBadges(ctx)
	if err != nil {
		return nil, err
	}
	home.Badges = badges
	return home, nil
}

// Shelf lists every item of the shelf with the given slug.
func (s *Service) Shelf(ctx context.Context, slug string) (Shelf, []*domain.Content, error) {
	shelf, ok := lo.Find(Shelves, func(sh Shelf) bool { return sh.Slug == slug })
	if !ok {
		return Shelf{}, nil, oops.With("shelf", slug).Errorf("unknown shelf")
	}
	items, err := s.repo.List(ctx, shelf.Filter)
	return shelf, items, err
}

func (s *Service) Search(ctx context.Context, query string) ([]*domain.Content, error) {
	return s.repo.List(ctx, repository.Filter{TitleQuery: query})
}

func (s *Service) ByBadge(ctx context.Context, badge string) ([]*domain.Content, error) {
	return s.repo.List(ctx, repository.Filter{Badge: badge})
}

func (s *Service) ByGenre(ctx context.Context, genre string) ([]*domain.Content, error) {
	return s.repo.List(ctx, repository.Filter{Genre: genre})
}

// Recent returns up to limit released titles, newest first.
func (s *Service) Recent(ctx context.Context, limit int64) ([]*domain.Content, error) {
	return s.repo.List(ctx, repository.Filter{ComingSoon: released, Limit: limit})
}

func (s *Service) All(ctx context.Context) ([]*domain.Content, error) {
	return s.repo.List(ctx, repository.Filter{})
}

func (s *Service) Badges(ctx context.Context) ([]string, error) {
	return s.repo.DistinctBadges(ctx)
}

func (s *Service) Genres(ctx context.Context) ([]string, error) {
	return s.repo.DistinctGenres(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Content, error) {
	return s.repo.Get(ctx, id)
}

// Detail loads a record for its public page, counts the view and finds titles sharing a genre.
func (s *Service) Detail(ctx context.Context, id string) (*domain.Content, []*domain.Content, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		slog.Warn("Failed to count view", "content_id", id, "error", err)
	} else {
		c.Views++
	}

	related, err := s.repo.Related(ctx, c, relatedLimit)
	if err != nil {
		slog.Warn("Failed to load related titles", "content_id", id, "error", err)
	}
	return c, related, nil
}

// Create adds a record from the admin form, filling blanks from metadata when
// available. A record already holding the same TMDB id is updated instead.
func (s *Service) Create(ctx context.Context, c *domain.Content) (*domain.Content, error) {
	if meta, ok := s.metadata.Lookup(ctx, c.Title, c.Type, ""); ok {
		title := c.Title
		meta.Apply(c)
		c.Title = title

		stored, _, err := s.saveByTMDB(ctx, c, func(existing *domain.Content) {
			existing.Title = c.Title
			existing.Type = c.Type
			existing.Badge = lo.CoalesceOrEmpty(c.Badge, existing.Badge)
			existing.WatchLinks, existing.DownloadLinks = c.WatchLinks, c.DownloadLinks
			existing.Episodes, existing.SeasonPacks = c.Episodes, c.SeasonPacks
		})
		return stored, err
	}

	if err := s.repo.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update saves an admin edit. Switching type clears the other type's fields.
func (s *Service) Update(ctx context.Context, c *domain.Content) error {
	return s.repo.Update(ctx, c)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err == nil {
		slog.Warn("Catalog wiped", "deleted", n)
	}
	return n, err
}
