package repository

import (
	"context"

	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/domain"
)

// Filter narrows catalog listings. Zero values mean "any".
type Filter struct {
	Type       domain.ContentType
	Trending   bool
	ComingSoon *bool
	Badge      string
	Genre      string
	// TitleQuery matches titles containing the text, ignoring case.
	TitleQuery string
	Limit      int64
}

// Repository defines the interface for catalog persistence.
// IDs are hex strings as they appear in URLs and bot payloads.
type Repository interface {
	Insert(ctx context.Context, c *domain.Content) error
	Get(ctx context.Context, id string) (*domain.Content, error)
	Update(ctx context.Context, c *domain.Content) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
	IncrementViews(ctx context.Context, id string) error

	List(ctx context.Context, f Filter) ([]*domain.Content, error)
	Related(ctx context.Context, c *domain.Content, limit int64) ([]*domain.Content, error)
	DistinctBadges(ctx context.Context) ([]string, error)
	DistinctGenres(ctx context.Context) ([]string, error)

	FindSeriesByTitle(ctx context.Context, title string) (*domain.Content, error)
	FindByTMDB(ctx context.Context, tmdbID int64, contentType domain.ContentType) (*domain.Content, error)
	// UpsertByTMDB inserts c unless a record with the same (tmdb id, type) exists.
	// It reports whether a new record was created.
	UpsertByTMDB(ctx context.Context, c *domain.Content) (bool, error)

	PutEpisode(ctx context.Context, id string, ep domain.Episode) error
	PutSeasonPack(ctx context.Context, id string, pack domain.SeasonPack) error
	PutFile(ctx context.Context, id string, file domain.TelegramFile) error
}
