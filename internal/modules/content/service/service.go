package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	announceDomain "github.com/reshetovitsme/movie-catalog-bot/internal/modules/announce/domain"
	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/domain"
	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/repository"
	metaDomain "github.com/reshetovitsme/movie-catalog-bot/internal/modules/metadata/domain"
	sharedErrors "github.com/reshetovitsme/movie-catalog-bot/internal/shared/errors"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/parser"
	"github.com/samber/oops"
)

// MetadataLookup resolves a title to external metadata.
type MetadataLookup interface {
	Lookup(ctx context.Context, title string, kind domain.ContentType, year string) (*metaDomain.Metadata, bool)
}

// Announcer posts catalog news to the public channel.
type Announcer interface {
	Publish(ctx context.Context, contentID string, kind announceDomain.PostKind, season int) error
}

// Service handles catalog business logic
type Service struct {
	repo      repository.Repository
	metadata  MetadataLookup
	announcer Announcer
}

// New creates a new content service
func New(repo repository.Repository, metadata MetadataLookup, announcer Announcer) *Service {
	return &Service{
		repo:      repo,
		metadata:  metadata,
		announcer: announcer,
	}
}

// FindOrCreateSeries returns the series titled info.Title, creating it from
// metadata when missing. Creation is keyed by the TMDB id so repeated or
// concurrent calls converge on one record.
func (s *Service) FindOrCreateSeries(ctx context.Context, info parser.TitleInfo) (*domain.Content, error) {
	existing, err := s.repo.FindSeriesByTitle(ctx, info.Title)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sharedErrors.ErrContentNotFound) {
		return nil, oops.With("title", info.Title).Wrap(err)
	}

	meta, ok := s.metadata.Lookup(ctx, info.Title, domain.ContentTypeSeries, info.Year)
	if !ok {
		return nil, oops.With("title", info.Title, "year", info.Year).Wrap(sharedErrors.ErrSeriesCreationFailed)
	}

	series := &domain.Content{Title: info.Title, Type: domain.ContentTypeSeries, Badge: info.Badge}
	meta.Apply(series)

	created, err := s.repo.UpsertByTMDB(ctx, series)
	if err != nil {
		return nil, oops.With("title", info.Title).Wrap(err)
	}

	stored, err := s.repo.FindByTMDB(ctx, meta.TMDBID, domain.ContentTypeSeries)
	if err != nil {
		return nil, oops.With("tmdb_id", meta.TMDBID).Wrap(err)
	}

	if created {
		slog.Info("Series created", "content_id", stored.IDHex(), "title", stored.Title, "tmdb_id", stored.TMDBID)
		s.announce(ctx, stored.IDHex(), announceDomain.PostKindNewContent, 0)
	}
	return stored, nil
}

// UpsertMovie creates the movie or replaces the links of the existing record
// for the same TMDB id. It reports whether a record was created.
func (s *Service) UpsertMovie(ctx context.Context, info parser.TitleInfo, watch, download []domain.Link) (*domain.Content, bool, error) {
	meta, ok := s.metadata.Lookup(ctx, info.Title, domain.ContentTypeMovie, info.Year)
	if !ok {
		return nil, false, oops.With("title", info.Title, "year", info.Year).Wrap(sharedErrors.ErrMetadataNotFound)
	}

	movie := &domain.Content{
		Title:         info.Title,
		Type:          domain.ContentTypeMovie,
		Badge:         info.Badge,
		WatchLinks:    watch,
		DownloadLinks: download,
	}
	meta.Apply(movie)

	stored, created, err := s.saveByTMDB(ctx, movie, func(existing *domain.Content) {
		existing.Title = info.Title
		existing.WatchLinks = watch
		existing.DownloadLinks = download
		if info.Badge != "" {
			existing.Badge = info.Badge
		}
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		slog.Info("Movie created", "content_id", stored.IDHex(), "title", stored.Title, "tmdb_id", stored.TMDBID)
		s.announce(ctx, stored.IDHex(), announceDomain.PostKindNewContent, 0)
	}
	return stored, created, nil
}

// AttachEpisode stores ep on the series named by info, replacing any episode with the same season and number.
func (s *Service) AttachEpisode(ctx context.Context, info parser.TitleInfo, ep domain.Episode) (*domain.Content, error) {
	series, err := s.FindOrCreateSeries(ctx, info)
	if err != nil {
		return nil, err
	}

	if err := s.repo.PutEpisode(ctx, series.IDHex(), ep); err != nil {
		return nil, oops.With("content_id", series.IDHex(), "season", ep.Season, "episode", ep.Number).Wrap(err)
	}
	return s.repo.Get(ctx, series.IDHex())
}

// AttachSeasonPack stores pack on the series named by info and announces it.
func (s *Service) AttachSeasonPack(ctx context.Context, info parser.TitleInfo, pack domain.SeasonPack) (*domain.Content, error) {
	series, err := s.FindOrCreateSeries(ctx, info)
	if err != nil {
		return nil, err
	}

	if err := s.repo.PutSeasonPack(ctx, series.IDHex(), pack); err != nil {
		return nil, oops.With("content_id", series.IDHex(), "season", pack.Season).Wrap(err)
	}

	s.announce(ctx, series.IDHex(), announceDomain.PostKindSeasonPack, pack.Season)
	return s.repo.Get(ctx, series.IDHex())
}

// IngestFile registers a file uploaded to the admin channel. The file name is
// parsed for title, year and episode marker, and the upload is attached by
// quality (movies) or by season and episode (series).
func (s *Service) IngestFile(ctx context.Context, filename string, messageID int) (*domain.Content, error) {
	info := parser.ParseFilename(filename)
	quality := parser.ParseQuality(filename)

	meta, ok := s.metadata.Lookup(ctx, info.Title, info.Type, info.Year)
	if !ok {
		return nil, oops.With("filename", filename, "title", info.Title).Wrap(sharedErrors.ErrMetadataNotFound)
	}

	c := &domain.Content{Title: meta.Title, Type: info.Type}
	if strings.TrimSpace(c.Title) == "" {
		c.Title = info.Title
	}
	meta.Apply(c)

	created, err := s.repo.UpsertByTMDB(ctx, c)
	if err != nil {
		return nil, oops.With("filename", filename).Wrap(err)
	}
	stored, err := s.repo.FindByTMDB(ctx, meta.TMDBID, info.Type)
	if err != nil {
		return nil, oops.With("tmdb_id", meta.TMDBID).Wrap(err)
	}

	if info.Type == domain.ContentTypeSeries {
		err = s.repo.PutEpisode(ctx, stored.IDHex(), domain.Episode{
			Season:    info.Season,
			Number:    info.Episode,
			Quality:   quality,
			MessageID: messageID,
		})
	} else {
		err = s.repo.PutFile(ctx, stored.IDHex(), domain.TelegramFile{Quality: quality, MessageID: messageID})
	}
	if err != nil {
		return nil, oops.With("content_id", stored.IDHex(), "filename", filename).Wrap(err)
	}

	slog.Info("File ingested",
		"content_id", stored.IDHex(),
		"type", info.Type,
		"quality", quality,
		"message_id", messageID,
		"created", created,
	)
	if created {
		s.announce(ctx, stored.IDHex(), announceDomain.PostKindNewContent, 0)
	}
	return s.repo.Get(ctx, stored.IDHex())
}

// saveByTMDB inserts c, or applies merge to the record already holding its TMDB id.
func (s *Service) saveByTMDB(ctx context.Context, c *domain.Content, merge func(existing *domain.Content)) (*domain.Content, bool, error) {
	created, err := s.repo.UpsertByTMDB(ctx, c)
	if err != nil {
		return nil, false, oops.With("title", c.Title).Wrap(err)
	}

	stored, err := s.repo.FindByTMDB(ctx, c.TMDBID, c.Type)
	if err != nil {
		return nil, false, oops.With("tmdb_id", c.TMDBID).Wrap(err)
	}
	if created {
		return stored, true, nil
	}

	merge(stored)
	if err := s.repo.Update(ctx, stored); err != nil {
		return nil, false, oops.With("content_id", stored.IDHex()).Wrap(err)
	}
	return stored, false, nil
}

func (s *Service) announce(ctx context.Context, contentID string, kind announceDomain.PostKind, season int) {
	if s.announcer == nil {
		return
	}
	if err := s.announcer.Publish(ctx, contentID, kind, season); err != nil {
		slog.Warn("Announcement skipped", "content_id", contentID, "kind", kind, "error", err)
	}
}
