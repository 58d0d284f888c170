package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/announce/domain"
	contentDomain "github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/domain"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/botapi"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/config"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/metrics"
	"github.com/samber/oops"
)

// ContentGetter loads catalog records by id.
type ContentGetter interface {
	Get(ctx context.Context, id string) (*contentDomain.Content, error)
}

// Service posts new catalog entries to the public channel
type Service struct {
	cfg    *config.Config
	repo   ContentGetter
	sender botapi.Sender
}

// New creates a new announcement service
func New(cfg *config.Config, repo ContentGetter, sender botapi.Sender) *Service {
	return &Service{
		cfg:    cfg,
		repo:   repo,
		sender: sender,
	}
}

// Publish posts an announcement for the record. Failures are returned for the
// caller to log; nothing is retried.
func (s *Service) Publish(ctx context.Context, contentID string, kind domain.PostKind, season int) (err error) {
	defer func() {
		metrics.Announcements.WithLabelValues(kind.String(), resultLabel(err)).Inc()
	}()

	if s.sender == nil || s.cfg.PublicChannel == 0 {
		return oops.With("content_id", contentID).Errorf("announcement channel not configured")
	}

	c, err := s.repo.Get(ctx, contentID)
	if err != nil {
		return oops.With("content_id", contentID).Wrap(err)
	}

	caption := Caption(c, kind, season)
	markup := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{
			{Text: "Watch / Download", URL: s.cfg.ContentURL(c.IDHex())},
		}},
	}

	if c.Poster != "" {
		_, err = s.sender.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:      s.cfg.PublicChannel,
			Photo:       &models.InputFileString{Data: c.Poster},
			Caption:     caption,
			ParseMode:   models.ParseModeMarkdown,
			ReplyMarkup: markup,
		})
	} else {
		_, err = s.sender.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      s.cfg.PublicChannel,
			Text:        caption,
			ParseMode:   models.ParseModeMarkdown,
			ReplyMarkup: markup,
		})
	}
	if err != nil {
		return oops.With("content_id", contentID, "kind", kind).Wrap(err)
	}
	return nil
}

// Caption renders the MarkdownV2 announcement text. Season pack posts list the
// pack's own languages instead of the record's.
func Caption(c *contentDomain.Content, kind domain.PostKind, season int) string {
	var b strings.Builder

	b.WriteString("*" + bot.EscapeMarkdown(c.Title) + "*")
	if year := c.ReleaseYear(); year != "" {
		b.WriteString(" " + bot.EscapeMarkdown("("+year+")"))
	}
	b.WriteString("\n")

	languages := c.Languages
	if kind == domain.PostKindSeasonPack {
		b.WriteString(bot.EscapeMarkdown(fmt.Sprintf("Season %d pack added!", season)) + "\n")
		languages = nil
		if pack, ok := c.FindSeasonPack(season); ok {
			languages = pack.Languages()
		}
	}

	if len(c.Genres) > 0 {
		b.WriteString("\n*Genres:* " + bot.EscapeMarkdown(strings.Join(c.Genres, ", ")))
	}
	if len(languages) > 0 {
		b.WriteString("\n*Languages:* " + bot.EscapeMarkdown(strings.Join(languages, ", ")))
	}
	return b.String()
}

func resultLabel(err error) string {
	if err != nil {
		return "failed"
	}
	return "sent"
}
