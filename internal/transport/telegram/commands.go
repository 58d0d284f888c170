package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot/models"
	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/domain"
	sharedErrors "github.com/reshetovitsme/movie-catalog-bot/internal/shared/errors"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/parser"
	"github.com/samber/oops"
)

const (
	usageAdd     = "Usage: /add <title> (year) [badge] | <watch links> | <download links>"
	usageAddEp   = "Usage: /addep <title> (year) [badge] | S01E02 | <watch links> | <download links> [| <message id>]"
	usageAddPack = "Usage: /addpack <title> (year) [badge] | S01 | <watch links> | <download links> [| <message id>]"
)

// splitSegments splits "a | b | c" and trims every segment.
func splitSegments(args string) []string {
	parts := strings.Split(args, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseMessageID(segments []string, at int) (int, error) {
	if len(segments) <= at || segments[at] == "" {
		return 0, nil
	}
	id, err := strconv.Atoi(segments[at])
	if err != nil || id <= 0 {
		return 0, oops.With("message_id", segments[at]).Wrap(sharedErrors.ErrMalformedCommand)
	}
	return id, nil
}

func (h *Handler) handleAddMovie(ctx context.Context, msg *models.Message, args string) {
	chatID := msg.Chat.ID
	segments := splitSegments(args)
	if len(segments) != 3 || segments[0] == "" {
		h.reply(ctx, chatID, usageAdd)
		return
	}

	info := parser.ParseTitle(segments[0])
	if info.Title == "" {
		h.reply(ctx, chatID, usageAdd)
		return
	}

	h.reply(ctx, chatID, fmt.Sprintf("⏳ Looking up %q...", info.Title))
	c, created, err := h.catalog.UpsertMovie(ctx, info, parser.ParseLinks(segments[1]), parser.ParseLinks(segments[2]))
	if err != nil {
		h.replyError(ctx, chatID, info, err)
		return
	}

	verb := "updated"
	if created {
		verb = "added"
	}
	h.reply(ctx, chatID, fmt.Sprintf("✅ Movie %s: %s\n%s", verb, c.Title, h.cfg.ContentURL(c.IDHex())))
}

func (h *Handler) handleAddEpisode(ctx context.Context, msg *models.Message, args string) {
	chatID := msg.Chat.ID
	segments := splitSegments(args)
	if len(segments) < 4 || len(segments) > 5 || segments[0] == "" {
		h.reply(ctx, chatID, usageAddEp)
		return
	}

	season, number, ok := parser.ParseEpisodeToken(segments[1])
	if !ok {
		h.reply(ctx, chatID, "❌ Invalid episode, expected S01E02.\n"+usageAddEp)
		return
	}
	messageID, err := parseMessageID(segments, 4)
	if err != nil {
		h.reply(ctx, chatID, "❌ Invalid message id.\n"+usageAddEp)
		return
	}

	info := parser.ParseTitle(segments[0])
	ep := domain.Episode{
		Season:        season,
		Number:        number,
		WatchLinks:    parser.ParseLinks(segments[2]),
		DownloadLinks: parser.ParseLinks(segments[3]),
		MessageID:     messageID,
	}

	c, err := h.catalog.AttachEpisode(ctx, info, ep)
	if err != nil {
		h.replyError(ctx, chatID, info, err)
		return
	}
	h.reply(ctx, chatID, fmt.Sprintf("✅ %s S%02dE%02d saved.\n%s", c.Title, season, number, h.cfg.ContentURL(c.IDHex())))
}

func (h *Handler) handleAddSeasonPack(ctx context.Context, msg *models.Message, args string) {
	chatID := msg.Chat.ID
	segments := splitSegments(args)
	if len(segments) < 4 || len(segments) > 5 || segments[0] == "" {
		h.reply(ctx, chatID, usageAddPack)
		return
	}

	season, ok := parser.ParseSeasonToken(segments[1])
	if !ok {
		h.reply(ctx, chatID, "❌ Invalid season, expected S01.\n"+usageAddPack)
		return
	}
	messageID, err := parseMessageID(segments, 4)
	if err != nil {
		h.reply(ctx, chatID, "❌ Invalid message id.\n"+usageAddPack)
		return
	}

	info := parser.ParseTitle(segments[0])
	pack := domain.SeasonPack{
		Season:        season,
		WatchLinks:    parser.ParseLinks(segments[2]),
		DownloadLinks: parser.ParseLinks(segments[3]),
		MessageID:     messageID,
	}

	c, err := h.catalog.AttachSeasonPack(ctx, info, pack)
	if err != nil {
		h.replyError(ctx, chatID, info, err)
		return
	}
	h.reply(ctx, chatID, fmt.Sprintf("✅ %s season %d pack saved.\n%s", c.Title, season, h.cfg.ContentURL(c.IDHex())))
}

func (h *Handler) replyError(ctx context.Context, chatID int64, info parser.TitleInfo, err error) {
	switch {
	case errors.Is(err, sharedErrors.ErrMetadataNotFound):
		h.reply(ctx, chatID, fmt.Sprintf("❌ No metadata found for %q.", info.Title))
	case errors.Is(err, sharedErrors.ErrSeriesCreationFailed):
		h.reply(ctx, chatID, fmt.Sprintf("❌ Could not find or create series %q.", info.Title))
	default:
		slog.Error("Admin command failed", "title", info.Title, "error", err)
		h.reply(ctx, chatID, "❌ Something went wrong, check the logs.")
	}
}
