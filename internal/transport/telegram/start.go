package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/domain"
	sharedErrors "github.com/reshetovitsme/movie-catalog-bot/internal/shared/errors"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/metrics"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/parser"
)

const (
	msgWelcome         = "Welcome! Browse our site to find content."
	msgContentNotFound = "Content not found."
	msgFileNotFound    = "Requested file/quality not found."
	msgRelayFailed     = "Error sending file. It might have been deleted."
	msgUnexpected      = "An unexpected error occurred."
)

// handleStart answers /start. Without a payload it greets the user; with one it
// relays the referenced upload from the admin channel.
func (h *Handler) handleStart(ctx context.Context, msg *models.Message, payload string) {
	chatID := msg.Chat.ID
	payload, _, _ = strings.Cut(payload, " ")
	if payload == "" {
		h.reply(ctx, chatID, h.welcomeText())
		return
	}

	parts := strings.Split(payload, "_")
	c, err := h.catalog.Get(ctx, parts[0])
	if errors.Is(err, sharedErrors.ErrContentNotFound) || errors.Is(err, sharedErrors.ErrInvalidID) {
		h.reply(ctx, chatID, msgContentNotFound)
		return
	}
	if err != nil {
		slog.Error("Error loading content for /start", "payload", payload, "error", err)
		h.reply(ctx, chatID, msgUnexpected)
		return
	}

	if len(parts) == 1 {
		h.offerFiles(ctx, chatID, c)
		return
	}

	messageID, ok := resolveUpload(c, parts[1:])
	if !ok {
		metrics.FileRelays.WithLabelValues("not_found").Inc()
		h.reply(ctx, chatID, msgFileNotFound)
		return
	}
	h.relay(ctx, chatID, c, messageID)
}

// resolveUpload maps the payload remainder to a stored admin channel message:
// <quality> for movies, <season>_<episode> or S<season> for series.
func resolveUpload(c *domain.Content, args []string) (int, bool) {
	switch {
	case c.IsSeries() && len(args) == 2:
		season, err1 := strconv.Atoi(args[0])
		number, err2 := strconv.Atoi(args[1])
		if err1 != nil || err2 != nil {
			return 0, false
		}
		ep, ok := c.FindEpisode(season, number)
		return ep.MessageID, ok && ep.MessageID != 0
	case c.IsSeries() && len(args) == 1:
		season, ok := parser.ParseSeasonToken(args[0])
		if !ok {
			return 0, false
		}
		pack, ok := c.FindSeasonPack(season)
		return pack.MessageID, ok && pack.MessageID != 0
	case !c.IsSeries() && len(args) == 1:
		file, ok := c.FindFile(args[0])
		return file.MessageID, ok && file.MessageID != 0
	}
	return 0, false
}

func (h *Handler) relay(ctx context.Context, chatID int64, c *domain.Content, messageID int) {
	_, err := h.sender.CopyMessage(ctx, &bot.CopyMessageParams{
		ChatID:     chatID,
		FromChatID: h.cfg.AdminChannelID,
		MessageID:  messageID,
	})
	if err != nil {
		metrics.FileRelays.WithLabelValues("failed").Inc()
		slog.Error("Failed to copy message",
			"content_id", c.IDHex(),
			"message_id", messageID,
			"chat_id", chatID,
			"error", err,
		)
		h.reply(ctx, chatID, msgRelayFailed)
		return
	}
	metrics.FileRelays.WithLabelValues("sent").Inc()
}

// offerFiles handles a bare /start <id>. A movie with exactly one upload gets it
// straight away, otherwise the user picks a quality from deep links. Series are
// browsed on the site.
func (h *Handler) offerFiles(ctx context.Context, chatID int64, c *domain.Content) {
	if c.IsSeries() || len(c.Files) == 0 {
		h.reply(ctx, chatID, fmt.Sprintf("%s is available on the site: %s", c.Title, h.cfg.ContentURL(c.IDHex())))
		return
	}
	if len(c.Files) == 1 {
		h.relay(ctx, chatID, c, c.Files[0].MessageID)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s is available in:\n", c.Title)
	for _, f := range c.Files {
		fmt.Fprintf(&sb, "\n%s: %s", f.Quality, deepLink(h.cfg.BotUsername, c.IDHex()+"_"+f.Quality))
	}
	h.reply(ctx, chatID, sb.String())
}

func (h *Handler) welcomeText() string {
	lines := []string{msgWelcome}
	if h.cfg.SiteURL != "" {
		lines = append(lines, "", h.cfg.SiteURL)
	}

	links := []struct{ label, value string }{
		{"Main channel", h.cfg.Links.MainChannel},
		{"Updates", h.cfg.Links.UpdateChannel},
		{"Requests", h.cfg.Links.RequestGroup},
		{"How to download", h.cfg.Links.HowToDownload},
	}
	for _, l := range links {
		if l.value != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", l.label, l.value))
		}
	}
	return strings.Join(lines, "\n")
}
