package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/domain"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/botapi"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/config"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/metrics"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/parser"
)

// Catalog is the content service as seen by the bot.
type Catalog interface {
	Get(ctx context.Context, id string) (*domain.Content, error)
	UpsertMovie(ctx context.Context, info parser.TitleInfo, watch, download []domain.Link) (*domain.Content, bool, error)
	AttachEpisode(ctx context.Context, info parser.TitleInfo, ep domain.Episode) (*domain.Content, error)
	AttachSeasonPack(ctx context.Context, info parser.TitleInfo, pack domain.SeasonPack) (*domain.Content, error)
	IngestFile(ctx context.Context, filename string, messageID int) (*domain.Content, error)
}

type command struct {
	adminOnly bool
	run       func(ctx context.Context, msg *models.Message, args string)
}

// Handler handles Telegram bot interactions
type Handler struct {
	cfg      *config.Config
	catalog  Catalog
	sender   botapi.Sender
	commands map[string]command
}

// New creates a new Telegram handler
func New(cfg *config.Config, catalog Catalog, sender botapi.Sender) *Handler {
	h := &Handler{
		cfg:     cfg,
		catalog: catalog,
		sender:  sender,
	}
	h.commands = map[string]command{
		"/start":   {run: h.handleStart},
		"/help":    {adminOnly: true, run: h.handleHelp},
		"/add":     {adminOnly: true, run: h.handleAddMovie},
		"/addep":   {adminOnly: true, run: h.handleAddEpisode},
		"/addpack": {adminOnly: true, run: h.handleAddSeasonPack},
	}
	return h
}

// HandleBotUpdate adapts HandleUpdate to the bot library's handler signature for polling mode.
func (h *Handler) HandleBotUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	h.HandleUpdate(ctx, update)
}

// HandleUpdate processes one incoming update. It never panics; failures are
// logged and, where a user is waiting, answered with a short message.
func (h *Handler) HandleUpdate(ctx context.Context, update *models.Update) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic while handling update", "update_id", update.ID, "panic", r)
		}
	}()

	switch {
	case update.ChannelPost != nil:
		metrics.BotUpdates.WithLabelValues("channel_post").Inc()
		h.processChannelPost(ctx, update.ChannelPost)
	case update.Message != nil:
		metrics.BotUpdates.WithLabelValues("message").Inc()
		h.processMessage(ctx, update.Message)
	default:
		metrics.BotUpdates.WithLabelValues("ignored").Inc()
	}
}

// processChannelPost ingests video and document uploads from the admin channel.
func (h *Handler) processChannelPost(ctx context.Context, msg *models.Message) {
	if msg.Chat.ID != h.cfg.AdminChannelID {
		slog.Debug("Ignoring post from foreign channel", "chat_id", msg.Chat.ID)
		return
	}

	filename := uploadedFileName(msg)
	if filename == "" {
		return
	}

	c, err := h.catalog.IngestFile(ctx, filename, msg.ID)
	if err != nil {
		slog.Error("Error ingesting channel upload", "filename", filename, "message_id", msg.ID, "error", err)
		return
	}
	slog.Info("Channel upload stored", "content_id", c.IDHex(), "title", c.Title, "message_id", msg.ID)
}

func (h *Handler) processMessage(ctx context.Context, msg *models.Message) {
	name, args := splitCommand(msg.Text)
	if name == "" {
		return
	}

	cmd, ok := h.commands[name]
	if !ok {
		return
	}
	if cmd.adminOnly && !h.isAdmin(msg) {
		slog.Warn("Unauthorized command", "command", name, "chat_id", msg.Chat.ID)
		h.reply(ctx, msg.Chat.ID, "❌ You are not authorized to use this command.")
		return
	}
	cmd.run(ctx, msg, args)
}

func (h *Handler) isAdmin(msg *models.Message) bool {
	return msg.From != nil && h.cfg.IsAdmin(msg.From.ID)
}

func (h *Handler) reply(ctx context.Context, chatID int64, text string) {
	if _, err := h.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}); err != nil {
		slog.Error("Failed to send reply", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) handleHelp(ctx context.Context, msg *models.Message, _ string) {
	h.reply(ctx, msg.Chat.ID, helpText)
}

const helpText = `Admin commands:

/add <title> (year) [badge] | <watch links> | <download links>
/addep <title> (year) [badge] | S01E02 | <watch links> | <download links> [| <message id>]
/addpack <title> (year) [badge] | S01 | <watch links> | <download links> [| <message id>]

Links are comma separated "Label: URL" pairs, e.g.
Hindi: https://example.org/a, English: https://example.org/b

Uploading a video or document to the admin channel registers it automatically.`

// splitCommand returns the lower-cased command without a "@bot" suffix and its arguments.
func splitCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}

	name, args, _ := strings.Cut(text, " ")
	if i := strings.IndexByte(name, '\n'); i >= 0 {
		name, args = name[:i], name[i+1:]+" "+args
	}
	name, _, _ = strings.Cut(name, "@")
	return strings.ToLower(name), strings.TrimSpace(args)
}

func uploadedFileName(msg *models.Message) string {
	switch {
	case msg.Video != nil && msg.Video.FileName != "":
		return msg.Video.FileName
	case msg.Document != nil && msg.Document.FileName != "":
		return msg.Document.FileName
	}
	return ""
}

func deepLink(botUsername, payload string) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", strings.TrimPrefix(botUsername, "@"), payload)
}
