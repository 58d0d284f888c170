package di

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	announceService "github.com/reshetovitsme/movie-catalog-bot/internal/modules/announce/service"
	contentRepo "github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/repository"
	contentService "github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/service"
	feedService "github.com/reshetovitsme/movie-catalog-bot/internal/modules/feed/service"
	feedbackRepo "github.com/reshetovitsme/movie-catalog-bot/internal/modules/feedback/repository"
	feedbackService "github.com/reshetovitsme/movie-catalog-bot/internal/modules/feedback/service"
	metadataService "github.com/reshetovitsme/movie-catalog-bot/internal/modules/metadata/service"
	settingsRepo "github.com/reshetovitsme/movie-catalog-bot/internal/modules/settings/repository"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/config"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/database"
	httpServer "github.com/reshetovitsme/movie-catalog-bot/internal/transport/http"
	telegramHandler "github.com/reshetovitsme/movie-catalog-bot/internal/transport/telegram"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// closers collects the release functions of resources opened by providers,
// so Shutdown only touches what was actually constructed.
type closers struct {
	mu  sync.Mutex
	fns []func(ctx context.Context) error
}

func (c *closers) add(fn func(ctx context.Context) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fns = append(c.fns, fn)
}

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()
	release := &closers{}
	do.ProvideValue(injector, release)

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register MongoDB
	do.Provide(injector, func(i do.Injector) (*database.Mongo, error) {
		cfg := do.MustInvoke[*config.Config](i)
		db, err := database.Connect(context.Background(), cfg)
		if err != nil {
			return nil, oops.With("context", "failed to connect to mongodb").Wrap(err)
		}
		release.add(db.Close)
		return db, nil
	})

	// Register Repositories
	do.Provide(injector, func(i do.Injector) (contentRepo.Repository, error) {
		db := do.MustInvoke[*database.Mongo](i)
		return contentRepo.NewMongo(db.Collection(database.ContentCollection)), nil
	})
	do.Provide(injector, func(i do.Injector) (settingsRepo.Repository, error) {
		db := do.MustInvoke[*database.Mongo](i)
		return settingsRepo.NewMongo(db.Collection(database.SettingsCollection)), nil
	})
	do.Provide(injector, func(i do.Injector) (feedbackRepo.Repository, error) {
		db := do.MustInvoke[*database.Mongo](i)
		return feedbackRepo.NewMongo(db.Collection(database.FeedbackCollection)), nil
	})

	// Register TMDB Client
	do.Provide(injector, func(i do.Injector) (*metadataService.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client := metadataService.New(cfg)
		release.add(func(context.Context) error { return client.Close() })
		return client, nil
	})

	// Register Bot. Updates are routed to the Telegram handler, which is
	// resolved on first use because it depends on services that need the bot.
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)

		opts := []bot.Option{
			bot.WithServerURL(cfg.TelegramAPIURL),
			bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
				do.MustInvoke[*telegramHandler.Handler](i).HandleBotUpdate(ctx, b, update)
			}),
		}
		if cfg.WebhookSecret != "" {
			opts = append(opts, bot.WithWebhookSecretToken(cfg.WebhookSecret))
		}

		b, err := bot.New(cfg.BotToken, opts...)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
		}
		return b, nil
	})

	// Register Announce Service
	do.Provide(injector, func(i do.Injector) (*announceService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[contentRepo.Repository](i)
		b := do.MustInvoke[*bot.Bot](i)
		return announceService.New(cfg, repo, b), nil
	})

	// Register Content Service
	do.Provide(injector, func(i do.Injector) (*contentService.Service, error) {
		repo := do.MustInvoke[contentRepo.Repository](i)
		metadata := do.MustInvoke[*metadataService.Client](i)
		announcer := do.MustInvoke[*announceService.Service](i)
		return contentService.New(repo, metadata, announcer), nil
	})

	// Register Feedback Service
	do.Provide(injector, func(i do.Injector) (*feedbackService.Service, error) {
		repo := do.MustInvoke[feedbackRepo.Repository](i)
		return feedbackService.New(repo), nil
	})

	// Register Feed Service
	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		catalog := do.MustInvoke[*contentService.Service](i)
		return feedService.New(catalog), nil
	})

	// Register Telegram Handler
	do.Provide(injector, func(i do.Injector) (*telegramHandler.Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		catalog := do.MustInvoke[*contentService.Service](i)
		b := do.MustInvoke[*bot.Bot](i)
		return telegramHandler.New(cfg, catalog, b), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		handler := do.MustInvoke[*telegramHandler.Handler](i)

		server, err := httpServer.New(cfg, httpServer.Deps{
			Catalog:  do.MustInvoke[*contentService.Service](i),
			Feedback: do.MustInvoke[*feedbackService.Service](i),
			Settings: do.MustInvoke[settingsRepo.Repository](i),
			Feed:     do.MustInvoke[*feedService.Service](i),
			Trailers: do.MustInvoke[*metadataService.Client](i),
			Webhook:  handler.WebhookHandler(),
			DB:       do.MustInvoke[*database.Mongo](i),
		})
		if err != nil {
			return nil, oops.With("context", "failed to create http server").Wrap(err)
		}
		server.SetLogger(slog.Default())
		release.add(server.Shutdown)
		return server, nil
	})

	return injector, nil
}

// Shutdown releases every resource opened through the container, newest first
func Shutdown(ctx context.Context, injector do.Injector) error {
	release, err := do.Invoke[*closers](injector)
	if err != nil {
		return err
	}

	release.mu.Lock()
	defer release.mu.Unlock()

	var errs []error
	for i := len(release.fns) - 1; i >= 0; i-- {
		if err := release.fns[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	release.fns = nil
	return errors.Join(errs...)
}
