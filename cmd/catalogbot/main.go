package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/reshetovitsme/movie-catalog-bot/internal/di"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/config"
	httpServer "github.com/reshetovitsme/movie-catalog-bot/internal/transport/http"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var logLevel = new(slog.LevelVar)

func main() {
	// Text logs on stdout, errors duplicated as JSON on stderr
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})
	slog.SetDefault(slog.New(slogmulti.Fanout(textHandler, jsonHandler)))

	if err := rootCmd().Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalogbot",
		Short:         "Movie and web series catalog with a Telegram bot",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the site, the admin panel and the bot webhook",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "poll",
			Short: "Process bot updates by long polling, for local development",
			RunE:  runPoll,
		},
		&cobra.Command{
			Use:   "set-webhook",
			Short: "Point the bot webhook at WEBHOOK_URL",
			RunE:  runSetWebhook,
		},
		&cobra.Command{
			Use:   "delete-webhook",
			Short: "Remove the bot webhook",
			RunE:  runDeleteWebhook,
		},
	)
	return root
}

// withContainer builds the container, applies the configured log level, runs fn
// and releases everything the command opened.
func withContainer(fn func(ctx context.Context, injector do.Injector, cfg *config.Config) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	injector, err := di.Setup()
	if err != nil {
		return oops.With("context", "failed to setup dependency injection").Wrap(err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := di.Shutdown(shutdownCtx, injector); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}()

	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		return err
	}
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		slog.Warn("Unknown log level, using info", "log_level", cfg.LogLevel)
	}

	return fn(ctx, injector, cfg)
}

func runServe(_ *cobra.Command, _ []string) error {
	return withContainer(func(ctx context.Context, injector do.Injector, cfg *config.Config) error {
		server, err := do.Invoke[*httpServer.Server](injector)
		if err != nil {
			return err
		}

		if cfg.WebhookURL != "" {
			b := do.MustInvoke[*bot.Bot](injector)
			if err := setWebhook(ctx, b, cfg); err != nil {
				slog.Error("Failed to set webhook", "error", err)
			}
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		slog.Info("Application started", "port", cfg.HTTPPort, "env", cfg.AppEnv)

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			slog.Info("Shutting down...")
			return nil
		}
	})
}

func runPoll(_ *cobra.Command, _ []string) error {
	return withContainer(func(ctx context.Context, injector do.Injector, _ *config.Config) error {
		b, err := do.Invoke[*bot.Bot](injector)
		if err != nil {
			return err
		}

		// getUpdates is rejected while a webhook is set
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{}); err != nil {
			return oops.With("context", "failed to delete webhook").Wrap(err)
		}

		slog.Info("Polling for updates, press Ctrl+C to stop")
		b.Start(ctx)
		return nil
	})
}

func runSetWebhook(_ *cobra.Command, _ []string) error {
	return withContainer(func(ctx context.Context, injector do.Injector, cfg *config.Config) error {
		if cfg.WebhookURL == "" {
			return oops.Errorf("WEBHOOK_URL is not set")
		}
		b, err := do.Invoke[*bot.Bot](injector)
		if err != nil {
			return err
		}
		return setWebhook(ctx, b, cfg)
	})
}

func runDeleteWebhook(_ *cobra.Command, _ []string) error {
	return withContainer(func(ctx context.Context, injector do.Injector, _ *config.Config) error {
		b, err := do.Invoke[*bot.Bot](injector)
		if err != nil {
			return err
		}
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{}); err != nil {
			return oops.With("context", "failed to delete webhook").Wrap(err)
		}
		slog.Info("Webhook deleted")
		return nil
	})
}

func setWebhook(ctx context.Context, b *bot.Bot, cfg *config.Config) error {
	_, err := b.SetWebhook(ctx, &bot.SetWebhookParams{
		URL:            cfg.WebhookURL,
		SecretToken:    cfg.WebhookSecret,
		AllowedUpdates: []string{"message", "channel_post"},
	})
	if err != nil {
		return oops.With("webhook_url", cfg.WebhookURL).Wrap(err)
	}
	slog.Info("Webhook set", "webhook_url", cfg.WebhookURL)
	return nil
}
