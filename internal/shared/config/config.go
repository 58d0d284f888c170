package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

type Config struct {
	MongoURI     string `koanf:"mongo_uri"`
	DatabaseName string `koanf:"database_name"`

	BotToken       string  `koanf:"bot_token"`
	BotUsername    string  `koanf:"bot_username"`
	TelegramAPIURL string  `koanf:"telegram_api_url"`
	AdminChannelID int64   `koanf:"-"`
	PublicChannel  int64   `koanf:"-"`
	AdminIDs       []int64 `koanf:"-"`
	WebhookURL     string  `koanf:"webhook_url"`
	WebhookSecret  string  `koanf:"webhook_secret"`

	TMDBAPIKey   string `koanf:"tmdb_api_key"`
	TMDBAPIURL   string `koanf:"tmdb_api_url"`
	TMDBImageURL string `koanf:"tmdb_image_url"`

	AdminUsername string `koanf:"admin_username"`
	AdminPassword string `koanf:"admin_password"`

	SiteURL  string `koanf:"site_url"`
	HTTPPort string `koanf:"http_port"`
	LogLevel string `koanf:"log_level"`
	AppEnv   AppEnv `koanf:"-"`

	Links ChannelLinks `koanf:"-"`
}

// ChannelLinks are display strings shown in the bot welcome message and site footer.
type ChannelLinks struct {
	MainChannel   string
	UpdateChannel string
	RequestGroup  string
	HowToDownload string
}

var requiredKeys = []string{
	"mongo_uri",
	"bot_token",
	"tmdb_api_key",
	"admin_channel_id",
	"bot_username",
	"admin_username",
	"admin_password",
	"admin_ids",
	"public_channel_id",
	"site_url",
}

func Load() (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	k := koanf.New(".")

	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (*Config, error) {
	defaults := map[string]any{
		"database_name":    "movie_db",
		"telegram_api_url": "https://api.telegram.org",
		"tmdb_api_url":     "https://api.themoviedb.org/3",
		"tmdb_image_url":   "https://image.tmdb.org/t/p/w500",
		"http_port":        "8080",
		"log_level":        "info",
		"app_env":          "production",
	}
	for key, value := range defaults {
		if !k.Exists(key) || k.String(key) == "" {
			k.Set(key, value)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	cfg.AdminChannelID = k.Int64("admin_channel_id")
	cfg.PublicChannel = k.Int64("public_channel_id")
	cfg.SiteURL = strings.TrimRight(strings.TrimSpace(cfg.SiteURL), "/")

	switch v := k.Get("admin_ids").(type) {
	case string:
		cfg.AdminIDs = ParseAdminIDs(v)
	case []interface{}:
		cfg.AdminIDs = lo.FilterMap(v, func(item interface{}, _ int) (int64, bool) {
			switch val := item.(type) {
			case int64:
				return val, true
			case int:
				return int64(val), true
			case float64:
				return int64(val), true
			case string:
				ids := ParseAdminIDs(val)
				return lo.FirstOrEmpty(ids), len(ids) == 1
			default:
				return 0, false
			}
		})
	}

	if appEnv, err := ParseAppEnv(k.String("app_env")); err == nil {
		cfg.AppEnv = appEnv
	} else {
		cfg.AppEnv = AppEnvProduction
	}

	cfg.Links = ChannelLinks{
		MainChannel:   k.String("main_channel_link"),
		UpdateChannel: k.String("updates_channel_link"),
		RequestGroup:  k.String("request_group_link"),
		HowToDownload: k.String("how_to_download_link"),
	}

	if missing := cfg.missingKeys(); len(missing) > 0 {
		return nil, oops.
			With("missing", missing).
			Wrapf(errors.ErrMissingConfig, "missing required variables: %s", strings.ToUpper(strings.Join(missing, ", ")))
	}

	return &cfg, nil
}

func (c *Config) missingKeys() []string {
	present := map[string]bool{
		"mongo_uri":         c.MongoURI != "",
		"bot_token":         c.BotToken != "",
		"tmdb_api_key":      c.TMDBAPIKey != "",
		"admin_channel_id":  c.AdminChannelID != 0,
		"bot_username":      c.BotUsername != "",
		"admin_username":    c.AdminUsername != "",
		"admin_password":    c.AdminPassword != "",
		"admin_ids":         len(c.AdminIDs) > 0,
		"public_channel_id": c.PublicChannel != 0,
		"site_url":          c.SiteURL != "",
	}
	return lo.Filter(requiredKeys, func(key string, _ int) bool {
		return !present[key]
	})
}

// IsAdmin reports whether the Telegram user may run admin commands.
func (c *Config) IsAdmin(userID int64) bool {
	return lo.Contains(c.AdminIDs, userID)
}

// ContentURL is the public detail page of a catalog entry.
func (c *Config) ContentURL(contentID string) string {
	return fmt.Sprintf("%s/movie/%s", c.SiteURL, contentID)
}

// ParseAdminIDs parses comma-separated user IDs string into []int64
func ParseAdminIDs(s string) []int64 {
	if s == "" {
		return []int64{}
	}
	parts := strings.Split(s, ",")
	return lo.FilterMap(parts, func(part string, _ int) (int64, bool) {
		part = strings.TrimSpace(part)
		if part == "" {
			return 0, false
		}
		var id int64
		if _, err := fmt.Sscanf(part, "%d", &id); err == nil {
			return id, true
		}
		return 0, false
	})
}
