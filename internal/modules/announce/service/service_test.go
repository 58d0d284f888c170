package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/announce/domain"
	contentDomain "github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/domain"
	"github.com/reshetovitsme/movie-catalog-bot/internal/shared/config"
	sharedErrors "github.com/reshetovitsme/movie-catalog-bot/internal/shared/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubGetter map[string]*contentDomain.Content

func (s stubGetter) Get(_ context.Context, id string) (*contentDomain.Content, error) {
	if c, ok := s[id]; ok {
		return c, nil
	}
	return nil, sharedErrors.ErrContentNotFound
}

type recordingSender struct {
	messages []*bot.SendMessageParams
	photos   []*bot.SendPhotoParams
	err      error
}

func (r *recordingSender) SendMessage(_ context.Context, p *bot.SendMessageParams) (*models.Message, error) {
	r.messages = append(r.messages, p)
	return &models.Message{}, r.err
}

func (r *recordingSender) SendPhoto(_ context.Context, p *bot.SendPhotoParams) (*models.Message, error) {
	r.photos = append(r.photos, p)
	return &models.Message{}, r.err
}

func (r *recordingSender) CopyMessage(_ context.Context, _ *bot.CopyMessageParams) (*models.MessageID, error) {
	return &models.MessageID{}, r.err
}

func testConfig() *config.Config {
	return &config.Config{SiteURL: "https://site.example", PublicChannel: -100500}
}

func TestPublishPhotoWithButton(t *testing.T) {
	id := primitive.NewObjectID()
	c := &contentDomain.Content{
		ID:          id,
		Title:       "Spider-Man: No Way Home",
		Type:        contentDomain.ContentTypeMovie,
		Poster:      "https://img.example/p.jpg",
		ReleaseDate: "2021-12-15",
		Genres:      []string{"Action", "Sci-Fi"},
		Languages:   []string{"English"},
	}
	sender := &recordingSender{}
	svc := New(testConfig(), stubGetter{id.Hex(): c}, sender)

	if err := svc.Publish(context.Background(), id.Hex(), domain.PostKindNewContent, 0); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(sender.photos) != 1 || len(sender.messages) != 0 {
		t.Fatalf("photos=%d messages=%d, want one photo", len(sender.photos), len(sender.messages))
	}

	p := sender.photos[0]
	if p.ChatID != int64(-100500) {
		t.Errorf("ChatID = %v", p.ChatID)
	}
	if p.ParseMode != models.ParseModeMarkdown {
		t.Errorf("ParseMode = %v", p.ParseMode)
	}
	for _, want := range []string{`*Spider\-Man: No Way Home*`, `\(2021\)`, `Action, Sci\-Fi`, "English"} {
		if !strings.Contains(p.Caption, want) {
			t.Errorf("caption %q missing %q", p.Caption, want)
		}
	}

	markup, ok := p.ReplyMarkup.(*models.InlineKeyboardMarkup)
	if !ok || len(markup.InlineKeyboard) != 1 || len(markup.InlineKeyboard[0]) != 1 {
		t.Fatalf("ReplyMarkup = %#v, want one button", p.ReplyMarkup)
	}
	if url := markup.InlineKeyboard[0][0].URL; url != "https://site.example/movie/"+id.Hex() {
		t.Errorf("button URL = %q", url)
	}
}

func TestPublishTextWithoutPoster(t *testing.T) {
	id := primitive.NewObjectID()
	c := &contentDomain.Content{ID: id, Title: "Plain", Type: contentDomain.ContentTypeMovie}
	sender := &recordingSender{}
	svc := New(testConfig(), stubGetter{id.Hex(): c}, sender)

	if err := svc.Publish(context.Background(), id.Hex(), domain.PostKindNewContent, 0); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(sender.messages) != 1 || len(sender.photos) != 0 {
		t.Fatalf("photos=%d messages=%d, want one text message", len(sender.photos), len(sender.messages))
	}
	if sender.messages[0].Text != "*Plain*\n" {
		t.Errorf("Text = %q", sender.messages[0].Text)
	}
}

func TestPublishFailuresAreReturned(t *testing.T) {
	id := primitive.NewObjectID()
	c := &contentDomain.Content{ID: id, Title: "X"}

	sender := &recordingSender{err: errors.New("Bad Request: chat not found")}
	svc := New(testConfig(), stubGetter{id.Hex(): c}, sender)
	if err := svc.Publish(context.Background(), id.Hex(), domain.PostKindNewContent, 0); err == nil {
		t.Error("expected send failure to be returned")
	}

	if err := svc.Publish(context.Background(), "missing", domain.PostKindNewContent, 0); !errors.Is(err, sharedErrors.ErrContentNotFound) {
		t.Errorf("err = %v, want ErrContentNotFound", err)
	}

	cfg := testConfig()
	cfg.PublicChannel = 0
	if err := New(cfg, stubGetter{}, &recordingSender{}).Publish(context.Background(), id.Hex(), domain.PostKindNewContent, 0); err == nil {
		t.Error("expected error without a public channel")
	}
}

func TestCaptionSeasonPackUsesPackLanguages(t *testing.T) {
	c := &contentDomain.Content{
		Title:     "Show.Name",
		Type:      contentDomain.ContentTypeSeries,
		Languages: []string{"Korean"},
		SeasonPacks: []contentDomain.SeasonPack{{
			Season:        2,
			WatchLinks:    []contentDomain.Link{{Label: "Hindi", URL: "a"}},
			DownloadLinks: []contentDomain.Link{{Label: "Tamil", URL: "b"}, {Label: "Hindi", URL: "c"}},
		}},
	}

	caption := Caption(c, domain.PostKindSeasonPack, 2)
	if !strings.Contains(caption, "*Languages:* Hindi, Tamil") {
		t.Errorf("caption %q should list pack languages", caption)
	}
	if strings.Contains(caption, "Korean") {
		t.Errorf("caption %q should not list record languages", caption)
	}
	if !strings.Contains(caption, `Season 2 pack added\!`) {
		t.Errorf("caption %q missing season line", caption)
	}
	if !strings.HasPrefix(caption, `*Show\.Name*`) {
		t.Errorf("caption %q title not escaped", caption)
	}
}
