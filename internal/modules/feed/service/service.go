package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/gorilla/feeds"
	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/domain"
	"github.com/samber/oops"
)

const feedSize = 50

// RecentLister returns the newest released catalog entries.
type RecentLister interface {
	Recent(ctx context.Context, limit int64) ([]*domain.Content, error)
}

// Service handles RSS feed generation
type Service struct {
	catalog RecentLister
}

// New creates a new feed service
func New(catalog RecentLister) *Service {
	return &Service{catalog: catalog}
}

// GenerateFeed builds an RSS feed of the most recently added titles.
func (s *Service) GenerateFeed(ctx context.Context, baseURL string) (*feeds.Feed, error) {
	items, err := s.catalog.Recent(ctx, feedSize)
	if err != nil {
		return nil, oops.With("context", "failed to list recent titles").Wrap(err)
	}

	feed := &feeds.Feed{
		Title:       "Recently Added",
		Link:        &feeds.Link{Href: baseURL + "/"},
		Description: "Movies and web series recently added to the catalog",
	}

	for _, c := range items {
		feed.Items = append(feed.Items, contentToFeedItem(c, baseURL))
		if c.CreatedAt.After(feed.Updated) {
			feed.Updated = c.CreatedAt
		}
	}
	feed.Created = feed.Updated
	return feed, nil
}

func contentToFeedItem(c *domain.Content, baseURL string) *feeds.Item {
	title := c.Title
	if year := c.ReleaseYear(); year != "" {
		title = fmt.Sprintf("%s (%s)", c.Title, year)
	}

	description := c.Overview
	if description == "" {
		description = "No description available"
	}

	var content strings.Builder
	if c.Poster != "" {
		fmt.Fprintf(&content, `<p><img src="%s" alt="%s"/></p>`, html.EscapeString(c.Poster), html.EscapeString(c.Title))
	}
	fmt.Fprintf(&content, "<p>%s</p>", html.EscapeString(description))
	if len(c.Genres) > 0 {
		fmt.Fprintf(&content, "<p><strong>Genres:</strong> %s</p>", html.EscapeString(strings.Join(c.Genres, ", ")))
	}
	if c.Badge != "" {
		fmt.Fprintf(&content, "<p><strong>Tag:</strong> %s</p>", html.EscapeString(c.Badge))
	}

	item := &feeds.Item{
		Title:       title,
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/movie/%s", baseURL, c.IDHex())},
		Description: description,
		Content:     content.String(),
		Created:     c.CreatedAt,
		Id:          c.IDHex(),
	}
	if c.Poster != "" {
		item.Enclosure = &feeds.Enclosure{Url: c.Poster, Type: "image/jpeg", Length: "0"}
	}
	return item
}
