package parser

import (
	"strings"

	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/domain"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ParseLinks turns "Hindi: https://a, Bangla: https://b" into labelled links.
// Only the first colon separates label from URL, so "label: https://x" keeps its scheme.
// Blank segments and segments without a URL are dropped; order and duplicates are preserved.
func ParseLinks(s string) []domain.Link {
	title := cases.Title(language.Und)

	return lo.FilterMap(strings.Split(s, ","), func(segment string, _ int) (domain.Link, bool) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			return domain.Link{}, false
		}

		label, url, found := strings.Cut(segment, ":")
		if !found {
			return domain.Link{Label: domain.DefaultLinkLabel, URL: segment}, true
		}

		url = strings.TrimSpace(url)
		if url == "" {
			return domain.Link{}, false
		}
		label = strings.TrimSpace(label)
		if label == "" {
			label = domain.DefaultLinkLabel
		} else {
			label = title.String(label)
		}
		return domain.Link{Label: label, URL: url}, true
	})
}

// LanguagesOf lists the distinct labels of links in order of first appearance.
func LanguagesOf(links ...[]domain.Link) []string {
	return domain.LinkLabels(lo.Flatten(links))
}
