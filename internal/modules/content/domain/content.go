package domain

import (
	"strings"
	"time"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Content is a movie or series in the catalog.
// Movies carry WatchLinks, DownloadLinks and Files; series carry Episodes and SeasonPacks.
type Content struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TMDBID      int64              `bson:"tmdb_id,omitempty" json:"tmdb_id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Type        ContentType        `bson:"type" json:"type"`
	Poster      string             `bson:"poster,omitempty" json:"poster,omitempty"`
	Overview    string             `bson:"overview,omitempty" json:"overview,omitempty"`
	ReleaseDate string             `bson:"release_date,omitempty" json:"release_date,omitempty"`
	Genres      []string           `bson:"genres,omitempty" json:"genres,omitempty"`
	Languages   []string           `bson:"languages,omitempty" json:"languages,omitempty"`
	Rating      *float64           `bson:"vote_average,omitempty" json:"vote_average,omitempty"`
	TrailerKey  string             `bson:"trailer_key,omitempty" json:"trailer_key,omitempty"`
	IsTrending  bool               `bson:"is_trending" json:"is_trending"`
	IsComing    bool               `bson:"is_coming_soon" json:"is_coming_soon"`
	Badge       string             `bson:"poster_badge,omitempty" json:"poster_badge,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	Views       int64              `bson:"views" json:"views"`

	WatchLinks    []Link         `bson:"watch_links,omitempty" json:"watch_links,omitempty"`
	DownloadLinks []Link         `bson:"download_links,omitempty" json:"download_links,omitempty"`
	Files         []TelegramFile `bson:"files,omitempty" json:"files,omitempty"`

	Episodes    []Episode    `bson:"episodes,omitempty" json:"episodes,omitempty"`
	SeasonPacks []SeasonPack `bson:"season_packs,omitempty" json:"season_packs,omitempty"`
}

// Link is a labelled URL, the label usually being a language.
type Link struct {
	Label string `bson:"lang" json:"lang"`
	URL   string `bson:"url" json:"url"`
}

// TelegramFile references a stored upload of a movie in the admin channel.
type TelegramFile struct {
	Quality   string `bson:"quality" json:"quality"`
	MessageID int    `bson:"message_id" json:"message_id"`
}

type Episode struct {
	Season        int    `bson:"season" json:"season"`
	Number        int    `bson:"episode_number" json:"episode_number"`
	Title         string `bson:"title,omitempty" json:"title,omitempty"`
	Quality       string `bson:"quality,omitempty" json:"quality,omitempty"`
	WatchLinks    []Link `bson:"watch_links,omitempty" json:"watch_links,omitempty"`
	DownloadLinks []Link `bson:"download_links,omitempty" json:"download_links,omitempty"`
	MessageID     int    `bson:"message_id,omitempty" json:"message_id,omitempty"`
}

type SeasonPack struct {
	Season        int    `bson:"season" json:"season"`
	WatchLinks    []Link `bson:"watch_links,omitempty" json:"watch_links,omitempty"`
	DownloadLinks []Link `bson:"download_links,omitempty" json:"download_links,omitempty"`
	MessageID     int    `bson:"message_id,omitempty" json:"message_id,omitempty"`
}

// EpisodeKey identifies an episode within one series.
type EpisodeKey struct {
	Season  int
	Episode int
}

func (e Episode) Key() EpisodeKey {
	return EpisodeKey{Season: e.Season, Episode: e.Number}
}

// Languages returns the distinct link labels of the pack in order of first appearance.
func (p SeasonPack) Languages() []string {
	return LinkLabels(append(append([]Link{}, p.WatchLinks...), p.DownloadLinks...))
}

// IDHex returns the hex form of the id used in URLs and bot payloads.
func (c *Content) IDHex() string {
	return c.ID.Hex()
}

func (c *Content) IsSeries() bool {
	return c.Type == ContentTypeSeries
}

// ReleaseYear is the first four characters of ReleaseDate, or empty.
func (c *Content) ReleaseYear() string {
	if len(c.ReleaseDate) < 4 {
		return ""
	}
	return c.ReleaseDate[:4]
}

// Normalize enforces the field-group invariant for the content type and drops
// links that lost their URL.
func (c *Content) Normalize() {
	switch c.Type {
	case ContentTypeSeries:
		c.WatchLinks, c.DownloadLinks, c.Files = nil, nil, nil
		c.Episodes = PutEpisodes(nil, c.Episodes...)
		c.SeasonPacks = PutSeasonPacks(nil, c.SeasonPacks...)
		for i := range c.Episodes {
			c.Episodes[i].WatchLinks = CleanLinks(c.Episodes[i].WatchLinks)
			c.Episodes[i].DownloadLinks = CleanLinks(c.Episodes[i].DownloadLinks)
		}
		for i := range c.SeasonPacks {
			c.SeasonPacks[i].WatchLinks = CleanLinks(c.SeasonPacks[i].WatchLinks)
			c.SeasonPacks[i].DownloadLinks = CleanLinks(c.SeasonPacks[i].DownloadLinks)
		}
	default:
		c.Type = ContentTypeMovie
		c.Episodes, c.SeasonPacks = nil, nil
		c.WatchLinks = CleanLinks(c.WatchLinks)
		c.DownloadLinks = CleanLinks(c.DownloadLinks)
		c.Files = PutFiles(nil, c.Files...)
	}
	c.Genres = CleanStrings(c.Genres)
	c.Badge = strings.TrimSpace(c.Badge)
}

func (c *Content) FindEpisode(season, episode int) (Episode, bool) {
	return lo.Find(c.Episodes, func(e Episode) bool {
		return e.Season == season && e.Number == episode
	})
}

func (c *Content) FindSeasonPack(season int) (SeasonPack, bool) {
	return lo.Find(c.SeasonPacks, func(p SeasonPack) bool {
		return p.Season == season
	})
}

func (c *Content) FindFile(quality string) (TelegramFile, bool) {
	return lo.Find(c.Files, func(f TelegramFile) bool {
		return strings.EqualFold(f.Quality, quality)
	})
}

// CleanLinks drops links without a URL.
func CleanLinks(links []Link) []Link {
	out := lo.FilterMap(links, func(l Link, _ int) (Link, bool) {
		l.URL = strings.TrimSpace(l.URL)
		l.Label = strings.TrimSpace(l.Label)
		return l, l.URL != ""
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

// CleanStrings trims values and drops blanks.
func CleanStrings(values []string) []string {
	out := lo.FilterMap(values, func(v string, _ int) (string, bool) {
		v = strings.TrimSpace(v)
		return v, v != ""
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

// LinkLabels returns distinct non-default labels in order of first appearance.
func LinkLabels(links []Link) []string {
	labels := lo.FilterMap(links, func(l Link, _ int) (string, bool) {
		label := strings.TrimSpace(l.Label)
		return label, label != "" && label != DefaultLinkLabel
	})
	return lo.Uniq(labels)
}

// DefaultLinkLabel is used when a link string carries no "label:" prefix.
const DefaultLinkLabel = "Link"
