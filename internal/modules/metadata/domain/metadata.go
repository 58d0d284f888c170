package domain

import (
	contentDomain "github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/domain"
)

// Metadata is the normalized result of an external metadata lookup.
type Metadata struct {
	TMDBID      int64
	Title       string
	Poster      string
	Overview    string
	ReleaseDate string
	Genres      []string
	Languages   []string
	Rating      *float64
	TrailerKey  string
}

// Apply copies metadata fields onto c. The title is left alone since the admin's title wins.
func (m *Metadata) Apply(c *contentDomain.Content) {
	c.TMDBID = m.TMDBID
	c.Poster = m.Poster
	c.Overview = m.Overview
	c.ReleaseDate = m.ReleaseDate
	c.Genres = m.Genres
	c.Languages = m.Languages
	c.Rating = m.Rating
	c.TrailerKey = m.TrailerKey
}
