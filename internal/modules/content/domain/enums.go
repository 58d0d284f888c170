//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// ContentType distinguishes movies from series
// ENUM(movie,series)
type ContentType string
