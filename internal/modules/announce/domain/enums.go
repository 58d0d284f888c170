//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// PostKind selects the caption variant of a channel announcement
// ENUM(new_content,season_pack)
type PostKind string
