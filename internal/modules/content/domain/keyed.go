package domain

import "strings"

// put replaces every entry sharing a key with one of the incoming items and
// appends the incoming items; the last incoming item wins per key.
func put[T any, K comparable](list []T, key func(T) K, items ...T) []T {
	latest := make(map[K]int, len(items))
	for i, item := range items {
		latest[key(item)] = i
	}

	out := make([]T, 0, len(list)+len(latest))
	for _, existing := range list {
		if _, replaced := latest[key(existing)]; !replaced {
			out = append(out, existing)
		}
	}
	for i, item := range items {
		if latest[key(item)] == i {
			out = append(out, item)
		}
	}
	return out
}

// PutEpisodes attaches episodes keyed by (season, episode).
func PutEpisodes(list []Episode, eps ...Episode) []Episode {
	return put(list, Episode.Key, eps...)
}

// PutSeasonPacks attaches season packs keyed by season.
func PutSeasonPacks(list []SeasonPack, packs ...SeasonPack) []SeasonPack {
	return put(list, func(p SeasonPack) int { return p.Season }, packs...)
}

// PutFiles attaches Telegram files keyed by quality label (case-insensitive).
func PutFiles(list []TelegramFile, files ...TelegramFile) []TelegramFile {
	return put(list, func(f TelegramFile) string { return strings.ToLower(f.Quality) }, files...)
}
