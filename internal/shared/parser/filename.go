package parser

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/reshetovitsme/movie-catalog-bot/internal/modules/content/domain"
)

var (
	releaseNoiseRe  = regexp.MustCompile(`(?i)(\d{3,4}p|web-?dl|hdrip|bluray|x264|x265|hevc|pack|complete|final|dual audio|hindi|season).*$`)
	episodeMarkerRe = regexp.MustCompile(`(?i)^(.*?)[\s._-]*s(\d+)e(\d+)`)
	seasonSuffixRe  = regexp.MustCompile(`(?i)\s*season\s*\d+\s*$`)
	fileYearRe      = regexp.MustCompile(`^(.*?)\s*\(?(\d{4})\)?`)
	qualityRe       = regexp.MustCompile(`(?i)(\d{3,4})p`)
	extensionRe     = regexp.MustCompile(`(?i)^\.(mkv|mp4|avi|mov|m4v|webm|wmv|flv|ts)$`)
)

// FileInfo is what can be guessed about a release from its file name.
type FileInfo struct {
	Type    domain.ContentType
	Title   string
	Year    string
	Season  int
	Episode int
}

// ParseFilename classifies an uploaded file as a movie or a series episode.
// Everything from the first quality, source or codec keyword onward is discarded
// before looking for an SxxEyy marker, then for a year.
func ParseFilename(name string) FileInfo {
	if ext := path.Ext(name); extensionRe.MatchString(ext) {
		name = strings.TrimSuffix(name, ext)
	}

	cleaned := strings.NewReplacer(".", " ", "_", " ").Replace(name)
	base := strings.TrimSpace(releaseNoiseRe.ReplaceAllString(cleaned, ""))

	if m := episodeMarkerRe.FindStringSubmatch(base); m != nil {
		season, _ := strconv.Atoi(m[2])
		episode, _ := strconv.Atoi(m[3])
		title := strings.TrimSpace(seasonSuffixRe.ReplaceAllString(strings.TrimSpace(m[1]), ""))
		return FileInfo{
			Type:    domain.ContentTypeSeries,
			Title:   title,
			Season:  season,
			Episode: episode,
		}
	}

	if m := fileYearRe.FindStringSubmatch(base); m != nil {
		return FileInfo{
			Type:  domain.ContentTypeMovie,
			Title: strings.TrimSpace(m[1]),
			Year:  m[2],
		}
	}

	return FileInfo{Type: domain.ContentTypeMovie, Title: base}
}

// ParseQuality returns the resolution tag of a file name such as "720p", or "HD".
func ParseQuality(name string) string {
	if m := qualityRe.FindStringSubmatch(name); m != nil {
		return m[1] + "p"
	}
	return "HD"
}
