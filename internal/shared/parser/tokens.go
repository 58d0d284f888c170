package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	episodeTokenRe = regexp.MustCompile(`(?i)^s(\d{1,3})\s*e(\d{1,4})$`)
	seasonTokenRe  = regexp.MustCompile(`(?i)^s(\d{1,3})$`)
)

// ParseEpisodeToken parses "S02E05".
func ParseEpisodeToken(token string) (season, episode int, ok bool) {
	m := episodeTokenRe.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return 0, 0, false
	}
	season, _ = strconv.Atoi(m[1])
	episode, _ = strconv.Atoi(m[2])
	return season, episode, true
}

// ParseSeasonToken parses "S02".
func ParseSeasonToken(token string) (int, bool) {
	m := seasonTokenRe.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return 0, false
	}
	season, _ := strconv.Atoi(m[1])
	return season, true
}
