package parser

import (
	"regexp"
	"strings"
)

var (
	badgeRe        = regexp.MustCompile(`\[([^\]]*)\]`)
	trailingYearRe = regexp.MustCompile(`\(?\b(\d{4})\)?\s*$`)
	multiSpaceRe   = regexp.MustCompile(`\s+`)
)

// TitleInfo is the result of parsing a title typed by an admin.
// Badge and Year are empty when absent.
type TitleInfo struct {
	Title string
	Badge string
	Year  string
}

// ParseTitle extracts an optional "[badge]" and an optional trailing year from s.
//
//	"Movie Name [Hindi] (2020)" -> {Movie Name, Hindi, 2020}
func ParseTitle(s string) TitleInfo {
	var info TitleInfo

	if m := badgeRe.FindStringSubmatchIndex(s); m != nil {
		info.Badge = strings.TrimSpace(s[m[2]:m[3]])
		s = s[:m[0]] + " " + s[m[1]:]
	}

	s = strings.TrimSpace(s)
	if m := trailingYearRe.FindStringSubmatchIndex(s); m != nil {
		info.Year = s[m[2]:m[3]]
		s = s[:m[0]]
	}

	info.Title = strings.TrimSpace(multiSpaceRe.ReplaceAllString(s, " "))
	return info
}
