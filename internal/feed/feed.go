// Package feed orders posts for a viewer by interest overlap.
package feed

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"mvdan.cc/xurls/v2"

	"github.com/ifuapp/ifu/internal/model"
)

var (
	hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
	urlPattern     = xurls.Relaxed()
)

// Ranked pairs a post with whether it matched the viewer's interests.
type Ranked struct {
	Post            *model.Post
	MatchesInterest bool
}

// Normalize trims s, drops one leading '#' and lowercases the rest.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	s = strings.TrimSpace(s)
	// Casers carry state and are not safe to share across goroutines.
	return cases.Lower(language.Und).String(s)
}

func normalizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if n := Normalize(v); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Matches reports whether any hashtag contains an interest or is contained
// by one. Empty values never match.
func Matches(interests, hashtags []string) bool {
	return matchNormalized(normalizeAll(interests), normalizeAll(hashtags))
}

func matchNormalized(interests, hashtags []string) bool {
	if len(interests) == 0 {
		return false
	}
	for _, h := range hashtags {
		for _, i := range interests {
			if strings.Contains(h, i) || strings.Contains(i, h) {
				return true
			}
		}
	}
	return false
}

// Rank moves posts matching interests to the front. Relative order inside
// the matching and non-matching groups is the input order.
func Rank(interests []string, posts []*model.Post) []Ranked {
	normalized := normalizeAll(interests)

	matching := make([]Ranked, 0, len(posts))
	rest := make([]Ranked, 0, len(posts))
	for _, p := range posts {
		if matchNormalized(normalized, normalizeAll(p.Hashtags)) {
			matching = append(matching, Ranked{Post: p, MatchesInterest: true})
		} else {
			rest = append(rest, Ranked{Post: p})
		}
	}

	return append(matching, rest...)
}

// ExtractHashtags collects #tags from text, ignoring fragments inside URLs,
// followed by extra. The result is normalized and de-duplicated in
// first-seen order.
func ExtractHashtags(text string, extra []string) []string {
	stripped := urlPattern.ReplaceAllString(text, " ")

	candidates := make([]string, 0, len(extra))
	for _, m := range hashtagPattern.FindAllStringSubmatch(stripped, -1) {
		candidates = append(candidates, m[1])
	}
	candidates = append(candidates, extra...)

	seen := make(map[string]struct{}, len(candidates))
	tags := make([]string, 0, len(candidates))
	for _, c := range candidates {
		n := Normalize(c)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		tags = append(tags, n)
	}
	return tags
}
