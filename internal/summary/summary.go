// Package summary derives short plain-text excerpts and reading-time
// estimates from Markdown post bodies.
package summary

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultExcerptLength is the excerpt length, in characters, used for new posts.
const DefaultExcerptLength = 150

// wordsPerMinute is the reading speed assumed by ReadingTime.
const wordsPerMinute = 200

var (
	markers    = regexp.MustCompile("[#*`]")
	links      = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Strip removes lightweight Markdown markers and link targets from body and
// folds whitespace runs into single spaces.
func Strip(body string) string {
	s := markers.ReplaceAllString(body, "")
	s = links.ReplaceAllString(s, "$1")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Excerpt returns the first n characters of the stripped body, followed by
// "..." only when text was cut off. n <= 0 uses DefaultExcerptLength.
func Excerpt(body string, n int) string {
	if n <= 0 {
		n = DefaultExcerptLength
	}
	s := Strip(body)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// ReadingTime estimates minutes to read body. It is never less than one.
func ReadingTime(body string) int {
	words := len(strings.Fields(body))
	return max(1, int(math.Ceil(float64(words)/wordsPerMinute)))
}
