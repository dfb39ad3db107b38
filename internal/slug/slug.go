// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug turns post titles into URL-safe identifiers and resolves
// collisions against the post store.
package slug

import (
	"regexp"
	"strings"
)

var (
	// disallowed matches anything that isn't a lowercase ASCII letter, a digit
	// or a Hangul syllable.
	disallowed = regexp.MustCompile(`[^a-z0-9\x{AC00}-\x{D7A3}]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Normalize creates a URL-friendly slug from the given title. It never fails
// and Normalize(Normalize(s)) == Normalize(s).
// Example: "Hello, World! 2026" → "hello-world-2026"
func Normalize(s string) string {
	result := strings.ToLower(s)
	result = disallowed.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
