// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize canonicalizes free-text identifiers (DOIs, titles) for
// comparison across data sources that disagree on formatting.
package normalize

import (
	"regexp"
	"strings"
)

// doiPrefixPattern matches a leading "doi:" label with optional whitespace
// after the colon, case-insensitively.
var doiPrefixPattern = regexp.MustCompile(`^doi:\s*`)

// doiHostPattern matches a leading resolver URL up to and including the
// doi.org path separator: "https://doi.org/", "http://dx.doi.org/", a bare
// "doi.org/", and the like.
var doiHostPattern = regexp.MustCompile(`^(?:https?://)?(?:[a-z0-9-]+\.)*doi\.org/`)

// DOI canonicalizes a raw DOI string: trims surrounding whitespace,
// lower-cases, strips a "doi:" label and any resolver URL prefix, and
// percent-encodes the remainder so it is safe to embed in a URL path or
// query. Empty input yields empty output rather than an error.
//
// The function is pure and idempotent: already-encoded %XX sequences are
// passed through untouched, so DOI(DOI(x)) == DOI(x).
func DOI(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	s = doiPrefixPattern.ReplaceAllString(s, "")
	s = doiHostPattern.ReplaceAllString(s, "")
	return escapeDOI(s)
}

// escapeDOI percent-encodes bytes outside the DOI-safe set. Valid %XX
// sequences are copied verbatim to keep the encoding idempotent.
func escapeDOI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(s[i])
			b.WriteByte(s[i+1])
			b.WriteByte(s[i+2])
			i += 2
		case isDOISafe(c):
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hexDigit(c >> 4))
			b.WriteByte(hexDigit(c & 0xf))
		}
	}
	return b.String()
}

func isDOISafe(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~' || c == '/' || c == '(' || c == ')':
		return true
	}
	return false
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexDigit(v byte) byte {
	if v < 10 {
		return '0' + v
	}
	return 'a' + v - 10
}

// Title-normalization patterns. A project title often arrives decorated
// differently in each source: "ACME - Advanced Computing" in one, "Advanced
// Computing (ACME)" in another. The patterns below strip those decorations.
var (
	// acronymPrefixPattern matches up to three short leading tokens
	// followed by a hyphen, en dash, or colon: "acme - ", "h2020 gov: ".
	acronymPrefixPattern = regexp.MustCompile(`^\S{1,12}(?: \S{1,12}){0,2}\s*[-\x{2013}:]\s+`)

	// leadingParenPattern / trailingParenPattern match a parenthetical
	// remark at either end of the title.
	leadingParenPattern  = regexp.MustCompile(`^\([^)]*\)\s*`)
	trailingParenPattern = regexp.MustCompile(`\s*\([^)]*\)$`)

	// trailingDashWordPattern matches a " - WORD" style annotation suffix.
	trailingDashWordPattern = regexp.MustCompile(`\s+[-\x{2013}]\s+\S+$`)
)

// TitleForMatching lower-cases and trims a title and strips superficial
// decorations that are not semantically part of it: a leading "ACRONYM - "
// or "ACRONYM: " prefix, a leading or trailing parenthetical remark, and a
// trailing " - WORD" suffix.
//
// This is a heuristic, not a guarantee: it can eat a real title fragment
// that happens to look like a decoration. It exists solely to raise fuzzy
// match recall by removing acronym and annotation noise that differs
// between sources while the substantive title is identical.
func TitleForMatching(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	if s == "" {
		return ""
	}

	// Suffix decorations come off before the acronym-prefix rule runs,
	// otherwise "Title - WORD" parses as a multi-token prefix and the
	// whole title is eaten.
	if stripped := trailingDashWordPattern.ReplaceAllString(s, ""); stripped != "" {
		s = stripped
	}
	if stripped := leadingParenPattern.ReplaceAllString(s, ""); stripped != "" {
		s = stripped
	}
	if stripped := trailingParenPattern.ReplaceAllString(s, ""); stripped != "" {
		s = stripped
	}
	if stripped := acronymPrefixPattern.ReplaceAllString(s, ""); stripped != "" {
		s = stripped
	}

	return strings.Join(strings.Fields(s), " ")
}
