// Package security sanitizes user-supplied style values before they are
// stored or rendered into a stylesheet. It is registered in the service
// container as "security" and consumed by the settings service.
package security

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var (
	reHexColor   = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	reLength     = regexp.MustCompile(`^-?\d+(?:\.\d+)?(?:px|em|rem|pt|vh|vw|%)$`)
	reIdentifier = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)
	reFontStack  = regexp.MustCompile(`[^a-zA-Z0-9 ,'"-]+`)
	reSpaces     = regexp.MustCompile(`\s+`)

	// declaration payloads that can smuggle script or external fetches into
	// inline CSS; stripped case-insensitively from custom CSS blocks
	reDangerous = regexp.MustCompile(`(?i)(expression\s*\(|javascript\s*:|behavior\s*:|-moz-binding\s*:|@import\b)`)
	reTags      = regexp.MustCompile(`(?i)</?\s*[a-z][^>]*>`)
	reComments  = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// Sanitizer normalises and strips style values. All methods are pure and
// safe for concurrent use.
type Sanitizer struct{}

// New creates a Sanitizer.
func New() *Sanitizer { return &Sanitizer{} }

// HexColor validates a 3- or 6-digit hex color and returns it lowercased.
func (s *Sanitizer) HexColor(v string) (string, error) {
	v = strings.TrimSpace(v)
	if !reHexColor.MatchString(v) {
		return "", errors.Errorf("security: %q is not a hex color", v)
	}
	return strings.ToLower(v), nil
}

// Length validates a CSS length (number plus unit, e.g. "16px", "1.25rem",
// "100%") and returns it lowercased.
func (s *Sanitizer) Length(v string) (string, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if !reLength.MatchString(v) {
		return "", errors.Errorf("security: %q is not a CSS length", v)
	}
	return v, nil
}

// FontStack strips everything from a font-family list that is not a letter,
// digit, space, comma, hyphen or quote, and collapses runs of whitespace.
func (s *Sanitizer) FontStack(v string) string {
	v = reFontStack.ReplaceAllString(v, "")
	v = reSpaces.ReplaceAllString(v, " ")
	return strings.TrimSpace(v)
}

// Identifier reduces v to a CSS-safe identifier: letters, digits, hyphens
// and underscores only.
func (s *Sanitizer) Identifier(v string) string {
	return reIdentifier.ReplaceAllString(strings.TrimSpace(v), "")
}

// CustomCSS strips markup and script-capable declarations from a free-form
// CSS block. The remaining text is safe to inline into a <style> element:
// tags (including any closing </style>), CSS comments, expression(),
// javascript: URLs, behavior/-moz-binding declarations and @import are all
// removed.
func (s *Sanitizer) CustomCSS(v string) string {
	v = reComments.ReplaceAllString(v, "")
	v = reTags.ReplaceAllString(v, "")
	v = reDangerous.ReplaceAllString(v, "")
	return strings.TrimSpace(v)
}
