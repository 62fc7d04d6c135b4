package sanitizer

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// HTMLStripperer removes markup from user-supplied text
type HTMLStripperer interface {
	StripHTML(s string) string
}

type HTMLStripper struct {
	bm *bluemonday.Policy
}

var _ HTMLStripperer = (*HTMLStripper)(nil)

// NewHTMLStripper return a new instance of blue monday policy
func NewHTMLStripper() *HTMLStripper {
	return &HTMLStripper{
		bm: bluemonday.StrictPolicy(),
	}
}

// StripHTML drops every tag and returns plain text. bluemonday escapes the
// text it keeps, so entities are decoded back to the characters typed.
func (hs *HTMLStripper) StripHTML(s string) string {
	return html.UnescapeString(hs.bm.Sanitize(s))
}

// CleanInput strips markup, trims whitespace and caps the result at maxRunes
// (no cap when maxRunes <= 0).
func CleanInput(s HTMLStripperer, input string, maxRunes int) string {
	out := strings.TrimSpace(s.StripHTML(input))
	if maxRunes > 0 && utf8.RuneCountInString(out) > maxRunes {
		out = string([]rune(out)[:maxRunes])
	}
	return out
}
