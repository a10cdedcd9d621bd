package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reBreakTag = regexp.MustCompile(`(?i)<br\s*/?>`)
	reAnyTag   = regexp.MustCompile(`<[^>]*>`)

	// Leading keycap decoration: either a run of keycap digits ("2️⃣0️⃣")
	// or a multi-digit number followed by a single keycap combiner ("21️⃣")
	reKeycapPrefix = regexp.MustCompile(`^(?:(?:\d\x{FE0F}\x{20E3})+|\d+\x{FE0F}\x{20E3})\s*`)
)

// StripHTML normalizes the HTML-ish payload the rich-text editing widget
// emits into plain text: <br> becomes a newline, every other tag is
// removed, &nbsp; becomes a space, and the result is trimmed.
func StripHTML(html string) string {
	text := reBreakTag.ReplaceAllString(html, "\n")
	text = reAnyTag.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	return strings.TrimSpace(text)
}

const keycapSuffix = "️⃣"

// GroupDecoration builds the numbered-emoji prefix shown before long-form
// group titles. It is presentation-only: reconstructed at render time from
// the group index and stripped again before persisting edits.
func GroupDecoration(n int) string {
	if n < 1 {
		return ""
	}
	if n <= 20 {
		digits := strconv.Itoa(n)
		var b strings.Builder
		for _, d := range digits {
			b.WriteRune(d)
			b.WriteString(keycapSuffix)
		}
		b.WriteByte(' ')
		return b.String()
	}
	return strconv.Itoa(n) + keycapSuffix + " "
}

// StripGroupDecoration removes a leading numbered-emoji decoration from an
// edited group title so that only the real title is persisted.
func StripGroupDecoration(text string) string {
	return reKeycapPrefix.ReplaceAllString(text, "")
}
