package markdown

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"influflow/domain/core/valueobjects"
)

// TimeCaptionMarker is the literal prefix of the edited-at caption the
// generator embeds in the document.
const TimeCaptionMarker = "Edited on"

// Tag forms are fixed literals emitted by the upstream generator, not
// general HTML, so fixed-format matches are sufficient.
var (
	reTimeCaption = regexp.MustCompile(`^<div class="[^"]*">(Edited on [^<]*)</div>\s*$`)
	reGroupOpen   = regexp.MustCompile(`^<div data-group-id="([^"]+)">\s*$`)
	reTweetOpen   = regexp.MustCompile(`^<div data-tweet-id="([^"]+)" data-group-index="([^"]+)" data-tweet-index="([^"]+)">\s*$`)
	reOrderedItem = regexp.MustCompile(`^\d+\. `)
	reImage       = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)\)`)
)

const closeTag = "</div>"

// headingEmojis is the fixed decoration set stripped from heading text
var headingEmojis = []string{
	"🚀", "🔥", "💡", "✨", "📈", "📊", "🎯", "💰",
	"🧵", "👇", "⚡", "❗", "📌", "💪", "🙌", "🤯",
}

// Parse converts a flat tagged-markdown string into an ordered list of
// typed sections. It is pure, deterministic, and total: malformed tag
// sequences never raise, they degrade to plain paragraphs or accumulate
// until EOF.
func Parse(md string) []Section {
	p := &parser{}

	for _, line := range strings.Split(md, "\n") {
		p.consume(line)
	}
	p.flush()

	return p.sections
}

type parser struct {
	sections   []Section
	current    *Section
	inTweetDiv bool
	inGroupDiv bool
}

func (p *parser) consume(line string) {
	trimmed := strings.TrimSpace(line)

	// Open tags take priority in any mode: an open while a block is still
	// active means the previous block never closed, so flush it.
	if m := reTweetOpen.FindStringSubmatch(trimmed); m != nil {
		p.flush()
		p.inTweetDiv = true
		p.current = &Section{
			ID:         "tweet-section-" + m[1],
			Type:       SectionTweet,
			TweetID:    valueobjects.NewFlexID(m[1]),
			GroupIndex: atoiOr(m[2], -1),
			TweetIndex: atoiOr(m[3], -1),
			RawContent: line,
		}
		return
	}
	if m := reGroupOpen.FindStringSubmatch(trimmed); m != nil {
		p.flush()
		p.inGroupDiv = true
		p.current = &Section{
			ID:         "group-section-" + m[1],
			Type:       SectionGroup,
			GroupID:    valueobjects.NewFlexID(m[1]),
			GroupIndex: -1,
			TweetIndex: -1,
			RawContent: line,
		}
		return
	}

	if p.inTweetDiv || p.inGroupDiv {
		p.consumeTagged(line, trimmed)
		return
	}
	p.consumePlain(line, trimmed)
}

// consumeTagged handles lines inside an open tweet or group block
func (p *parser) consumeTagged(line, trimmed string) {
	if trimmed == closeTag {
		p.appendRaw(line)
		p.flush()
		if p.inTweetDiv {
			p.inTweetDiv = false
		} else {
			p.inGroupDiv = false
		}
		return
	}

	if trimmed == "" || trimmed == "---" {
		return
	}

	if strings.HasPrefix(trimmed, "#") {
		// First heading becomes the block's title; later headings are
		// just body text.
		if p.current != nil && p.current.Content == "" {
			_, text := splitHeading(trimmed)
			p.current.Content = text
			p.appendRaw(line)
			return
		}
	}

	p.appendBody(trimmed)
	p.appendRaw(line)
}

// consumePlain applies plain-markdown rules outside any tagged block
func (p *parser) consumePlain(line, trimmed string) {
	if m := reTimeCaption.FindStringSubmatch(trimmed); m != nil {
		p.flush()
		p.current = &Section{
			Type:       SectionParagraph,
			Content:    m[1],
			RawContent: line,
			GroupIndex: -1,
			TweetIndex: -1,
		}
		p.flush()
		return
	}

	if trimmed == closeTag {
		// Unmatched close tag, tolerated silently
		return
	}

	if trimmed == "" || trimmed == "---" {
		p.flush()
		return
	}

	if strings.HasPrefix(trimmed, "#") {
		p.flush()
		level, text := splitHeading(trimmed)
		p.current = &Section{
			Type:       SectionHeading,
			Level:      level,
			Content:    text,
			RawContent: line,
			GroupIndex: -1,
			TweetIndex: -1,
		}
		p.flush()
		return
	}

	if isListItem(trimmed) {
		if p.current != nil && p.current.Type == SectionList {
			p.current.Content += "\n" + trimmed
			p.appendRaw(line)
			return
		}
		p.flush()
		p.current = &Section{
			Type:       SectionList,
			Content:    trimmed,
			RawContent: line,
			GroupIndex: -1,
			TweetIndex: -1,
		}
		return
	}

	// Contiguous non-blank lines accumulate into one paragraph
	if p.current != nil && p.current.Type == SectionParagraph {
		p.current.Content += " " + trimmed
		p.appendRaw(line)
		return
	}
	p.flush()
	p.current = &Section{
		Type:       SectionParagraph,
		Content:    trimmed,
		RawContent: line,
		GroupIndex: -1,
		TweetIndex: -1,
	}
}

func (p *parser) appendBody(text string) {
	if p.current == nil {
		return
	}
	if p.current.Content == "" {
		p.current.Content = text
		return
	}
	p.current.Content += "\n\n" + text
}

func (p *parser) appendRaw(line string) {
	if p.current == nil {
		return
	}
	if p.current.RawContent == "" {
		p.current.RawContent = line
		return
	}
	p.current.RawContent += "\n" + line
}

// flush finalizes the pending section, if any
func (p *parser) flush() {
	if p.current == nil {
		return
	}
	s := *p.current
	p.current = nil

	if s.ID == "" {
		s.ID = fmt.Sprintf("section-%d", len(p.sections))
	}
	if s.Type == SectionParagraph || s.Type == SectionTweet || s.Type == SectionGroup {
		extractImage(&s)
	}

	p.sections = append(p.sections, s)
}

// extractImage honors only the first embedded image reference; the
// surrounding text stays behind as the caption
func extractImage(s *Section) {
	loc := reImage.FindStringSubmatchIndex(s.Content)
	if loc == nil {
		return
	}
	s.ImageAlt = s.Content[loc[2]:loc[3]]
	s.ImageURL = s.Content[loc[4]:loc[5]]
	s.Content = strings.TrimSpace(s.Content[:loc[0]] + s.Content[loc[1]:])
}

// splitHeading returns the heading level and the text with markers and
// the fixed emoji set stripped
func splitHeading(line string) (int, string) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	text := strings.TrimSpace(line[level:])
	for _, e := range headingEmojis {
		text = strings.ReplaceAll(text, e, "")
	}
	return level, strings.Join(strings.Fields(text), " ")
}

func isListItem(trimmed string) bool {
	return strings.HasPrefix(trimmed, "- ") ||
		strings.HasPrefix(trimmed, "* ") ||
		reOrderedItem.MatchString(trimmed)
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
