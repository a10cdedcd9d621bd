package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"influflow/domain/core/aggregates"
	"influflow/domain/core/entities"
	"influflow/domain/core/valueobjects"
)

func TestParse_PlainMarkdown(t *testing.T) {
	md := "# Hello World\n\nFirst line\nsecond line\n\n- item one\n- item two\n1. ordered\n\n---\n\nAfter rule"

	sections := Parse(md)
	require.Len(t, sections, 4)

	assert.Equal(t, SectionHeading, sections[0].Type)
	assert.Equal(t, 1, sections[0].Level)
	assert.Equal(t, "Hello World", sections[0].Content)
	assert.Equal(t, "section-0", sections[0].ID)

	assert.Equal(t, SectionParagraph, sections[1].Type)
	assert.Equal(t, "First line second line", sections[1].Content)

	assert.Equal(t, SectionList, sections[2].Type)
	assert.Equal(t, "- item one\n- item two\n1. ordered", sections[2].Content)

	assert.Equal(t, SectionParagraph, sections[3].Type)
	assert.Equal(t, "After rule", sections[3].Content)
	assert.Equal(t, "section-3", sections[3].ID)
}

func TestParse_HeadingLevelsAndEmoji(t *testing.T) {
	sections := Parse("## 🚀 Launch   plan 🔥\n### Sub")
	require.Len(t, sections, 2)

	assert.Equal(t, 2, sections[0].Level)
	assert.Equal(t, "Launch plan", sections[0].Content)
	assert.Equal(t, 3, sections[1].Level)
	assert.Equal(t, "Sub", sections[1].Content)
}

func TestParse_TweetBlock(t *testing.T) {
	md := `<div data-tweet-id="7" data-group-index="1" data-tweet-index="0">
### Opening hook

Why nobody talks about this.
</div>`

	sections := Parse(md)
	require.Len(t, sections, 1)

	s := sections[0]
	assert.Equal(t, SectionTweet, s.Type)
	assert.Equal(t, "tweet-section-7", s.ID)
	assert.True(t, s.TweetID.MatchesInt(7))
	assert.Equal(t, 1, s.GroupIndex)
	assert.Equal(t, 0, s.TweetIndex)
	assert.Equal(t, "Opening hook\n\nWhy nobody talks about this.", s.Content)
	assert.Contains(t, s.RawContent, `data-tweet-id="7"`)
	assert.Contains(t, s.RawContent, "</div>")
}

func TestParse_GroupBlock(t *testing.T) {
	md := `<div data-group-id="2">
## Section title
</div>`

	sections := Parse(md)
	require.Len(t, sections, 1)

	s := sections[0]
	assert.Equal(t, SectionGroup, s.Type)
	assert.Equal(t, "group-section-2", s.ID)
	assert.True(t, s.GroupID.MatchesInt(2))
	assert.Equal(t, "Section title", s.Content)
}

func TestParse_SecondHeadingInsideBlockIsBody(t *testing.T) {
	md := `<div data-tweet-id="3" data-group-index="0" data-tweet-index="0">
### Title
### Not a title
</div>`

	sections := Parse(md)
	require.Len(t, sections, 1)
	assert.Equal(t, "Title\n\n### Not a title", sections[0].Content)
}

func TestParse_UnclosedBlockFlushesAtEOF(t *testing.T) {
	md := `<div data-tweet-id="4" data-group-index="0" data-tweet-index="1">
### Dangling
body text`

	sections := Parse(md)
	require.Len(t, sections, 1)
	assert.Equal(t, SectionTweet, sections[0].Type)
	assert.Equal(t, "Dangling\n\nbody text", sections[0].Content)
}

func TestParse_OpenTagWhileBlockActiveFlushesPrevious(t *testing.T) {
	md := `<div data-tweet-id="1" data-group-index="0" data-tweet-index="0">
first
<div data-tweet-id="2" data-group-index="0" data-tweet-index="1">
second
</div>`

	sections := Parse(md)
	require.Len(t, sections, 2)
	assert.Equal(t, "tweet-section-1", sections[0].ID)
	assert.Equal(t, "first", sections[0].Content)
	assert.Equal(t, "tweet-section-2", sections[1].ID)
}

func TestParse_StrayCloseTagIsDropped(t *testing.T) {
	sections := Parse("before\n\n</div>\n\nafter")
	require.Len(t, sections, 2)
	assert.Equal(t, "before", sections[0].Content)
	assert.Equal(t, "after", sections[1].Content)
}

func TestParse_TimeCaption(t *testing.T) {
	sections := Parse(`<div class="time-caption">Edited on Aug 29, 2026 10:15</div>`)
	require.Len(t, sections, 1)
	assert.Equal(t, SectionParagraph, sections[0].Type)
	assert.Equal(t, "Edited on Aug 29, 2026 10:15", sections[0].Content)
}

func TestParse_ImageExtraction(t *testing.T) {
	t.Run("paragraph with caption", func(t *testing.T) {
		sections := Parse("A chart of the data ![revenue chart](https://img.example/rev.png)")
		require.Len(t, sections, 1)
		assert.Equal(t, "https://img.example/rev.png", sections[0].ImageURL)
		assert.Equal(t, "revenue chart", sections[0].ImageAlt)
		assert.Equal(t, "A chart of the data", sections[0].Content)
	})

	t.Run("only first image extracted", func(t *testing.T) {
		sections := Parse("![a](https://x/1.png)\n![b](https://x/2.png)")
		require.Len(t, sections, 1)
		assert.Equal(t, "https://x/1.png", sections[0].ImageURL)
		assert.Contains(t, sections[0].Content, "https://x/2.png")
	})

	t.Run("tweet block image", func(t *testing.T) {
		md := `<div data-tweet-id="9" data-group-index="0" data-tweet-index="0">
body text
![image](https://img.example/9.png)
</div>`
		sections := Parse(md)
		require.Len(t, sections, 1)
		assert.Equal(t, "https://img.example/9.png", sections[0].ImageURL)
		assert.Equal(t, "body text", sections[0].Content)
	})
}

func TestParse_IsDeterministic(t *testing.T) {
	md := "# T\n\npara\n\n<div data-tweet-id=\"1\" data-group-index=\"0\" data-tweet-index=\"0\">\nx\n</div>"
	first := Parse(md)
	second := Parse(md)
	assert.Equal(t, first, second)
}

func TestRenderParseRoundTrip(t *testing.T) {
	groups := []entities.OutlineGroup{
		{Title: "Why it matters", Tweets: []entities.Tweet{
			{TweetNumber: 1, Title: "Hook", Content: "Nobody expects this."},
			{TweetNumber: 2, Content: "Second point.", ImageURL: "https://img.example/2.png"},
		}},
		{Title: "How to start", Tweets: []entities.Tweet{
			{TweetNumber: 3, Title: "Step one", Content: "Open the editor."},
		}},
	}
	o, err := mustOutline(t, "thread", groups)
	require.NoError(t, err)

	sections := Parse(Render(o))

	// topic heading, time caption, 2 group sections, 3 tweet sections
	require.Len(t, sections, 7)

	assert.Equal(t, SectionHeading, sections[0].Type)
	assert.Equal(t, "Test topic", sections[0].Content)
	assert.Contains(t, sections[1].Content, TimeCaptionMarker)

	assert.Equal(t, SectionGroup, sections[2].Type)
	assert.Equal(t, "Why it matters", sections[2].Content)

	assert.Equal(t, SectionTweet, sections[3].Type)
	assert.True(t, sections[3].TweetID.MatchesInt(1))
	assert.Equal(t, 0, sections[3].GroupIndex)
	assert.Contains(t, sections[3].Content, "Nobody expects this.")

	assert.True(t, sections[4].TweetID.MatchesInt(2))
	assert.Equal(t, "https://img.example/2.png", sections[4].ImageURL)

	assert.Equal(t, SectionGroup, sections[5].Type)
	assert.True(t, sections[6].TweetID.MatchesInt(3))
	assert.Equal(t, 1, sections[6].GroupIndex)
}

func TestRender_LongformGroupDecoration(t *testing.T) {
	groups := []entities.OutlineGroup{
		{Title: "First part"},
		{Title: "Second part"},
	}
	o, err := mustOutline(t, "longform", groups)
	require.NoError(t, err)

	out := Render(o)
	assert.Contains(t, out, "## "+GroupDecoration(1)+"First part")
	assert.Contains(t, out, "## "+GroupDecoration(2)+"Second part")

	// Keycaps survive the parse; they are removed by StripGroupDecoration
	// before an edited title is persisted.
	sections := Parse(out)
	var groupSections []Section
	for _, s := range sections {
		if s.Type == SectionGroup {
			groupSections = append(groupSections, s)
		}
	}
	require.Len(t, groupSections, 2)
	assert.Equal(t, "First part", StripGroupDecoration(groupSections[0].Content))
	assert.Equal(t, "Second part", StripGroupDecoration(groupSections[1].Content))
}

func mustOutline(t *testing.T, format string, groups []entities.OutlineGroup) (*aggregates.Outline, error) {
	t.Helper()
	return aggregates.NewOutline("user-1", "Test topic", valueobjects.ContentFormat(format), groups)
}
