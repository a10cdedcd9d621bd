package markdown

import (
	"fmt"
	"strings"

	"influflow/domain/core/aggregates"
	"influflow/domain/core/valueobjects"
)

// Render produces the tagged-markdown form of an outline: the fixed
// div-tag convention the parser consumes. Structural metadata rides in
// data attributes; everything else is plain markdown.
func Render(o *aggregates.Outline) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", o.Topic())
	fmt.Fprintf(&b, "<div class=\"time-caption\">%s %s</div>\n\n",
		TimeCaptionMarker, o.UpdatedAt().Format("Jan 2, 2006 15:04"))

	longform := o.Format() == valueobjects.FormatLongform

	for gi, group := range o.Groups() {
		if gi > 0 {
			b.WriteString("---\n\n")
		}

		fmt.Fprintf(&b, "<div data-group-id=\"%d\">\n", gi)
		title := group.Title
		if longform {
			title = GroupDecoration(gi+1) + title
		}
		fmt.Fprintf(&b, "## %s\n", title)
		b.WriteString("</div>\n\n")

		for ti, tweet := range group.Tweets {
			fmt.Fprintf(&b, "<div data-tweet-id=\"%d\" data-group-index=\"%d\" data-tweet-index=\"%d\">\n",
				tweet.TweetNumber, gi, ti)
			if tweet.Title != "" {
				fmt.Fprintf(&b, "### %s\n", tweet.Title)
			}
			if tweet.Content != "" {
				b.WriteString(tweet.Content)
				b.WriteByte('\n')
			}
			if tweet.ImageURL != "" {
				fmt.Fprintf(&b, "![image](%s)\n", tweet.ImageURL)
			}
			b.WriteString("</div>\n\n")
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}
