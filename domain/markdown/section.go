package markdown

import (
	"influflow/domain/core/valueobjects"
)

// SectionType classifies a parsed section
type SectionType string

const (
	SectionHeading   SectionType = "heading"
	SectionParagraph SectionType = "paragraph"
	SectionList      SectionType = "list"
	SectionTweet     SectionType = "tweet"
	SectionGroup     SectionType = "group"
)

// Section is an ephemeral parse product: one independently renderable and
// editable unit of the tagged markdown document. Sections are positional
// and fully rebuilt on every parse; they carry no identity across parses
// except through TweetID/GroupID, which join back to the outline.
type Section struct {
	ID         string      `json:"id"`
	Type       SectionType `json:"type"`
	Content    string      `json:"content"`
	RawContent string      `json:"raw_content"`

	// Level is the heading depth, for heading sections only
	Level int `json:"level,omitempty"`

	// Join keys back to the outline, for tweet/group sections only
	TweetID    valueobjects.FlexID `json:"tweet_id,omitempty"`
	GroupID    valueobjects.FlexID `json:"group_id,omitempty"`
	GroupIndex int                 `json:"group_index"`
	TweetIndex int                 `json:"tweet_index"`

	// ImageURL holds the first embedded image reference, extracted from
	// the content; the remaining text acts as its caption
	ImageURL string `json:"image_url,omitempty"`
	ImageAlt string `json:"image_alt,omitempty"`
}

// IsTagged reports whether the section came from a tagged block
func (s Section) IsTagged() bool {
	return s.Type == SectionTweet || s.Type == SectionGroup
}
