package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"influflow/domain/core/valueobjects"
)

func TestResolveState_Interactivity(t *testing.T) {
	tests := []struct {
		name    string
		section Section
		want    bool
	}{
		{"tweet is interactive", Section{Type: SectionTweet}, true},
		{"group is interactive", Section{Type: SectionGroup}, true},
		{"plain paragraph is interactive", Section{Type: SectionParagraph, Content: "hello"}, true},
		{"heading is not", Section{Type: SectionHeading, Content: "Title"}, false},
		{"list is not", Section{Type: SectionList, Content: "- a"}, false},
		{"time caption is not", Section{Type: SectionParagraph, Content: "Edited on Aug 29, 2026"}, false},
		{"extracted image is not", Section{Type: SectionParagraph, Content: "caption", ImageURL: "https://x/1.png"}, false},
		{"inline image ref is not", Section{Type: SectionParagraph, Content: "see ![a](https://x/1.png)"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := ResolveState(tt.section, HighlightContext{})
			assert.Equal(t, tt.want, state.Interactive)
		})
	}
}

func TestResolveState_HighlightIDForms(t *testing.T) {
	tweet := Section{Type: SectionTweet, ID: "tweet-section-5", TweetID: valueobjects.NewFlexID("5")}

	t.Run("numeric selected id matches string tweet id", func(t *testing.T) {
		ctx := HighlightContext{SelectedID: valueobjects.NewFlexIDFromInt(5)}
		assert.True(t, ResolveState(tweet, ctx).Highlighted)
	})

	t.Run("zero padded string matches numerically", func(t *testing.T) {
		ctx := HighlightContext{HoveredID: valueobjects.NewFlexID("05")}
		assert.True(t, ResolveState(tweet, ctx).Highlighted)
	})

	t.Run("different id does not match", func(t *testing.T) {
		ctx := HighlightContext{SelectedID: valueobjects.NewFlexIDFromInt(6)}
		assert.False(t, ResolveState(tweet, ctx).Highlighted)
	})

	t.Run("empty context highlights nothing", func(t *testing.T) {
		assert.False(t, ResolveState(tweet, HighlightContext{}).Highlighted)
	})

	t.Run("section id match", func(t *testing.T) {
		ctx := HighlightContext{HighlightedSectionID: valueobjects.NewFlexID("tweet-section-5")}
		assert.True(t, ResolveState(tweet, ctx).Highlighted)
	})
}

func TestResolveState_GroupReference(t *testing.T) {
	group := Section{Type: SectionGroup, ID: "group-section-2", GroupID: valueobjects.NewFlexID("2")}

	t.Run("hovered group ref highlights group section", func(t *testing.T) {
		ctx := HighlightContext{HoveredID: valueobjects.NewFlexID("group-2")}
		assert.True(t, ResolveState(group, ctx).Highlighted)
	})

	t.Run("other group ref does not", func(t *testing.T) {
		ctx := HighlightContext{HoveredID: valueobjects.NewFlexID("group-3")}
		assert.False(t, ResolveState(group, ctx).Highlighted)
	})

	t.Run("group ref is not a prefix match", func(t *testing.T) {
		thirty := Section{Type: SectionGroup, ID: "group-section-30", GroupID: valueobjects.NewFlexID("30")}
		ctx := HighlightContext{HoveredID: valueobjects.NewFlexID("group-3")}
		assert.False(t, ResolveState(thirty, ctx).Highlighted)

		three := Section{Type: SectionGroup, ID: "group-section-3", GroupID: valueobjects.NewFlexID("3")}
		assert.True(t, ResolveState(three, ctx).Highlighted)
	})

	t.Run("group ref never matches a tweet section", func(t *testing.T) {
		tweet := Section{Type: SectionTweet, TweetID: valueobjects.NewFlexIDFromInt(2)}
		ctx := HighlightContext{HoveredID: valueobjects.NewFlexID("group-2")}
		assert.False(t, ResolveState(tweet, ctx).Highlighted)
	})
}

func TestResolveState_EditingAndGenerating(t *testing.T) {
	tweet := Section{Type: SectionTweet, ID: "tweet-section-8", TweetID: valueobjects.NewFlexIDFromInt(8)}

	t.Run("editing id keeps section highlighted", func(t *testing.T) {
		ctx := HighlightContext{EditingID: valueobjects.NewFlexID("8")}
		assert.True(t, ResolveState(tweet, ctx).Highlighted)
	})

	t.Run("generating image ids highlight their tweets", func(t *testing.T) {
		ctx := HighlightContext{GeneratingImageIDs: []valueobjects.FlexID{
			valueobjects.NewFlexIDFromInt(3),
			valueobjects.NewFlexIDFromInt(8),
		}}
		assert.True(t, ResolveState(tweet, ctx).Highlighted)
	})
}

func TestResolveState_Loading(t *testing.T) {
	tweet := Section{Type: SectionTweet, ID: "tweet-section-4", TweetID: valueobjects.NewFlexIDFromInt(4)}

	t.Run("loading by tweet id", func(t *testing.T) {
		ctx := HighlightContext{LoadingID: valueobjects.NewFlexID("4")}
		assert.True(t, ResolveState(tweet, ctx).Loading)
	})

	t.Run("loading by section id", func(t *testing.T) {
		ctx := HighlightContext{LoadingID: valueobjects.NewFlexID("tweet-section-4")}
		assert.True(t, ResolveState(tweet, ctx).Loading)
	})

	t.Run("zero loading id never loads", func(t *testing.T) {
		assert.False(t, ResolveState(tweet, HighlightContext{}).Loading)
	})
}
