package markdown

import (
	"strings"

	"influflow/domain/core/valueobjects"
)

// HighlightContext is the bag of external identifiers that drive a
// section's interaction state. Identifiers arrive inconsistently as
// strings or numbers from different callers, so every comparison goes
// through valueobjects.FlexID.
type HighlightContext struct {
	HighlightedSectionID valueobjects.FlexID
	HoveredID            valueobjects.FlexID
	EditingID            valueobjects.FlexID
	SelectedID           valueobjects.FlexID
	LoadingID            valueobjects.FlexID
	GeneratingImageIDs   []valueobjects.FlexID
}

// SectionState is a section's resolved interaction state
type SectionState struct {
	Interactive bool `json:"interactive"`
	Highlighted bool `json:"highlighted"`
	Loading     bool `json:"loading"`
}

// ResolveState decides a section's interaction state. Pure function of
// the section and the context.
func ResolveState(s Section, ctx HighlightContext) SectionState {
	return SectionState{
		Interactive: isInteractive(s),
		Highlighted: isHighlighted(s, ctx),
		Loading:     isLoading(s, ctx),
	}
}

func isInteractive(s Section) bool {
	switch s.Type {
	case SectionTweet, SectionGroup:
		return true
	case SectionParagraph:
		if strings.Contains(s.Content, TimeCaptionMarker) {
			return false
		}
		if s.ImageURL != "" || reImage.MatchString(s.Content) {
			return false
		}
		return true
	default:
		return false
	}
}

func isHighlighted(s Section, ctx HighlightContext) bool {
	if !ctx.HighlightedSectionID.IsZero() && ctx.HighlightedSectionID.Matches(valueobjects.NewFlexID(s.ID)) {
		return true
	}
	if matchesSection(ctx.HoveredID, s) {
		return true
	}
	// Keeps a section highlighted while its AI edit or text edit is in flight
	if matchesSection(ctx.EditingID, s) {
		return true
	}
	for _, id := range ctx.GeneratingImageIDs {
		if id.Matches(s.TweetID) {
			return true
		}
	}
	if ctx.SelectedID.Matches(s.TweetID) {
		return true
	}
	return false
}

func isLoading(s Section, ctx HighlightContext) bool {
	if ctx.LoadingID.IsZero() {
		return false
	}
	if matchesSection(ctx.LoadingID, s) {
		return true
	}
	return ctx.LoadingID.Matches(valueobjects.NewFlexID(s.ID))
}

// matchesSection applies the shared tweet/group matching rules: a direct
// tweet-id match, or a "group-{N}" reference matching the section's group
func matchesSection(id valueobjects.FlexID, s Section) bool {
	if id.IsZero() {
		return false
	}
	if id.Matches(s.TweetID) {
		return true
	}
	if n, ok := id.GroupRef(); ok && s.GroupID.MatchesInt(n) {
		return true
	}
	return false
}
