package valueobjects

// ContentFormat determines rendering and grouping rules for a document
type ContentFormat string

const (
	// FormatThread renders the outline as a Twitter thread
	FormatThread ContentFormat = "thread"
	// FormatLongform renders the outline as a long-form article with
	// numbered-emoji section headings
	FormatLongform ContentFormat = "longform"
)

// IsValid reports whether the format is a known rendering mode
func (f ContentFormat) IsValid() bool {
	switch f {
	case FormatThread, FormatLongform:
		return true
	default:
		return false
	}
}

// String returns the string representation
func (f ContentFormat) String() string {
	return string(f)
}
