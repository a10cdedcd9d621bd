package config

import "time"

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Outline constraints
	MaxGroupsPerOutline int
	MaxTweetsPerOutline int
	MaxTweetsPerGroup   int

	// Content constraints
	MaxTopicLength   int
	MaxTitleLength   int
	MaxTweetLength   int
	MinTitleLength   int
	AllowEmptyTweets bool

	// Edit coalescing
	EditDebounceInterval time.Duration

	// Generation settings
	GenerationTimeout time.Duration

	// Feature flags
	EnableImageSections bool
	EnableAIEdits       bool
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxGroupsPerOutline: 50,
		MaxTweetsPerOutline: 500,
		MaxTweetsPerGroup:   25,

		MaxTopicLength:   300,
		MaxTitleLength:   200,
		MaxTweetLength:   10000,
		MinTitleLength:   1,
		AllowEmptyTweets: true,

		EditDebounceInterval: time.Second,

		GenerationTimeout: 2 * time.Minute,

		EnableImageSections: true,
		EnableAIEdits:       true,
	}
}
