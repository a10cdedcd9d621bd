package aggregates

import (
	"strings"
	"time"
	"unicode/utf8"

	"influflow/domain/config"
	"influflow/domain/core/entities"
	"influflow/domain/core/valueobjects"
	"influflow/domain/events"
	pkgerrors "influflow/pkg/errors"
)

// Outline is the aggregate root for a document: topic plus ordered groups
// of tweets. It is the single source of truth; sections and the mind-map
// graph are derived projections and are never persisted.
type Outline struct {
	id        valueobjects.OutlineID
	userID    string
	topic     string
	format    valueobjects.ContentFormat
	groups    []entities.OutlineGroup
	createdAt time.Time
	updatedAt time.Time
	version   int

	// highWater tracks the largest tweet number ever seen so that minting
	// never reuses a number, even after the current maximum is deleted.
	highWater int

	events []events.DomainEvent
}

// NewOutline creates an outline from a completed generation
func NewOutline(userID, topic string, format valueobjects.ContentFormat, groups []entities.OutlineGroup) (*Outline, error) {
	return NewOutlineWithConfig(userID, topic, format, groups, config.DefaultDomainConfig())
}

// NewOutlineWithConfig creates an outline with explicit domain configuration
func NewOutlineWithConfig(userID, topic string, format valueobjects.ContentFormat, groups []entities.OutlineGroup, cfg *config.DomainConfig) (*Outline, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	topic = strings.TrimSpace(topic)
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if topic == "" {
		return nil, pkgerrors.NewValidationError("topic cannot be empty")
	}
	if utf8.RuneCountInString(topic) > cfg.MaxTopicLength {
		return nil, pkgerrors.NewValidationError("topic exceeds maximum length")
	}
	if !format.IsValid() {
		return nil, pkgerrors.NewValidationError("invalid content format")
	}
	if len(groups) > cfg.MaxGroupsPerOutline {
		return nil, pkgerrors.NewValidationError("too many outline groups")
	}
	if err := checkTweetNumbers(groups); err != nil {
		return nil, err
	}

	now := time.Now()
	o := &Outline{
		id:        valueobjects.NewOutlineID(),
		userID:    userID,
		topic:     topic,
		format:    format,
		groups:    cloneGroups(groups),
		createdAt: now,
		updatedAt: now,
		version:   1,
		highWater: maxTweetNumber(groups),
		events:    []events.DomainEvent{},
	}

	o.addEvent(events.NewOutlineGenerated(
		o.id.String(), userID, topic, format.String(),
		len(o.groups), o.TweetCount(), now,
	))

	return o, nil
}

// ReconstructOutline recreates an outline from stored data with preserved
// timestamps, version, and high-water mark. The stored mark may lag the
// current maximum (items written before the mark was stored carry zero),
// so the larger of the two wins.
func ReconstructOutline(
	id valueobjects.OutlineID,
	userID, topic string,
	format valueobjects.ContentFormat,
	groups []entities.OutlineGroup,
	createdAt, updatedAt time.Time,
	version, highWater int,
) (*Outline, error) {
	if id.IsZero() || userID == "" || topic == "" {
		return nil, pkgerrors.NewValidationError("required fields missing for outline reconstruction")
	}
	if err := checkTweetNumbers(groups); err != nil {
		return nil, err
	}

	if m := maxTweetNumber(groups); m > highWater {
		highWater = m
	}

	return &Outline{
		id:        id,
		userID:    userID,
		topic:     topic,
		format:    format,
		groups:    cloneGroups(groups),
		createdAt: createdAt,
		updatedAt: updatedAt,
		version:   version,
		highWater: highWater,
		events:    []events.DomainEvent{},
	}, nil
}

// ID returns the document's unique identifier
func (o *Outline) ID() valueobjects.OutlineID {
	return o.id
}

// UserID returns the owner's ID
func (o *Outline) UserID() string {
	return o.userID
}

// Topic returns the document title
func (o *Outline) Topic() string {
	return o.topic
}

// Format returns the content format
func (o *Outline) Format() valueobjects.ContentFormat {
	return o.format
}

// Groups returns the ordered outline groups
func (o *Outline) Groups() []entities.OutlineGroup {
	return cloneGroups(o.groups)
}

// GroupCount returns the number of outline groups
func (o *Outline) GroupCount() int {
	return len(o.groups)
}

// TweetCount returns the total number of tweets across all groups
func (o *Outline) TweetCount() int {
	n := 0
	for _, g := range o.groups {
		n += len(g.Tweets)
	}
	return n
}

// CreatedAt returns when the document was created
func (o *Outline) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns when the document was last modified
func (o *Outline) UpdatedAt() time.Time {
	return o.updatedAt
}

// Version returns the document version for optimistic locking
func (o *Outline) Version() int {
	return o.version
}

// FindTweet locates a tweet by its stable number
func (o *Outline) FindTweet(tweetNumber int) (entities.Tweet, bool) {
	for _, g := range o.groups {
		if t, ok := g.TweetByNumber(tweetNumber); ok {
			return t, true
		}
	}
	return entities.Tweet{}, false
}

// GroupOfTweet returns the index of the group owning the given tweet
func (o *Outline) GroupOfTweet(tweetNumber int) (int, bool) {
	for i, g := range o.groups {
		if _, ok := g.TweetByNumber(tweetNumber); ok {
			return i, true
		}
	}
	return 0, false
}

// MaxTweetNumber returns the highest tweet number currently present
func (o *Outline) MaxTweetNumber() int {
	return maxTweetNumber(o.groups)
}

// HighWater returns the largest tweet number ever minted in this document.
// It is persisted alongside the groups so minting stays monotonic across
// load-mutate-save cycles, not just within one aggregate instance.
func (o *Outline) HighWater() int {
	if m := o.MaxTweetNumber(); m > o.highWater {
		return m
	}
	return o.highWater
}

// RenameTopic updates the document title
func (o *Outline) RenameTopic(topic string) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return pkgerrors.NewValidationError("topic cannot be empty")
	}
	if topic == o.topic {
		return nil
	}

	old := o.topic
	o.topic = topic
	o.touch()
	o.addEvent(events.NewTopicRenamed(o.id.String(), old, topic, o.updatedAt))
	return nil
}

// RenameGroup updates a group's title, leaving its tweets untouched
func (o *Outline) RenameGroup(groupIndex int, title string) error {
	if groupIndex < 0 || groupIndex >= len(o.groups) {
		return pkgerrors.NewNotFoundError("outline group")
	}

	title = strings.TrimSpace(title)
	old := o.groups[groupIndex].Title
	if title == old {
		return nil
	}

	o.groups[groupIndex].Title = title
	o.touch()
	o.addEvent(events.NewGroupTitleUpdated(o.id.String(), groupIndex, old, title, o.updatedAt))
	return nil
}

// RenameTweet updates a tweet's title; its content is left untouched
func (o *Outline) RenameTweet(tweetNumber int, title string) error {
	for gi := range o.groups {
		for ti := range o.groups[gi].Tweets {
			if o.groups[gi].Tweets[ti].TweetNumber == tweetNumber {
				o.groups[gi].Tweets[ti].Title = strings.TrimSpace(title)
				o.touch()
				o.addEvent(events.NewTweetTitleUpdated(o.id.String(), tweetNumber, title, o.updatedAt))
				return nil
			}
		}
	}
	return pkgerrors.NewNotFoundError("tweet")
}

// EditTweetContent replaces exactly one tweet's content. Every other
// tweet number, title, and the group ordering are untouched.
func (o *Outline) EditTweetContent(tweetNumber int, content, source string) error {
	for gi := range o.groups {
		for ti := range o.groups[gi].Tweets {
			if o.groups[gi].Tweets[ti].TweetNumber == tweetNumber {
				o.groups[gi].Tweets[ti].Content = content
				o.touch()
				o.addEvent(events.NewTweetContentUpdated(o.id.String(), tweetNumber, source, o.updatedAt))
				return nil
			}
		}
	}
	return pkgerrors.NewNotFoundError("tweet")
}

// SetTweetImage attaches an image URL to a tweet
func (o *Outline) SetTweetImage(tweetNumber int, imageURL string) error {
	for gi := range o.groups {
		for ti := range o.groups[gi].Tweets {
			if o.groups[gi].Tweets[ti].TweetNumber == tweetNumber {
				o.groups[gi].Tweets[ti].ImageURL = imageURL
				o.touch()
				return nil
			}
		}
	}
	return pkgerrors.NewNotFoundError("tweet")
}

// AddGroup appends a new outline group and returns its index
func (o *Outline) AddGroup(title string) (int, error) {
	cfg := config.DefaultDomainConfig()
	if len(o.groups) >= cfg.MaxGroupsPerOutline {
		return 0, pkgerrors.NewValidationError("maximum outline groups reached")
	}

	o.groups = append(o.groups, entities.OutlineGroup{Title: strings.TrimSpace(title)})
	idx := len(o.groups) - 1
	o.touch()
	o.addEvent(events.NewGroupAdded(o.id.String(), idx, o.updatedAt))
	return idx, nil
}

// AddTweet mints a fresh globally unique tweet number and appends the tweet
// to the given group. Minted numbers are strictly greater than every number
// ever used in the document, so deletion never frees a number for reuse.
func (o *Outline) AddTweet(groupIndex int, title string) (int, error) {
	if groupIndex < 0 || groupIndex >= len(o.groups) {
		return 0, pkgerrors.NewNotFoundError("outline group")
	}

	cfg := config.DefaultDomainConfig()
	if len(o.groups[groupIndex].Tweets) >= cfg.MaxTweetsPerGroup {
		return 0, pkgerrors.NewValidationError("maximum tweets per group reached")
	}

	n := o.highWater
	if m := o.MaxTweetNumber(); m > n {
		n = m
	}
	n++
	o.highWater = n

	o.groups[groupIndex].Tweets = append(o.groups[groupIndex].Tweets, entities.Tweet{
		TweetNumber: n,
		Title:       strings.TrimSpace(title),
	})
	o.touch()
	o.addEvent(events.NewTweetAdded(o.id.String(), groupIndex, n, o.updatedAt))
	return n, nil
}

// RemoveGroup removes a group and all its tweets. Remaining groups shift
// down; tweet numbers are never renumbered.
func (o *Outline) RemoveGroup(groupIndex int) error {
	if groupIndex < 0 || groupIndex >= len(o.groups) {
		return pkgerrors.NewNotFoundError("outline group")
	}

	o.groups = append(o.groups[:groupIndex], o.groups[groupIndex+1:]...)
	o.touch()
	return nil
}

// RemoveTweet removes a single tweet by number
func (o *Outline) RemoveTweet(tweetNumber int) error {
	for gi := range o.groups {
		for ti := range o.groups[gi].Tweets {
			if o.groups[gi].Tweets[ti].TweetNumber == tweetNumber {
				tweets := o.groups[gi].Tweets
				o.groups[gi].Tweets = append(tweets[:ti], tweets[ti+1:]...)
				o.touch()
				return nil
			}
		}
	}
	return pkgerrors.NewNotFoundError("tweet")
}

// RecordSubtreeDeleted captures a cascading graph delete as a domain event
func (o *Outline) RecordSubtreeDeleted(rootNodeID string, removed []string) {
	o.addEvent(events.NewSubtreeDeleted(o.id.String(), rootNodeID, removed, time.Now()))
}

// GetUncommittedEvents returns all uncommitted domain events
func (o *Outline) GetUncommittedEvents() []events.DomainEvent {
	return o.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (o *Outline) MarkEventsAsCommitted() {
	o.events = []events.DomainEvent{}
}

func (o *Outline) addEvent(event events.DomainEvent) {
	o.events = append(o.events, event)
}

func (o *Outline) touch() {
	o.updatedAt = time.Now()
	o.version++
}

func cloneGroups(groups []entities.OutlineGroup) []entities.OutlineGroup {
	out := make([]entities.OutlineGroup, len(groups))
	for i, g := range groups {
		out[i] = entities.OutlineGroup{
			Title:  g.Title,
			Tweets: append([]entities.Tweet(nil), g.Tweets...),
		}
	}
	return out
}

func maxTweetNumber(groups []entities.OutlineGroup) int {
	max := 0
	for _, g := range groups {
		if m := g.MaxTweetNumber(); m > max {
			max = m
		}
	}
	return max
}

func checkTweetNumbers(groups []entities.OutlineGroup) error {
	seen := make(map[int]bool)
	for _, g := range groups {
		for _, t := range g.Tweets {
			if seen[t.TweetNumber] {
				return pkgerrors.NewConflictError("duplicate tweet number")
			}
			seen[t.TweetNumber] = true
		}
	}
	return nil
}
