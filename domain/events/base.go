package events

import (
	"time"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Outline events

// OutlineGenerated is raised when a completed generation produces an outline
type OutlineGenerated struct {
	BaseEvent
	OutlineID     string `json:"outline_id"`
	UserID        string `json:"user_id"`
	Topic         string `json:"topic"`
	ContentFormat string `json:"content_format"`
	GroupCount    int    `json:"group_count"`
	TweetCount    int    `json:"tweet_count"`
}

// NewOutlineGenerated creates an OutlineGenerated event
func NewOutlineGenerated(outlineID, userID, topic, contentFormat string, groupCount, tweetCount int, timestamp time.Time) OutlineGenerated {
	return OutlineGenerated{
		BaseEvent: BaseEvent{
			AggregateID: outlineID,
			EventType:   "outline.generated",
			Timestamp:   timestamp,
			Version:     1,
		},
		OutlineID:     outlineID,
		UserID:        userID,
		Topic:         topic,
		ContentFormat: contentFormat,
		GroupCount:    groupCount,
		TweetCount:    tweetCount,
	}
}

// TopicRenamed is raised when the document topic changes
type TopicRenamed struct {
	BaseEvent
	OutlineID string `json:"outline_id"`
	OldTopic  string `json:"old_topic"`
	NewTopic  string `json:"new_topic"`
}

// NewTopicRenamed creates a TopicRenamed event
func NewTopicRenamed(outlineID, oldTopic, newTopic string, timestamp time.Time) TopicRenamed {
	return TopicRenamed{
		BaseEvent: BaseEvent{
			AggregateID: outlineID,
			EventType:   "outline.topic_renamed",
			Timestamp:   timestamp,
			Version:     1,
		},
		OutlineID: outlineID,
		OldTopic:  oldTopic,
		NewTopic:  newTopic,
	}
}

// GroupTitleUpdated is raised when an outline group's title changes
type GroupTitleUpdated struct {
	BaseEvent
	OutlineID  string `json:"outline_id"`
	GroupIndex int    `json:"group_index"`
	OldTitle   string `json:"old_title"`
	NewTitle   string `json:"new_title"`
}

// NewGroupTitleUpdated creates a GroupTitleUpdated event
func NewGroupTitleUpdated(outlineID string, groupIndex int, oldTitle, newTitle string, timestamp time.Time) GroupTitleUpdated {
	return GroupTitleUpdated{
		BaseEvent: BaseEvent{
			AggregateID: outlineID,
			EventType:   "outline.group_title_updated",
			Timestamp:   timestamp,
			Version:     1,
		},
		OutlineID:  outlineID,
		GroupIndex: groupIndex,
		OldTitle:   oldTitle,
		NewTitle:   newTitle,
	}
}

// TweetContentUpdated is raised when a tweet's body content changes
type TweetContentUpdated struct {
	BaseEvent
	OutlineID   string `json:"outline_id"`
	TweetNumber int    `json:"tweet_number"`
	Source      string `json:"source"` // "editor" or "ai"
}

// NewTweetContentUpdated creates a TweetContentUpdated event
func NewTweetContentUpdated(outlineID string, tweetNumber int, source string, timestamp time.Time) TweetContentUpdated {
	return TweetContentUpdated{
		BaseEvent: BaseEvent{
			AggregateID: outlineID,
			EventType:   "outline.tweet_content_updated",
			Timestamp:   timestamp,
			Version:     1,
		},
		OutlineID:   outlineID,
		TweetNumber: tweetNumber,
		Source:      source,
	}
}

// TweetTitleUpdated is raised when a tweet's title changes
type TweetTitleUpdated struct {
	BaseEvent
	OutlineID   string `json:"outline_id"`
	TweetNumber int    `json:"tweet_number"`
	NewTitle    string `json:"new_title"`
}

// NewTweetTitleUpdated creates a TweetTitleUpdated event
func NewTweetTitleUpdated(outlineID string, tweetNumber int, newTitle string, timestamp time.Time) TweetTitleUpdated {
	return TweetTitleUpdated{
		BaseEvent: BaseEvent{
			AggregateID: outlineID,
			EventType:   "outline.tweet_title_updated",
			Timestamp:   timestamp,
			Version:     1,
		},
		OutlineID:   outlineID,
		TweetNumber: tweetNumber,
		NewTitle:    newTitle,
	}
}

// GroupAdded is raised when a structural edit appends a new outline group
type GroupAdded struct {
	BaseEvent
	OutlineID  string `json:"outline_id"`
	GroupIndex int    `json:"group_index"`
}

// NewGroupAdded creates a GroupAdded event
func NewGroupAdded(outlineID string, groupIndex int, timestamp time.Time) GroupAdded {
	return GroupAdded{
		BaseEvent: BaseEvent{
			AggregateID: outlineID,
			EventType:   "outline.group_added",
			Timestamp:   timestamp,
			Version:     1,
		},
		OutlineID:  outlineID,
		GroupIndex: groupIndex,
	}
}

// TweetAdded is raised when a structural edit mints a new tweet
type TweetAdded struct {
	BaseEvent
	OutlineID   string `json:"outline_id"`
	GroupIndex  int    `json:"group_index"`
	TweetNumber int    `json:"tweet_number"`
}

// NewTweetAdded creates a TweetAdded event
func NewTweetAdded(outlineID string, groupIndex, tweetNumber int, timestamp time.Time) TweetAdded {
	return TweetAdded{
		BaseEvent: BaseEvent{
			AggregateID: outlineID,
			EventType:   "outline.tweet_added",
			Timestamp:   timestamp,
			Version:     1,
		},
		OutlineID:   outlineID,
		GroupIndex:  groupIndex,
		TweetNumber: tweetNumber,
	}
}

// SubtreeDeleted is raised when a cascading delete removes graph nodes
type SubtreeDeleted struct {
	BaseEvent
	OutlineID    string   `json:"outline_id"`
	RootNodeID   string   `json:"root_node_id"`
	RemovedNodes []string `json:"removed_nodes"`
}

// NewSubtreeDeleted creates a SubtreeDeleted event
func NewSubtreeDeleted(outlineID, rootNodeID string, removedNodes []string, timestamp time.Time) SubtreeDeleted {
	return SubtreeDeleted{
		BaseEvent: BaseEvent{
			AggregateID: outlineID,
			EventType:   "outline.subtree_deleted",
			Timestamp:   timestamp,
			Version:     1,
		},
		OutlineID:    outlineID,
		RootNodeID:   rootNodeID,
		RemovedNodes: removedNodes,
	}
}

// OutlineDeleted is raised when a document is removed
type OutlineDeleted struct {
	BaseEvent
	OutlineID string `json:"outline_id"`
	UserID    string `json:"user_id"`
}

// NewOutlineDeleted creates an OutlineDeleted event
func NewOutlineDeleted(outlineID, userID string, timestamp time.Time) OutlineDeleted {
	return OutlineDeleted{
		BaseEvent: BaseEvent{
			AggregateID: outlineID,
			EventType:   "outline.deleted",
			Timestamp:   timestamp,
			Version:     1,
		},
		OutlineID: outlineID,
		UserID:    userID,
	}
}
