package ports

import (
	"context"

	"influflow/domain/core/entities"
	"influflow/domain/core/valueobjects"
	"influflow/domain/events"
	"influflow/domain/mindmap"
)

// GenerationRequest describes one outline generation call
type GenerationRequest struct {
	UserID       string
	Topic        string
	Format       valueobjects.ContentFormat
	Instructions string
}

// GeneratedOutline is the raw material a generator returns before it is
// validated into an aggregate
type GeneratedOutline struct {
	Topic  string
	Groups []entities.OutlineGroup
}

// TweetEditRequest asks the generator to rewrite one tweet's body
type TweetEditRequest struct {
	UserID      string
	Topic       string
	TweetNumber int
	Content     string
	Instruction string
}

// ContentGenerator is the port to the upstream AI generation service
type ContentGenerator interface {
	// GenerateOutline produces a complete outline for a topic
	GenerateOutline(ctx context.Context, req GenerationRequest) (*GeneratedOutline, error)

	// EditTweet rewrites a single tweet's content per the instruction
	EditTweet(ctx context.Context, req TweetEditRequest) (string, error)
}

// LayoutEngine assigns positions to mind-map nodes. Implementations are
// pluggable; the projection itself carries no layout math.
type LayoutEngine interface {
	Layout(g *mindmap.Graph) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
