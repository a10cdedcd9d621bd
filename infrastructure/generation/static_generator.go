package generation

import (
	"context"
	"fmt"

	"influflow/application/ports"
	"influflow/domain/core/entities"
	"influflow/domain/core/valueobjects"
)

// StaticGenerator produces deterministic template outlines. It stands in
// for the real generation service in development, where no generator
// endpoint is configured.
type StaticGenerator struct{}

// NewStaticGenerator creates a template-based generator
func NewStaticGenerator() ports.ContentGenerator {
	return &StaticGenerator{}
}

// GenerateOutline produces a fixed three-part outline for the topic
func (g *StaticGenerator) GenerateOutline(_ context.Context, req ports.GenerationRequest) (*ports.GeneratedOutline, error) {
	titles := []string{"Why it matters", "Key points", "Takeaways"}
	if req.Format == valueobjects.FormatLongform {
		titles = []string{"Introduction", "Deep dive", "Conclusion"}
	}

	groups := make([]entities.OutlineGroup, len(titles))
	n := 0
	for gi, title := range titles {
		tweets := make([]entities.Tweet, 2)
		for ti := range tweets {
			n++
			tweets[ti] = entities.Tweet{
				TweetNumber: n,
				Content:     fmt.Sprintf("%s: point %d about %s.", title, ti+1, req.Topic),
			}
		}
		groups[gi] = entities.OutlineGroup{Title: title, Tweets: tweets}
	}

	return &ports.GeneratedOutline{Topic: req.Topic, Groups: groups}, nil
}

// EditTweet applies the instruction as a visible prefix so edited content
// is recognizable in development
func (g *StaticGenerator) EditTweet(_ context.Context, req ports.TweetEditRequest) (string, error) {
	return fmt.Sprintf("[%s] %s", req.Instruction, req.Content), nil
}
