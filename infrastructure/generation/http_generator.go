package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"influflow/application/ports"
	"influflow/domain/core/entities"
	pkgerrors "influflow/pkg/errors"
)

// HTTPGenerator calls the upstream generation service over HTTP
type HTTPGenerator struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *zap.Logger
}

// NewHTTPGenerator creates a generator client for the given endpoint
func NewHTTPGenerator(endpoint, apiKey string, logger *zap.Logger) ports.ContentGenerator {
	return &HTTPGenerator{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 3 * time.Minute},
		logger:   logger,
	}
}

type generateRequest struct {
	UserID       string `json:"user_id"`
	Topic        string `json:"topic"`
	Format       string `json:"format"`
	Instructions string `json:"instructions,omitempty"`
}

type generateResponse struct {
	Topic  string `json:"topic"`
	Groups []struct {
		Title  string `json:"title"`
		Tweets []struct {
			TweetNumber int    `json:"tweet_number"`
			Content     string `json:"content"`
			Title       string `json:"title,omitempty"`
		} `json:"tweets"`
	} `json:"groups"`
}

type editRequest struct {
	UserID      string `json:"user_id"`
	Topic       string `json:"topic"`
	TweetNumber int    `json:"tweet_number"`
	Content     string `json:"content"`
	Instruction string `json:"instruction"`
}

type editResponse struct {
	Content string `json:"content"`
}

// GenerateOutline produces a complete outline for a topic
func (g *HTTPGenerator) GenerateOutline(ctx context.Context, req ports.GenerationRequest) (*ports.GeneratedOutline, error) {
	payload := generateRequest{
		UserID:       req.UserID,
		Topic:        req.Topic,
		Format:       req.Format.String(),
		Instructions: req.Instructions,
	}

	var resp generateResponse
	if err := g.post(ctx, "/v1/generate", payload, &resp); err != nil {
		return nil, err
	}

	groups := make([]entities.OutlineGroup, len(resp.Groups))
	for gi, rg := range resp.Groups {
		tweets := make([]entities.Tweet, len(rg.Tweets))
		for ti, rt := range rg.Tweets {
			tweets[ti] = entities.Tweet{
				TweetNumber: rt.TweetNumber,
				Content:     rt.Content,
				Title:       rt.Title,
			}
		}
		groups[gi] = entities.OutlineGroup{Title: rg.Title, Tweets: tweets}
	}

	return &ports.GeneratedOutline{Topic: resp.Topic, Groups: groups}, nil
}

// EditTweet rewrites a single tweet's content per the instruction
func (g *HTTPGenerator) EditTweet(ctx context.Context, req ports.TweetEditRequest) (string, error) {
	payload := editRequest{
		UserID:      req.UserID,
		Topic:       req.Topic,
		TweetNumber: req.TweetNumber,
		Content:     req.Content,
		Instruction: req.Instruction,
	}

	var resp editResponse
	if err := g.post(ctx, "/v1/edit", payload, &resp); err != nil {
		return "", err
	}
	return resp.Content, nil
}

func (g *HTTPGenerator) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal generator request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build generator request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return pkgerrors.NewExternalError("generator", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		g.logger.Error("generator returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("path", path),
			zap.ByteString("body", snippet),
		)
		return pkgerrors.NewExternalError("generator", fmt.Errorf("status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode generator response: %w", err)
	}
	return nil
}
