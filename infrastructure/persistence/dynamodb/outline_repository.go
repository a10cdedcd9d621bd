package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"influflow/application/ports"
	"influflow/domain/core/aggregates"
	"influflow/domain/core/entities"
	"influflow/domain/core/valueobjects"
	pkgerrors "influflow/pkg/errors"
)

// OutlineRepository implements ports.OutlineRepository on DynamoDB using
// a single-table layout: PK is the owning user, SK the outline id, and a
// GSI allows direct lookup by outline id alone.
type OutlineRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewOutlineRepository creates a new OutlineRepository
func NewOutlineRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.OutlineRepository {
	return &OutlineRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// outlineItem is the DynamoDB item structure for an outline
type outlineItem struct {
	PK         string      `dynamodbav:"PK"`
	SK         string      `dynamodbav:"SK"`
	GSI1PK     string      `dynamodbav:"GSI1PK"`
	GSI1SK     string      `dynamodbav:"GSI1SK"`
	EntityType string      `dynamodbav:"EntityType"`
	OutlineID  string      `dynamodbav:"OutlineID"`
	UserID     string      `dynamodbav:"UserID"`
	Topic      string      `dynamodbav:"Topic"`
	Format     string      `dynamodbav:"Format"`
	Groups     []groupItem `dynamodbav:"Groups"`
	CreatedAt  string      `dynamodbav:"CreatedAt"`
	UpdatedAt  string      `dynamodbav:"UpdatedAt"`
	Version    int         `dynamodbav:"Version"`
	HighWater  int         `dynamodbav:"HighWater"`
}

type groupItem struct {
	Title  string      `dynamodbav:"Title"`
	Tweets []tweetItem `dynamodbav:"Tweets"`
}

type tweetItem struct {
	TweetNumber int    `dynamodbav:"TweetNumber"`
	Content     string `dynamodbav:"Content"`
	Title       string `dynamodbav:"Title,omitempty"`
	ImageURL    string `dynamodbav:"ImageURL,omitempty"`
}

func userPK(userID string) string   { return fmt.Sprintf("USER#%s", userID) }
func outlineSK(id string) string    { return fmt.Sprintf("OUTLINE#%s", id) }
func outlineGSIPK(id string) string { return fmt.Sprintf("OUTLINEID#%s", id) }

// Save persists an outline to DynamoDB
func (r *OutlineRepository) Save(ctx context.Context, outline *aggregates.Outline) error {
	item := toItem(outline)

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal outline: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("failed to save outline",
			zap.Error(err),
			zap.String("outlineID", outline.ID().String()),
		)
		return pkgerrors.NewDatabaseError("save outline", err)
	}

	r.logger.Debug("outline saved",
		zap.String("outlineID", outline.ID().String()),
		zap.String("userID", outline.UserID()),
		zap.Int("version", outline.Version()),
	)

	return nil
}

// GetByID retrieves an outline by its ID via the outline-id GSI
func (r *OutlineRepository) GetByID(ctx context.Context, id valueobjects.OutlineID) (*aggregates.Outline, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(outlineGSIPK(id.String()))).
		And(expression.Key("GSI1SK").Equal(expression.Value("METADATA")))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get outline", err)
	}
	if len(out.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("outline")
	}

	var item outlineItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal outline: %w", err)
	}

	return fromItem(item)
}

// GetByUserID retrieves all outlines owned by a user, newest first
func (r *OutlineRepository) GetByUserID(ctx context.Context, userID string) ([]*aggregates.Outline, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("SK").BeginsWith("OUTLINE#"))
	filter := expression.Name("EntityType").Equal(expression.Value("OUTLINE"))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	var outlines []*aggregates.Outline
	var lastKey map[string]types.AttributeValue

	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("list outlines", err)
		}

		for _, raw := range out.Items {
			var item outlineItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("skipping unreadable outline item", zap.Error(err))
				continue
			}
			outline, err := fromItem(item)
			if err != nil {
				r.logger.Warn("skipping invalid outline item",
					zap.String("outlineID", item.OutlineID),
					zap.Error(err),
				)
				continue
			}
			outlines = append(outlines, outline)
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		lastKey = out.LastEvaluatedKey
	}

	// Newest first
	for i := 0; i < len(outlines); i++ {
		for j := i + 1; j < len(outlines); j++ {
			if outlines[j].UpdatedAt().After(outlines[i].UpdatedAt()) {
				outlines[i], outlines[j] = outlines[j], outlines[i]
			}
		}
	}

	return outlines, nil
}

// Delete removes an outline. The item key requires the owner, so the
// outline is looked up first.
func (r *OutlineRepository) Delete(ctx context.Context, id valueobjects.OutlineID) error {
	outline, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(outline.UserID())},
			"SK": &types.AttributeValueMemberS{Value: outlineSK(id.String())},
		},
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("delete outline", err)
	}

	r.logger.Info("outline deleted",
		zap.String("outlineID", id.String()),
		zap.String("userID", outline.UserID()),
	)

	return nil
}

func toItem(o *aggregates.Outline) outlineItem {
	groups := make([]groupItem, len(o.Groups()))
	for gi, g := range o.Groups() {
		tweets := make([]tweetItem, len(g.Tweets))
		for ti, t := range g.Tweets {
			tweets[ti] = tweetItem{
				TweetNumber: t.TweetNumber,
				Content:     t.Content,
				Title:       t.Title,
				ImageURL:    t.ImageURL,
			}
		}
		groups[gi] = groupItem{Title: g.Title, Tweets: tweets}
	}

	return outlineItem{
		PK:         userPK(o.UserID()),
		SK:         outlineSK(o.ID().String()),
		GSI1PK:     outlineGSIPK(o.ID().String()),
		GSI1SK:     "METADATA",
		EntityType: "OUTLINE",
		OutlineID:  o.ID().String(),
		UserID:     o.UserID(),
		Topic:      o.Topic(),
		Format:     o.Format().String(),
		Groups:     groups,
		CreatedAt:  o.CreatedAt().Format(time.RFC3339Nano),
		UpdatedAt:  o.UpdatedAt().Format(time.RFC3339Nano),
		Version:    o.Version(),
		HighWater:  o.HighWater(),
	}
}

func fromItem(item outlineItem) (*aggregates.Outline, error) {
	id, err := valueobjects.NewOutlineIDFromString(item.OutlineID)
	if err != nil {
		return nil, fmt.Errorf("stored outline has invalid id: %w", err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("stored outline has invalid CreatedAt: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("stored outline has invalid UpdatedAt: %w", err)
	}

	groups := make([]entities.OutlineGroup, len(item.Groups))
	for gi, g := range item.Groups {
		tweets := make([]entities.Tweet, len(g.Tweets))
		for ti, t := range g.Tweets {
			tweets[ti] = entities.Tweet{
				TweetNumber: t.TweetNumber,
				Content:     t.Content,
				Title:       t.Title,
				ImageURL:    t.ImageURL,
			}
		}
		groups[gi] = entities.OutlineGroup{Title: g.Title, Tweets: tweets}
	}

	return aggregates.ReconstructOutline(
		id, item.UserID, item.Topic,
		valueobjects.ContentFormat(item.Format), groups,
		createdAt, updatedAt, item.Version, item.HighWater,
	)
}
