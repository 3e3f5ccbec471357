package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quillcms/quill/internal/core/domain"
)

type MongoContentRepository struct {
	coll *mongo.Collection
}

func NewContentRepository(db *mongo.Database) *MongoContentRepository {
	return &MongoContentRepository{coll: db.Collection(contentCollection)}
}

type mongoContent struct {
	ID        string         `bson:"_id"`
	Key       string         `bson:"key"`
	Slug      string         `bson:"slug"`
	Value     map[string]any `bson:"value,omitempty"`
	AppID     string         `bson:"app_id"`
	ParentID  string         `bson:"parent_id,omitempty"`
	CreatedAt int64          `bson:"created_at"`
	UpdatedAt int64          `bson:"updated_at"`
}

func (mc mongoContent) toDomain() *domain.Content {
	return &domain.Content{
		ID:        mc.ID,
		Key:       mc.Key,
		Slug:      mc.Slug,
		Value:     mc.Value,
		AppID:     mc.AppID,
		ParentID:  mc.ParentID,
		CreatedAt: unixToTime(mc.CreatedAt),
		UpdatedAt: unixToTime(mc.UpdatedAt),
	}
}

func (r *MongoContentRepository) Create(ctx context.Context, content *domain.Content) (*domain.Content, error) {
	doc := mongoContent{
		ID:        content.ID,
		Key:       content.Key,
		Slug:      content.Slug,
		Value:     content.Value,
		AppID:     content.AppID,
		ParentID:  content.ParentID,
		CreatedAt: content.CreatedAt.Unix(),
		UpdatedAt: content.UpdatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, mapDuplicateKey(err)
	}
	return content, nil
}

func (r *MongoContentRepository) ListRoots(ctx context.Context, appID string) ([]*domain.Content, error) {
	filter := bson.M{"app_id": appID, "parent_id": bson.M{"$exists": false}}
	return r.list(ctx, filter)
}

func (r *MongoContentRepository) ListChildren(ctx context.Context, appID, parentID string) ([]*domain.Content, error) {
	return r.list(ctx, bson.M{"app_id": appID, "parent_id": parentID})
}

func (r *MongoContentRepository) list(ctx context.Context, filter bson.M) ([]*domain.Content, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer cursor.Close(ctx)

	var nodes []*domain.Content
	for cursor.Next(ctx) {
		var mc mongoContent
		if err := cursor.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode content: %w", err)
		}
		nodes = append(nodes, mc.toDomain())
	}
	return nodes, cursor.Err()
}
