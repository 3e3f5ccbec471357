package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quillcms/quill/internal/core/domain"
)

type MongoMediaRepository struct {
	coll *mongo.Collection
}

func NewMediaRepository(db *mongo.Database) *MongoMediaRepository {
	return &MongoMediaRepository{coll: db.Collection(mediaCollection)}
}

type mongoMedia struct {
	ID               string         `bson:"_id"`
	Name             string         `bson:"name"`
	OriginalFilename string         `bson:"original_filename"`
	FileKey          string         `bson:"file_key"`
	FileExtension    string         `bson:"file_extension"`
	FileSize         int64          `bson:"file_size"`
	MimeType         string         `bson:"mime_type"`
	MediaType        string         `bson:"media_type"`
	IsPublic         bool           `bson:"is_public"`
	AltText          string         `bson:"alt_text,omitempty"`
	Caption          string         `bson:"caption,omitempty"`
	Meta             map[string]any `bson:"meta,omitempty"`
	AppID            string         `bson:"app_id"`
	UploadedByID     string         `bson:"uploaded_by_id"`
	CreatedAt        int64          `bson:"created_at"`
	UpdatedAt        int64          `bson:"updated_at"`
}

func toMongoMedia(m *domain.Media) mongoMedia {
	return mongoMedia{
		ID:               m.ID,
		Name:             m.Name,
		OriginalFilename: m.OriginalFilename,
		FileKey:          m.FileKey,
		FileExtension:    m.FileExtension,
		FileSize:         m.FileSize,
		MimeType:         m.MimeType,
		MediaType:        string(m.MediaType),
		IsPublic:         m.IsPublic,
		AltText:          m.AltText,
		Caption:          m.Caption,
		Meta:             m.Meta,
		AppID:            m.AppID,
		UploadedByID:     m.UploadedByID,
		CreatedAt:        m.CreatedAt.Unix(),
		UpdatedAt:        m.UpdatedAt.Unix(),
	}
}

func (mm mongoMedia) toDomain() domain.Media {
	return domain.Media{
		ID:               mm.ID,
		Name:             mm.Name,
		OriginalFilename: mm.OriginalFilename,
		FileKey:          mm.FileKey,
		FileExtension:    mm.FileExtension,
		FileSize:         mm.FileSize,
		MimeType:         mm.MimeType,
		MediaType:        domain.MediaType(mm.MediaType),
		IsPublic:         mm.IsPublic,
		AltText:          mm.AltText,
		Caption:          mm.Caption,
		Meta:             mm.Meta,
		AppID:            mm.AppID,
		UploadedByID:     mm.UploadedByID,
		CreatedAt:        unixToTime(mm.CreatedAt),
		UpdatedAt:        unixToTime(mm.UpdatedAt),
	}
}

func (r *MongoMediaRepository) Create(ctx context.Context, media *domain.Media) (*domain.Media, error) {
	if _, err := r.coll.InsertOne(ctx, toMongoMedia(media)); err != nil {
		return nil, mapDuplicateKey(err)
	}
	return media, nil
}

func (r *MongoMediaRepository) FindByID(ctx context.Context, appID, mediaID string) (*domain.Media, error) {
	var mm mongoMedia
	filter := bson.M{"_id": mediaID, "app_id": appID}
	if err := r.coll.FindOne(ctx, filter).Decode(&mm); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrMediaNotFound
		}
		return nil, fmt.Errorf("find media: %w", err)
	}
	media := mm.toDomain()
	return &media, nil
}

func (r *MongoMediaRepository) List(ctx context.Context, appID string, mediaType domain.MediaType, limit, offset int64) ([]domain.Media, error) {
	filter := bson.M{"app_id": appID}
	if mediaType != "" {
		filter["media_type"] = string(mediaType)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer cursor.Close(ctx)

	var items []domain.Media
	for cursor.Next(ctx) {
		var mm mongoMedia
		if err := cursor.Decode(&mm); err != nil {
			return nil, fmt.Errorf("decode media: %w", err)
		}
		items = append(items, mm.toDomain())
	}
	return items, cursor.Err()
}

func (r *MongoMediaRepository) Update(ctx context.Context, media *domain.Media) (*domain.Media, error) {
	filter := bson.M{"_id": media.ID, "app_id": media.AppID}
	res, err := r.coll.ReplaceOne(ctx, filter, toMongoMedia(media))
	if err != nil {
		return nil, fmt.Errorf("update media: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrMediaNotFound
	}
	return media, nil
}

func (r *MongoMediaRepository) Delete(ctx context.Context, appID, mediaID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": mediaID, "app_id": appID})
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrMediaNotFound
	}
	return nil
}
