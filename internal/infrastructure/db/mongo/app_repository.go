package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/quillcms/quill/internal/core/domain"
)

type MongoAppRepository struct {
	coll *mongo.Collection
}

func NewAppRepository(db *mongo.Database) *MongoAppRepository {
	return &MongoAppRepository{coll: db.Collection(appsCollection)}
}

type mongoApp struct {
	ID        string   `bson:"_id"`
	Name      string   `bson:"name"`
	Secret    string   `bson:"secret"`
	IsActive  bool     `bson:"is_active"`
	TenantID  string   `bson:"domain_id"`
	MemberIDs []string `bson:"member_ids"`
	CreatedAt int64    `bson:"created_at"`
	UpdatedAt int64    `bson:"updated_at"`
}

func (ma mongoApp) toDomain() domain.App {
	return domain.App{
		ID:        ma.ID,
		Name:      ma.Name,
		Secret:    ma.Secret,
		IsActive:  ma.IsActive,
		TenantID:  ma.TenantID,
		MemberIDs: ma.MemberIDs,
		CreatedAt: unixToTime(ma.CreatedAt),
		UpdatedAt: unixToTime(ma.UpdatedAt),
	}
}

func (r *MongoAppRepository) Create(ctx context.Context, app *domain.App) (*domain.App, error) {
	doc := mongoApp{
		ID:        app.ID,
		Name:      app.Name,
		Secret:    app.Secret,
		IsActive:  app.IsActive,
		TenantID:  app.TenantID,
		MemberIDs: app.MemberIDs,
		CreatedAt: app.CreatedAt.Unix(),
		UpdatedAt: app.UpdatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, mapDuplicateKey(err)
	}
	return app, nil
}

// FindByID is tenant-scoped: an app ID belonging to another tenant resolves
// to ErrAppNotFound, not a forbidden error, so existence never leaks.
func (r *MongoAppRepository) FindByID(ctx context.Context, tenantID, appID string) (*domain.App, error) {
	var ma mongoApp
	filter := bson.M{"_id": appID, "domain_id": tenantID}
	if err := r.coll.FindOne(ctx, filter).Decode(&ma); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAppNotFound
		}
		return nil, fmt.Errorf("find app: %w", err)
	}
	app := ma.toDomain()
	return &app, nil
}

func (r *MongoAppRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.App, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"domain_id": tenantID})
	if err != nil {
		return nil, fmt.Errorf("list apps: %w", err)
	}
	defer cursor.Close(ctx)

	var apps []domain.App
	for cursor.Next(ctx) {
		var ma mongoApp
		if err := cursor.Decode(&ma); err != nil {
			return nil, fmt.Errorf("decode app: %w", err)
		}
		apps = append(apps, ma.toDomain())
	}
	return apps, cursor.Err()
}

func (r *MongoAppRepository) Delete(ctx context.Context, tenantID, appID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": appID, "domain_id": tenantID})
	if err != nil {
		return fmt.Errorf("delete app: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAppNotFound
	}
	return nil
}
