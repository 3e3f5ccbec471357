package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/quillcms/quill/internal/core/domain"
)

type MongoRoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *MongoRoleRepository {
	return &MongoRoleRepository{coll: db.Collection(rolesCollection)}
}

type mongoRole struct {
	ID        string `bson:"_id"`
	Name      string `bson:"name"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

// EnsureRoles seeds the three fixed role rows if the collection is empty.
// The unique index on name makes a concurrent double-seed a no-op failure
// rather than duplicate rows.
func (r *MongoRoleRepository) EnsureRoles(ctx context.Context) error {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count roles: %w", err)
	}
	if n > 0 {
		return nil
	}

	now := time.Now().UTC().Unix()
	docs := make([]interface{}, 0, 3)
	for _, name := range []domain.Role{domain.RoleUser, domain.RoleAdmin, domain.RoleSuperAdmin} {
		docs = append(docs, mongoRole{
			ID:        uuid.NewString(),
			Name:      string(name),
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("seed roles: %w", err)
	}
	return nil
}

func (r *MongoRoleRepository) FindByName(ctx context.Context, name domain.Role) (*domain.RoleRecord, error) {
	return r.findOne(ctx, bson.M{"name": string(name)})
}

func (r *MongoRoleRepository) FindByID(ctx context.Context, id string) (*domain.RoleRecord, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRoleRepository) findOne(ctx context.Context, filter bson.M) (*domain.RoleRecord, error) {
	var mr mongoRole
	if err := r.coll.FindOne(ctx, filter).Decode(&mr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &domain.RoleRecord{
		ID:        mr.ID,
		Name:      domain.Role(mr.Name),
		CreatedAt: unixToTime(mr.CreatedAt),
		UpdatedAt: unixToTime(mr.UpdatedAt),
	}, nil
}
