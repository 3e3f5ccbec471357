package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/quillcms/quill/internal/core/domain"
)

type MongoTenantRepository struct {
	db *mongo.Database
}

func NewTenantRepository(db *mongo.Database) *MongoTenantRepository {
	return &MongoTenantRepository{db: db}
}

type mongoTenant struct {
	ID        string `bson:"_id"`
	Name      string `bson:"name"`
	Host      string `bson:"host"`
	URL       string `bson:"url,omitempty"`
	IsActive  bool   `bson:"is_active"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

func toMongoTenant(t *domain.Tenant) mongoTenant {
	return mongoTenant{
		ID:        t.ID,
		Name:      t.Name,
		Host:      t.Host,
		URL:       t.URL,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt.Unix(),
		UpdatedAt: t.UpdatedAt.Unix(),
	}
}

func (mt mongoTenant) toDomain() *domain.Tenant {
	return &domain.Tenant{
		ID:        mt.ID,
		Name:      mt.Name,
		Host:      mt.Host,
		URL:       mt.URL,
		IsActive:  mt.IsActive,
		CreatedAt: unixToTime(mt.CreatedAt),
		UpdatedAt: unixToTime(mt.UpdatedAt),
	}
}

// CreateWithOwner inserts the tenant and sets the owner's domain_id in the
// same transaction. If the owner update fails the tenant insert is rolled
// back, so a retry with the same host cannot hit the unique index.
func (r *MongoTenantRepository) CreateWithOwner(ctx context.Context, tenant *domain.Tenant, ownerID string) (*domain.Tenant, error) {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.db.Collection(tenantsCollection).InsertOne(sc, toMongoTenant(tenant)); err != nil {
			return nil, mapDuplicateKey(err)
		}
		res, err := r.db.Collection(usersCollection).UpdateOne(sc,
			bson.M{"_id": ownerID},
			bson.M{"$set": bson.M{"domain_id": tenant.ID, "updated_at": time.Now().UTC().Unix()}},
		)
		if err != nil {
			return nil, fmt.Errorf("link owner: %w", err)
		}
		if res.MatchedCount == 0 {
			return nil, domain.ErrUserNotFound
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

func (r *MongoTenantRepository) FindByID(ctx context.Context, id string) (*domain.Tenant, error) {
	var mt mongoTenant
	if err := r.db.Collection(tenantsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&mt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTenantNotFound
		}
		return nil, fmt.Errorf("find tenant: %w", err)
	}
	return mt.toDomain(), nil
}
