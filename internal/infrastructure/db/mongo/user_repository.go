package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/quillcms/quill/internal/core/domain"
)

type MongoUserRepository struct {
	db *mongo.Database
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{db: db}
}

type mongoUser struct {
	ID           string `bson:"_id"`
	Username     string `bson:"username"`
	Email        string `bson:"email"`
	Phone        string `bson:"phone"`
	PasswordHash string `bson:"password_hash"`
	RoleID       string `bson:"role_id"`
	TenantID     string `bson:"domain_id,omitempty"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func toMongoUser(u *domain.User) mongoUser {
	return mongoUser{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		RoleID:       u.RoleID,
		TenantID:     u.TenantID,
		CreatedAt:    u.CreatedAt.Unix(),
		UpdatedAt:    u.UpdatedAt.Unix(),
	}
}

func (mu mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           mu.ID,
		Username:     mu.Username,
		Email:        mu.Email,
		Phone:        mu.Phone,
		PasswordHash: mu.PasswordHash,
		RoleID:       mu.RoleID,
		TenantID:     mu.TenantID,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
}

// Create inserts the user and, when tenant is non-nil, the tenant in the
// same transaction with the user linked to it. Either both documents
// persist or neither does; a dropped connection aborts the transaction.
func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User, tenant *domain.Tenant) (*domain.User, error) {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		u := *user
		if tenant != nil {
			if _, err := r.db.Collection(tenantsCollection).InsertOne(sc, toMongoTenant(tenant)); err != nil {
				return nil, mapDuplicateKey(err)
			}
			u.TenantID = tenant.ID
		}
		if _, err := r.db.Collection(usersCollection).InsertOne(sc, toMongoUser(&u)); err != nil {
			return nil, mapDuplicateKey(err)
		}
		return &u, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.User), nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.db.Collection(usersCollection).FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *MongoUserRepository) CountByRoleID(ctx context.Context, roleID string) (int64, error) {
	n, err := r.db.Collection(usersCollection).CountDocuments(ctx, bson.M{"role_id": roleID})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
