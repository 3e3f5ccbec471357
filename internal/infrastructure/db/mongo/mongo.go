package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Collection names. One place so index bootstrap and repositories agree.
const (
	usersCollection   = "users"
	rolesCollection   = "roles"
	tenantsCollection = "domains"
	appsCollection    = "apps"
	contentCollection = "content"
	mediaCollection   = "media"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// EnsureIndexes creates the uniqueness constraints the services rely on.
// Conflicts are detected by the datastore on insert, never pre-checked, so
// these indexes are load-bearing for correctness, not just performance.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	specs := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "phone", Value: 1}}, Options: unique},
		},
		rolesCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
		},
		tenantsCollection: {
			{Keys: bson.D{{Key: "host", Value: 1}}, Options: unique},
		},
		appsCollection: {
			{Keys: bson.D{{Key: "domain_id", Value: 1}}},
		},
		contentCollection: {
			{Keys: bson.D{{Key: "app_id", Value: 1}, {Key: "slug", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "app_id", Value: 1}, {Key: "parent_id", Value: 1}}},
		},
		mediaCollection: {
			{Keys: bson.D{{Key: "app_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", coll, err)
		}
	}
	return nil
}
