package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// ErrMongoUnavailable is returned when every connection attempt failed.
var ErrMongoUnavailable = errors.New("mongodb unavailable")

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI            string
	Database       string
	MaxPoolSize    uint64
	ConnectTimeout time.Duration
	RetryAttempts  int
	RetryInterval  time.Duration
}

// ConnectMongo connects to MongoDB and verifies the connection with a ping.
// Cold starts of managed clusters are absorbed by retrying the ping.
func ConnectMongo(ctx context.Context, cfg MongoConfig) (*mongo.Database, error) {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.RetryAttempts < 1 {
		cfg.RetryAttempts = 1
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetRetryReads(true).
		SetRetryWrites(true)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongodb client: %w", err)
	}

	var pingErr error
	for attempt := 1; attempt <= cfg.RetryAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		pingErr = client.Ping(pingCtx, readpref.Primary())
		cancel()
		if pingErr == nil {
			return client.Database(cfg.Database), nil
		}
		if attempt == cfg.RetryAttempts {
			break
		}

		select {
		case <-ctx.Done():
			_ = client.Disconnect(context.Background())
			return nil, errors.Join(ErrMongoUnavailable, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	_ = client.Disconnect(context.Background())
	return nil, errors.Join(ErrMongoUnavailable, pingErr)
}

// PingMongo reports whether the primary is reachable.
func PingMongo(ctx context.Context, db *mongo.Database) error {
	return db.Client().Ping(ctx, readpref.Primary())
}

// mongoIndexes lists the secondary indexes per collection. Uniqueness of
// secret ids and admin principals comes from _id.
var mongoIndexes = map[string][]mongo.IndexModel{
	"secrets": {
		{Keys: bson.D{{Key: "visible_to", Value: 1}, {Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}},
	},
	"audit_logs": {
		{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
	},
}

// EnsureMongoIndexes creates the secondary indexes. Existing indexes with the
// same keys are left alone, so it can run on every deploy.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) (int, error) {
	created := 0
	for collection, models := range mongoIndexes {
		names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			return created, fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
		created += len(names)
	}
	return created, nil
}
