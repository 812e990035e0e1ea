package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	accessDomain "github.com/allisson/secretgate/internal/access/domain"
	apperrors "github.com/allisson/secretgate/internal/errors"
)

const adminsCollection = "admins"

// adminDocument is keyed by principal, one document per admin.
type adminDocument struct {
	Principal string    `bson:"_id"`
	CreatedAt time.Time `bson:"created_at"`
}

// MongoDBAdminRepository implements Admin persistence for MongoDB.
type MongoDBAdminRepository struct {
	collection *mongo.Collection
}

// Exists reports whether principal holds an admin grant.
func (m *MongoDBAdminRepository) Exists(ctx context.Context, principal string) (bool, error) {
	err := m.collection.FindOne(ctx, bson.M{"_id": principal}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, apperrors.Wrap(err, "failed to check admin")
	}
	return true, nil
}

// Create inserts an admin grant. A duplicate principal maps to ErrAdminAlreadyExists.
func (m *MongoDBAdminRepository) Create(ctx context.Context, admin *accessDomain.Admin) error {
	_, err := m.collection.InsertOne(ctx, adminDocument{Principal: admin.Principal, CreatedAt: admin.CreatedAt})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return accessDomain.ErrAdminAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create admin")
	}
	return nil
}

// Delete removes an admin grant.
func (m *MongoDBAdminRepository) Delete(ctx context.Context, principal string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": principal})
	if err != nil {
		return apperrors.Wrap(err, "failed to delete admin")
	}
	if result.DeletedCount == 0 {
		return accessDomain.ErrAdminNotFound
	}
	return nil
}

// List returns every admin ordered by principal.
func (m *MongoDBAdminRepository) List(ctx context.Context) ([]*accessDomain.Admin, error) {
	cursor, err := m.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list admins")
	}

	var docs []adminDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode admins")
	}

	admins := make([]*accessDomain.Admin, 0, len(docs))
	for _, doc := range docs {
		admins = append(admins, &accessDomain.Admin{Principal: doc.Principal, CreatedAt: doc.CreatedAt.UTC()})
	}
	return admins, nil
}

// NewMongoDBAdminRepository creates a new MongoDB Admin repository.
func NewMongoDBAdminRepository(db *mongo.Database) *MongoDBAdminRepository {
	return &MongoDBAdminRepository{collection: db.Collection(adminsCollection)}
}
