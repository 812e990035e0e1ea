package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	apperrors "github.com/allisson/secretgate/internal/errors"
	secretsDomain "github.com/allisson/secretgate/internal/secrets/domain"
)

const secretsCollection = "secrets"

type secretDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Value     string    `bson:"value"`
	VisibleTo []string  `bson:"visible_to"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d *secretDocument) toDomain() *secretsDomain.Secret {
	visibleTo := d.VisibleTo
	if visibleTo == nil {
		visibleTo = []string{}
	}
	return &secretsDomain.Secret{
		ID:        d.ID,
		Name:      d.Name,
		Value:     d.Value,
		VisibleTo: visibleTo,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// MongoDBSecretRepository implements Secret persistence for MongoDB.
// Documents are keyed by the secret id.
type MongoDBSecretRepository struct {
	collection *mongo.Collection
}

// GetByID retrieves a secret by its identifier.
func (m *MongoDBSecretRepository) GetByID(ctx context.Context, id string) (*secretsDomain.Secret, error) {
	var doc secretDocument
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, secretsDomain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get secret by id")
	}
	return doc.toDomain(), nil
}

// Upsert inserts a secret or replaces the existing document with the same id.
// created_at is only written on insert.
func (m *MongoDBSecretRepository) Upsert(ctx context.Context, secret *secretsDomain.Secret) error {
	visibleTo := secret.VisibleTo
	if visibleTo == nil {
		visibleTo = []string{}
	}

	update := bson.M{
		"$set": bson.M{
			"name":       secret.Name,
			"value":      secret.Value,
			"visible_to": visibleTo,
			"updated_at": secret.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"created_at": secret.CreatedAt,
		},
	}

	_, err := m.collection.UpdateOne(
		ctx,
		bson.M{"_id": secret.ID},
		update,
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert secret")
	}
	return nil
}

// List retrieves secrets ordered by name then id.
func (m *MongoDBSecretRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*secretsDomain.Secret, error) {
	return m.find(ctx, bson.M{}, offset, limit)
}

// ListVisibleTo retrieves the secrets whose visible_to array contains principal.
func (m *MongoDBSecretRepository) ListVisibleTo(
	ctx context.Context,
	principal string,
	offset, limit int,
) ([]*secretsDomain.Secret, error) {
	return m.find(ctx, bson.M{"visible_to": principal}, offset, limit)
}

// Delete removes a secret by id.
func (m *MongoDBSecretRepository) Delete(ctx context.Context, id string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperrors.Wrap(err, "failed to delete secret")
	}
	if result.DeletedCount == 0 {
		return secretsDomain.ErrSecretNotFound
	}
	return nil
}

func (m *MongoDBSecretRepository) find(
	ctx context.Context,
	filter bson.M,
	offset, limit int,
) ([]*secretsDomain.Secret, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secrets")
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	secrets := make([]*secretsDomain.Secret, 0)
	for cursor.Next(ctx) {
		var doc secretDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode secret")
		}
		secrets = append(secrets, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate secrets")
	}
	return secrets, nil
}

// NewMongoDBSecretRepository creates a new MongoDB Secret repository instance.
func NewMongoDBSecretRepository(db *mongo.Database) *MongoDBSecretRepository {
	return &MongoDBSecretRepository{collection: db.Collection(secretsCollection)}
}
