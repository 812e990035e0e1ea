package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	auditDomain "github.com/allisson/secretgate/internal/audit/domain"
	apperrors "github.com/allisson/secretgate/internal/errors"
)

const auditLogsCollection = "audit_logs"

// auditLogDocument stores the id as its canonical string form. Metadata is
// kept as a JSON string so that it reads back with the same types the
// signature was computed over.
type auditLogDocument struct {
	ID         string    `bson:"_id"`
	RequestID  string    `bson:"request_id"`
	Principal  string    `bson:"principal"`
	Action     string    `bson:"action"`
	ResourceID string    `bson:"resource_id"`
	Result     string    `bson:"result"`
	Metadata   string    `bson:"metadata,omitempty"`
	Signature  []byte    `bson:"signature,omitempty"`
	CreatedAt  time.Time `bson:"created_at"`
}

// MongoDBAuditLogRepository implements AuditLog persistence for MongoDB.
type MongoDBAuditLogRepository struct {
	collection *mongo.Collection
}

// Create inserts a new audit log entry.
func (m *MongoDBAuditLogRepository) Create(ctx context.Context, auditLog *auditDomain.AuditLog) error {
	metadataJSON, err := marshalMetadata(auditLog.Metadata)
	if err != nil {
		return err
	}

	doc := auditLogDocument{
		ID:         auditLog.ID.String(),
		RequestID:  auditLog.RequestID,
		Principal:  auditLog.Principal,
		Action:     string(auditLog.Action),
		ResourceID: auditLog.ResourceID,
		Result:     string(auditLog.Result),
		Metadata:   metadataJSON.String,
		Signature:  auditLog.Signature,
		CreatedAt:  auditLog.CreatedAt,
	}

	if _, err := m.collection.InsertOne(ctx, doc); err != nil {
		return apperrors.Wrap(err, "failed to create audit log")
	}
	return nil
}

// List retrieves audit logs newest first. from and to are optional inclusive bounds.
func (m *MongoDBAuditLogRepository) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.AuditLog, error) {
	filter := bson.M{}
	createdAt := bson.M{}
	if createdAtFrom != nil {
		createdAt["$gte"] = *createdAtFrom
	}
	if createdAtTo != nil {
		createdAt["$lte"] = *createdAtTo
	}
	if len(createdAt) > 0 {
		filter["created_at"] = createdAt
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	auditLogs := make([]*auditDomain.AuditLog, 0)
	for cursor.Next(ctx) {
		var doc auditLogDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode audit log")
		}

		auditLog, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		auditLogs = append(auditLogs, auditLog)
	}
	if err := cursor.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit logs")
	}
	return auditLogs, nil
}

// DeleteOlderThan removes entries created before cutoff, or only counts them when dryRun is set.
func (m *MongoDBAuditLogRepository) DeleteOlderThan(
	ctx context.Context,
	cutoff time.Time,
	dryRun bool,
) (int64, error) {
	filter := bson.M{"created_at": bson.M{"$lt": cutoff}}

	if dryRun {
		count, err := m.collection.CountDocuments(ctx, filter)
		if err != nil {
			return 0, apperrors.Wrap(err, "failed to count audit logs")
		}
		return count, nil
	}

	result, err := m.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit logs")
	}
	return result.DeletedCount, nil
}

func (d *auditLogDocument) toDomain() (*auditDomain.AuditLog, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse audit log id")
	}

	metadata, err := unmarshalMetadata([]byte(d.Metadata))
	if err != nil {
		return nil, err
	}

	return &auditDomain.AuditLog{
		ID:         id,
		RequestID:  d.RequestID,
		Principal:  d.Principal,
		Action:     auditDomain.Action(d.Action),
		ResourceID: d.ResourceID,
		Result:     auditDomain.Result(d.Result),
		Metadata:   metadata,
		Signature:  d.Signature,
		CreatedAt:  d.CreatedAt.UTC(),
	}, nil
}

// NewMongoDBAuditLogRepository creates a new MongoDB AuditLog repository.
func NewMongoDBAuditLogRepository(db *mongo.Database) *MongoDBAuditLogRepository {
	return &MongoDBAuditLogRepository{collection: db.Collection(auditLogsCollection)}
}
