package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mmtopup/storefront/internal/core/domain"
	"github.com/mmtopup/storefront/internal/core/ports"
)

const auditCollection = "admin_audit"

// AuditRepository implements ports.AuditWriter using MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

var _ ports.AuditWriter = (*AuditRepository)(nil)

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{db: db}
}

// EnsureIndexes creates the lookup indexes used by audit queries.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(auditCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "target", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "actor_id", Value: 1}, {Key: "at", Value: -1}}, Options: options.Index().SetName("actor_at")},
	})
	return err
}

// Insert persists an admin action to the audit collection.
func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	_, err := r.db.Collection(auditCollection).InsertOne(ctx, auditDocument(entry))
	return err
}

func auditDocument(entry *domain.AuditEntry) bson.M {
	doc := bson.M{
		"actor_id":    entry.ActorID,
		"actor_name":  entry.ActorName,
		"action":      entry.Action,
		"target":      entry.Target,
		"at":          entry.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if len(entry.Detail) > 0 {
		doc["detail"] = bson.M(entry.Detail)
	}
	return doc
}
