package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cvmotors/dealership-system/internal/core/domain"
)

const auditCollection = "auth_events"

// AuditRepository is the durable sink for the asynchronous auth audit trail.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuthEvent) error {
	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
