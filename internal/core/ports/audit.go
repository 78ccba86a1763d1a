package ports

import (
	"context"

	"github.com/cvmotors/dealership-system/internal/core/domain"
)

// AuditRecorder accepts auth events for asynchronous persistence.
// Record must be non-blocking from the caller's perspective; a full queue
// drops the event rather than stalling the request.
type AuditRecorder interface {
	Record(event domain.AuthEvent)
}

// AuditRepository is the durable sink the audit workers write to.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
}
