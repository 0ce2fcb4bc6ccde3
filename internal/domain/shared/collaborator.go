package shared

import (
	"context"

	"github.com/google/uuid"
)

// Authorizer is the access-control collaborator. The engine calls it before
// every entry point and trusts the answer; role and permission evaluation
// live outside this module.
type Authorizer interface {
	// Authorize returns nil when the subject may perform the action,
	// ErrUnauthorized otherwise.
	Authorize(ctx context.Context, subject uuid.UUID, action string) error
}

// AuditRecord describes a single auditable change for the audit sink.
type AuditRecord struct {
	Actor      uuid.UUID
	Action     string
	EntityType string
	EntityID   uuid.UUID
	Before     interface{}
	After      interface{}
}

// AuditSink receives audit records fire-and-forget. Implementations must not
// block the calling transaction; failures are logged, never propagated.
type AuditSink interface {
	RecordAudit(ctx context.Context, record AuditRecord)
}

// AllowAllAuthorizer authorizes every request. Used in wiring and tests when
// the real access-control service is not attached.
type AllowAllAuthorizer struct{}

// Authorize always allows.
func (AllowAllAuthorizer) Authorize(context.Context, uuid.UUID, string) error {
	return nil
}

var _ Authorizer = AllowAllAuthorizer{}
