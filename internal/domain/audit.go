package domain

import (
	"context"

	"github.com/sebastiansledz/qrsaws-sub000/internal/core/id"
)

// Audit action names stored in the trail.
const (
	AuditCreate   = "create"
	AuditUpdate   = "update"
	AuditDelete   = "delete"
	AuditClose    = "close"
	AuditMovement = "movement"
)

// Auditor records entity changes. Writes join the caller's transaction when
// one is active. A nil Auditor disables auditing.
type Auditor interface {
	LogChange(ctx context.Context, entityType string, entityID id.ID, action string, changes any) error
}
