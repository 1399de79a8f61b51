package ports

import (
	"context"

	"github.com/mmtopup/storefront/internal/core/domain"
)

// AuditRecorder accepts admin audit entries. Recording is best effort and
// must not block the caller.
type AuditRecorder interface {
	Record(entry domain.AuditEntry)
}

// AuditWriter persists a single audit entry.
type AuditWriter interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
}
