package service

import (
	"time"

	"github.com/mmtopup/storefront/internal/core/domain"
	"github.com/mmtopup/storefront/internal/core/ports"
)

type noopAudit struct{}

func (noopAudit) Record(domain.AuditEntry) {}

func auditOrNoop(a ports.AuditRecorder) ports.AuditRecorder {
	if a == nil {
		return noopAudit{}
	}
	return a
}

func auditEntry(actor domain.Principal, action, target string, detail map[string]any) domain.AuditEntry {
	return domain.AuditEntry{
		ActorID:   actor.ID,
		ActorName: actor.Username,
		Action:    action,
		Target:    target,
		Detail:    detail,
		At:        time.Now().UTC(),
	}
}
