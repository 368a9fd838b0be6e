package iauditrepo

import (
	"context"

	"github.com/storelane/order-svc/internal/service/models/auditlog"
)

// IAuditRepository is the interface for the audit log repository.
type IAuditRepository interface {
	Insert(ctx context.Context, entries []auditlog.AuditLogOrder) error
}
