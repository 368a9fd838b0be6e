package auditlog

import (
	"time"

	"github.com/google/uuid"
)

// Actions recorded in the audit log.
const (
	ActionStatusUpdate     = "status_update"
	ActionBulkStatusUpdate = "bulk_status_update"
	ActionFieldEdit        = "field_edit"
)

// AuditLogOrder represents an audit log entry for order mutations.
type AuditLogOrder struct {
	ID         int64     `json:"id"`
	OrderID    uuid.UUID `json:"order_id"`
	Action     string    `json:"action"`
	PrevStatus string    `json:"prev_status"`
	NewStatus  string    `json:"new_status"`
	Operator   string    `json:"operator"`
	CreatedAt  time.Time `json:"created_at"`
}
