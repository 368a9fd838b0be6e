package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/storelane/order-svc/internal/dal/postgres"
	"github.com/storelane/order-svc/internal/service/models/auditlog"
)

// PostgresAuditRepository persists audit log entries. It runs on whatever
// querier it is given, so a unit of work can bind it to the same
// transaction as the order mutation it records.
type PostgresAuditRepository struct {
	conn postgres.Querier
}

func NewPostgresAuditRepository(conn postgres.Querier) *PostgresAuditRepository {
	return &PostgresAuditRepository{
		conn: conn,
	}
}

// Insert writes one audit row per entry.
func (r *PostgresAuditRepository) Insert(ctx context.Context, entries []auditlog.AuditLogOrder) error {
	if len(entries) == 0 {
		return nil
	}

	builder := sq.Insert("audit_log_orders").
		Columns(
			"order_id",
			"action",
			"prev_status",
			"new_status",
			"operator",
			"created_at",
		).
		PlaceholderFormat(sq.Dollar)

	for _, e := range entries {
		builder = builder.Values(
			e.OrderID,
			e.Action,
			e.PrevStatus,
			e.NewStatus,
			e.Operator,
			e.CreatedAt,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert audit log entries: %w", err)
	}

	return nil
}
