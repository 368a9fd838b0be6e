package uow

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/storelane/order-svc/internal/dal/interfaces/iauditrepo"
	"github.com/storelane/order-svc/internal/dal/interfaces/iorderrepo"
	"github.com/storelane/order-svc/internal/dal/postgres"
	auditrepo "github.com/storelane/order-svc/internal/dal/repositories/audit/postgres"
	orderrepo "github.com/storelane/order-svc/internal/dal/repositories/order/postgres"
)

// unitOfWork binds the order and audit repositories to a single pgx
// transaction so a status change and its audit entry commit together.
// Before Begin the repositories run directly on the pool, which is enough
// for reads.
type unitOfWork struct {
	pool      *pgxpool.Pool
	tx        pgx.Tx
	orderRepo iorderrepo.IOrderRepository
	auditRepo iauditrepo.IAuditRepository
}

func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	return &unitOfWork{
		pool:      client.Pool(),
		orderRepo: orderrepo.NewPostgresOrderRepository(client.Pool()),
		auditRepo: auditrepo.NewPostgresAuditRepository(client.Pool()),
	}
}

func (u *unitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *unitOfWork) AuditRepository() iauditrepo.IAuditRepository {
	return u.auditRepo
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.orderRepo = orderrepo.NewPostgresOrderRepository(tx)
	u.auditRepo = auditrepo.NewPostgresAuditRepository(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Commit(ctx)
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Rollback(ctx)
}
