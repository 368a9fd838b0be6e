package iorderrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/storelane/order-svc/internal/service/models/order"
)

// IOrderRepository is the interface for the order postgres repository. It
// mirrors the five store primitives the lifecycle manager depends on:
// create, find with filter/skip/limit/sort, count, find-by-id-and-update
// and update-many-by-id-set.
type IOrderRepository interface {
	Insert(ctx context.Context, o order.Order) (order.Order, error)
	Query(ctx context.Context, filter *order.FilterModel) ([]order.Order, error)
	Count(ctx context.Context, status *order.Status) (int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) (order.Order, error)
	UpdateStatusBulk(ctx context.Context, ids []uuid.UUID, status order.Status) (int64, error)
	UpdateFields(ctx context.Context, id uuid.UUID, patch order.FieldPatch) (order.Order, error)
}
