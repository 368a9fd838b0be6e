package ordersvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/storelane/order-svc/internal/dal/interfaces/iauditrepo"
	"github.com/storelane/order-svc/internal/dal/interfaces/iorderrepo"
	"github.com/storelane/order-svc/internal/dal/postgres"
	"github.com/storelane/order-svc/internal/dal/uow"
	"github.com/storelane/order-svc/internal/service/models/auditlog"
	"github.com/storelane/order-svc/internal/service/models/order"
)

// ErrOperatorRequired is returned when a mutating operation is invoked
// without an operator identity in the context.
var ErrOperatorRequired = errors.New("operator identity required")

type operatorKey struct{}

// WithOperator stamps the caller identity into the context. The HTTP auth
// middleware does this after resolving the bearer token.
func WithOperator(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, operatorKey{}, name)
}

// OperatorFromContext returns the caller identity, if any.
func OperatorFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(operatorKey{}).(string)
	return name, ok && name != ""
}

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	AuditRepository() iauditrepo.IAuditRepository
}

type revalidator interface {
	Revalidate(ctx context.Context, path string) error
}

// OrderService mediates all reads and writes to orders: creation, status
// transition, bulk transition, field edit and paginated retrieval.
type OrderService struct {
	pgClient *postgres.Client
	reval    revalidator
	uowFn    func() UnitOfWork
}

func (s *OrderService) newUOW() UnitOfWork {
	if s.uowFn != nil {
		return s.uowFn()
	}
	return uow.NewUnitOfWork(s.pgClient)
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
	}
}

// WithRevalidator sets the cache-invalidation collaborator.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRevalidator(reval revalidator) option {
	return func(s *OrderService) {
		s.reval = reval
	}
}

// WithUnitOfWorkFactory overrides unit-of-work construction, used by tests
// to run the service against in-memory repositories.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(fn func() UnitOfWork) option {
	return func(s *OrderService) {
		s.uowFn = fn
	}
}

// CreateOrder validates a checkout submission and persists a new pending
// order. Creation needs no revalidation signal: the storefront does not
// list the order in the same request.
func (s *OrderService) CreateOrder(ctx context.Context, model order.CreateOrderModel) (order.Order, error) {
	if err := model.Validate(); err != nil {
		return order.Order{}, err
	}

	work := s.newUOW()

	created, err := work.OrderRepository().Insert(ctx, model.ToOrder(time.Now()))
	if err != nil {
		return order.Order{}, fmt.Errorf("insert order: %w", err)
	}

	return created, nil
}

// GetOrders retrieves a page of orders, newest first, with an optional
// exact-match status filter. PageSizeAll bypasses paging entirely.
func (s *OrderService) GetOrders(ctx context.Context, query order.QueryOrdersModel) (order.OrderPage, error) {
	query = query.Normalize()
	if err := query.Validate(); err != nil {
		return order.OrderPage{}, err
	}

	repo := s.newUOW().OrderRepository()

	if query.PageSize == order.PageSizeAll {
		orders, err := repo.Query(ctx, &order.FilterModel{Status: query.Filter})
		if err != nil {
			return order.OrderPage{}, fmt.Errorf("query orders: %w", err)
		}

		return order.OrderPage{
			Orders:      orders,
			IsNext:      false,
			TotalOrders: len(orders),
		}, nil
	}

	skip := (query.Page - 1) * query.PageSize

	orders, err := repo.Query(ctx, &order.FilterModel{
		Status: query.Filter,
		Limit:  query.PageSize,
		Offset: skip,
	})
	if err != nil {
		return order.OrderPage{}, fmt.Errorf("query orders: %w", err)
	}

	total, err := repo.Count(ctx, query.Filter)
	if err != nil {
		return order.OrderPage{}, fmt.Errorf("count orders: %w", err)
	}

	return order.OrderPage{
		Orders:      orders,
		IsNext:      total > skip+len(orders),
		TotalOrders: total,
	}, nil
}

// UpdateOrderStatus atomically replaces the status of exactly one order and
// records the transition in the audit log.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus order.Status, path string) (order.Order, error) {
	operator, ok := OperatorFromContext(ctx)
	if !ok {
		return order.Order{}, ErrOperatorRequired
	}

	if _, err := order.ParseStatus(newStatus.String()); err != nil {
		return order.Order{}, err
	}

	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return order.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	current, err := work.OrderRepository().Query(ctx, &order.FilterModel{IDs: []uuid.UUID{orderID}})
	if err != nil {
		return order.Order{}, fmt.Errorf("query order: %w", err)
	}
	if len(current) == 0 {
		return order.Order{}, order.ErrNotFound
	}

	updated, err := work.OrderRepository().UpdateStatus(ctx, orderID, newStatus)
	if err != nil {
		return order.Order{}, fmt.Errorf("update order status: %w", err)
	}

	entry := auditlog.AuditLogOrder{
		OrderID:    orderID,
		Action:     auditlog.ActionStatusUpdate,
		PrevStatus: current[0].Status.String(),
		NewStatus:  newStatus.String(),
		Operator:   operator,
		CreatedAt:  time.Now(),
	}
	if err := work.AuditRepository().Insert(ctx, []auditlog.AuditLogOrder{entry}); err != nil {
		return order.Order{}, fmt.Errorf("insert audit log: %w", err)
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, fmt.Errorf("commit tx: %w", err)
	}

	s.revalidate(ctx, path)

	return updated, nil
}

// UpdateOrderStatuses applies one status to every order in the id set.
// Ids that do not resolve to an order are silently skipped; zero matches is
// a legitimate empty-set outcome, not an error. Returns the affected count.
func (s *OrderService) UpdateOrderStatuses(ctx context.Context, orderIDs []uuid.UUID, newStatus order.Status, path string) (int64, error) {
	operator, ok := OperatorFromContext(ctx)
	if !ok {
		return 0, ErrOperatorRequired
	}

	if len(orderIDs) == 0 {
		return 0, &order.ValidationError{Field: "orderIds", Reason: "must not be empty"}
	}
	if _, err := order.ParseStatus(newStatus.String()); err != nil {
		return 0, err
	}

	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	matched, err := work.OrderRepository().Query(ctx, &order.FilterModel{IDs: orderIDs})
	if err != nil {
		return 0, fmt.Errorf("query orders: %w", err)
	}

	affected, err := work.OrderRepository().UpdateStatusBulk(ctx, orderIDs, newStatus)
	if err != nil {
		return 0, fmt.Errorf("bulk update order statuses: %w", err)
	}

	now := time.Now()
	entries := lo.Map(matched, func(o order.Order, _ int) auditlog.AuditLogOrder {
		return auditlog.AuditLogOrder{
			OrderID:    o.ID,
			Action:     auditlog.ActionBulkStatusUpdate,
			PrevStatus: o.Status.String(),
			NewStatus:  newStatus.String(),
			Operator:   operator,
			CreatedAt:  now,
		}
	})
	if err := work.AuditRepository().Insert(ctx, entries); err != nil {
		return 0, fmt.Errorf("insert audit log: %w", err)
	}

	if err := work.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}

	s.revalidate(ctx, path)

	return affected, nil
}

// UpdateOrderFields overwrites exactly the given display and shipping
// fields. Status, quantity, phone, totalAmount and createdAt are never
// touched.
func (s *OrderService) UpdateOrderFields(ctx context.Context, orderID uuid.UUID, patch order.FieldPatch, path string) (order.Order, error) {
	operator, ok := OperatorFromContext(ctx)
	if !ok {
		return order.Order{}, ErrOperatorRequired
	}

	if err := patch.Validate(); err != nil {
		return order.Order{}, err
	}

	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return order.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	updated, err := work.OrderRepository().UpdateFields(ctx, orderID, patch)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return order.Order{}, order.ErrNotFound
		}
		return order.Order{}, fmt.Errorf("update order fields: %w", err)
	}

	entry := auditlog.AuditLogOrder{
		OrderID:    orderID,
		Action:     auditlog.ActionFieldEdit,
		PrevStatus: updated.Status.String(),
		NewStatus:  updated.Status.String(),
		Operator:   operator,
		CreatedAt:  time.Now(),
	}
	if err := work.AuditRepository().Insert(ctx, []auditlog.AuditLogOrder{entry}); err != nil {
		return order.Order{}, fmt.Errorf("insert audit log: %w", err)
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, fmt.Errorf("commit tx: %w", err)
	}

	s.revalidate(ctx, path)

	return updated, nil
}

// revalidate signals the cache-invalidation collaborator. The mutation is
// already committed at this point, so a failed signal is logged rather than
// surfaced.
func (s *OrderService) revalidate(ctx context.Context, path string) {
	if s.reval == nil || path == "" {
		return
	}
	if err := s.reval.Revalidate(ctx, path); err != nil {
		slog.Warn("Failed to send revalidate signal", "path", path, "error", err)
	}
}
