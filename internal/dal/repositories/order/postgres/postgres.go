package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/storelane/order-svc/internal/dal/postgres"
	"github.com/storelane/order-svc/internal/service/models/order"
)

var orderColumns = []string{
	"id",
	"customer_name",
	"phone",
	"city",
	"shipping_address",
	"color",
	"size",
	"quantity",
	"total_amount",
	"status",
	"created_at",
}

// OrderDal represents the order data access layer model.
type OrderDal struct {
	Id              uuid.UUID       `db:"id"`
	CustomerName    string          `db:"customer_name"`
	Phone           string          `db:"phone"`
	City            string          `db:"city"`
	ShippingAddress string          `db:"shipping_address"`
	Color           string          `db:"color"`
	Size            string          `db:"size"`
	Quantity        int             `db:"quantity"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	Status          string          `db:"status"`
	CreatedAt       time.Time       `db:"created_at"`
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	status, err := order.ParseStatus(o.Status)
	if err != nil {
		return nil, err
	}
	return &order.Order{
		ID:              o.Id,
		CustomerName:    o.CustomerName,
		Phone:           o.Phone,
		City:            o.City,
		ShippingAddress: o.ShippingAddress,
		Color:           o.Color,
		Size:            o.Size,
		Quantity:        o.Quantity,
		TotalAmount:     o.TotalAmount,
		Status:          status,
		CreatedAt:       o.CreatedAt,
	}, nil
}

type PostgresOrderRepository struct {
	conn postgres.Querier
}

func NewPostgresOrderRepository(conn postgres.Querier) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
	}
}

// Insert persists a new order. The identifier is assigned by the store.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	query, args, err := sq.Insert("orders").
		Columns(
			"customer_name",
			"phone",
			"city",
			"shipping_address",
			"color",
			"size",
			"quantity",
			"total_amount",
			"status",
			"created_at",
		).
		Values(
			o.CustomerName,
			o.Phone,
			o.City,
			o.ShippingAddress,
			o.Color,
			o.Size,
			o.Quantity,
			o.TotalAmount,
			o.Status.String(),
			o.CreatedAt,
		).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&o.ID); err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	return o, nil
}

// Query retrieves orders matching the filter, newest first.
func (r *PostgresOrderRepository) Query(ctx context.Context, filter *order.FilterModel) ([]order.Order, error) {
	builder := sq.Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if len(filter.IDs) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.IDs})
	}
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": filter.Status.String()})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	result := []order.Order{}
	for rows.Next() {
		model, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Count returns the number of orders matching the status filter. A nil
// status counts every order.
func (r *PostgresOrderRepository) Count(ctx context.Context, status *order.Status) (int, error) {
	builder := sq.Select("COUNT(*)").
		From("orders").
		PlaceholderFormat(sq.Dollar)

	if status != nil {
		builder = builder.Where(sq.Eq{"status": status.String()})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := r.conn.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}

	return count, nil
}

// UpdateStatus replaces the status of exactly one order and returns the
// updated row. No other column is touched.
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) (order.Order, error) {
	query, args, err := sq.Update("orders").
		Set("status", status.String()).
		Where(sq.Eq{"id": id}).
		Suffix(returningOrderColumns()).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build update query: %w", err)
	}

	model, err := scanOrder(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, order.ErrNotFound
		}
		return order.Order{}, fmt.Errorf("failed to update order status: %w", err)
	}

	return *model, nil
}

// UpdateStatusBulk applies the same status to every matching id and reports
// the affected count. Ids that do not resolve to an order are silently
// skipped, mirroring update-many semantics.
func (r *PostgresOrderRepository) UpdateStatusBulk(ctx context.Context, ids []uuid.UUID, status order.Status) (int64, error) {
	query, args, err := sq.Update("orders").
		Set("status", status.String()).
		Where(sq.Eq{"id": ids}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build bulk update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update order statuses: %w", err)
	}

	return tag.RowsAffected(), nil
}

// UpdateFields overwrites exactly the fields set in the patch. Status,
// quantity, total_amount and created_at are never part of the statement.
func (r *PostgresOrderRepository) UpdateFields(ctx context.Context, id uuid.UUID, patch order.FieldPatch) (order.Order, error) {
	builder := sq.Update("orders").
		Where(sq.Eq{"id": id}).
		Suffix(returningOrderColumns()).
		PlaceholderFormat(sq.Dollar)

	if patch.Color != nil {
		builder = builder.Set("color", *patch.Color)
	}
	if patch.Size != nil {
		builder = builder.Set("size", *patch.Size)
	}
	if patch.City != nil {
		builder = builder.Set("city", *patch.City)
	}
	if patch.ShippingAddress != nil {
		builder = builder.Set("shipping_address", *patch.ShippingAddress)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build update query: %w", err)
	}

	model, err := scanOrder(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, order.ErrNotFound
		}
		return order.Order{}, fmt.Errorf("failed to update order fields: %w", err)
	}

	return *model, nil
}

func returningOrderColumns() string {
	suffix := "RETURNING"
	for i, col := range orderColumns {
		if i > 0 {
			suffix += ","
		}
		suffix += " " + col
	}
	return suffix
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var dal OrderDal
	err := row.Scan(
		&dal.Id,
		&dal.CustomerName,
		&dal.Phone,
		&dal.City,
		&dal.ShippingAddress,
		&dal.Color,
		&dal.Size,
		&dal.Quantity,
		&dal.TotalAmount,
		&dal.Status,
		&dal.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	model, err := dal.ToModel()
	if err != nil {
		return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
	}

	return model, nil
}
