package order

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order represents a customer purchase with shipping details, product
// selection and a mutable lifecycle status.
type Order struct {
	ID              uuid.UUID       `json:"id"`
	CustomerName    string          `json:"customerName"`
	Phone           string          `json:"phone"`
	City            string          `json:"city"`
	ShippingAddress string          `json:"shippingAddress"`
	Color           string          `json:"color"`
	Size            string          `json:"size"`
	Quantity        int             `json:"quantity"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}

var ErrNotFound = errors.New("order not found")

// ValidationError reports a malformed input field. It is always raised
// before any persistence call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CreateOrderModel carries checkout submission input. TotalAmount is
// computed by the caller (unit price × quantity plus any flat shipping fee)
// and stored verbatim.
type CreateOrderModel struct {
	CustomerName    string          `json:"customerName"`
	Phone           string          `json:"phone"`
	City            string          `json:"city"`
	ShippingAddress string          `json:"shippingAddress"`
	Color           string          `json:"color"`
	Size            string          `json:"size"`
	Quantity        int             `json:"quantity"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
}

func (m CreateOrderModel) Validate() error {
	if n := utf8.RuneCountInString(m.CustomerName); n < 2 || n > 50 {
		return &ValidationError{Field: "customerName", Reason: "must be 2-50 characters"}
	}
	if n := utf8.RuneCountInString(m.Phone); n < 10 || n > 13 {
		return &ValidationError{Field: "phone", Reason: "must be 10-13 characters"}
	}
	if m.City == "" {
		return &ValidationError{Field: "city", Reason: "must not be empty"}
	}
	if m.Quantity < 1 {
		return &ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	if m.TotalAmount.IsNegative() {
		return &ValidationError{Field: "totalAmount", Reason: "must not be negative"}
	}

	return nil
}

// ToOrder builds a new pending order from the submission. CreatedAt is set
// exactly once here and never mutated afterwards.
func (m CreateOrderModel) ToOrder(now time.Time) Order {
	return Order{
		CustomerName:    m.CustomerName,
		Phone:           m.Phone,
		City:            m.City,
		ShippingAddress: m.ShippingAddress,
		Color:           m.Color,
		Size:            m.Size,
		Quantity:        m.Quantity,
		TotalAmount:     m.TotalAmount,
		Status:          StatusPending,
		CreatedAt:       now,
	}
}

// FieldPatch is the partial set of mutable display and shipping fields.
// Nil fields are left untouched. Status, quantity, phone, customer name,
// totalAmount and createdAt are deliberately not representable here.
type FieldPatch struct {
	Color           *string `json:"color,omitempty"`
	Size            *string `json:"size,omitempty"`
	City            *string `json:"city,omitempty"`
	ShippingAddress *string `json:"shippingAddress,omitempty"`
}

func (p FieldPatch) IsEmpty() bool {
	return p.Color == nil && p.Size == nil && p.City == nil && p.ShippingAddress == nil
}

func (p FieldPatch) Validate() error {
	if p.IsEmpty() {
		return &ValidationError{Field: "fields", Reason: "at least one field must be set"}
	}
	if p.City != nil && *p.City == "" {
		return &ValidationError{Field: "city", Reason: "must not be empty"}
	}

	return nil
}
