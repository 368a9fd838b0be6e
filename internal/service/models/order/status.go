package order

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// Status is the lifecycle state of an order. Transitions are free in both
// directions, including out of StatusExported.
type Status string

// remember to add new statuses to the validStatuses map
const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusNoReply   Status = "no-reply"
	StatusCanceled  Status = "canceled"
	StatusExported  Status = "exported"
)

var validStatuses = map[Status]struct{}{
	StatusPending:   {},
	StatusConfirmed: {},
	StatusNoReply:   {},
	StatusCanceled:  {},
	StatusExported:  {},
}

var ErrInvalidStatus = errors.New("invalid order status")

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

// ParseStatus validates a raw status value at the boundary, before any
// persistence call sees it.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := validStatuses[status]; ok {
		return status, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func Statuses() []Status {
	result := make([]Status, 0, len(validStatuses))
	for status := range validStatuses {
		result = append(result, status)
	}
	return result
}
