package order

import "github.com/google/uuid"

// PageSizeAll is the sentinel that bypasses paging entirely ("all" on the
// wire).
const PageSizeAll = -1

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// QueryOrdersModel represents offset-based paging parameters for listing
// orders. Page is 1-indexed. A nil Filter means no status filtering.
type QueryOrdersModel struct {
	Page     int     `json:"page,omitempty"`
	PageSize int     `json:"pageSize,omitempty"`
	Filter   *Status `json:"filter,omitempty"`
}

// Normalize fills in defaults for unset paging parameters.
func (q QueryOrdersModel) Normalize() QueryOrdersModel {
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	return q
}

func (q QueryOrdersModel) Validate() error {
	if q.Page < 1 {
		return &ValidationError{Field: "page", Reason: "must be at least 1"}
	}
	if q.PageSize < 1 && q.PageSize != PageSizeAll {
		return &ValidationError{Field: "pageSize", Reason: "must be a positive integer or \"all\""}
	}
	if q.Filter != nil {
		if _, err := ParseStatus(q.Filter.String()); err != nil {
			return &ValidationError{Field: "filter", Reason: err.Error()}
		}
	}

	return nil
}

// FilterModel represents filter parameters at the repository boundary.
// Zero Limit means no limit.
type FilterModel struct {
	IDs    []uuid.UUID
	Status *Status
	Limit  int
	Offset int
}

// OrderPage is the result of a paginated listing.
type OrderPage struct {
	Orders      []Order `json:"orders"`
	IsNext      bool    `json:"isNext"`
	TotalOrders int     `json:"totalOrders"`
}
