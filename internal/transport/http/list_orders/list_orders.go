package listorders

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/schema"
	"github.com/storelane/order-svc/internal/service/models/order"
)

type service interface {
	GetOrders(ctx context.Context, query order.QueryOrdersModel) (order.OrderPage, error)
}

type listOrdersRequest struct {
	Page     int    `schema:"page,omitempty"`
	PageSize string `schema:"pageSize,omitempty"`
	Filter   string `schema:"filter,omitempty"`
}

// ToModel converts the wire query to the service model. "all" is the
// sentinel that bypasses paging.
func (q *listOrdersRequest) ToModel() (order.QueryOrdersModel, error) {
	model := order.QueryOrdersModel{Page: q.Page}

	switch q.PageSize {
	case "":
	case "all":
		model.PageSize = order.PageSizeAll
	default:
		size, err := strconv.Atoi(q.PageSize)
		if err != nil {
			return model, &order.ValidationError{Field: "pageSize", Reason: "must be a positive integer or \"all\""}
		}
		model.PageSize = size
	}

	if q.Filter != "" {
		status, err := order.ParseStatus(q.Filter)
		if err != nil {
			return model, &order.ValidationError{Field: "filter", Reason: err.Error()}
		}
		model.Filter = &status
	}

	return model, nil
}

func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	query := &listOrdersRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request", "error", err)

		return
	}

	model, err := query.ToModel()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	page, err := service.GetOrders(r.Context(), model)
	if err != nil {
		var validationErr *order.ValidationError
		if errors.As(err, &validationErr) {
			http.Error(w, validationErr.Error(), http.StatusBadRequest)

			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting orders", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(page); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response", "error", err)
	}
}
