package updateorderstatus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/storelane/order-svc/internal/service/models/order"
)

type service interface {
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus order.Status, path string) (order.Order, error)
}

type updateOrderStatusRequest struct {
	NewStatus string `json:"newStatus"`
	Path      string `json:"path"`
}

// UpdateOrderStatus handles a single status transition from the admin
// table.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)

		return
	}

	var req updateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		slog.Error("Error decoding request body for status update", "error", err)

		return
	}

	updated, err := service.UpdateOrderStatus(r.Context(), orderID, order.Status(req.NewStatus), req.Path)
	if err != nil {
		handleError(w, err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(updated); err != nil {
		slog.Error("Error sending response for status update", "error", err)
	}
}

func handleError(w http.ResponseWriter, err error) {
	var validationErr *order.ValidationError

	switch {
	case errors.Is(err, order.ErrNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
	case errors.Is(err, order.ErrInvalidStatus), errors.As(err, &validationErr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "an error occurred, please retry", http.StatusInternalServerError)
		slog.Error("Error updating order status", "error", err)
	}
}
