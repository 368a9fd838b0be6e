package updateorderstatuses

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/storelane/order-svc/internal/service/models/order"
)

type service interface {
	UpdateOrderStatuses(ctx context.Context, orderIDs []uuid.UUID, newStatus order.Status, path string) (int64, error)
}

type updateOrderStatusesRequest struct {
	OrderIDs  []string `json:"orderIds"`
	NewStatus string   `json:"newStatus"`
	Path      string   `json:"path"`
}

type updateOrderStatusesResponse struct {
	Updated int64 `json:"updated"`
}

// UpdateOrderStatuses handles a bulk transition, typically following an
// export action. The response carries the affected count so the caller can
// tell a zero-match outcome apart from a real update.
func UpdateOrderStatuses(w http.ResponseWriter, r *http.Request, service service) {
	var req updateOrderStatusesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		slog.Error("Error decoding request body for bulk status update", "error", err)

		return
	}

	orderIDs := make([]uuid.UUID, 0, len(req.OrderIDs))
	for _, raw := range req.OrderIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid order id: "+raw, http.StatusBadRequest)

			return
		}
		orderIDs = append(orderIDs, id)
	}

	updated, err := service.UpdateOrderStatuses(r.Context(), orderIDs, order.Status(req.NewStatus), req.Path)
	if err != nil {
		var validationErr *order.ValidationError
		if errors.Is(err, order.ErrInvalidStatus) || errors.As(err, &validationErr) {
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}

		http.Error(w, "an error occurred, please retry", http.StatusInternalServerError)
		slog.Error("Error performing bulk status update", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(updateOrderStatusesResponse{Updated: updated}); err != nil {
		slog.Error("Error sending response for bulk status update", "error", err)
	}
}
