package editorder

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
	UpdateOrderFields(ctx context.Context, orderID uuid.UUID, patch order.FieldPatch, path string) (order.Order, error)
}

type editOrderRequest struct {
	order.FieldPatch
	Path string `json:"path"`
}

// EditOrder handles an edit of the mutable display and shipping fields.
func EditOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)

		return
	}

	var req editOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		slog.Error("Error decoding request body for order edit", "error", err)

		return
	}

	updated, err := service.UpdateOrderFields(r.Context(), orderID, req.FieldPatch, req.Path)
	if err != nil {
		var validationErr *order.ValidationError

		switch {
		case errors.Is(err, order.ErrNotFound):
			http.Error(w, "order not found", http.StatusNotFound)
		case errors.As(err, &validationErr):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "an error occurred, please retry", http.StatusInternalServerError)
			slog.Error("Error editing order", "error", err)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(updated); err != nil {
		slog.Error("Error sending response for order edit", "error", err)
	}
}
