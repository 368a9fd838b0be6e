package createorder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/storelane/order-svc/internal/service/models/order"
)

// service is an interface for the service layer.
type service interface {
	CreateOrder(ctx context.Context, model order.CreateOrderModel) (order.Order, error)
}

// CreateOrder handles a checkout submission.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	var model order.CreateOrderModel
	if err := json.NewDecoder(r.Body).Decode(&model); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		slog.Error("Error decoding request body for create order", "error", err)

		return
	}

	created, err := service.CreateOrder(r.Context(), model)
	if err != nil {
		var validationErr *order.ValidationError
		if errors.As(err, &validationErr) {
			http.Error(w, validationErr.Error(), http.StatusBadRequest)

			return
		}

		http.Error(w, "an error occurred, please retry", http.StatusInternalServerError)
		slog.Error("Error creating order", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(created); err != nil {
		slog.Error("Error sending response for create order", "error", err)
	}
}
