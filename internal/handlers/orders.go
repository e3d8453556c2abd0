package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"label-matcher/internal/cache"
	"label-matcher/internal/database"
	"label-matcher/internal/ratelimit"
	"label-matcher/internal/tracking"

	"github.com/go-chi/chi/v5"
)

// StatusFetcher queries the delivery status for a tracking number. A nil
// fetcher disables the refresh endpoint.
type StatusFetcher interface {
	Status(ctx context.Context, trackingNumber string) (string, error)
}

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	db               *database.DB
	cache            *cache.Manager
	tracker          StatusFetcher
	disableRateLimit bool
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(db *database.DB, cacheManager *cache.Manager, tracker StatusFetcher, disableRateLimit bool) *OrderHandler {
	return &OrderHandler{
		db:               db,
		cache:            cacheManager,
		tracker:          tracker,
		disableRateLimit: disableRateLimit,
	}
}

// GetOrders handles GET /api/orders
func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.db.Orders.GetAll()
	if err != nil {
		log.Printf("ERROR: Failed to get orders: %v", err)
		http.Error(w, fmt.Sprintf("Failed to get orders: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(orders)
}

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var order database.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		log.Printf("ERROR: Invalid JSON in CreateOrder: %v", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := validateOrder(&order); err != nil {
		log.Printf("ERROR: Validation failed for order: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.db.Orders.Create(&order); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			log.Printf("ERROR: Duplicate order number: %s", order.OrderID)
			http.Error(w, "Order number already exists", http.StatusConflict)
			return
		}
		log.Printf("ERROR: Failed to create order: %v", err)
		http.Error(w, fmt.Sprintf("Failed to create order: %v", err), http.StatusInternalServerError)
		return
	}
	h.cache.Invalidate()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(order)
}

// GetOrderByID handles GET /api/orders/{id}
func (h *OrderHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	order, err := h.db.Orders.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: Failed to get order %d: %v", id, err)
		http.Error(w, fmt.Sprintf("Failed to get order: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(order)
}

// UpdateOrder handles PUT /api/orders/{id}
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	var order database.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := validateOrder(&order); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.db.Orders.Update(id, &order); err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: Failed to update order %d: %v", id, err)
		http.Error(w, fmt.Sprintf("Failed to update order: %v", err), http.StatusInternalServerError)
		return
	}
	h.cache.Invalidate()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(order)
}

// DeleteOrder handles DELETE /api/orders/{id}
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	if err := h.db.Orders.Delete(id); err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: Failed to delete order %d: %v", id, err)
		http.Error(w, fmt.Sprintf("Failed to delete order: %v", err), http.StatusInternalServerError)
		return
	}
	h.cache.Invalidate()

	w.WriteHeader(http.StatusNoContent)
}

// GetOrderLabels handles GET /api/orders/{id}/labels
func (h *OrderHandler) GetOrderLabels(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	if _, err := h.db.Orders.GetByID(id); err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: Failed to get order %d: %v", id, err)
		http.Error(w, fmt.Sprintf("Failed to get order: %v", err), http.StatusInternalServerError)
		return
	}

	labels, err := h.db.Labels.GetByOrder(id)
	if err != nil {
		log.Printf("ERROR: Failed to get labels for order %d: %v", id, err)
		http.Error(w, fmt.Sprintf("Failed to get labels: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(labels)
}

// RefreshStatus handles POST /api/orders/{id}/refresh-status
func (h *OrderHandler) RefreshStatus(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	order, err := h.db.Orders.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: Failed to get order %d: %v", id, err)
		http.Error(w, fmt.Sprintf("Failed to get order: %v", err), http.StatusInternalServerError)
		return
	}

	if order.Status == "delivered" {
		http.Error(w, "Order already delivered - no need to refresh", http.StatusConflict)
		return
	}
	if strings.TrimSpace(order.TrackingID) == "" {
		http.Error(w, "Order has no tracking number", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(order.TrackingVendor) == "" {
		http.Error(w, "Order has no tracking vendor", http.StatusBadRequest)
		return
	}

	if h.tracker == nil {
		http.Error(w, "Status tracking is not configured", http.StatusServiceUnavailable)
		return
	}

	forced := r.URL.Query().Get("force") == "true"
	if limit := ratelimit.CheckRefresh(h.disableRateLimit, order.LastRefreshAt, forced); limit.Blocked {
		http.Error(w, fmt.Sprintf("Rate limit exceeded. Please wait %v before refreshing again",
			limit.Remaining.Truncate(time.Second)), http.StatusTooManyRequests)
		return
	}

	status, err := h.tracker.Status(r.Context(), firstTrackingNumber(order.TrackingID))
	if err != nil {
		log.Printf("ERROR: Failed to fetch tracking status for order %d: %v", id, err)
		http.Error(w, fmt.Sprintf("Failed to fetch tracking status: %v", err), http.StatusBadGateway)
		return
	}

	if err := h.db.Orders.UpdateTrackingStatus(id, status, tracking.IsDelivered(status)); err != nil {
		log.Printf("ERROR: Failed to record tracking status for order %d: %v", id, err)
		http.Error(w, fmt.Sprintf("Failed to record tracking status: %v", err), http.StatusInternalServerError)
		return
	}

	refreshed, err := h.db.Orders.GetByID(id)
	if err != nil {
		log.Printf("ERROR: Failed to reload order %d: %v", id, err)
		http.Error(w, fmt.Sprintf("Failed to reload order: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(refreshed)
}

// firstTrackingNumber picks the lead tracking number from a possibly
// comma-separated list.
func firstTrackingNumber(trackingID string) string {
	for _, part := range strings.Split(trackingID, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func orderIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func validateOrder(order *database.Order) error {
	if strings.TrimSpace(order.OrderID) == "" {
		return fmt.Errorf("order_id is required")
	}
	return nil
}
