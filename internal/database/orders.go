package database

import (
	"database/sql"
	"time"

	"label-matcher/internal/match"
)

// Order is an order record (packing slip) a shipping-label page can be
// assigned to. ShipTo is the free-text shipping address; it may be empty,
// in which case the order can never be matched but is still listed.
// TrackingID holds the carrier tracking number (comma-separated when the
// order shipped in multiple parcels); TrackingStatus is the last delivery
// status fetched from the tracking API and LastRefreshAt records when.
type Order struct {
	ID             int64      `json:"id"`
	OrderID        string     `json:"order_id"`
	ShipTo         string     `json:"ship_to"`
	Status         string     `json:"status"`
	TrackingID     string     `json:"tracking_id"`
	TrackingVendor string     `json:"tracking_vendor"`
	TrackingStatus string     `json:"tracking_status"`
	LastRefreshAt  *time.Time `json:"last_refresh_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// OrderStore handles database operations for orders
type OrderStore struct {
	db *sql.DB
}

func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

const orderColumns = `id, order_id, ship_to, status, tracking_id,
	tracking_vendor, tracking_status, last_refresh_at, created_at, updated_at`

// GetAll returns all orders, newest first
func (s *OrderStore) GetAll() ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrders(rows)
}

// GetByID returns a single order by row id
func (s *OrderStore) GetByID(id int64) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`

	var order Order
	err := s.db.QueryRow(query, id).Scan(&order.ID, &order.OrderID, &order.ShipTo,
		&order.Status, &order.TrackingID, &order.TrackingVendor,
		&order.TrackingStatus, &order.LastRefreshAt, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Create inserts a new order
func (s *OrderStore) Create(order *Order) error {
	if order.Status == "" {
		order.Status = "new_order"
	}

	query := `INSERT INTO orders (order_id, ship_to, status, tracking_id, tracking_vendor)
			  VALUES (?, ?, ?, ?, ?)`
	result, err := s.db.Exec(query, order.OrderID, order.ShipTo, order.Status,
		order.TrackingID, order.TrackingVendor)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	order.ID = id

	created, err := s.GetByID(order.ID)
	if err != nil {
		return err
	}
	order.CreatedAt = created.CreatedAt
	order.UpdatedAt = created.UpdatedAt

	return nil
}

// Update modifies an existing order
func (s *OrderStore) Update(id int64, order *Order) error {
	query := `UPDATE orders SET order_id = ?, ship_to = ?, status = ?,
			  tracking_id = ?, tracking_vendor = ?,
			  updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	result, err := s.db.Exec(query, order.OrderID, order.ShipTo, order.Status,
		order.TrackingID, order.TrackingVendor, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	order.ID = id
	return nil
}

// Delete removes an order
func (s *OrderStore) Delete(id int64) error {
	result, err := s.db.Exec("DELETE FROM orders WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Candidates returns every order as a matching candidate, oldest first so
// tie-breaks favor the earliest created order. Orders without a ship-to
// address are included; the matcher skips them but the run still counts
// them.
func (s *OrderStore) Candidates() ([]match.Candidate, error) {
	query := `SELECT id, order_id, ship_to FROM orders ORDER BY created_at ASC, id ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []match.Candidate
	for rows.Next() {
		var candidate match.Candidate
		if err := rows.Scan(&candidate.ID, &candidate.OrderID, &candidate.ShipTo); err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}
	return candidates, rows.Err()
}

// UpdateTrackingStatus records a freshly fetched delivery status and stamps
// the refresh time. When delivered is true the order status advances to
// "delivered" as well.
func (s *OrderStore) UpdateTrackingStatus(id int64, trackingStatus string, delivered bool) error {
	query := `UPDATE orders SET tracking_status = ?,
			  status = CASE WHEN ? THEN 'delivered' ELSE status END,
			  last_refresh_at = CURRENT_TIMESTAMP,
			  updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	result, err := s.db.Exec(query, trackingStatus, delivered, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// PendingTracking returns orders that carry tracking information and are
// not yet delivered, oldest first. These are the orders the background
// status updater refreshes.
func (s *OrderStore) PendingTracking() ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
			  WHERE tracking_id != '' AND tracking_vendor != '' AND status != 'delivered'
			  ORDER BY created_at ASC, id ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrders(rows)
}

func scanOrders(rows *sql.Rows) ([]Order, error) {
	var orders []Order
	for rows.Next() {
		var order Order
		if err := rows.Scan(&order.ID, &order.OrderID, &order.ShipTo,
			&order.Status, &order.TrackingID, &order.TrackingVendor,
			&order.TrackingStatus, &order.LastRefreshAt,
			&order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
