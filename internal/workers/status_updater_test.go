package workers

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"label-matcher/internal/database"
)

type fakeStatusFetcher struct {
	// statuses maps tracking number to the status returned; missing
	// numbers error.
	statuses map[string]string
	calls    []string
}

func (f *fakeStatusFetcher) Status(ctx context.Context, trackingNumber string) (string, error) {
	f.calls = append(f.calls, trackingNumber)
	status, ok := f.statuses[trackingNumber]
	if !ok {
		return "", errors.New("tracking api failed")
	}
	return status, nil
}

func setupUpdaterDB(t *testing.T) *database.DB {
	t.Helper()

	tmpfile, err := os.CreateTemp("", "test_*.db")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	tmpfile.Close()
	t.Cleanup(func() {
		os.Remove(tmpfile.Name())
	})

	db, err := database.Open(tmpfile.Name())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func insertTrackedOrder(t *testing.T, db *database.DB, orderID, trackingID, status string) *database.Order {
	t.Helper()

	order := &database.Order{
		OrderID:        orderID,
		ShipTo:         "JOHN SMITH\n123 MAIN ST\nAUSTIN TX 78701",
		Status:         status,
		TrackingID:     trackingID,
		TrackingVendor: "usps",
	}
	if err := db.Orders.Create(order); err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	return order
}

func TestRefreshPending(t *testing.T) {
	db := setupUpdaterDB(t)

	inTransit := insertTrackedOrder(t, db, "SO-1", "9400111111", "shipped")
	arriving := insertTrackedOrder(t, db, "SO-2", "9400122222", "shipped")
	insertTrackedOrder(t, db, "SO-3", "9400133333", "delivered")
	insertTrackedOrder(t, db, "SO-4", "", "shipped")

	fetcher := &fakeStatusFetcher{statuses: map[string]string{
		"9400111111": "In Transit",
		"9400122222": "Delivered",
	}}
	updater := NewStatusUpdater(db.Orders, fetcher, time.Hour, testLogger())

	stats := updater.RefreshPending(context.Background())

	if stats.Total != 2 {
		t.Errorf("Expected 2 pending orders, got %d", stats.Total)
	}
	if stats.Updated != 2 || stats.Delivered != 1 || stats.Failed != 0 {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	got, err := db.Orders.GetByID(inTransit.ID)
	if err != nil {
		t.Fatalf("Failed to reload order: %v", err)
	}
	if got.TrackingStatus != "In Transit" {
		t.Errorf("Expected tracking status In Transit, got %q", got.TrackingStatus)
	}
	if got.Status != "shipped" {
		t.Errorf("Non-delivered status must not advance the order, got %q", got.Status)
	}
	if got.LastRefreshAt == nil {
		t.Error("Expected last refresh time to be stamped")
	}

	got, err = db.Orders.GetByID(arriving.ID)
	if err != nil {
		t.Fatalf("Failed to reload order: %v", err)
	}
	if got.Status != "delivered" {
		t.Errorf("Expected delivered order status, got %q", got.Status)
	}

	// The delivered order drops out of the pending set, and the freshly
	// refreshed one is inside its cooldown.
	fetcher.calls = nil
	stats = updater.RefreshPending(context.Background())
	if stats.Total != 1 || stats.Skipped != 1 || len(fetcher.calls) != 0 {
		t.Errorf("Expected the remaining order to be cooldown-skipped, got %+v (calls %v)", stats, fetcher.calls)
	}
}

func TestRefreshPendingFailureIsolated(t *testing.T) {
	db := setupUpdaterDB(t)

	insertTrackedOrder(t, db, "SO-1", "9400199999", "shipped")
	fine := insertTrackedOrder(t, db, "SO-2", "9400122222", "shipped")

	fetcher := &fakeStatusFetcher{statuses: map[string]string{
		"9400122222": "Out for Delivery",
	}}
	updater := NewStatusUpdater(db.Orders, fetcher, time.Hour, testLogger())

	stats := updater.RefreshPending(context.Background())
	if stats.Failed != 1 || stats.Updated != 1 {
		t.Errorf("Expected one failure and one update, got %+v", stats)
	}

	got, err := db.Orders.GetByID(fine.ID)
	if err != nil {
		t.Fatalf("Failed to reload order: %v", err)
	}
	if got.TrackingStatus != "Out for Delivery" {
		t.Errorf("Expected the healthy order to update, got %q", got.TrackingStatus)
	}
}

func TestRefreshPendingUsesFirstTrackingNumber(t *testing.T) {
	db := setupUpdaterDB(t)
	insertTrackedOrder(t, db, "SO-1", " 9400111111 , 9400122222", "shipped")

	fetcher := &fakeStatusFetcher{statuses: map[string]string{
		"9400111111": "In Transit",
	}}
	updater := NewStatusUpdater(db.Orders, fetcher, time.Hour, testLogger())

	stats := updater.RefreshPending(context.Background())
	if stats.Updated != 1 {
		t.Fatalf("Expected one update, got %+v", stats)
	}
	if len(fetcher.calls) != 1 || fetcher.calls[0] != "9400111111" {
		t.Errorf("Expected the first tracking number to be queried, got %v", fetcher.calls)
	}
}
