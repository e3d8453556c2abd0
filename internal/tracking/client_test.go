package tracking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(Config{APIURL: server.URL, APIKey: "test-key"})
	return client, server
}

func TestStatus_MapsTransitCodes(t *testing.T) {
	tests := []struct {
		name          string
		transitStatus string
		eventDetail   string
		want          string
	}{
		{
			name:          "delivered",
			transitStatus: "DELIVERED",
			want:          "Delivered",
		},
		{
			name:          "in transit with event detail",
			transitStatus: "IN_TRANSIT",
			eventDetail:   "Arrived at facility",
			want:          "In Transit - Arrived at facility",
		},
		{
			name:          "waiting delivery",
			transitStatus: "WAITING_DELIVERY",
			want:          "Out for Delivery",
		},
		{
			name:          "prefix match on sub-coded status",
			transitStatus: "DELIVERED_SIGNED",
			want:          "Delivered",
		},
		{
			name:          "unmapped code passes through",
			transitStatus: "CUSTOMS_HOLD",
			want:          "CUSTOMS_HOLD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Track123-Api-Secret"); got != "test-key" {
					t.Errorf("Expected API key header, got %q", got)
				}

				details := ""
				if tt.eventDetail != "" {
					details = `{"eventDetail": "` + tt.eventDetail + `"}`
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"data": {"accepted": {"content": [{
					"transitStatus": "` + tt.transitStatus + `",
					"localLogisticsInfo": {"trackingDetails": [` + details + `]}
				}]}}}`))
			})
			defer server.Close()

			status, err := client.Status(context.Background(), "9400111699000367046792")
			if err != nil {
				t.Fatalf("Status() error = %v", err)
			}
			if status != tt.want {
				t.Errorf("Status() = %q, want %q", status, tt.want)
			}
		})
	}
}

func TestStatus_NoContentFallsBack(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"accepted": {"content": []}}}`))
	})
	defer server.Close()

	status, err := client.Status(context.Background(), "9400111699000367046792")
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if status != StatusUnavailable {
		t.Errorf("Status() = %q, want %q", status, StatusUnavailable)
	}
}

func TestStatus_SubStatusFallback(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"accepted": {"content": [{"transitSubStatus": "IN_TRANSIT_02"}]}}}`))
	})
	defer server.Close()

	status, err := client.Status(context.Background(), "9400111699000367046792")
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if status != "IN_TRANSIT_02" {
		t.Errorf("Status() = %q, want %q", status, "IN_TRANSIT_02")
	}
}

func TestStatus_APIErrorSurfacesMessage(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"msg": "invalid api key"}`))
	})
	defer server.Close()

	_, err := client.Status(context.Background(), "9400111699000367046792")
	if err == nil {
		t.Fatal("Expected error for non-200 response")
	}
	if got := err.Error(); got != "tracking API returned status 401: invalid api key" {
		t.Errorf("Unexpected error message: %q", got)
	}
}

func TestStatus_RequiresTrackingNumber(t *testing.T) {
	client := NewClient(Config{APIKey: "test-key"})
	if _, err := client.Status(context.Background(), "  "); err == nil {
		t.Error("Expected error for blank tracking number")
	}
}

func TestStatus_RequiresAPIKey(t *testing.T) {
	client := NewClient(Config{})
	if _, err := client.Status(context.Background(), "9400111699000367046792"); err == nil {
		t.Error("Expected error when API key is missing")
	}
}

func TestIsDelivered(t *testing.T) {
	if !IsDelivered("Delivered") {
		t.Error("Expected bare Delivered status to count as delivered")
	}
	if !IsDelivered("delivered") {
		t.Error("Expected case-insensitive delivered check")
	}
	if IsDelivered("Delivered - left at door") {
		t.Error("Status with event detail must not count as delivered")
	}
	if IsDelivered("In Transit") {
		t.Error("In Transit must not count as delivered")
	}
}
