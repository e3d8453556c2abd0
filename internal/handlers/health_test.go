package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"label-matcher/internal/database"
)

func setupTestDB(t *testing.T) *database.DB {
	// Create temporary file for test database
	tmpfile, err := os.CreateTemp("", "test_*.db")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	tmpfile.Close()

	// Clean up the temp file when test completes
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

func TestHealthCheck(t *testing.T) {
	db := setupTestDB(t)
	handler := NewHealthHandler(db)

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	handler.HealthCheck(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Status != "healthy" {
		t.Errorf("Expected status 'healthy', got %q", response.Status)
	}
	if response.Database != "ok" {
		t.Errorf("Expected database 'ok', got %q", response.Database)
	}
}

func TestHealthCheckUnhealthy(t *testing.T) {
	db := setupTestDB(t)
	db.Close()

	handler := NewHealthHandler(db)

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	handler.HealthCheck(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
}
