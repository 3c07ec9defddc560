package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatus_Get_ReturnsDisconnectedSnapshot(t *testing.T) {
	handler := NewStatusHandler(newTestDriver())
	req := httptest.NewRequest("GET", "/api/v1/status", nil)
	w := httptest.NewRecorder()

	handler.Get(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Connected bool   `json:"connected"`
			State     string `json:"state"`
			RunMode   string `json:"run_mode"`
		} `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Data.Connected {
		t.Error("Expected a fresh driver to be disconnected")
	}
	if resp.Data.State != "Disconnected" {
		t.Errorf("Expected state 'Disconnected', got %q", resp.Data.State)
	}
	if resp.Data.RunMode != "FAT" {
		t.Errorf("Expected default run mode 'FAT', got %q", resp.Data.RunMode)
	}
}
