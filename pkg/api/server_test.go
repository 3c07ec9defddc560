package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/specs-group/kreiosd/internal/driver"
	"github.com/specs-group/kreiosd/pkg/config"
)

func TestNewRouter_HealthRoute(t *testing.T) {
	d := driver.New(driver.Config{Host: "localhost", Port: 7010, Timeout: time.Second})
	router := NewRouter(config.APIConfig{}, d, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestNewRouter_StatusRoute_UnauthenticatedWhenAuthDisabled(t *testing.T) {
	d := driver.New(driver.Config{Host: "localhost", Port: 7010, Timeout: time.Second})
	router := NewRouter(config.APIConfig{AuthEnabled: false}, d, nil)

	req := httptest.NewRequest("GET", "/api/v1/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestNewRouter_StatusRoute_RequiresAuthWhenEnabled(t *testing.T) {
	d := driver.New(driver.Config{Host: "localhost", Port: 7010, Timeout: time.Second})
	router := NewRouter(config.APIConfig{AuthEnabled: true, JWTSecret: "a-test-secret-that-is-at-least-32-chars"}, d, nil)

	req := httptest.NewRequest("GET", "/api/v1/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestServer_StartStop(t *testing.T) {
	d := driver.New(driver.Config{Host: "localhost", Port: 7010, Timeout: time.Second})
	server := NewServer(config.APIConfig{Port: 0, ReadTimeout: time.Second, WriteTimeout: time.Second, IdleTimeout: time.Second}, d, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Start(ctx)
	}()

	// Allow the listener to bind before requesting shutdown.
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after shutdown signal")
	}
}
