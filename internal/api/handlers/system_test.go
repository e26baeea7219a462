package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mheijden/portfolio-tracker/internal/model"
	"github.com/mheijden/portfolio-tracker/internal/testutil"
)

func newSystemHandler(t *testing.T) (*SystemHandler, *testDeps) {
	t.Helper()
	deps := setupDeps(t)
	return NewSystemHandler(testutil.NewTestSystemService(t, deps.db)), deps
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("returns healthy status when database is connected", func(t *testing.T) {
		handler, _ := newSystemHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()

		handler.Health(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var health HealthResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&health)

		if health.Status != "healthy" {
			t.Errorf("Expected status healthy, got %s", health.Status)
		}
		if health.Database != "connected" {
			t.Errorf("Expected database connected, got %s", health.Database)
		}
	})

	t.Run("returns 503 when database is disconnected", func(t *testing.T) {
		handler, deps := newSystemHandler(t)

		// Close the database to simulate a connectivity failure.
		deps.db.Close()

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()

		handler.Health(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("Expected 503, got %d: %s", w.Code, w.Body.String())
		}

		var health HealthResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&health)

		if health.Status != "unhealthy" {
			t.Errorf("Expected status unhealthy, got %s", health.Status)
		}
	})
}

func TestSystemHandler_Version(t *testing.T) {
	t.Run("returns version and migration state", func(t *testing.T) {
		handler, _ := newSystemHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/system/version", nil)
		w := httptest.NewRecorder()

		handler.Version(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var info model.VersionInfo
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&info)

		if info.AppVersion == "" {
			t.Errorf("Expected a version string, got empty")
		}
		// The test database runs the embedded migrations, so the reported
		// schema version must be past zero and nothing should be pending.
		if info.DbVersion == "" || info.DbVersion == "0" {
			t.Errorf("Expected DB version >= 1, got %q", info.DbVersion)
		}
		if info.MigrationNeeded {
			t.Errorf("Expected no pending migrations on a freshly migrated database")
		}
		if !info.Features["yahoo"] {
			t.Errorf("Expected yahoo feature to be reported available")
		}
	})
}
