package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fernet/fernet-go"

	"github.com/mheijden/portfolio-tracker/internal/apperrors"
	"github.com/mheijden/portfolio-tracker/internal/repository"
	"github.com/mheijden/portfolio-tracker/internal/testutil"
)

func newSettingsRepo(t *testing.T) *repository.SettingsRepository {
	t.Helper()

	db := testutil.SetupTestDB(t)
	var key fernet.Key
	if err := key.Generate(); err != nil {
		t.Fatalf("Failed to generate fernet key: %v", err)
	}
	return repository.NewSettingsRepository(db, &key)
}

func TestSettingsRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("round-trips a plain value", func(t *testing.T) {
		repo := newSettingsRepo(t)

		if err := repo.Set(ctx, "base_currency", "EUR", false); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		value, err := repo.Get("base_currency")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if value != "EUR" {
			t.Errorf("Expected EUR, got %q", value)
		}
	})

	t.Run("round-trips an encrypted value", func(t *testing.T) {
		repo := newSettingsRepo(t)

		if err := repo.Set(ctx, "eodhd_api_key", "secret-token", true); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		value, err := repo.Get("eodhd_api_key")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if value != "secret-token" {
			t.Errorf("Expected decrypted secret-token, got %q", value)
		}
	})

	t.Run("set replaces an existing value", func(t *testing.T) {
		repo := newSettingsRepo(t)

		if err := repo.Set(ctx, "base_currency", "EUR", false); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if err := repo.Set(ctx, "base_currency", "USD", false); err != nil {
			t.Fatalf("Second Set failed: %v", err)
		}

		value, err := repo.Get("base_currency")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if value != "USD" {
			t.Errorf("Expected replaced value USD, got %q", value)
		}
	})

	t.Run("get returns not found for unknown keys", func(t *testing.T) {
		repo := newSettingsRepo(t)

		if _, err := repo.Get("missing"); !errors.Is(err, apperrors.ErrSettingNotFound) {
			t.Errorf("Expected ErrSettingNotFound, got %v", err)
		}
	})

	t.Run("encryption requires a configured key", func(t *testing.T) {
		repo := repository.NewSettingsRepository(testutil.SetupTestDB(t), nil)

		if err := repo.Set(ctx, "eodhd_api_key", "secret", true); err == nil {
			t.Error("Expected an error when encrypting without a key, got nil")
		}
	})
}
