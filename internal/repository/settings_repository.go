package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/google/uuid"

	"github.com/mheijden/portfolio-tracker/internal/apperrors"
)

// SettingsRepository provides data access for the system_setting table.
// Sensitive values (provider API keys) are stored as fernet tokens; the
// encryption key comes from configuration, never from the database itself.
type SettingsRepository struct {
	db  *sql.DB
	key *fernet.Key
}

// NewSettingsRepository creates a new SettingsRepository. The fernet key may
// be nil, in which case encrypted settings cannot be read or written.
func NewSettingsRepository(db *sql.DB, key *fernet.Key) *SettingsRepository {
	return &SettingsRepository{db: db, key: key}
}

// Get retrieves a setting value by key, decrypting it when it was stored
// encrypted.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	var encrypted bool

	err := r.db.QueryRow(`SELECT value, encrypted FROM system_setting WHERE "key" = ?`, key).
		Scan(&value, &encrypted)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", apperrors.ErrSettingNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query system_setting table: %w", err)
	}

	if !encrypted {
		return value, nil
	}

	if r.key == nil {
		return "", fmt.Errorf("setting %s is encrypted but no encryption key is configured", key)
	}
	plain := fernet.VerifyAndDecrypt([]byte(value), 0, []*fernet.Key{r.key})
	if plain == nil {
		return "", fmt.Errorf("failed to decrypt setting %s", key)
	}
	return string(plain), nil
}

// Set stores a setting value, encrypting it first when requested.
func (r *SettingsRepository) Set(ctx context.Context, key, value string, encrypt bool) error {
	stored := value
	if encrypt {
		if r.key == nil {
			return fmt.Errorf("cannot encrypt setting %s: no encryption key is configured", key)
		}
		token, err := fernet.EncryptAndSign([]byte(value), r.key)
		if err != nil {
			return fmt.Errorf("failed to encrypt setting %s: %w", key, err)
		}
		stored = string(token)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO system_setting (id, "key", value, encrypted, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT("key") DO UPDATE SET
			value = excluded.value,
			encrypted = excluded.encrypted,
			updated_at = excluded.updated_at`,
		uuid.NewString(),
		key,
		stored,
		encrypt,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert system_setting: %w", err)
	}
	return nil
}
