package service

import (
	"database/sql"
	"strconv"

	"github.com/pressly/goose/v3"

	"github.com/mheijden/portfolio-tracker/internal/database"
	"github.com/mheijden/portfolio-tracker/internal/model"
	"github.com/mheijden/portfolio-tracker/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db       *sql.DB
	features map[string]bool
}

// NewSystemService creates a new SystemService. The features map reports
// which optional capabilities are available in this deployment, e.g. whether
// a provider API key is configured.
func NewSystemService(db *sql.DB, features map[string]bool) *SystemService {
	return &SystemService{
		db:       db,
		features: features,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion reports the application and schema versions. Migrations run
// at startup, so a running server never has pending migrations.
func (s *SystemService) CheckVersion() (model.VersionInfo, error) {
	dbVersion, err := goose.GetDBVersion(s.db)
	if err != nil {
		return model.VersionInfo{}, err
	}

	return model.VersionInfo{
		AppVersion:      version.Version,
		DbVersion:       strconv.FormatInt(dbVersion, 10),
		Features:        s.features,
		MigrationNeeded: false,
	}, nil
}
