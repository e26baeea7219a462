package handlers

import (
	"database/sql"
	"testing"

	"github.com/mheijden/portfolio-tracker/internal/service"
	"github.com/mheijden/portfolio-tracker/internal/testutil"
)

// testDeps bundles the database and services a handler test needs. Handlers
// are exercised directly against a real in-memory database; only the market
// data providers are faked.
type testDeps struct {
	db              *sql.DB
	dividendService *service.DividendService
}

func setupDeps(t *testing.T) *testDeps {
	t.Helper()

	db := testutil.SetupTestDB(t)
	dispatcher := testutil.NewFakeDispatcher()

	return &testDeps{
		db:              db,
		dividendService: testutil.NewTestDividendService(t, db, dispatcher),
	}
}
