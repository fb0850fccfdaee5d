// Package postgrestest opens a migrated database for repository tests.
// Tests are skipped unless TEST_DATABASE_URL points at a disposable database.
package postgrestest

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"hunting-reserve-backend/internal/platform/postgres"
)

const envDatabaseURL = "TEST_DATABASE_URL"

var tables = []string{
	"lottery_participations", "lotteries", "hunt_reports", "reservations",
	"reserve_rules", "group_quotas", "regional_quotas", "hunters", "zones",
	"reserve_settings", "reserves",
}

// Open returns a clean, migrated database or skips the test.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv(envDatabaseURL)
	if dsn == "" {
		t.Skipf("%s not set, skipping postgres integration test", envDatabaseURL)
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, postgres.NewClientFromDB(db).Migrate(ctx))

	for _, table := range tables {
		_, err := db.ExecContext(ctx, "TRUNCATE TABLE "+table+" RESTART IDENTITY CASCADE")
		require.NoError(t, err)
	}

	return db
}

// SeedReserve inserts a reserve with default settings and returns its id.
func SeedReserve(t *testing.T, db *sql.DB, id string) string {
	t.Helper()
	ctx := context.Background()
	_, err := db.ExecContext(ctx,
		`INSERT INTO reserves (id, name, comune, contact_email) VALUES ($1, $1, 'Cison di Valmarino', 'admin@example.org')`, id)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO reserve_settings (reserve_id) VALUES ($1)`, id)
	require.NoError(t, err)
	return id
}

// SeedZone inserts an active zone and returns its id.
func SeedZone(t *testing.T, db *sql.DB, reserveID, name string) int64 {
	t.Helper()
	var id int64
	err := db.QueryRowContext(context.Background(),
		`INSERT INTO zones (reserve_id, name) VALUES ($1, $2) RETURNING id`, reserveID, name).Scan(&id)
	require.NoError(t, err)
	return id
}

// SeedHunter inserts a hunter with the given role and returns its id.
func SeedHunter(t *testing.T, db *sql.DB, reserveID, email, role string) int64 {
	t.Helper()
	var id int64
	err := db.QueryRowContext(context.Background(),
		`INSERT INTO hunters (email, first_name, last_name, role, reserve_id) VALUES ($1, 'Mario', 'Rossi', $2, $3) RETURNING id`,
		email, role, reserveID).Scan(&id)
	require.NoError(t, err)
	return id
}
