package sqlite

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	statements := []string{
		`CREATE TABLE alerts (
			id TEXT PRIMARY KEY,
			rule_id TEXT NOT NULL,
			device_id TEXT,
			interface_id TEXT,
			metric_type TEXT NOT NULL,
			measured_value REAL NOT NULL,
			status TEXT NOT NULL,
			severity TEXT NOT NULL,
			triggered_at TIMESTAMP NOT NULL,
			acknowledged_at TIMESTAMP,
			resolved_at TIMESTAMP
		)`,
		`CREATE UNIQUE INDEX idx_alerts_active_key
			ON alerts(rule_id, coalesce(device_id, ''), coalesce(interface_id, ''))
			WHERE status IN ('open', 'acknowledged')`,
		`CREATE TABLE alert_events (
			id TEXT PRIMARY KEY,
			alert_id TEXT NOT NULL,
			status TEXT NOT NULL,
			message TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE on_call_rotations (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE on_call_rotation_members (
			id TEXT PRIMARY KEY,
			rotation_id TEXT NOT NULL,
			name TEXT NOT NULL,
			contact TEXT NOT NULL,
			priority INTEGER NOT NULL DEFAULT 0,
			last_used_at TIMESTAMP,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to create test schema: %v", err)
		}
	}

	return db
}

func strPtr(v string) *string { return &v }
