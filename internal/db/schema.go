package db

// SchemaSQL is the complete ledger schema. It is applied by migration 1 and reused by
// tests through GetSchemaSQL so the two never drift.
//
// When adding columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here if the change belongs to a fresh install
const SchemaSQL = `
-- One row per generate/delete invocation for an entity
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	entity TEXT NOT NULL,
	source TEXT NOT NULL CHECK(source IN ('fields', 'json', 'delete')),
	status TEXT NOT NULL CHECK(status IN ('running', 'succeeded', 'failed')) DEFAULT 'running',
	error TEXT,
	started_at TEXT NOT NULL,
	finished_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_entity ON runs(entity);

-- Files written or removed by a run
CREATE TABLE IF NOT EXISTS artifacts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	entity TEXT NOT NULL,
	kind TEXT NOT NULL,
	path TEXT NOT NULL,
	operation TEXT NOT NULL CHECK(operation IN ('created', 'updated', 'skipped', 'deleted', 'planned')),
	created_at TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_artifacts_entity ON artifacts(entity);
CREATE INDEX IF NOT EXISTS idx_artifacts_run ON artifacts(run_id);
`

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
