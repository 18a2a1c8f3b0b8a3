package db

// SchemaSQL is the complete schema for fresh waterwatch installs.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests use
// this schema via GetSchemaSQL(): if repository code references a column that
// does not exist here, tests fail immediately with "no such column" instead
// of drifting against a hand-rolled test schema.
const SchemaSQL = `
-- Contamination reports (citizen and PHC intake)
CREATE TABLE IF NOT EXISTS reports (
	id TEXT PRIMARY KEY,
	problem TEXT NOT NULL,
	source_type TEXT NOT NULL CHECK(source_type IN ('river', 'pond', 'well', 'tube_well', 'lake', 'canal', 'domestic', 'industrial', 'agricultural', 'natural', 'other')),
	severity_hint TEXT NOT NULL CHECK(severity_hint IN ('low', 'medium', 'high', 'critical')),
	pin_code TEXT NOT NULL,
	locality_name TEXT,
	district TEXT NOT NULL,
	lat REAL,
	lon REAL,
	upvotes INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL CHECK(status IN ('reported', 'assigned', 'resolved')) DEFAULT 'reported',
	submitter_role TEXT NOT NULL CHECK(submitter_role IN ('citizen', 'phc', 'lab')) DEFAULT 'citizen',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Lab assignments (one escalation cycle per locality)
CREATE TABLE IF NOT EXISTS assignments (
	id TEXT PRIMARY KEY,
	pin_code TEXT NOT NULL,
	district TEXT NOT NULL,
	locality_name TEXT,
	description TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('sent_to_lab', 'test_uploaded', 'solution_uploaded', 'phc_marked_clean', 'confirmed_clean')) DEFAULT 'sent_to_lab',
	report_count INTEGER NOT NULL DEFAULT 0,
	test_result_ref TEXT,
	lab_notes TEXT,
	solution_ref TEXT,
	solution_description TEXT,
	phc_notes TEXT,
	final_notes TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	resolved_at DATETIME
);

-- At most one unresolved assignment per locality. Concurrent escalations for
-- the same locality both pass the eligibility read; this index makes the
-- second insert fail so the service can surface a conflict.
CREATE UNIQUE INDEX IF NOT EXISTS idx_assignments_active_locality ON assignments(pin_code, district) WHERE status != 'confirmed_clean';

-- Membership snapshot taken at escalation time
CREATE TABLE IF NOT EXISTS assignment_reports (
	assignment_id TEXT NOT NULL,
	report_id TEXT NOT NULL,
	PRIMARY KEY (assignment_id, report_id),
	FOREIGN KEY (assignment_id) REFERENCES assignments(id) ON DELETE CASCADE,
	FOREIGN KEY (report_id) REFERENCES reports(id)
);

-- Audit trail for report and assignment mutations
CREATE TABLE IF NOT EXISTS audit_log (
	id TEXT PRIMARY KEY,
	actor_role TEXT,
	actor_district TEXT,
	entity_type TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	action TEXT NOT NULL,
	field_name TEXT,
	old_value TEXT,
	new_value TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_reports_locality ON reports(pin_code, district);
CREATE INDEX IF NOT EXISTS idx_reports_district ON reports(district);
CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status);
CREATE INDEX IF NOT EXISTS idx_assignments_locality ON assignments(pin_code, district);
CREATE INDEX IF NOT EXISTS idx_assignments_district ON assignments(district);
CREATE INDEX IF NOT EXISTS idx_assignments_status ON assignments(status);
CREATE INDEX IF NOT EXISTS idx_assignment_reports_report ON assignment_reports(report_id);
CREATE INDEX IF NOT EXISTS idx_audit_log_entity ON audit_log(entity_type, entity_id);
CREATE INDEX IF NOT EXISTS idx_audit_log_created ON audit_log(created_at DESC);
`

// InitSchema creates the database schema.
func InitSchema() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	_, err = db.Exec(SchemaSQL)
	return err
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
