package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist. Monetary columns store
// minor units as INTEGER; decimal strings appear only inside summary
// columns that mirror the export record.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS split_records (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    mode TEXT NOT NULL,
    currency TEXT NOT NULL,
    rounding TEXT NOT NULL,
    subtotal TEXT NOT NULL,
    declared_units INTEGER NOT NULL,
    computed_units INTEGER NOT NULL,
    matched INTEGER NOT NULL,
    difference_units INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS record_participants (
    record_id TEXT NOT NULL,
    participant_id TEXT NOT NULL,
    name TEXT NOT NULL,
    amount TEXT NOT NULL,
    percentage REAL NOT NULL DEFAULT 0,
    position INTEGER NOT NULL,
    PRIMARY KEY (record_id, participant_id),
    FOREIGN KEY (record_id) REFERENCES split_records(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS record_items (
    record_id TEXT NOT NULL,
    item_id TEXT NOT NULL,
    name TEXT NOT NULL,
    price TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (record_id, item_id),
    FOREIGN KEY (record_id) REFERENCES split_records(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS record_item_assignments (
    record_id TEXT NOT NULL,
    item_id TEXT NOT NULL,
    participant_id TEXT NOT NULL,
    PRIMARY KEY (record_id, item_id, participant_id),
    FOREIGN KEY (record_id) REFERENCES split_records(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS receipt_imports (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    currency TEXT NOT NULL,
    declared_units INTEGER NOT NULL,
    status TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS receipt_items (
    import_id TEXT NOT NULL,
    item_id TEXT NOT NULL,
    name TEXT NOT NULL,
    quantity INTEGER NOT NULL,
    price_units INTEGER NOT NULL,
    confidence INTEGER NOT NULL,
    region_x REAL,
    region_y REAL,
    region_w REAL,
    region_h REAL,
    position INTEGER NOT NULL,
    PRIMARY KEY (import_id, item_id),
    FOREIGN KEY (import_id) REFERENCES receipt_imports(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_split_records_user_id ON split_records(user_id);
CREATE INDEX IF NOT EXISTS idx_record_participants_record_id ON record_participants(record_id);
CREATE INDEX IF NOT EXISTS idx_record_items_record_id ON record_items(record_id);
CREATE INDEX IF NOT EXISTS idx_receipt_items_import_id ON receipt_items(import_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
