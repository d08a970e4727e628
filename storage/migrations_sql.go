package storage

var sqliteMigrations = map[int][]string{
	1: {
		`CREATE TABLE IF NOT EXISTS memory_schema_version (
			num INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS memory_items (
			id              TEXT PRIMARY KEY,
			uuid            TEXT NOT NULL UNIQUE,
			user_id         TEXT NOT NULL,
			item_key        TEXT NOT NULL,
			item_value      TEXT NOT NULL,
			original_query  TEXT NOT NULL,
			last_updated_at TEXT NOT NULL,
			date_created    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_memory_items_user_id
			ON memory_items (user_id, last_updated_at)`,
	},
}

var postgresMigrations = map[int][]string{
	1: {
		`CREATE TABLE IF NOT EXISTS memory_schema_version (
			num INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS memory_items (
			id              TEXT PRIMARY KEY,
			uuid            UUID NOT NULL UNIQUE,
			user_id         TEXT NOT NULL,
			item_key        TEXT NOT NULL,
			item_value      TEXT NOT NULL,
			original_query  TEXT NOT NULL,
			last_updated_at TIMESTAMPTZ NOT NULL,
			date_created    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_memory_items_user_id
			ON memory_items (user_id, last_updated_at DESC)`,
	},
}
