package sqlstore

// schema is portable between PostgreSQL and SQLite. Every table is keyed by
// the application level integer id; session_identity is pinned to slot 1 so
// it can never hold more than one row.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS practitioners (
		id             BIGINT PRIMARY KEY,
		name           TEXT NOT NULL DEFAULT '',
		specialization TEXT NOT NULL DEFAULT '',
		contact        TEXT NOT NULL DEFAULT '',
		email          TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS clients (
		id         BIGINT PRIMARY KEY,
		name       TEXT NOT NULL DEFAULT '',
		age        INTEGER NOT NULL DEFAULT 0 CHECK (age >= 0),
		contact    TEXT NOT NULL DEFAULT '',
		email      TEXT NOT NULL DEFAULT '',
		last_visit TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS visits (
		id                BIGINT PRIMARY KEY,
		client_name       TEXT NOT NULL DEFAULT '',
		client_id         BIGINT NOT NULL DEFAULT 0,
		practitioner_name TEXT NOT NULL DEFAULT '',
		practitioner_id   BIGINT NOT NULL DEFAULT 0,
		visit_date        TEXT NOT NULL DEFAULT '',
		visit_time        TEXT NOT NULL DEFAULT '',
		reason            TEXT NOT NULL DEFAULT '',
		status            TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS session_identity (
		slot  INTEGER PRIMARY KEY CHECK (slot = 1),
		id    BIGINT NOT NULL DEFAULT 0,
		name  TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT ''
	)`,
}
