package repo

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	ctime INTEGER NOT NULL,
	mtime INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	filename TEXT NOT NULL,
	storage_key TEXT NOT NULL,
	share_token TEXT NOT NULL DEFAULT '',
	share_token_expires INTEGER NOT NULL DEFAULT 0,
	ctime INTEGER NOT NULL,
	mtime INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_user ON documents(user_id);

CREATE TABLE IF NOT EXISTS document_grants (
	id TEXT PRIMARY KEY,
	document_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	ctime INTEGER NOT NULL,
	UNIQUE(document_id, user_id)
);
CREATE INDEX IF NOT EXISTS idx_grants_user ON document_grants(user_id);

CREATE TABLE IF NOT EXISTS signatures (
	id TEXT PRIMARY KEY,
	document_id TEXT NOT NULL,
	user_id TEXT NOT NULL DEFAULT '',
	page INTEGER NOT NULL,
	x REAL NOT NULL,
	y REAL NOT NULL,
	text TEXT NOT NULL,
	font TEXT NOT NULL,
	font_size REAL NOT NULL,
	color TEXT NOT NULL,
	status TEXT NOT NULL,
	rejection_reason TEXT NOT NULL DEFAULT '',
	ctime INTEGER NOT NULL,
	mtime INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_signatures_document ON signatures(document_id);

CREATE TABLE IF NOT EXISTS audit_events (
	id TEXT PRIMARY KEY,
	document_id TEXT NOT NULL,
	user_id TEXT NOT NULL DEFAULT '',
	action TEXT NOT NULL,
	ip TEXT NOT NULL DEFAULT '',
	ctime INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_document ON audit_events(document_id);
`

func ApplyMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
