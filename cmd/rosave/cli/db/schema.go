package db

import "database/sql"

// InitSchema creates the archive tables if they do not exist.
// Snapshots are append-only; a blob is never rewritten once stored.
func InitSchema(d *sql.DB) error {
	_, err := d.Exec(archiveDDL)
	return err
}

const archiveDDL = `
CREATE TABLE IF NOT EXISTS snapshots (
	id               VARCHAR PRIMARY KEY,
	slot             VARCHAR NOT NULL,
	captured_at      TIMESTAMP NOT NULL,
	version          UTINYINT NOT NULL,
	plain_size       INTEGER NOT NULL,
	blob_size        INTEGER NOT NULL,
	blob             BLOB NOT NULL,
	dict_fingerprint VARCHAR NOT NULL,
	tool_version     VARCHAR NOT NULL
);
`
