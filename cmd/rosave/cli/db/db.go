package db

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// ArchiveFile is the archive database's name inside the .rosave directory.
const ArchiveFile = "archive.db"

// ArchivePath returns the archive location for a save directory.
func ArchivePath(saveDir string) string {
	return filepath.Join(saveDir, ".rosave", ArchiveFile)
}

// OpenArchive opens (or creates) the archive DB at <saveDir>/.rosave/archive.db.
func OpenArchive(saveDir string) (*sql.DB, error) {
	return open(ArchivePath(saveDir))
}

func open(path string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database %s: %w", path, err)
	}
	return db, nil
}
