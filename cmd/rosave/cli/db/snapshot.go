package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrSnapshotNotFound is returned by GetSnapshot for an unknown ID.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is one archived SaveBlob.
type Snapshot struct {
	ID              string
	Slot            string
	CapturedAt      time.Time
	Version         byte
	PlainSize       int
	BlobSize        int
	Blob            []byte
	DictFingerprint string
	ToolVersion     string
}

// InsertSnapshot stores s. BlobSize is taken from s.Blob.
func InsertSnapshot(d *sql.DB, s *Snapshot) error {
	_, err := d.Exec(`INSERT INTO snapshots
		(id, slot, captured_at, version, plain_size, blob_size, blob, dict_fingerprint, tool_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Slot, s.CapturedAt.UTC(), s.Version, s.PlainSize, len(s.Blob), s.Blob,
		s.DictFingerprint, s.ToolVersion,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot %s: %w", s.ID, err)
	}
	return nil
}

// GetSnapshot loads the snapshot with the given ID, including its blob.
func GetSnapshot(d *sql.DB, id string) (*Snapshot, error) {
	row := d.QueryRow(`SELECT id, slot, captured_at, version, plain_size, blob_size, blob,
		dict_fingerprint, tool_version FROM snapshots WHERE id = ?`, id)

	var s Snapshot
	err := row.Scan(&s.ID, &s.Slot, &s.CapturedAt, &s.Version, &s.PlainSize, &s.BlobSize, &s.Blob,
		&s.DictFingerprint, &s.ToolVersion)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot %s: %w", id, err)
	}
	return &s, nil
}

// ListSnapshots returns snapshots newest first, without blobs. An empty
// slot matches every slot; limit <= 0 means no limit.
func ListSnapshots(d *sql.DB, slot string, limit int) ([]Snapshot, error) {
	query := `SELECT id, slot, captured_at, version, plain_size, blob_size, dict_fingerprint, tool_version
		FROM snapshots WHERE (? = '' OR slot = ?) ORDER BY captured_at DESC, id DESC`
	args := []any{slot, slot}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ID, &s.Slot, &s.CapturedAt, &s.Version, &s.PlainSize, &s.BlobSize,
			&s.DictFingerprint, &s.ToolVersion); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
