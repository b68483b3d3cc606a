package cli

import (
	"bytes"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/cualquiercosa327/robot-odyssey-rewired/cmd/rosave/cli/db"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
)

func newCheckpointCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkpoint <slot> <save>",
		Short: "Compress a save file and store it in the archive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e := envFrom(cmd)

			if err := EnsureInitDone(e.dir); err != nil {
				return fail(cmd, err)
			}
			return runCheckpoint(cmd, e, args[0], args[1])
		},
	}
}

func runCheckpoint(cmd *cobra.Command, e *env, slot, path string) error {
	src, err := readPlaintext(path)
	if err != nil {
		return fail(cmd, err)
	}

	save, err := openSave(e)
	if err != nil {
		return fail(cmd, err)
	}
	defer save.Close()

	if err := save.Compress(src); err != nil {
		return fail(cmd, fmt.Errorf("compress %s: %w", path, err))
	}

	archive, err := db.OpenArchive(e.dir)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archive.Close()

	// Skip saves identical to the slot's latest snapshot.
	unchanged, err := sameAsLatest(archive, slot, save.Bytes())
	if err != nil {
		return fmt.Errorf("check latest snapshot: %w", err)
	}
	if unchanged {
		e.logger.Debug("save unchanged", "slot", slot)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: unchanged\n", slot)
		return nil
	}

	entropy := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec
	now := time.Now().UTC()
	snap := &db.Snapshot{
		ID:              ulid.MustNew(ulid.Timestamp(now), entropy).String(),
		Slot:            slot,
		CapturedAt:      now,
		Version:         save.Bytes()[0],
		PlainSize:       src.Size,
		Blob:            bytes.Clone(save.Bytes()),
		DictFingerprint: fingerprintHex(save),
		ToolVersion:     Version,
	}
	if err := db.InsertSnapshot(archive, snap); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	e.logger.Info("checkpoint stored", "id", snap.ID, "slot", slot, "plain", src.Size, "blob", len(snap.Blob))

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d -> %d bytes\n", snap.ID, slot, src.Size, len(snap.Blob))
	return nil
}

func sameAsLatest(archive *sql.DB, slot string, blob []byte) (bool, error) {
	latest, err := db.ListSnapshots(archive, slot, 1)
	if err != nil || len(latest) == 0 {
		return false, err
	}
	prev, err := db.GetSnapshot(archive, latest[0].ID)
	if err != nil {
		return false, err
	}
	return bytes.Equal(prev.Blob, blob), nil
}
