package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cualquiercosa327/robot-odyssey-rewired/cmd/rosave/cli/codec"
	"github.com/cualquiercosa327/robot-odyssey-rewired/cmd/rosave/cli/db"
	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id> <save>",
		Short: "Decompress an archived snapshot into a raw save file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e := envFrom(cmd)

			if err := EnsureInitDone(e.dir); err != nil {
				return fail(cmd, err)
			}
			return runRestore(cmd, e, args[0], args[1])
		},
	}
}

func runRestore(cmd *cobra.Command, e *env, id, path string) error {
	archive, err := db.OpenArchive(e.dir)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archive.Close()

	snap, err := db.GetSnapshot(archive, id)
	if errors.Is(err, db.ErrSnapshotNotFound) {
		return fail(cmd, fmt.Errorf("snapshot %s not found", id))
	}
	if err != nil {
		return fmt.Errorf("get snapshot: %w", err)
	}

	if newerTool(snap.ToolVersion, Version) {
		fmt.Fprintf(cmd.ErrOrStderr(), "note: snapshot %s was written by rosave %s (this is %s)\n",
			snap.ID, snap.ToolVersion, Version)
	}

	save, err := openSave(e)
	if err != nil {
		return fail(cmd, err)
	}
	defer save.Close()

	if fp := fingerprintHex(save); snap.DictFingerprint != "" && snap.DictFingerprint != fp {
		e.logger.Warn("dictionary fingerprint differs", "snapshot", snap.DictFingerprint, "current", fp)
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: snapshot %s was written with a different dictionary\n", snap.ID)
	}

	if err := save.Load(snap.Blob); err != nil {
		return fail(cmd, decodeFailure(err))
	}
	dst := codec.NewFileInfo(path)
	if err := save.Decompress(dst); err != nil {
		return fail(cmd, decodeFailure(err))
	}
	if err := os.WriteFile(path, dst.Bytes(), 0o644); err != nil {
		return fail(cmd, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: restored %s (%d bytes)\n", path, snap.ID, dst.Size)
	return nil
}

// newerTool reports whether written is a later release than running.
// Versions that are not valid semver never compare as newer.
func newerTool(written, running string) bool {
	w, r := canonicalVersion(written), canonicalVersion(running)
	if !semver.IsValid(w) || !semver.IsValid(r) {
		return false
	}
	return semver.Compare(w, r) > 0
}

func canonicalVersion(v string) string {
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
