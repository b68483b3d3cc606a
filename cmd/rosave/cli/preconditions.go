package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cualquiercosa327/robot-odyssey-rewired/cmd/rosave/cli/codec"
	"github.com/cualquiercosa327/robot-odyssey-rewired/cmd/rosave/cli/db"
)

var errNoAssets = errors.New("no game assets configured; pass --assets or set assets in the config file")

// EnsureAssets checks that dir is a directory that can hold the game files.
func EnsureAssets(dir string) error {
	if dir == "" {
		return errNoAssets
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("game assets directory %s not found", dir)
	}
	return nil
}

// EnsureInitDone checks that the archive has been initialized in saveDir.
func EnsureInitDone(saveDir string) error {
	info, err := os.Stat(RosaveDir(saveDir))
	if err != nil || !info.IsDir() {
		return fmt.Errorf("rosave not initialized; run 'rosave init' in the save directory")
	}
	if _, err := os.Stat(db.ArchivePath(saveDir)); err != nil {
		return fmt.Errorf("rosave not initialized; run 'rosave init' in the save directory")
	}
	return nil
}

// RosaveDir returns the path to .rosave/ within saveDir.
func RosaveDir(saveDir string) string {
	return filepath.Join(saveDir, ".rosave")
}

// openSave builds the dictionary from the configured assets.
func openSave(e *env) (*codec.Save, error) {
	if err := EnsureAssets(e.assets); err != nil {
		return nil, err
	}
	save, err := codec.New(os.DirFS(e.assets), codec.Builtin)
	if err != nil {
		return nil, fmt.Errorf("build dictionary: %w", err)
	}
	e.logger.Debug("dictionary built", "assets", e.assets, "bytes", save.Dictionary().Len())
	return save, nil
}

// readPlaintext reads a raw save file into a MaxFileSize buffer.
func readPlaintext(path string) (*codec.FileInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) > codec.MaxFileSize {
		return nil, fmt.Errorf("%s: %w: %d bytes", path, codec.ErrPlaintextTooLarge, len(data))
	}
	fi := codec.NewFileInfo(filepath.Base(path))
	fi.Size = copy(fi.Data, data)
	return fi, nil
}

// decodeFailure rewords codec errors that mean the blob cannot be read
// by this build.
func decodeFailure(err error) error {
	if errors.Is(err, codec.ErrUnsupportedVersion) || errors.Is(err, codec.ErrCorrupt) ||
		errors.Is(err, codec.ErrNoVersion) {
		return fmt.Errorf("incompatible or corrupt save: %w", err)
	}
	return err
}
