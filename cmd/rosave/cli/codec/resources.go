package codec

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// MaxFileSize is the largest file the game's DOS filesystem can hold.
// Both plaintext saves and SaveBlobs are bounded by it.
const MaxFileSize = 64 * 1024

// Group identifies a logical section of the built-in resource table.
type Group int

const (
	GroupChips Group = iota
	GroupOverlays
	GroupWorldChips
	GroupLabWorld
	GroupGameWorld
)

// String returns the human-readable name of a resource group.
func (g Group) String() string {
	switch g {
	case GroupChips:
		return "chips"
	case GroupOverlays:
		return "overlays"
	case GroupWorldChips:
		return "world-chips"
	case GroupLabWorld:
		return "lab-world"
	case GroupGameWorld:
		return "game-world"
	default:
		return fmt.Sprintf("unknown(%d)", int(g))
	}
}

// Resource names one built-in asset. Its identity is its position in a Table.
type Resource struct {
	Group Group
	Name  string
}

// Table is an ordered list of resources together with the exact length
// of the dictionary they produce.
type Table struct {
	Resources []Resource
	Size      int
}

// DictionarySize is the length of the dictionary built from Builtin.
const DictionarySize = 57791

// Builtin is the dictionary composition for SaveVersion. The order of
// entries and the content of each file are part of the save format:
// editing this table breaks every existing save.
var Builtin = Table{
	Size: DictionarySize,
	Resources: []Resource{
		// Loadable chips.
		{GroupChips, "4BITCNTR.CSV"},
		{GroupChips, "STEREO.CSV"},
		{GroupChips, "RSFLOP.CSV"},
		{GroupChips, "ONESHOT.CSV"},
		{GroupChips, "COUNTTON.CSV"},
		{GroupChips, "ADDER.CSV"},
		{GroupChips, "CLOCK.CSV"},
		{GroupChips, "DELAY.CSV"},
		{GroupChips, "BUS.CSV"},
		{GroupChips, "WALLHUG.CSV"},

		// World overlays for the game.
		{GroupOverlays, "STREET.WLD"},
		{GroupOverlays, "SUBWAY.WLD"},
		{GroupOverlays, "TOWN.WLD"},
		{GroupOverlays, "COMP.WLD"},

		// Chips used in the initial game world.
		{GroupWorldChips, "COUNTTON.CHP"},
		{GroupWorldChips, "WALLHUG.CHP"},
		{GroupWorldChips, "COUNTTON.PIN"},
		{GroupWorldChips, "WALLHUG.PIN"},

		{GroupLabWorld, "LAB.WOR"},

		{GroupGameWorld, "SEWER.WOR"},
		{GroupGameWorld, "SEWER.CIR"},
	},
}

// FileInfo is a named file buffer. Data is the storage and Size is the
// logical length; only Data[:Size] is meaningful.
type FileInfo struct {
	Name string
	Data []byte
	Size int
}

// NewFileInfo returns a FileInfo with MaxFileSize bytes of storage.
func NewFileInfo(name string) *FileInfo {
	return &FileInfo{Name: name, Data: make([]byte, MaxFileSize)}
}

// Bytes returns the meaningful part of the buffer.
func (f *FileInfo) Bytes() []byte {
	return f.Data[:f.Size]
}

// ErrResourceNotFound is returned when a table entry has no matching file.
var ErrResourceNotFound = errors.New("codec: resource not found")

// LoadResources reads every resource of table from fsys, in table order.
// Names are matched case-insensitively, as on the game's DOS disks.
func LoadResources(fsys fs.FS, table Table) ([]FileInfo, error) {
	files := make([]FileInfo, 0, len(table.Resources))
	for _, res := range table.Resources {
		name, err := resolveName(fsys, res.Name)
		if err != nil {
			return nil, err
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("codec: read resource %s: %w", res.Name, err)
		}
		if len(data) > MaxFileSize {
			return nil, fmt.Errorf("codec: resource %s is %d bytes, limit %d", res.Name, len(data), MaxFileSize)
		}
		files = append(files, FileInfo{Name: res.Name, Data: data, Size: len(data)})
	}
	return files, nil
}

func resolveName(fsys fs.FS, name string) (string, error) {
	if _, err := fs.Stat(fsys, name); err == nil {
		return name, nil
	}
	entries, err := fs.ReadDir(fsys, path.Dir(name))
	if err != nil {
		return "", fmt.Errorf("codec: resolve resource %s: %w", name, err)
	}
	base := path.Base(name)
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(e.Name(), base) {
			return path.Join(path.Dir(name), e.Name()), nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrResourceNotFound, name)
}
