package codec

import (
	"fmt"
	"io/fs"

	"github.com/zeebo/blake3"
)

// Dictionary is the shared zstd dictionary for save files. It is built
// once and only read afterwards; any number of Save values may share it.
type Dictionary struct {
	content       []byte
	contributions []Contribution
}

// Contribution records how many bytes one resource added to the dictionary.
type Contribution struct {
	Name  string
	Bytes int
}

// BuildDictionary loads table from fsys and builds its dictionary.
func BuildDictionary(fsys fs.FS, table Table) (*Dictionary, error) {
	files, err := LoadResources(fsys, table)
	if err != nil {
		return nil, err
	}
	d := &Dictionary{}
	d.Build(files, table.Size)
	return d, nil
}

// Build appends each file with its trailing zeroes trimmed, in order.
//
// The dictionary content must never change for a given save version, so
// Build panics if d is already built or if the result is not exactly
// want bytes long. Either case means the binary cannot read or write
// compatible saves.
func (d *Dictionary) Build(files []FileInfo, want int) {
	if len(d.content) != 0 {
		panic("codec: dictionary already built")
	}
	total := 0
	for i := range files {
		total += trimmedSize(&files[i])
	}
	d.content = make([]byte, 0, total)
	d.contributions = make([]Contribution, 0, len(files))
	for i := range files {
		d.add(&files[i])
	}
	if len(d.content) != want {
		panic(fmt.Sprintf("codec: dictionary is %d bytes, want %d", len(d.content), want))
	}
}

func (d *Dictionary) add(f *FileInfo) {
	n := trimmedSize(f)
	d.content = append(d.content, f.Data[:n]...)
	d.contributions = append(d.contributions, Contribution{Name: f.Name, Bytes: n})
}

// trimmedSize is the logical size of f without trailing zero bytes.
// Trailing zero runs are padding from the asset format.
func trimmedSize(f *FileInfo) int {
	n := f.Size
	for n > 0 && f.Data[n-1] == 0 {
		n--
	}
	return n
}

// Bytes returns the dictionary content. Callers must not modify it.
func (d *Dictionary) Bytes() []byte {
	return d.content
}

// Len returns the dictionary length in bytes.
func (d *Dictionary) Len() int {
	return len(d.content)
}

// Contributions returns the trimmed size of each resource, in build order.
func (d *Dictionary) Contributions() []Contribution {
	return d.contributions
}

// Fingerprint returns the BLAKE3-256 digest of the dictionary content.
// Two builds can read each other's saves only if their fingerprints match.
func (d *Dictionary) Fingerprint() [32]byte {
	return blake3.Sum256(d.content)
}
