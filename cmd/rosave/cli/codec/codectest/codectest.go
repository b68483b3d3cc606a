// Package codectest provides stand-in game files for tests.
//
// The real resources ship with the game and are not redistributable.
// Assets generates files with the built-in table's names whose trimmed
// sizes add up to DictionarySize, so the built-in table builds from them.
package codectest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/cualquiercosa327/robot-odyssey-rewired/cmd/rosave/cli/codec"
)

// padding is appended to world files, which the game pads with zeroes.
const padding = 64

// Assets returns stand-in files for every resource of codec.Builtin.
func Assets() fstest.MapFS {
	res := codec.Builtin.Resources
	base := codec.Builtin.Size / len(res)
	extra := codec.Builtin.Size % len(res)

	fsys := make(fstest.MapFS, len(res))
	for i, r := range res {
		n := base
		if i < extra {
			n++
		}
		data := content(r.Name, n)
		if strings.HasSuffix(r.Name, ".WLD") {
			data = append(data, make([]byte, padding)...)
		}
		fsys[r.Name] = &fstest.MapFile{Data: data}
	}
	return fsys
}

// WriteAssets writes Assets into a new temporary directory and returns it.
func WriteAssets(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	for name, f := range Assets() {
		if err := os.WriteFile(filepath.Join(dir, name), f.Data, 0o644); err != nil {
			t.Fatalf("write asset %s: %v", name, err)
		}
	}
	return dir
}

// SaveFile returns a plausible raw save of about n bytes: room records
// like the ones the game writes, echoing the resource text.
func SaveFile(n int) []byte {
	var b strings.Builder
	for i := 0; b.Len() < n; i++ {
		fmt.Fprintf(&b, "ROOM,%d,ROBOT,%d,%d,CHIP,%s\n", i%64, i%3, (i*37)%256, codec.Builtin.Resources[i%len(codec.Builtin.Resources)].Name)
	}
	return []byte(b.String()[:n])
}

// content returns n bytes of text ending in a non-zero byte.
func content(name string, n int) []byte {
	var b strings.Builder
	for i := 0; b.Len() < n; i++ {
		fmt.Fprintf(&b, "%s,%d,%d,%d\n", name, i, (i*7)%251, (i*13)%97)
	}
	return []byte(b.String()[:n])
}
