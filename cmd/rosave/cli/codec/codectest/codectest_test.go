package codectest

import (
	"bytes"
	"os"
	"testing"

	"github.com/cualquiercosa327/robot-odyssey-rewired/cmd/rosave/cli/codec"
)

func TestAssets_BuildBuiltinDictionary(t *testing.T) {
	t.Parallel()

	dict, err := codec.BuildDictionary(Assets(), codec.Builtin)
	if err != nil {
		t.Fatalf("BuildDictionary: %v", err)
	}
	if dict.Len() != codec.DictionarySize {
		t.Errorf("Len = %d, want %d", dict.Len(), codec.DictionarySize)
	}
}

func TestWriteAssets(t *testing.T) {
	t.Parallel()

	dir := WriteAssets(t)
	s, err := codec.New(os.DirFS(dir), codec.Builtin)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	src := codec.NewFileInfo("SAVE.GSV")
	src.Size = copy(src.Data, SaveFile(5000))
	if err := s.Compress(src); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	dst := codec.NewFileInfo("SAVE.GSV")
	if err := s.Decompress(dst); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(dst.Bytes(), src.Bytes()) {
		t.Error("round trip mismatch")
	}
}

func TestSaveFile_Length(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 100, 4096} {
		if got := len(SaveFile(n)); got != n {
			t.Errorf("SaveFile(%d) has %d bytes", n, got)
		}
	}
}
