package codec

import (
	"errors"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestSplitFrame_DropsContentSizeAndDictID(t *testing.T) {
	t.Parallel()

	// magic, FHD: FCS flag 1 (2 bytes), checksum, dict ID flag 1 (1 byte),
	// window descriptor, dict ID, FCS, then the rest of the frame.
	frame := []byte{
		0x28, 0xb5, 0x2f, 0xfd,
		0x40 | fhdChecksum | 0x01,
		0x30,
		0x07,
		0x10, 0x02,
		0xaa, 0xbb, 0xcc,
	}
	parts, err := splitFrame(frame)
	if err != nil {
		t.Fatalf("splitFrame: %v", err)
	}
	if parts.descriptor != fhdChecksum {
		t.Errorf("descriptor = 0x%02x, want 0x%02x", parts.descriptor, fhdChecksum)
	}
	if parts.window != 0x30 {
		t.Errorf("window = 0x%02x, want 0x30", parts.window)
	}
	if string(parts.body) != "\xaa\xbb\xcc" {
		t.Errorf("body = % x", parts.body)
	}

	out := make([]byte, parts.size())
	parts.put(out)
	want := []byte{0x28, 0xb5, 0x2f, 0xfd, fhdChecksum, 0x30, 0xaa, 0xbb, 0xcc}
	if string(out) != string(want) {
		t.Errorf("rewritten frame = % x, want % x", out, want)
	}
}

func TestSplitFrame_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		frame []byte
	}{
		{"short", []byte{0x28, 0xb5}},
		{"bad magic", []byte{0x28, 0xb5, 0x2f, 0xfe, 0x04, 0x00}},
		{"single segment", []byte{0x28, 0xb5, 0x2f, 0xfd, fhdSingleSegment, 0x10, 0x01, 0x00, 0x00}},
		{"truncated header", []byte{0x28, 0xb5, 0x2f, 0xfd, 0xc0, 0x00, 0x01}},
	}
	for _, tt := range tests {
		if _, err := splitFrame(tt.frame); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}

	_, err := splitFrame([]byte{0x28, 0xb5, 0x2f, 0xfd, fhdSingleSegment, 0x10})
	if !errors.Is(err, errSingleSegment) {
		t.Errorf("single segment: got %v", err)
	}
}

func TestEmptyFrame_Decodes(t *testing.T) {
	t.Parallel()

	dec, err := zstd.NewReader(nil)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(emptyFrame, nil)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("decoded %d bytes, want 0", len(out))
	}

	// A wrong checksum must be rejected.
	bad := append([]byte(nil), emptyFrame...)
	bad[len(bad)-1] ^= 0xff
	if _, err := dec.DecodeAll(bad, nil); err == nil {
		t.Error("expected checksum error")
	}
}

func TestParseBlobHeader(t *testing.T) {
	t.Parallel()

	blob := append([]byte{SaveVersion}, emptyFrame...)
	h, err := ParseBlobHeader(blob)
	if err != nil {
		t.Fatalf("ParseBlobHeader: %v", err)
	}
	if h.Version != SaveVersion {
		t.Errorf("Version = 0x%02x", h.Version)
	}
	if h.WindowSize != 1024 {
		t.Errorf("WindowSize = %d, want 1024", h.WindowSize)
	}
	if h.HasFCS || h.SingleSegment || !h.HasChecksum || h.DictionaryID != 0 {
		t.Errorf("unexpected header %+v", h)
	}

	if _, err := ParseBlobHeader(nil); !errors.Is(err, ErrNoVersion) {
		t.Errorf("empty blob: got %v, want ErrNoVersion", err)
	}
	h, err = ParseBlobHeader([]byte{0x07, 'P', 'K', 0x03, 0x04, 0x00, 0x00})
	if err == nil {
		t.Error("expected error for non-zstd payload")
	}
	if h.Version != 0x07 {
		t.Errorf("Version should be reported even on error, got 0x%02x", h.Version)
	}
}
