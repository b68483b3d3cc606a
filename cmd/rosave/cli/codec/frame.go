package codec

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// zstd frame header layout (RFC 8878, section 3.1.1.1).
const (
	frameMagicSize = 4

	fhdContentSizeMask = 0xc0
	fhdSingleSegment   = 0x20
	fhdChecksum        = 0x04
	fhdDictIDMask      = 0x03
)

var frameMagic = [frameMagicSize]byte{0x28, 0xb5, 0x2f, 0xfd}

// emptyFrame encodes zero bytes: a 1 KiB window, one empty raw last
// block, and the checksum of empty content (XXH64 0xef46db3751d8e999).
var emptyFrame = []byte{
	0x28, 0xb5, 0x2f, 0xfd,
	fhdChecksum,
	0x00,
	0x01, 0x00, 0x00,
	0x99, 0xe9, 0xd8, 0x51,
}

var errSingleSegment = errors.New("single-segment frame has no window descriptor")

// frameParts is a zstd frame with its header reduced to the fields a
// save needs: the window descriptor and the checksum flag.
type frameParts struct {
	descriptor byte
	window     byte
	body       []byte // blocks and checksum
}

// splitFrame parses the header of frame and drops its content size and
// dictionary ID fields. Decoders learn neither from the blocks, and the
// checksum covers content only, so the frame stays valid.
func splitFrame(frame []byte) (frameParts, error) {
	if len(frame) < frameMagicSize+2 {
		return frameParts{}, fmt.Errorf("frame too short: %d bytes", len(frame))
	}
	if [frameMagicSize]byte(frame[:frameMagicSize]) != frameMagic {
		return frameParts{}, fmt.Errorf("bad frame magic % x", frame[:frameMagicSize])
	}
	fhd := frame[frameMagicSize]
	if fhd&fhdSingleSegment != 0 {
		return frameParts{}, errSingleSegment
	}
	pos := frameMagicSize + 1
	window := frame[pos]
	pos++
	pos += [4]int{0, 1, 2, 4}[fhd&fhdDictIDMask]
	pos += [4]int{0, 2, 4, 8}[(fhd&fhdContentSizeMask)>>6]
	if pos > len(frame) {
		return frameParts{}, fmt.Errorf("frame header truncated: need %d bytes, have %d", pos, len(frame))
	}
	return frameParts{
		descriptor: fhd &^ (fhdContentSizeMask | fhdDictIDMask),
		window:     window,
		body:       frame[pos:],
	}, nil
}

// size returns the encoded length of p.
func (p frameParts) size() int {
	return frameMagicSize + 2 + len(p.body)
}

// put writes p to dst, which must be exactly p.size() bytes.
func (p frameParts) put(dst []byte) {
	copy(dst, frameMagic[:])
	dst[frameMagicSize] = p.descriptor
	dst[frameMagicSize+1] = p.window
	copy(dst[frameMagicSize+2:], p.body)
}

// BlobHeader describes the leading bytes of a SaveBlob.
type BlobHeader struct {
	Version       byte
	SingleSegment bool
	WindowSize    uint64
	HasFCS        bool
	ContentSize   uint64
	DictionaryID  uint32
	HasChecksum   bool
	HeaderSize    int
}

// ParseBlobHeader decodes the version tag and zstd frame header of blob
// without decompressing it. The version is not checked.
func ParseBlobHeader(blob []byte) (BlobHeader, error) {
	if len(blob) < 1 {
		return BlobHeader{}, ErrNoVersion
	}
	var h zstd.Header
	if err := h.Decode(blob[1:]); err != nil {
		return BlobHeader{Version: blob[0]}, fmt.Errorf("codec: frame header: %w", err)
	}
	return BlobHeader{
		Version:       blob[0],
		SingleSegment: h.SingleSegment,
		WindowSize:    h.WindowSize,
		HasFCS:        h.HasFCS,
		ContentSize:   h.FrameContentSize,
		DictionaryID:  h.DictionaryID,
		HasChecksum:   h.HasCheckSum,
		HeaderSize:    h.HeaderSize,
	}, nil
}
