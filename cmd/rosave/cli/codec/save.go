package codec

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/klauspost/compress/zstd"
)

// SaveVersion is the format tag written as the first byte of every
// SaveBlob. Only this version is produced or accepted; there is no
// migration from earlier versions.
const SaveVersion byte = 0x11

// CompressionLevel is the zstd effort level for saves. It trades CPU
// for size and can change without breaking format compatibility.
const CompressionLevel = 18

var (
	ErrPlaintextTooLarge  = errors.New("codec: plaintext larger than MaxFileSize")
	ErrBlobTooLarge       = errors.New("codec: save blob larger than MaxFileSize")
	ErrCompress           = errors.New("codec: compression failed")
	ErrNoVersion          = errors.New("codec: save blob has no version byte")
	ErrUnsupportedVersion = errors.New("codec: unsupported save version")
	ErrCorrupt            = errors.New("codec: corrupt save blob")
)

// Save compresses and decompresses one game save against the shared
// dictionary. It holds the current SaveBlob in a fixed buffer that each
// Compress or Load overwrites.
//
// A Save is not safe for concurrent use. Separate Save values are
// independent, even when they share a Dictionary.
type Save struct {
	dict *Dictionary
	enc  *zstd.Encoder
	dec  *zstd.Decoder

	buf   [MaxFileSize]byte
	size  int
	frame []byte // encoder scratch, reused across calls
}

// New builds the dictionary for table from fsys and returns a Save
// primed with it.
func New(fsys fs.FS, table Table) (*Save, error) {
	dict, err := BuildDictionary(fsys, table)
	if err != nil {
		return nil, err
	}
	return NewSave(dict)
}

// NewSave returns a Save whose encoder and decoder are primed with dict.
func NewSave(dict *Dictionary) (*Save, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(CompressionLevel)),
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderCRC(true),
		zstd.WithSingleSegment(false),
		zstd.WithWindowSize(MaxFileSize),
		zstd.WithEncoderDictRaw(0, dict.Bytes()),
	)
	if err != nil {
		return nil, fmt.Errorf("codec: create encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(MaxFileSize),
		zstd.WithDecoderDictRaw(0, dict.Bytes()),
	)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("codec: create decoder: %w", err)
	}
	return &Save{dict: dict, enc: enc, dec: dec}, nil
}

// Close releases the encoder and decoder.
func (s *Save) Close() error {
	s.dec.Close()
	return s.enc.Close()
}

// Compress replaces the held SaveBlob with the compressed form of src.
// On failure the held blob is empty.
func (s *Save) Compress(src *FileInfo) error {
	s.size = 0
	if src.Size > MaxFileSize {
		return fmt.Errorf("%w: %d bytes", ErrPlaintextTooLarge, src.Size)
	}
	if src.Size < 0 || src.Size > len(src.Data) {
		return fmt.Errorf("%w: size %d outside buffer of %d bytes", ErrCompress, src.Size, len(src.Data))
	}

	var parts frameParts
	if src.Size == 0 {
		parts = frameParts{descriptor: emptyFrame[4], window: emptyFrame[5], body: emptyFrame[6:]}
	} else {
		s.frame = s.enc.EncodeAll(src.Data[:src.Size], s.frame[:0])
		var err error
		parts, err = splitFrame(s.frame)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCompress, err)
		}
	}

	n := 1 + parts.size()
	if n > len(s.buf) {
		return fmt.Errorf("%w: %d bytes", ErrBlobTooLarge, n)
	}
	s.buf[0] = SaveVersion
	parts.put(s.buf[1:n])
	s.size = n
	return nil
}

// Decompress writes the plaintext of the held SaveBlob into dst. On
// failure dst.Size is 0. The held blob is not modified.
func (s *Save) Decompress(dst *FileInfo) error {
	dst.Size = 0
	if s.size < 1 {
		return ErrNoVersion
	}
	if v := s.buf[0]; v != SaveVersion {
		return fmt.Errorf("%w: 0x%02x", ErrUnsupportedVersion, v)
	}

	// DecodeAll treats input too short for a frame as end of stream and
	// skips skippable frames, so both would decode to nothing.
	payload := s.buf[1:s.size]
	var h zstd.Header
	if err := h.Decode(payload); err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if h.Skippable {
		return fmt.Errorf("%w: skippable frame", ErrCorrupt)
	}

	out, err := s.dec.DecodeAll(payload, dst.Data[:0])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if len(out) > len(dst.Data) {
		return fmt.Errorf("codec: %d plaintext bytes do not fit in %d: %w", len(out), len(dst.Data), io.ErrShortBuffer)
	}
	// DecodeAll writes in place unless it had to grow past cap(dst.Data).
	dst.Size = copy(dst.Data, out)
	return nil
}

// Load replaces the held SaveBlob with a copy of blob, typically one
// read back from disk. On failure the held blob is empty.
func (s *Save) Load(blob []byte) error {
	s.size = 0
	if len(blob) > len(s.buf) {
		return fmt.Errorf("%w: %d bytes", ErrBlobTooLarge, len(blob))
	}
	s.size = copy(s.buf[:], blob)
	return nil
}

// Reset empties the held SaveBlob.
func (s *Save) Reset() {
	s.size = 0
}

// Bytes returns the held SaveBlob. It is only valid until the next
// Compress, Load or Reset.
func (s *Save) Bytes() []byte {
	return s.buf[:s.size]
}

// Size returns the length of the held SaveBlob.
func (s *Save) Size() int {
	return s.size
}

// CompressionDictionary returns the dictionary content. Callers must not
// modify it.
func (s *Save) CompressionDictionary() []byte {
	return s.dict.Bytes()
}

// Dictionary returns the dictionary this Save was built with.
func (s *Save) Dictionary() *Dictionary {
	return s.dict
}
