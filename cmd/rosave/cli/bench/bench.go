// Package bench compares the save format against general-purpose
// compressors on real save files.
package bench

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cualquiercosa327/robot-odyssey-rewired/cmd/rosave/cli/codec"
)

// Algorithm names a compressor under comparison.
type Algorithm string

const (
	// AlgorithmSave is the save format itself: zstd primed with the
	// built-in dictionary, plus the version tag.
	AlgorithmSave   Algorithm = "save"
	AlgorithmZstd   Algorithm = "zstd"
	AlgorithmLZ4    Algorithm = "lz4"
	AlgorithmSnappy Algorithm = "snappy"
	AlgorithmBrotli Algorithm = "brotli"
)

// DefaultAlgorithms is the comparison set used when none is configured.
var DefaultAlgorithms = []Algorithm{AlgorithmSave, AlgorithmZstd, AlgorithmLZ4, AlgorithmSnappy, AlgorithmBrotli}

var ErrUnknownAlgorithm = errors.New("bench: unknown algorithm")

// ParseAlgorithm parses an algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch a := Algorithm(name); a {
	case AlgorithmSave, AlgorithmZstd, AlgorithmLZ4, AlgorithmSnappy, AlgorithmBrotli:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// Runner measures compressed sizes. It reuses one Save and one plain
// zstd encoder, so it is not safe for concurrent use.
type Runner struct {
	save *codec.Save
	zstd *zstd.Encoder
}

// NewRunner returns a Runner that measures AlgorithmSave with save.
func NewRunner(save *codec.Save) (*Runner, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(codec.CompressionLevel)),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("bench: create zstd encoder: %w", err)
	}
	return &Runner{save: save, zstd: enc}, nil
}

// Close releases the plain zstd encoder. The Save is left open.
func (r *Runner) Close() error {
	return r.zstd.Close()
}

// CompressedSize returns the size of data compressed with algo.
func (r *Runner) CompressedSize(algo Algorithm, data []byte) (int, error) {
	switch algo {
	case AlgorithmSave:
		if err := r.save.Compress(&codec.FileInfo{Data: data, Size: len(data)}); err != nil {
			return 0, err
		}
		return r.save.Size(), nil

	case AlgorithmZstd:
		return len(r.zstd.EncodeAll(data, nil)), nil

	case AlgorithmLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return 0, fmt.Errorf("lz4 compress: %w", err)
		}
		// Zero means incompressible; the data would be stored as is.
		if n == 0 {
			return len(data), nil
		}
		return n, nil

	case AlgorithmSnappy:
		return len(snappy.Encode(nil, data)), nil

	case AlgorithmBrotli:
		var buf bytes.Buffer
		w := brotli.NewWriterLevel(&buf, brotli.BestCompression)
		if _, err := w.Write(data); err != nil {
			return 0, fmt.Errorf("brotli compress: %w", err)
		}
		if err := w.Close(); err != nil {
			return 0, fmt.Errorf("brotli compress: %w", err)
		}
		return buf.Len(), nil

	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algo)
	}
}

// Input is one file under measurement.
type Input struct {
	Name string
	Data []byte
}

// Summary aggregates compression ratios (compressed / original, lower
// is better) for one algorithm.
type Summary struct {
	Algorithm Algorithm
	Files     int
	BytesIn   int
	BytesOut  int
	Mean      float64
	StdDev    float64
	Median    float64
	Best      float64
	Worst     float64
}

// Overall returns the ratio of all output bytes to all input bytes.
func (s Summary) Overall() float64 {
	if s.BytesIn == 0 {
		return 0
	}
	return float64(s.BytesOut) / float64(s.BytesIn)
}

// Run measures every algorithm on every input. Empty inputs are skipped
// since their ratio is undefined.
func (r *Runner) Run(algos []Algorithm, inputs []Input) ([]Summary, error) {
	summaries := make([]Summary, 0, len(algos))
	for _, algo := range algos {
		s := Summary{Algorithm: algo}
		ratios := make([]float64, 0, len(inputs))
		for _, in := range inputs {
			if len(in.Data) == 0 {
				continue
			}
			n, err := r.CompressedSize(algo, in.Data)
			if err != nil {
				return nil, fmt.Errorf("%s: %s: %w", algo, in.Name, err)
			}
			s.BytesIn += len(in.Data)
			s.BytesOut += n
			ratios = append(ratios, float64(n)/float64(len(in.Data)))
		}
		summarize(&s, ratios)
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func summarize(s *Summary, ratios []float64) {
	s.Files = len(ratios)
	if len(ratios) == 0 {
		return
	}
	sort.Float64s(ratios)
	s.Mean = stat.Mean(ratios, nil)
	if len(ratios) > 1 {
		s.StdDev = stat.StdDev(ratios, nil)
	}
	s.Median = stat.Quantile(0.5, stat.Empirical, ratios, nil)
	s.Best = floats.Min(ratios)
	s.Worst = floats.Max(ratios)
}
