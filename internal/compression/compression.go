// Package compression packs float64 series for archives: an XOR bit-packed
// value codec followed by an optional block compressor.
package compression

import (
	"fmt"
	"strings"
)

// Algorithm identifies a block compressor. The value is stored in archive
// headers, so existing constants must not be renumbered.
type Algorithm uint8

const (
	None   Algorithm = 0
	Snappy Algorithm = 1
)

// String returns the config name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case Snappy:
		return "snappy"
	default:
		return fmt.Sprintf("algorithm(%d)", uint8(a))
	}
}

// ParseAlgorithm maps a config name to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return None, nil
	case "snappy":
		return Snappy, nil
	default:
		return None, fmt.Errorf("unsupported compression algorithm: %q", name)
	}
}

// Compressor compresses whole blocks.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Algorithm() Algorithm
}

// GetCompressor returns a compressor for the given algorithm
func GetCompressor(algo Algorithm) (Compressor, error) {
	switch algo {
	case None:
		return noneCompressor{}, nil
	case Snappy:
		return NewSnappyCompressor(), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %d", algo)
	}
}

type noneCompressor struct{}

func (noneCompressor) Compress(data []byte) ([]byte, error)   { return data, nil }
func (noneCompressor) Decompress(data []byte) ([]byte, error) { return data, nil }
func (noneCompressor) Algorithm() Algorithm                   { return None }

// PackFloats XOR-encodes values and compresses the result with algo.
func PackFloats(values []float64, algo Algorithm) ([]byte, error) {
	c, err := GetCompressor(algo)
	if err != nil {
		return nil, err
	}
	return c.Compress(EncodeFloats(values))
}

// UnpackFloats reverses PackFloats, expecting exactly count values.
func UnpackFloats(data []byte, count int, algo Algorithm) ([]float64, error) {
	c, err := GetCompressor(algo)
	if err != nil {
		return nil, err
	}
	raw, err := c.Decompress(data)
	if err != nil {
		return nil, err
	}
	return DecodeFloats(raw, count)
}
