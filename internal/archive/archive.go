// Package archive persists FAUSt statistics in a compact binary file (.qgt).
//
// Layout (little endian):
//
//	magic    uint32  "QGTA"
//	version  uint8
//	algo     uint8   block compressor
//	flags    uint8   bit 0 store_u, bit 1 store_s
//	K        uint32
//	KObs     uint32
//	ndim     uint8
//	dims     ndim x uint32
//	nblocks  uint8
//	blocks   tag uint8, rows uint32, cols uint32, crc uint32, len uint32, payload
//
// Block payloads are the row-major series values, XOR encoded and compressed.
package archive

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/qgda/qgda/internal/compression"
	"github.com/qgda/qgda/internal/series"
)

const (
	// Magic is "QGTA" read as a little-endian uint32.
	Magic = 0x41544751

	// Version of the layout written by Write.
	Version = 1

	flagStoreU = 1 << 0
	flagStoreS = 1 << 1

	// maxPayload bounds a single block to guard against corrupt lengths.
	maxPayload = 1 << 30

	// maxValues bounds the float64 count of any series or block.
	maxValues = 1 << 27
)

var (
	// ErrInvalidArchive is returned for files that are not valid archives.
	ErrInvalidArchive = errors.New("invalid archive")
	// ErrChecksum is returned when a block fails its CRC check.
	ErrChecksum = errors.New("archive block checksum mismatch")
)

// Header describes the FAUSt stored in an archive.
type Header struct {
	Version     uint8
	Compression compression.Algorithm
	K           int
	KObs        int
	ItemShape   []int
	StoreU      bool
	StoreS      bool
	Blocks      []BlockInfo
}

// BlockInfo describes one stored series.
type BlockInfo struct {
	Tag        series.Tag
	Rows, Cols int
	Size       int // compressed payload bytes
}

// Write encodes fs to w, compressing each series with algo.
func Write(w io.Writer, fs *series.FAUSt, algo compression.Algorithm) error {
	if _, err := compression.GetCompressor(algo); err != nil {
		return err
	}

	buf := make([]byte, 0, 64)
	buf = binary.LittleEndian.AppendUint32(buf, Magic)
	buf = append(buf, Version, byte(algo))

	var flags byte
	if fs.StoreU() {
		flags |= flagStoreU
	}
	if fs.StoreS() {
		flags |= flagStoreS
	}
	buf = append(buf, flags)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(fs.K()))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(fs.KObs()))

	shape := fs.ItemShape()
	buf = append(buf, byte(len(shape)))
	for _, d := range shape {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(d))
	}

	tags := storedTags(fs)
	buf = append(buf, byte(len(tags)))
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("failed to write archive header: %w", err)
	}

	for _, tag := range tags {
		m, err := fs.Series(tag)
		if err != nil {
			return err
		}
		if err := writeBlock(w, tag, m, algo); err != nil {
			return fmt.Errorf("failed to write %s block: %w", tag.Alias(), err)
		}
	}
	return nil
}

func writeBlock(w io.Writer, tag series.Tag, m mat.Matrix, algo compression.Algorithm) error {
	rows, cols := m.Dims()
	values := make([]float64, 0, rows*cols)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		values = append(values, mat.Row(row, i, m)...)
	}

	payload, err := compression.PackFloats(values, algo)
	if err != nil {
		return err
	}

	hdr := make([]byte, 0, 17)
	hdr = append(hdr, byte(tag))
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(rows))
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(cols))
	hdr = binary.LittleEndian.AppendUint32(hdr, crc32.ChecksumIEEE(payload))
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(len(payload)))
	if _, err := w.Write(hdr); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// storedTags lists the series present in fs, in canonical order.
func storedTags(fs *series.FAUSt) []series.Tag {
	var tags []series.Tag
	for _, tag := range series.Tags {
		if tag == series.Smoothed && !fs.StoreS() {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// Read decodes an archive written by Write.
func Read(r io.Reader) (*series.FAUSt, *Header, error) {
	br := bufio.NewReader(r)

	hdr, nblocks, err := readHeader(br)
	if err != nil {
		return nil, nil, err
	}

	fs, err := series.NewFAUSt(hdr.K, hdr.KObs, hdr.ItemShape, hdr.StoreU, hdr.StoreS)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	for i := 0; i < nblocks; i++ {
		info, values, err := readBlock(br, hdr.Compression)
		if err != nil {
			return nil, nil, err
		}
		if err := fs.Restore(info.Tag, mat.NewDense(info.Rows, info.Cols, values)); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
		}
		hdr.Blocks = append(hdr.Blocks, info)
	}
	return fs, hdr, nil
}

func readHeader(r io.Reader) (*Header, int, error) {
	fixed := make([]byte, 16)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, 0, fmt.Errorf("%w: short header: %v", ErrInvalidArchive, err)
	}
	if magic := binary.LittleEndian.Uint32(fixed); magic != Magic {
		return nil, 0, fmt.Errorf("%w: bad magic 0x%X", ErrInvalidArchive, magic)
	}

	hdr := &Header{
		Version:     fixed[4],
		Compression: compression.Algorithm(fixed[5]),
		StoreU:      fixed[6]&flagStoreU != 0,
		StoreS:      fixed[6]&flagStoreS != 0,
		K:           int(binary.LittleEndian.Uint32(fixed[7:])),
		KObs:        int(binary.LittleEndian.Uint32(fixed[11:])),
	}
	if hdr.Version != Version {
		return nil, 0, fmt.Errorf("%w: unsupported version %d", ErrInvalidArchive, hdr.Version)
	}
	if _, err := compression.GetCompressor(hdr.Compression); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	ndim := int(fixed[15])
	dims := make([]byte, 4*ndim+1)
	if _, err := io.ReadFull(r, dims); err != nil {
		return nil, 0, fmt.Errorf("%w: short item shape: %v", ErrInvalidArchive, err)
	}
	hdr.ItemShape = make([]int, ndim)
	for i := range hdr.ItemShape {
		hdr.ItemShape[i] = int(binary.LittleEndian.Uint32(dims[4*i:]))
	}
	if err := checkSize(hdr); err != nil {
		return nil, 0, err
	}
	return hdr, int(dims[4*ndim]), nil
}

// checkSize rejects headers whose series would not fit in maxValues.
func checkSize(hdr *Header) error {
	size := 1
	for _, d := range hdr.ItemShape {
		if d < 1 || d > maxValues/size {
			return fmt.Errorf("%w: item shape %v", ErrInvalidArchive, hdr.ItemShape)
		}
		size *= d
	}
	steps := maxValues / size
	if hdr.K >= steps || hdr.KObs >= steps {
		return fmt.Errorf("%w: K=%d, KObs=%d for item shape %v", ErrInvalidArchive, hdr.K, hdr.KObs, hdr.ItemShape)
	}
	return nil
}

func readBlock(r io.Reader, algo compression.Algorithm) (BlockInfo, []float64, error) {
	var info BlockInfo
	hdr := make([]byte, 17)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return info, nil, fmt.Errorf("%w: short block header: %v", ErrInvalidArchive, err)
	}
	info.Tag = series.Tag(hdr[0])
	info.Rows = int(binary.LittleEndian.Uint32(hdr[1:]))
	info.Cols = int(binary.LittleEndian.Uint32(hdr[5:]))
	sum := binary.LittleEndian.Uint32(hdr[9:])
	info.Size = int(binary.LittleEndian.Uint32(hdr[13:]))
	if info.Rows < 1 || info.Cols < 1 || info.Rows > maxValues/info.Cols {
		return info, nil, fmt.Errorf("%w: %s block of %dx%d", ErrInvalidArchive, info.Tag.Alias(), info.Rows, info.Cols)
	}
	if info.Size > maxPayload {
		return info, nil, fmt.Errorf("%w: block of %d bytes", ErrInvalidArchive, info.Size)
	}

	payload := make([]byte, info.Size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return info, nil, fmt.Errorf("%w: short %s block: %v", ErrInvalidArchive, info.Tag.Alias(), err)
	}
	if crc32.ChecksumIEEE(payload) != sum {
		return info, nil, fmt.Errorf("%w: %s", ErrChecksum, info.Tag.Alias())
	}

	values, err := compression.UnpackFloats(payload, info.Rows*info.Cols, algo)
	if err != nil {
		return info, nil, fmt.Errorf("%w: %s: %v", ErrInvalidArchive, info.Tag.Alias(), err)
	}
	return info, values, nil
}

// WriteFile writes fs to path.
func WriteFile(path string, fs *series.FAUSt, algo compression.Algorithm) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create archive %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := Write(bw, fs, algo); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads an archive from path.
func ReadFile(path string) (*series.FAUSt, *Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
