// Package dataset reads and writes the sample arrays of the experiments and
// runs the high-resolution to subsampled dataset pipeline.
package dataset

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrUnsupportedArray is returned for arrays that are not 1-D or 2-D
	// little-endian float32/float64 in C order.
	ErrUnsupportedArray = errors.New("unsupported array")
	// ErrMemberNotFound is returned when an .npz archive lacks the member.
	ErrMemberNotFound = errors.New("npz member not found")
)

// DefaultMember is the array name used by the sample archives.
const DefaultMember = "sample"

// Load reads a 2-D array from an .npy file or a member of an .npz archive.
// A 1-D array is returned as a single column.
func Load(path, member string) (*mat.Dense, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".npz":
		return LoadNPZ(path, member)
	default:
		return LoadNPY(path)
	}
}

// LoadNPY reads a 2-D array from an .npy file.
func LoadNPY(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	m, err := ReadNPY(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// LoadNPZ reads the named member of an .npz archive. The ".npy" suffix of
// the member name is optional.
func LoadNPZ(path, member string) (*mat.Dense, error) {
	if member == "" {
		member = DefaultMember
	}
	if !strings.HasSuffix(member, ".npy") {
		member += ".npy"
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer zr.Close()

	for _, zf := range zr.File {
		if zf.Name != member {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("%s[%s]: %w", path, member, err)
		}
		defer rc.Close()

		m, err := ReadNPY(rc)
		if err != nil {
			return nil, fmt.Errorf("%s[%s]: %w", path, member, err)
		}
		return m, nil
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrMemberNotFound, member, path)
}

// ReadNPY decodes an array in .npy format. float32 data is widened to float64.
func ReadNPY(r io.Reader) (*mat.Dense, error) {
	nr, err := npyio.NewReader(r)
	if err != nil {
		return nil, err
	}
	descr := nr.Header.Descr
	if descr.Fortran {
		return nil, fmt.Errorf("%w: fortran order", ErrUnsupportedArray)
	}

	var rows, cols int
	switch len(descr.Shape) {
	case 1:
		rows, cols = descr.Shape[0], 1
	case 2:
		rows, cols = descr.Shape[0], descr.Shape[1]
	default:
		return nil, fmt.Errorf("%w: shape %v", ErrUnsupportedArray, descr.Shape)
	}
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: empty shape %v", ErrUnsupportedArray, descr.Shape)
	}

	var data []float64
	switch descr.Type {
	case "<f8":
		if err := nr.Read(&data); err != nil {
			return nil, err
		}
	case "<f4":
		var narrow []float32
		if err := nr.Read(&narrow); err != nil {
			return nil, err
		}
		data = make([]float64, len(narrow))
		for i, v := range narrow {
			data[i] = float64(v)
		}
	default:
		return nil, fmt.Errorf("%w: dtype %s", ErrUnsupportedArray, descr.Type)
	}

	if len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrUnsupportedArray, len(data), descr.Shape)
	}
	return mat.NewDense(rows, cols, data), nil
}

// SaveNPY writes m as a float64 .npy file, creating parent directories.
func SaveNPY(path string, m *mat.Dense) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := npyio.Write(f, m); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
