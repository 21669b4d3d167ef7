package dataset

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/qgda/qgda/internal/decimate"
	"github.com/qgda/qgda/internal/field"
)

// ErrDimensionMismatch is returned when the samples do not hold grid*grid
// values per row.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// SubsampleOptions controls Subsample.
type SubsampleOptions struct {
	Grid       int
	Factor     int
	FilterType decimate.FilterType
	Workers    int // Concurrent samples; 0 means runtime.NumCPU()
}

// DefaultSubsampleOptions maps the 129x129 grid onto 65x65.
func DefaultSubsampleOptions() SubsampleOptions {
	return SubsampleOptions{
		Grid:       field.HighResGrid,
		Factor:     2,
		FilterType: decimate.FilterFIR,
	}
}

// Subsample decimates every sample (row) of x. Each row is a grid x grid
// field in row-major order; the result rows are the decimated fields,
// flattened the same way. Samples are processed concurrently.
func Subsample(ctx context.Context, x mat.Matrix, opts SubsampleOptions) (*mat.Dense, error) {
	rows, cols := x.Dims()
	if cols != opts.Grid*opts.Grid {
		return nil, fmt.Errorf("%w: expected %d columns (%dx%d grid), got %d",
			ErrDimensionMismatch, opts.Grid*opts.Grid, opts.Grid, opts.Grid, cols)
	}

	d, err := decimate.New(opts.Factor, opts.FilterType)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("subsample cancelled: %w", err)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	side := d.OutputLen(opts.Grid)
	out := mat.NewDense(rows, side*side, nil)

	semaphore := make(chan struct{}, workers)
	var wg sync.WaitGroup
	errs := make(chan error, rows)

	for i := 0; i < rows; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			select {
			case semaphore <- struct{}{}:
				defer func() { <-semaphore }()
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}

			// Rows of out are disjoint, so workers never share memory.
			row := mat.Row(nil, i, x)
			sub := d.Field(mat.NewDense(opts.Grid, opts.Grid, row))
			out.SetRow(i, field.Flatten(sub))
		}(i)
	}

	wg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		return nil, fmt.Errorf("subsample cancelled: %w", err)
	}
	return out, nil
}
