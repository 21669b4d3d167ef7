// Package render draws model fields as heat maps, one PNG frame per sample,
// with two fields side by side for comparison.
package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/qgda/qgda/internal/field"
	"github.com/qgda/qgda/internal/logging"
)

// ErrSampleMismatch is returned when the two inputs differ in sample count.
var ErrSampleMismatch = errors.New("inputs have different numbers of samples")

// Options controls frame rendering.
type Options struct {
	Every   int        // Render every n-th sample
	UseQ    bool       // Show potential vorticity instead of streamfunction
	F       float64    // Coupling used to derive q
	ClimPsi [2]float64 // Colour limits for psi
	ClimQ   [2]float64 // Colour limits for q
	Width   vg.Length
	Height  vg.Length
	Colors  int
}

// DefaultOptions matches the limits used for the 129x129 model.
func DefaultOptions() Options {
	return Options{
		Every:   2,
		F:       field.DefaultF,
		ClimPsi: [2]float64{-30, 30},
		ClimQ:   [2]float64{-28e4, 25e4},
		Width:   10 * vg.Inch,
		Height:  5 * vg.Inch,
		Colors:  64,
	}
}

func (o Options) clim() [2]float64 {
	if o.UseQ {
		return o.ClimQ
	}
	return o.ClimPsi
}

func (o Options) label() string {
	if o.UseQ {
		return "q"
	}
	return "psi"
}

// grid adapts a field to plotter.GridXYZ with row 0 drawn at the top.
type grid struct{ m mat.Matrix }

func (g grid) Dims() (c, r int) {
	r, c = g.m.Dims()
	return c, r
}

func (g grid) Z(c, r int) float64 {
	rows, _ := g.m.Dims()
	return g.m.At(rows-1-r, c)
}

func (g grid) X(c int) float64 { return float64(c) }
func (g grid) Y(r int) float64 { return float64(r) }

// Panel builds a heat map plot of a 2-D field clamped to clim.
func Panel(f mat.Matrix, title string, clim [2]float64, colors int) *plot.Plot {
	pal := palette.Heat(colors, 1)
	hm := plotter.NewHeatMap(grid{f}, pal)
	hm.Min, hm.Max = clim[0], clim[1]
	cs := pal.Colors()
	hm.Underflow = cs[0]
	hm.Overflow = cs[len(cs)-1]

	p := plot.New()
	p.Title.Text = title
	p.HideAxes()
	p.Add(hm)
	return p
}

// Frame draws left and right side by side and writes the PNG to w.
func Frame(w io.Writer, left, right *plot.Plot, opts Options) error {
	img := vgimg.New(opts.Width, opts.Height)
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows: 1,
		Cols: 2,
		PadX: vg.Millimeter,
	}
	canvases := plot.Align([][]*plot.Plot{{left, right}}, tiles, dc)
	left.Draw(canvases[0][0])
	right.Draw(canvases[0][1])

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// prepare squares a flat state and derives q when requested.
func prepare(state []float64, opts Options) (mat.Matrix, error) {
	psi, err := field.Square(state)
	if err != nil {
		return nil, err
	}
	if !opts.UseQ {
		return psi, nil
	}
	return field.ComputeQ(psi, opts.F)
}

// Frames renders every opts.Every-th sample of left and right (one flat
// state per row) into dir as frame_NNNNN.png and returns the written paths.
func Frames(dir string, left, right mat.Matrix, titles [2]string, opts Options, logger *logging.Logger) ([]string, error) {
	nl, _ := left.Dims()
	nr, _ := right.Dims()
	if nl != nr {
		return nil, fmt.Errorf("%w: %d vs %d", ErrSampleMismatch, nl, nr)
	}
	if opts.Every < 1 {
		opts.Every = 1
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create frame directory %s: %w", dir, err)
	}

	var paths []string
	for k := 0; k < nl; k += opts.Every {
		lf, err := prepare(mat.Row(nil, k, left), opts)
		if err != nil {
			return paths, fmt.Errorf("left sample %d: %w", k, err)
		}
		rf, err := prepare(mat.Row(nil, k, right), opts)
		if err != nil {
			return paths, fmt.Errorf("right sample %d: %w", k, err)
		}

		clim := opts.clim()
		lp := Panel(lf, fmt.Sprintf("%s %s  k: %d", titles[0], opts.label(), k), clim, opts.Colors)
		rp := Panel(rf, fmt.Sprintf("%s %s  k: %d", titles[1], opts.label(), k), clim, opts.Colors)

		path := filepath.Join(dir, fmt.Sprintf("frame_%05d.png", k))
		if err := writeFrame(path, lp, rp, opts); err != nil {
			return paths, err
		}
		paths = append(paths, path)
		logger.Debug("Rendered frame", "k", k, "path", path)
	}

	logger.Info("Rendered frames", "count", len(paths), "dir", dir, "field", opts.label())
	return paths, nil
}

func writeFrame(path string, left, right *plot.Plot, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create frame %s: %w", path, err)
	}
	if err := Frame(f, left, right, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
