package main

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/qgda/qgda/internal/archive"
	"github.com/qgda/qgda/internal/dataset"
	"github.com/qgda/qgda/internal/series"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeSamples(t *testing.T, path string, rows, cols int, f func(i, j int) float64) {
	t.Helper()
	m := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, f(i, j))
		}
	}
	require.NoError(t, dataset.SaveNPY(path, m))
}

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "qgda", cmd.Use)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"version", "subsample", "stats", "render", "archive"} {
		assert.Contains(t, names, want)
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("run"))
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "qgda version "+version))

	out, err = execute(t, "version", "--json")
	require.NoError(t, err)
	var v map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, version, v["version"])
}

func TestSubsampleCmd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "HRES_1.npy")
	out := filepath.Join(dir, "SUBS_1.npy")
	writeSamples(t, in, 3, 9*9, func(i, j int) float64 { return float64(i) })

	_, err := execute(t, "subsample", "--input", in, "--output", out, "--grid", "9", "--factor", "2")
	require.NoError(t, err)

	sub, err := dataset.LoadNPY(out)
	require.NoError(t, err)
	r, c := sub.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 5*5, c)

	m, err := dataset.ReadManifest(dataset.ManifestPath(out))
	require.NoError(t, err)
	assert.Equal(t, "subsample", m.Operation)
	assert.Equal(t, []int{3, 81}, m.InputShape)
	assert.Equal(t, []int{3, 25}, m.OutputShape)
	assert.Equal(t, "2", m.Params["factor"])
}

func TestSubsampleCmd_DimensionMismatch(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.npy")
	out := filepath.Join(dir, "out.npy")
	writeSamples(t, in, 2, 10, func(i, j int) float64 { return 1 })

	_, err := execute(t, "subsample", "--input", in, "--output", out, "--grid", "9")
	require.ErrorIs(t, err, dataset.ErrDimensionMismatch)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no output on mismatch")
}

func TestStatsCmd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "series.npy")
	writeSamples(t, in, 50, 2, func(i, j int) float64 {
		if j == 0 {
			return 3
		}
		return math.Sin(float64(i))
	})

	out, err := execute(t, "stats", "--input", in, "--json")
	require.NoError(t, err)

	var stats []columnStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	require.Len(t, stats, 2)
	assert.Equal(t, 3.0, float64(stats[0].Mean))
	assert.Equal(t, 0.0, float64(stats[0].Conf))
	assert.Equal(t, 1, stats[1].Column)

	out, err = execute(t, "stats", "--input", in, "--column", "1")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "1 "))

	_, err = execute(t, "stats", "--input", in, "--column", "5")
	assert.Error(t, err)
}

func TestComputeStats_ShortSeries(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{1, 2, 3})
	stats, err := computeStats(x, -1, series.DefaultPrintOptions)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 2.0, float64(stats[0].Mean))
	assert.True(t, math.IsNaN(float64(stats[0].Conf)))
	assert.Equal(t, "2 ±nan", stats[0].Display)
}

func TestRenderCmd(t *testing.T) {
	dir := t.TempDir()
	left := filepath.Join(dir, "truth.npy")
	right := filepath.Join(dir, "subs.npy")
	writeSamples(t, left, 3, 5*5, func(i, j int) float64 { return float64(j - 12) })
	writeSamples(t, right, 3, 5*5, func(i, j int) float64 { return float64(12 - j) })

	frames := filepath.Join(dir, "frames")
	_, err := execute(t, "render", "--left", left, "--right", right, "--out", frames, "--every", "2")
	require.NoError(t, err)

	entries, err := os.ReadDir(frames)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "frame_00000.png", entries[0].Name())
	assert.Equal(t, "frame_00002.png", entries[1].Name())
}

func TestRenderCmd_SampleMismatch(t *testing.T) {
	dir := t.TempDir()
	left := filepath.Join(dir, "a.npy")
	right := filepath.Join(dir, "b.npy")
	writeSamples(t, left, 3, 4, func(i, j int) float64 { return 0 })
	writeSamples(t, right, 2, 4, func(i, j int) float64 { return 0 })

	_, err := execute(t, "render", "--left", left, "--right", right, "--out", filepath.Join(dir, "f"))
	assert.Error(t, err)
}

func TestArchivePackInspect(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "f.npy")
	a := filepath.Join(dir, "a.npy")
	u := filepath.Join(dir, "u.npy")
	writeSamples(t, f, 4, 2, func(i, j int) float64 { return float64(10*i + j) })
	writeSamples(t, a, 4, 2, func(i, j int) float64 { return float64(-i) })
	writeSamples(t, u, 7, 2, func(i, j int) float64 { return 0.5 })

	out := filepath.Join(dir, "stats.qgt")
	_, err := execute(t, "archive", "pack", "--forecast", f, "--analysis", a, "--universal", u,
		"--output", out, "--compression", "snappy")
	require.NoError(t, err)

	fs, hdr, err := archive.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, 6, fs.K())
	assert.Equal(t, 3, fs.KObs())
	assert.True(t, hdr.StoreU)
	assert.False(t, hdr.StoreS)
	assert.False(t, fs.WereChanged())

	item, err := fs.At(series.Key{KObs: 2, Tag: series.Forecast})
	require.NoError(t, err)
	assert.Equal(t, []float64{20, 21}, item)

	text, err := execute(t, "archive", "inspect", out)
	require.NoError(t, err)
	assert.Contains(t, text, "compression: snappy")
	assert.Contains(t, text, "FAUSt(K=6, KObs=3")
}

func TestPackFAUSt_Errors(t *testing.T) {
	_, err := packFAUSt(map[series.Tag]*mat.Dense{
		series.Forecast: mat.NewDense(2, 2, nil),
	})
	assert.Error(t, err)

	_, err = packFAUSt(map[series.Tag]*mat.Dense{
		series.Forecast: mat.NewDense(2, 2, nil),
		series.Analysis: mat.NewDense(3, 2, nil),
	})
	assert.ErrorIs(t, err, series.ErrInvalidShape)

	_, err = packFAUSt(map[series.Tag]*mat.Dense{
		series.Forecast: mat.NewDense(2, 2, nil),
		series.Analysis: mat.NewDense(2, 2, nil),
		series.Smoothed: mat.NewDense(5, 2, nil),
	})
	assert.ErrorIs(t, err, series.ErrInvalidShape)
}
